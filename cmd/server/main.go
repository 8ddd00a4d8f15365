package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"flag"
	"log"
	"net"
	"os"
	"time"

	"crypto/x509"

	"monster-maker/internal/config"
	"monster-maker/internal/editor"
	"monster-maker/internal/record"
	"monster-maker/internal/server"
)

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)

	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// Generate host key if it doesn't exist
	if err := ensureHostKey(cfg.HostKey); err != nil {
		log.Fatalf("Host key error: %v", err)
	}

	gallery := record.NewGallery()
	loop := editor.NewLoop(cfg.TickRate, editor.Options{
		Gallery:   gallery,
		Record:    cfg.RecordOptions(),
		PublicURL: cfg.PublicURL,
	})

	// Start editor loop in background
	go loop.Run()
	defer loop.Stop()

	if cfg.HTTPAddr != "" {
		httpServer := server.NewHTTPServer(cfg.HTTPAddr, gallery, loop.Len)
		go func() {
			if err := httpServer.Start(); err != nil {
				log.Printf("HTTP server error: %v", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			httpServer.Shutdown(ctx)
		}()
	}

	// Start SSH server (blocks)
	sshServer := server.NewSSHServer(cfg.SSHAddr, cfg.HostKey, loop, cfg.Seed)
	log.Printf("Starting Monster Maker - connect with: ssh -t -p %s YourName@localhost", portOf(cfg.SSHAddr))
	if err := sshServer.Start(); err != nil {
		log.Fatalf("SSH server error: %v", err)
	}
}

func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}

func ensureHostKey(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // key already exists
	}

	log.Println("Generating new host key...")
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}

	keyBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return err
	}

	pemBlock := &pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: keyBytes,
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return pem.Encode(f, pemBlock)
}
