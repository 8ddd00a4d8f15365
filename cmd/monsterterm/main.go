package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"golang.org/x/term"

	"monster-maker/internal/config"
	"monster-maker/internal/editor"
	"monster-maker/internal/geom"
	"monster-maker/internal/record"
	"monster-maker/internal/server"
	"monster-maker/internal/session"
)

// stdio joins stdin and stdout into one terminal stream.
type stdio struct {
	io.Reader
	io.Writer
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	logPath := flag.String("log", "monsterterm.log", "log file (the terminal is busy drawing)")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lshortfile)
	if lf, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
		log.SetOutput(lf)
		defer lf.Close()
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) || !term.IsTerminal(int(os.Stdout.Fd())) {
		log.Fatalf("monsterterm needs an interactive terminal")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		log.Fatalf("Terminal size: %v", err)
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		log.Fatalf("Raw mode: %v", err)
	}
	defer term.Restore(fd, state)

	loop := editor.NewLoop(cfg.TickRate, editor.Options{
		Gallery: record.NewGallery(),
		Record:  cfg.RecordOptions(),
	})
	go loop.Run()
	defer loop.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = session.NewContext(ctx, session.New(geom.NewRand(cfg.Seed)))

	resize := make(chan server.Window, 1)
	go watchSize(ctx, int(os.Stdout.Fd()), server.Window{Width: width, Height: height}, resize)

	name := os.Getenv("USER")
	if name == "" {
		name = "local"
	}
	server.RunTerminal(ctx, stdio{os.Stdin, os.Stdout}, loop, name, server.Window{Width: width, Height: height}, resize)
}

// watchSize polls the terminal size and reports changes.
func watchSize(ctx context.Context, fd int, last server.Window, out chan<- server.Window) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w, h, err := term.GetSize(fd)
			if err != nil || (w == last.Width && h == last.Height) {
				continue
			}
			last = server.Window{Width: w, Height: h}
			select {
			case out <- last:
			default:
			}
		}
	}
}
