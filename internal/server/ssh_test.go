package server

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"monster-maker/internal/editor"
	"monster-maker/internal/geom"
	"monster-maker/internal/render"
	"monster-maker/internal/session"
)

// pipeTerm is an in-memory terminal: the test writes keys into in and
// reads the screen from out.
type pipeTerm struct {
	in *io.PipeReader

	mu  sync.Mutex
	out bytes.Buffer
}

func (p *pipeTerm) Read(b []byte) (int, error) { return p.in.Read(b) }

func (p *pipeTerm) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out.Write(b)
}

func (p *pipeTerm) screen() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out.String()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRunTerminalQuit(t *testing.T) {
	loop := editor.NewLoop(100, editor.Options{})
	go loop.Run()
	defer loop.Stop()

	r, w := io.Pipe()
	term := &pipeTerm{in: r}
	ctx := session.NewContext(context.Background(), session.New(geom.NewRand(1)))

	done := make(chan struct{})
	go func() {
		RunTerminal(ctx, term, loop, "tester", Window{Width: 80, Height: 30}, nil)
		close(done)
	}()

	waitFor(t, func() bool { return strings.Contains(term.screen(), string(render.UpperHalf)) })
	if !strings.Contains(term.screen(), render.EnableMouse()) {
		t.Error("mouse reporting not enabled")
	}
	if loop.Len() != 1 {
		t.Errorf("%d editors registered", loop.Len())
	}

	w.Write([]byte("q"))
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("quit did not end the terminal")
	}
	if !strings.HasSuffix(term.screen(), render.DisableAltScreen()) {
		t.Error("terminal not restored")
	}
	if loop.Len() != 0 {
		t.Error("editor still registered after quit")
	}
}

func TestRunTerminalContextDone(t *testing.T) {
	loop := editor.NewLoop(100, editor.Options{})
	go loop.Run()
	defer loop.Stop()

	r, w := io.Pipe()
	defer w.Close()
	term := &pipeTerm{in: r}
	ctx, cancel := context.WithCancel(session.NewContext(context.Background(), session.New(geom.NewRand(1))))

	done := make(chan struct{})
	go func() {
		RunTerminal(ctx, term, loop, "tester", Window{Width: 40, Height: 20}, nil)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("cancel did not end the terminal")
	}
}
