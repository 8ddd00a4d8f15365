package editor

import (
	"testing"
	"time"

	"monster-maker/internal/geom"
	"monster-maker/internal/record"
	"monster-maker/internal/session"
)

func newTestLoop() *Loop {
	l := NewLoop(0, Options{Gallery: record.NewGallery()})
	l.now = func() time.Time { return t0 }
	return l
}

func TestLoopAppliesInputPerSession(t *testing.T) {
	l := newTestLoop()
	a, chA := l.Open("bob", session.New(geom.NewRand(1)))
	b, chB := l.Open("bob", session.New(geom.NewRand(2)))
	if a == b {
		t.Fatalf("duplicate ids %q", a)
	}

	l.InputChan() <- InputEvent{SessionID: a, Action: ActionGenerate}
	l.InputChan() <- InputEvent{SessionID: "nobody", Action: ActionGenerate}
	l.tick()

	fa, fb := <-chA, <-chB
	if len(fa.Scene.Shapes) == 0 {
		t.Error("generate not applied to its session")
	}
	if len(fb.Scene.Shapes) != 0 {
		t.Error("input leaked into another session")
	}
}

func TestLoopDropsFramesForSlowClients(t *testing.T) {
	l := newTestLoop()
	_, ch := l.Open("slow", session.New(geom.NewRand(1)))
	for i := 0; i < 5; i++ {
		l.tick()
	}
	if len(ch) != cap(ch) {
		t.Errorf("channel holds %d of %d frames", len(ch), cap(ch))
	}
}

func TestLoopClose(t *testing.T) {
	l := newTestLoop()
	id, ch := l.Open("carol", session.New(geom.NewRand(1)))
	l.Close(id)
	l.Close(id)
	if _, ok := <-ch; ok {
		t.Error("frame channel still open")
	}
	if l.Len() != 0 {
		t.Errorf("%d editors after close", l.Len())
	}
	l.tick()
}

func TestLoopRunStop(t *testing.T) {
	l := NewLoop(200, Options{})
	_, ch := l.Open("dave", session.New(geom.NewRand(1)))
	done := make(chan struct{})
	go func() {
		l.Run()
		close(done)
	}()

	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("no frame from running loop")
	}
	l.Stop()
	l.Stop()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}
