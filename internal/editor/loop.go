package editor

import (
	"fmt"
	"log"
	"sync"
	"time"

	"monster-maker/internal/render"
	"monster-maker/internal/session"
)

const (
	DefaultTickRate = 20 // ticks per second
	InputChanSize   = 256
)

// FrameChan is the per-connection channel that receives rendered state.
type FrameChan chan render.Frame

// Loop is the central editor loop. Every editor is mutated only from the
// loop goroutine, so each session has a single writer.
type Loop struct {
	tickRate int
	opts     Options
	now      func() time.Time
	inputCh  chan InputEvent

	mu         sync.Mutex
	editors    map[string]*Editor
	frameChans map[string]FrameChan

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewLoop creates a loop ticking tickRate times per second.
func NewLoop(tickRate int, opts Options) *Loop {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	return &Loop{
		tickRate:   tickRate,
		opts:       opts,
		now:        time.Now,
		inputCh:    make(chan InputEvent, InputChanSize),
		editors:    make(map[string]*Editor),
		frameChans: make(map[string]FrameChan),
		stopCh:     make(chan struct{}),
	}
}

// InputChan returns the shared input channel for connections to send events.
func (l *Loop) InputChan() chan<- InputEvent {
	return l.inputCh
}

// Open registers a connection editing sess. The returned id is name,
// suffixed when name is already connected.
func (l *Loop) Open(name string, sess *session.Session) (string, FrameChan) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := name
	if _, online := l.editors[id]; online {
		id = fmt.Sprintf("%s_%04d", name, time.Now().UnixNano()%10000)
	}

	l.editors[id] = New(id, sess, l.opts, l.now())
	ch := make(FrameChan, 2)
	l.frameChans[id] = ch
	return id, ch
}

// Close unregisters a connection and drops its open previews.
func (l *Loop) Close(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if ed, ok := l.editors[id]; ok {
		ed.Close()
		delete(l.editors, id)
	}
	if ch, ok := l.frameChans[id]; ok {
		close(ch)
		delete(l.frameChans, id)
	}
}

// Len returns the number of connected editors.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.editors)
}

// Run starts the loop. Blocks until Stop is called.
func (l *Loop) Run() {
	ticker := time.NewTicker(time.Second / time.Duration(l.tickRate))
	defer ticker.Stop()

	log.Printf("Editor loop running at %d ticks/s", l.tickRate)
	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.tick()
		}
	}
}

// Stop shuts down the loop. It is safe to call more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

func (l *Loop) tick() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	// Drain all pending input events
	for {
		select {
		case ev := <-l.inputCh:
			if ed, ok := l.editors[ev.SessionID]; ok {
				ed.Handle(ev, now)
			}
		default:
			goto drained
		}
	}
drained:

	for id, ch := range l.frameChans {
		ed := l.editors[id]
		ed.Tick()
		// Non-blocking send; slow clients drop frames
		select {
		case ch <- ed.Frame(now):
		default:
		}
	}
}
