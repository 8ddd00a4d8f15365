package record

import (
	"context"
	"errors"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"sync"
	"time"

	"monster-maker/internal/session"
)

var (
	ErrAlreadyStarted = errors.New("recorder already started")
	ErrNoFrames       = errors.New("recording has no frames")
)

// Options controls a recording.
type Options struct {
	FPS       int
	MaxFrames int
	Width     int
}

func (o Options) withDefaults() Options {
	if o.FPS <= 0 {
		o.FPS = 10
	}
	if o.MaxFrames <= 0 {
		o.MaxFrames = 100
	}
	if o.Width <= 0 {
		o.Width = 400
	}
	return o
}

// Recorder captures an animation of a snapshot's background. It renders
// from the snapshot only, so edits to the live session never reach it.
type Recorder struct {
	snap session.Snapshot
	opts Options

	mu      sync.Mutex
	frames  []*image.Paletted
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewRecorder prepares a recorder for snap.
func NewRecorder(snap session.Snapshot, opts Options) *Recorder {
	return &Recorder{
		snap: snap,
		opts: opts.withDefaults(),
		done: make(chan struct{}),
	}
}

// Start begins capturing frames in the background until Stop is called,
// ctx is cancelled, or MaxFrames is reached.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return ErrAlreadyStarted
	}
	r.started = true
	ctx, r.cancel = context.WithCancel(ctx)
	go r.run(ctx)
	return nil
}

func (r *Recorder) run(ctx context.Context) {
	defer close(r.done)

	step := time.Second / time.Duration(r.opts.FPS)
	ticker := time.NewTicker(step)
	defer ticker.Stop()

	for i := 0; i < r.opts.MaxFrames; i++ {
		frame := r.frame(time.Duration(i) * step)
		r.mu.Lock()
		r.frames = append(r.frames, frame)
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (r *Recorder) frame(elapsed time.Duration) *image.Paletted {
	img := fit(Still(r.snap, elapsed), r.opts.Width)
	b := img.Bounds()
	p := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette.Plan9)
	draw.Draw(p, p.Bounds(), img, b.Min, draw.Src)
	return p
}

// Stop ends the capture and waits for the capture goroutine. It is safe
// to call more than once and before Start.
func (r *Recorder) Stop() {
	r.mu.Lock()
	started, cancel := r.started, r.cancel
	r.mu.Unlock()
	if !started {
		return
	}
	cancel()
	<-r.done
}

// Done is closed when capture has finished. It never closes if Start was
// not called.
func (r *Recorder) Done() <-chan struct{} {
	return r.done
}

// Frames returns how many frames have been captured so far.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// EncodeGIF writes the captured frames as a looping GIF.
func (r *Recorder) EncodeGIF(w io.Writer) error {
	r.mu.Lock()
	frames := append([]*image.Paletted(nil), r.frames...)
	r.mu.Unlock()
	if len(frames) == 0 {
		return ErrNoFrames
	}

	delay := 100 / r.opts.FPS
	if delay < 2 {
		delay = 2
	}
	anim := &gif.GIF{Image: frames, Delay: make([]int, len(frames))}
	for i := range anim.Delay {
		anim.Delay[i] = delay
	}
	return gif.EncodeAll(w, anim)
}
