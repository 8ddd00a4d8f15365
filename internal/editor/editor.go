// Package editor runs the interactive monster editor: it turns terminal
// input into session operations and session state into render frames.
package editor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"monster-maker/internal/geom"
	"monster-maker/internal/record"
	"monster-maker/internal/render"
	"monster-maker/internal/session"
	"monster-maker/internal/shape"
)

const (
	// DragPadding keeps dragged shapes this far from the canvas edges.
	DragPadding = 20
	// MoveStep is how far the arrow keys move the selected shape.
	MoveStep = 10
	// NudgeStep is how far WASD moves every eye and pupil.
	NudgeStep = 5
	// SizeStep is how much +/- resize the selected shape.
	SizeStep    = 10
	PatternStep = 10

	noticeCapacity = "Maximum number of shapes reached!"
	noticeBody     = "Please add a body first!"
)

const editControls = "g new  e eye  t tooth  b body  tab select  ←↑→↓ move  wasd eyes  +/- size  c color  x del  n clear  k bg  r bg color  [ ] speed  { } pattern  h hide  p preview  q quit"

// Options configures the editors a loop creates.
type Options struct {
	Gallery   *record.Gallery // may be nil
	Record    record.Options
	PublicURL string
}

type drag struct {
	id         string
	offX, offY int
}

// Editor is the per-connection editing state around one session. It is
// driven from the loop goroutine only.
type Editor struct {
	id   string
	sess *session.Session
	opts Options

	layout   render.Layout
	selected string
	hide     bool
	notice   string
	drag     *drag
	started  time.Time

	recorder *record.Recorder
	recFor   string // preview id the recorder belongs to
}

// New returns an editor for sess owned by connection id.
func New(id string, sess *session.Session, opts Options, now time.Time) *Editor {
	return &Editor{
		id:      id,
		sess:    sess,
		opts:    opts,
		started: now,
	}
}

// Session returns the edited session.
func (e *Editor) Session() *session.Session { return e.sess }

// Notice returns the message currently blocking input, if any.
func (e *Editor) Notice() string { return e.notice }

// Selected returns the selected shape id.
func (e *Editor) Selected() string { return e.selected }

// Handle applies one input event.
func (e *Editor) Handle(ev InputEvent, now time.Time) {
	if ev.Action == ActionResize {
		e.layout = render.NewLayout(ev.Col, ev.Row, render.HUDRows)
		return
	}

	// A notice holds input until it is dismissed by a key or click.
	if e.notice != "" {
		switch ev.Action {
		case ActionMouseDrag, ActionMouseRelease, ActionNone:
		default:
			e.notice = ""
		}
		return
	}

	if e.sess.Mode() == session.Previewing {
		e.handlePreview(ev, now)
		return
	}
	e.handleEdit(ev, now)
}

func (e *Editor) handleEdit(ev InputEvent, now time.Time) {
	s := e.sess
	switch ev.Action {
	case ActionGenerate:
		e.selected = ""
		_, err := s.Generate()
		e.report(err)
	case ActionAddEye:
		e.report(s.AddEye())
	case ActionAddTooth:
		sh, err := s.AddTooth()
		if e.report(err) {
			e.selected = sh.ID
		}
	case ActionAddBody:
		sh, err := s.AddBodyPart()
		if e.report(err) {
			e.selected = sh.ID
		}
	case ActionSelectNext:
		e.cycleSelection(1)
	case ActionSelectPrev:
		e.cycleSelection(-1)
	case ActionUp:
		e.moveSelected(0, -MoveStep)
	case ActionDown:
		e.moveSelected(0, MoveStep)
	case ActionLeft:
		e.moveSelected(-MoveStep, 0)
	case ActionRight:
		e.moveSelected(MoveStep, 0)
	case ActionNudgeUp:
		s.TranslateByKind([]shape.Kind{shape.Eye, shape.Pupil}, 0, -NudgeStep)
	case ActionNudgeDown:
		s.TranslateByKind([]shape.Kind{shape.Eye, shape.Pupil}, 0, NudgeStep)
	case ActionNudgeLeft:
		s.TranslateByKind([]shape.Kind{shape.Eye, shape.Pupil}, -NudgeStep, 0)
	case ActionNudgeRight:
		s.TranslateByKind([]shape.Kind{shape.Eye, shape.Pupil}, NudgeStep, 0)
	case ActionGrow:
		e.resizeSelected(SizeStep)
	case ActionShrink:
		e.resizeSelected(-SizeStep)
	case ActionRecolor:
		if e.selected != "" {
			_, found, err := s.RecolorShape(e.selected)
			e.keepSelection(found, err)
		}
	case ActionDelete:
		if e.selected != "" {
			s.RemoveShape(e.selected)
			e.selected = ""
		}
	case ActionClear:
		s.Clear()
		e.selected = ""
		e.drag = nil
	case ActionCycleBackground:
		s.CycleBackground()
	case ActionRandomBackground:
		s.RandomizeBackgroundColor()
	case ActionSlower:
		s.SetSpeed(s.Background().Speed - 1)
	case ActionFaster:
		s.SetSpeed(s.Background().Speed + 1)
	case ActionPatternSmaller:
		s.SetPatternSize(s.Background().PatternSize - PatternStep)
	case ActionPatternLarger:
		s.SetPatternSize(s.Background().PatternSize + PatternStep)
	case ActionToggleAffordances:
		e.hide = !e.hide
	case ActionPreview:
		e.openPreview(now)
	case ActionEscape:
		e.selected = ""
	case ActionMousePress:
		e.pressAt(ev.Col, ev.Row)
	case ActionMouseDrag:
		e.dragTo(ev.Col, ev.Row)
	case ActionMouseRelease:
		e.drag = nil
	}
}

// report turns constraint errors into a notice. It returns true when err is nil.
func (e *Editor) report(err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, shape.ErrCapacityExceeded):
		e.notice = noticeCapacity
	case errors.Is(err, shape.ErrMissingPrerequisite):
		e.notice = noticeBody
	default:
		e.notice = err.Error()
	}
	return false
}

func (e *Editor) keepSelection(found bool, err error) {
	if !found {
		e.selected = ""
		return
	}
	e.report(err)
}

func (e *Editor) cycleSelection(dir int) {
	shapes := e.sess.Shapes()
	if len(shapes) == 0 {
		e.selected = ""
		return
	}
	cur := -1
	for i, sh := range shapes {
		if sh.ID == e.selected {
			cur = i
			break
		}
	}
	var next int
	switch {
	case cur < 0 && dir < 0:
		next = len(shapes) - 1
	case cur < 0:
		next = 0
	default:
		next = (cur + dir + len(shapes)) % len(shapes)
	}
	e.selected = shapes[next].ID
}

func (e *Editor) moveSelected(dx, dy int) {
	sh, ok := e.sess.Shape(e.selected)
	if !ok {
		e.selected = ""
		return
	}
	_, found, err := e.sess.UpdateShape(sh.ID, shape.Move(sh.X+dx, sh.Y+dy))
	e.keepSelection(found, err)
}

func (e *Editor) resizeSelected(delta int) {
	sh, ok := e.sess.Shape(e.selected)
	if !ok {
		e.selected = ""
		return
	}
	size := geom.ClampValue(sh.Size+delta, shape.MinEditSize, shape.MaxEditSize)
	if size == sh.Size {
		return
	}
	_, found, err := e.sess.UpdateShape(sh.ID, shape.Resize(size))
	e.keepSelection(found, err)
}

// pressAt selects the topmost shape under the cell and starts dragging it.
func (e *Editor) pressAt(col, row int) {
	x, y, ok := e.layout.CellToCanvas(col, row)
	if !ok {
		return
	}
	sh, hit := e.sess.ShapeAt(x, y)
	if !hit {
		e.selected = ""
		e.drag = nil
		return
	}
	e.selected = sh.ID
	e.drag = &drag{id: sh.ID, offX: x - sh.X, offY: y - sh.Y}
}

// dragTo moves the dragged shape so the grab point follows the pointer.
// The position is kept DragPadding away from the canvas edges before the
// repository applies its own containment.
func (e *Editor) dragTo(col, row int) {
	if e.drag == nil {
		return
	}
	sh, ok := e.sess.Shape(e.drag.id)
	if !ok {
		e.drag = nil
		return
	}
	x, y, _ := e.layout.CellToCanvas(col, row)
	nx := geom.Clamp(x-e.drag.offX, sh.Size, DragPadding, shape.CanvasWidth-2*DragPadding)
	ny := geom.Clamp(y-e.drag.offY, sh.Size, DragPadding, shape.CanvasHeight-2*DragPadding)
	if nx == sh.X && ny == sh.Y {
		return
	}
	if _, found, err := e.sess.UpdateShape(sh.ID, shape.Move(nx, ny)); !found || err != nil {
		e.drag = nil
	}
}

func (e *Editor) openPreview(now time.Time) {
	p, err := e.sess.SaveAndPreview(now)
	if err != nil {
		log.Printf("preview %s: %v", e.id, err)
		return
	}
	e.drag = nil
	if e.opts.Gallery != nil {
		e.opts.Gallery.Publish(p, e.id)
	}
	log.Printf("Preview opened: %s by %s (%d shapes)", p.ID, e.id, len(p.Snapshot.Shapes))
}

func (e *Editor) handlePreview(ev InputEvent, now time.Time) {
	p := e.sess.Preview()
	switch ev.Action {
	case ActionRandomBackground:
		if e.recorder != nil {
			e.finishRecording()
			return
		}
		e.startRecording(p)
	case ActionEscape:
		if !p.CloseReady(now) {
			return
		}
		e.discardRecording()
		if _, err := e.sess.ClosePreview(); err != nil {
			log.Printf("close preview %s: %v", e.id, err)
			return
		}
		if e.opts.Gallery != nil {
			e.opts.Gallery.Remove(p.ID)
		}
		log.Printf("Preview closed: %s", p.ID)
	}
}

func (e *Editor) startRecording(p *session.Preview) {
	rec := record.NewRecorder(p.Snapshot, e.opts.Record)
	if err := rec.Start(context.Background()); err != nil {
		log.Printf("record %s: %v", p.ID, err)
		return
	}
	e.recorder = rec
	e.recFor = p.ID
	log.Printf("Recording started: %s", p.ID)
}

// finishRecording stops the active recorder and publishes its clip.
// Encoding happens off the loop goroutine.
func (e *Editor) finishRecording() {
	rec, id := e.recorder, e.recFor
	e.recorder, e.recFor = nil, ""
	e.notice = "Recording saved"
	gallery := e.opts.Gallery

	go func() {
		rec.Stop()
		var buf bytes.Buffer
		if err := rec.EncodeGIF(&buf); err != nil {
			log.Printf("encode recording %s: %v", id, err)
			return
		}
		if gallery == nil || !gallery.AttachClip(id, buf.Bytes()) {
			log.Printf("Recording dropped: %s closed before it was saved", id)
			return
		}
		log.Printf("Recording saved: %s (%d frames, %d bytes)", id, rec.Frames(), buf.Len())
	}()
}

func (e *Editor) discardRecording() {
	if e.recorder == nil {
		return
	}
	rec := e.recorder
	e.recorder, e.recFor = nil, ""
	go rec.Stop()
}

// Tick finishes recordings that reached their frame limit.
func (e *Editor) Tick() {
	if e.recorder == nil {
		return
	}
	select {
	case <-e.recorder.Done():
		e.finishRecording()
	default:
	}
}

// Close releases everything the editor holds outside the session.
func (e *Editor) Close() {
	e.discardRecording()
	if e.opts.Gallery != nil {
		e.opts.Gallery.RemoveOwner(e.id)
	}
}

// Frame builds the screen for the current state.
func (e *Editor) Frame(now time.Time) render.Frame {
	s := e.sess
	if p := s.Preview(); p != nil {
		return e.previewFrame(p, now)
	}

	bg := s.Background()
	f := render.Frame{
		Scene: render.Scene{
			Shapes:          s.Shapes(),
			Background:      bg,
			Elapsed:         now.Sub(e.started),
			Selected:        e.selected,
			HideAffordances: e.hide,
		},
		Title:    "Monster Maker",
		Status:   fmt.Sprintf("%d/%d shapes  %s %s  speed %d  size %d", s.Len(), shape.MaxShapes, bg.Selected().Name, bg.Color, bg.Speed, bg.PatternSize),
		Detail:   "Nothing selected",
		Controls: editControls,
		Notice:   e.notice,
	}
	if sh, ok := s.Shape(e.selected); ok {
		f.Detail = "Selected: " + sh.String()
	}
	return f
}

func (e *Editor) previewFrame(p *session.Preview, now time.Time) render.Frame {
	controls := []string{"r record"}
	if e.recorder != nil {
		controls[0] = "r stop recording"
	}
	if p.CloseReady(now) {
		controls = append(controls, "esc close")
	} else {
		left := p.CreatedAt.Add(session.CloseRevealDelay).Sub(now)
		controls = append(controls, fmt.Sprintf("close in %.1fs", left.Seconds()))
	}

	detail := "Preview " + p.ID
	if e.opts.PublicURL != "" {
		base := strings.TrimRight(e.opts.PublicURL, "/")
		detail = fmt.Sprintf("%s/previews/%s.png  %s/previews/%s.gif", base, p.ID, base, p.ID)
	}

	return render.Frame{
		Scene: render.Scene{
			Shapes:          p.Snapshot.Shapes,
			Background:      p.Snapshot.Background,
			Elapsed:         now.Sub(p.CreatedAt),
			HideAffordances: true,
		},
		Title:     "Preview",
		Status:    fmt.Sprintf("%d shapes  %s", len(p.Snapshot.Shapes), p.CreatedAt.Format(time.Kitchen)),
		Detail:    detail,
		Controls:  strings.Join(controls, "  "),
		Notice:    e.notice,
		Recording: e.recorder != nil,
	}
}
