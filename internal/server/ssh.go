package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/gliderlabs/ssh"

	"monster-maker/internal/editor"
	"monster-maker/internal/geom"
	"monster-maker/internal/render"
	"monster-maker/internal/session"
)

// SSHServer wraps the SSH listener and editor loop integration.
type SSHServer struct {
	loop    *editor.Loop
	addr    string
	hostKey string
	seed    uint64
	conns   atomic.Uint64
}

// NewSSHServer creates a new SSH server bound to the given address. A
// non-zero seed makes every connection's monsters reproducible.
func NewSSHServer(addr string, hostKey string, loop *editor.Loop, seed uint64) *SSHServer {
	return &SSHServer{
		loop:    loop,
		addr:    addr,
		hostKey: hostKey,
		seed:    seed,
	}
}

// Start begins listening for SSH connections.
func (s *SSHServer) Start() error {
	server := &ssh.Server{
		Addr: s.addr,
		Handler: func(sess ssh.Session) {
			s.handleSession(sess)
		},
	}

	// Set host key
	if err := server.SetOption(ssh.HostKeyFile(s.hostKey)); err != nil {
		return fmt.Errorf("set host key: %w", err)
	}

	log.Printf("SSH server listening on %s", s.addr)
	return server.ListenAndServe()
}

func (s *SSHServer) newSession() *session.Session {
	n := s.conns.Add(1)
	seed := s.seed
	if seed != 0 {
		seed += n - 1
	}
	return session.New(geom.NewRand(seed))
}

func (s *SSHServer) handleSession(sess ssh.Session) {
	// Require PTY
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		return
	}

	username := sess.User()
	if username == "" {
		username = "Anonymous"
	}

	resize := make(chan Window, 1)
	go func() {
		defer close(resize)
		for win := range winCh {
			resize <- Window{Width: win.Width, Height: win.Height}
		}
	}()

	ctx := session.NewContext(sess.Context(), s.newSession())
	win := Window{Width: ptyReq.Window.Width, Height: ptyReq.Window.Height}
	RunTerminal(ctx, sess, s.loop, username, win, resize)
}

// Window is a terminal size in cells.
type Window struct {
	Width, Height int
}

// RunTerminal attaches a terminal to the loop and pumps input and frames
// until the user quits, the input ends, or ctx is done. The session to
// edit is taken from ctx.
func RunTerminal(ctx context.Context, rw io.ReadWriter, loop *editor.Loop, name string, win Window, resize <-chan Window) {
	ms := session.MustFromContext(ctx)

	// Register with the loop
	id, frames := loop.Open(name, ms)
	log.Printf("Editor connected: %s", id)
	defer func() {
		loop.Close(id)
		log.Printf("Editor disconnected: %s", id)
	}()

	termW, termH := win.Width, win.Height
	var termMu sync.Mutex

	engine := render.NewEngine(termW, termH)

	// Setup terminal
	io.WriteString(rw, render.EnableAltScreen())
	io.WriteString(rw, render.HideCursor())
	io.WriteString(rw, render.ClearScreen())
	io.WriteString(rw, render.EnableMouse())
	defer func() {
		io.WriteString(rw, render.DisableMouse())
		io.WriteString(rw, render.ShowCursor())
		io.WriteString(rw, render.DisableAltScreen())
	}()

	inputCh := loop.InputChan()
	send := func(ev editor.InputEvent) {
		ev.SessionID = id
		select {
		case inputCh <- ev:
		default:
		}
	}
	send(editor.Resize(termW, termH))

	quitCh := make(chan struct{})

	// Goroutine: read input
	go func() {
		defer close(quitCh)
		buf := make([]byte, 256)
		for {
			n, err := rw.Read(buf)
			if err != nil {
				return
			}
			for _, ev := range editor.ParseInput(buf[:n]) {
				if ev.Action == editor.ActionQuit {
					return
				}
				send(ev)
			}
		}
	}()

	// Goroutine: handle window resizes
	if resize != nil {
		go func() {
			for w := range resize {
				termMu.Lock()
				termW, termH = w.Width, w.Height
				termMu.Unlock()
				send(editor.Resize(w.Width, w.Height))
			}
		}()
	}

	// Main render loop: read from frame channel
	for {
		select {
		case <-ctx.Done():
			return
		case <-quitCh:
			return
		case f, ok := <-frames:
			if !ok {
				return
			}

			termMu.Lock()
			w, h := termW, termH
			termMu.Unlock()

			if output := engine.Render(f, w, h); len(output) > 0 {
				io.WriteString(rw, output)
			}
		}
	}
}
