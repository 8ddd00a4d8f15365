package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"monster-maker/internal/record"
)

// HTTPServer publishes the open previews as images.
type HTTPServer struct {
	addr     string
	gallery  *record.Gallery
	sessions func() int
	srv      *http.Server
}

// PreviewInfo is the JSON form of a gallery entry.
type PreviewInfo struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
	Shapes    int       `json:"shapes"`
	PNG       string    `json:"png"`
	GIF       string    `json:"gif,omitempty"`
}

// NewHTTPServer creates an HTTP server for g bound to addr. sessions
// reports the number of connected editors and may be nil.
func NewHTTPServer(addr string, g *record.Gallery, sessions func() int) *HTTPServer {
	s := &HTTPServer{addr: addr, gallery: g, sessions: sessions}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routes.
func (s *HTTPServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/previews", s.handleList)
	r.Get("/previews/{id}.png", s.handlePNG)
	r.Get("/previews/{id}.gif", s.handleGIF)
	return r
}

// Start begins listening. It returns nil after Shutdown.
func (s *HTTPServer) Start() error {
	log.Printf("HTTP server listening on %s", s.addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	n := 0
	if s.sessions != nil {
		n = s.sessions()
	}
	writeJSON(w, map[string]any{"status": "ok", "sessions": n, "previews": len(s.gallery.List())})
}

func (s *HTTPServer) handleList(w http.ResponseWriter, r *http.Request) {
	entries := s.gallery.List()
	out := make([]PreviewInfo, 0, len(entries))
	for _, e := range entries {
		info := PreviewInfo{
			ID:        e.ID,
			Owner:     e.Owner,
			CreatedAt: e.CreatedAt,
			Shapes:    len(e.Snapshot.Shapes),
			PNG:       "/previews/" + e.ID + ".png",
		}
		if len(e.Clip) > 0 {
			info.GIF = "/previews/" + e.ID + ".gif"
		}
		out = append(out, info)
	}
	writeJSON(w, out)
}

func (s *HTTPServer) handlePNG(w http.ResponseWriter, r *http.Request) {
	e, ok := s.gallery.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "Preview not found", http.StatusNotFound)
		return
	}

	width := 0
	if v := r.URL.Query().Get("width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "width must be a positive integer", http.StatusBadRequest)
			return
		}
		width = n
	}

	var buf bytes.Buffer
	if err := record.EncodePNG(&buf, e.Snapshot, width, r.URL.Query().Get("caption")); err != nil {
		log.Printf("encode preview %s: %v", e.ID, err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

func (s *HTTPServer) handleGIF(w http.ResponseWriter, r *http.Request) {
	e, ok := s.gallery.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "Preview not found", http.StatusNotFound)
		return
	}
	if len(e.Clip) == 0 {
		http.Error(w, "Preview has no recording", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Content-Length", strconv.Itoa(len(e.Clip)))
	w.Write(e.Clip)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json: %v", err)
	}
}
