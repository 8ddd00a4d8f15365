package server

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"monster-maker/internal/geom"
	"monster-maker/internal/record"
	"monster-maker/internal/session"
)

func newTestGallery(t *testing.T) (*record.Gallery, *session.Preview) {
	t.Helper()
	s := session.New(geom.NewRand(5))
	if _, err := s.Generate(); err != nil {
		t.Fatal(err)
	}
	p, err := s.SaveAndPreview(time.Unix(1000, 0))
	if err != nil {
		t.Fatal(err)
	}
	g := record.NewGallery()
	g.Publish(p, "alice")
	return g, p
}

func get(t *testing.T, h http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

func TestHealth(t *testing.T) {
	g, _ := newTestGallery(t)
	h := NewHTTPServer(":0", g, func() int { return 3 }).Handler()

	rec := get(t, h, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var body struct {
		Status   string `json:"status"`
		Sessions int    `json:"sessions"`
		Previews int    `json:"previews"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || body.Sessions != 3 || body.Previews != 1 {
		t.Errorf("body %+v", body)
	}
}

func TestListPreviews(t *testing.T) {
	g, p := newTestGallery(t)
	h := NewHTTPServer(":0", g, nil).Handler()

	var list []PreviewInfo
	if err := json.NewDecoder(get(t, h, "/previews").Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("%d previews", len(list))
	}
	got := list[0]
	if got.ID != p.ID || got.Owner != "alice" || got.Shapes != len(p.Snapshot.Shapes) {
		t.Errorf("info %+v", got)
	}
	if got.PNG != "/previews/"+p.ID+".png" || got.GIF != "" {
		t.Errorf("links %q %q", got.PNG, got.GIF)
	}
}

func TestPreviewPNG(t *testing.T) {
	g, p := newTestGallery(t)
	h := NewHTTPServer(":0", g, nil).Handler()

	tests := []struct {
		name   string
		url    string
		status int
		width  int
	}{
		{"native", "/previews/" + p.ID + ".png", http.StatusOK, 800},
		{"scaled", "/previews/" + p.ID + ".png?width=100", http.StatusOK, 100},
		{"bad width", "/previews/" + p.ID + ".png?width=abc", http.StatusBadRequest, 0},
		{"zero width", "/previews/" + p.ID + ".png?width=0", http.StatusBadRequest, 0},
		{"unknown", "/previews/nope.png", http.StatusNotFound, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.url)
			if rec.Code != tt.status {
				t.Fatalf("status %d, want %d", rec.Code, tt.status)
			}
			if tt.width == 0 {
				return
			}
			if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
				t.Errorf("content type %q", ct)
			}
			cfg, err := png.DecodeConfig(rec.Body)
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Width != tt.width || cfg.Height != tt.width*3/4 {
				t.Errorf("size %dx%d", cfg.Width, cfg.Height)
			}
		})
	}
}

func TestPreviewGIF(t *testing.T) {
	g, p := newTestGallery(t)
	h := NewHTTPServer(":0", g, nil).Handler()
	url := "/previews/" + p.ID + ".gif"

	if rec := get(t, h, url); rec.Code != http.StatusNotFound {
		t.Errorf("gif before recording: status %d", rec.Code)
	}

	clip := []byte("GIF89a-test")
	g.AttachClip(p.ID, clip)
	rec := get(t, h, url)
	if rec.Code != http.StatusOK || rec.Body.String() != string(clip) {
		t.Errorf("status %d body %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/gif" {
		t.Errorf("content type %q", ct)
	}

	g.Remove(p.ID)
	if rec := get(t, h, url); rec.Code != http.StatusNotFound {
		t.Errorf("gif after close: status %d", rec.Code)
	}
}
