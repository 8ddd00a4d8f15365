package record

import (
	"sort"
	"sync"
	"time"

	"monster-maker/internal/session"
)

// Entry is a published preview.
type Entry struct {
	ID        string
	Owner     string
	CreatedAt time.Time
	Snapshot  session.Snapshot
	Clip      []byte // encoded GIF, nil until a recording finishes
}

// Gallery holds the previews that are currently open so they can be
// downloaded. Entries disappear when the preview closes.
type Gallery struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewGallery returns an empty gallery.
func NewGallery() *Gallery {
	return &Gallery{entries: make(map[string]*Entry)}
}

// Publish adds an open preview.
func (g *Gallery) Publish(p *session.Preview, owner string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.entries[p.ID] = &Entry{
		ID:        p.ID,
		Owner:     owner,
		CreatedAt: p.CreatedAt,
		Snapshot:  p.Snapshot,
	}
}

// AttachClip stores a finished recording. It reports false when the
// preview is no longer published.
func (g *Gallery) AttachClip(id string, clip []byte) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.entries[id]
	if !ok {
		return false
	}
	e.Clip = clip
	return true
}

// Remove drops a preview.
func (g *Gallery) Remove(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.entries, id)
}

// RemoveOwner drops every preview published by owner.
func (g *Gallery) RemoveOwner(owner string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for id, e := range g.entries {
		if e.Owner == owner {
			delete(g.entries, id)
		}
	}
}

// Get returns a copy of one entry.
func (g *Gallery) Get(id string) (Entry, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.entries[id]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// List returns all entries, oldest first.
func (g *Gallery) List() []Entry {
	g.mu.RLock()
	out := make([]Entry, 0, len(g.entries))
	for _, e := range g.entries {
		out = append(out, *e)
	}
	g.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
