package server

import (
	"sync"

	"github.com/ironsheep/pov-bitmap-mcp/internal/ledmap"
)

// Session holds the converted images of one server process in insertion
// order. Converting again under an existing name replaces that entry in
// place.
//
// Session is safe for concurrent use.
type Session struct {
	mu     sync.RWMutex
	order  []string
	images map[string]*ledmap.ConvertedImage
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{images: make(map[string]*ledmap.ConvertedImage)}
}

// Put stores img under img.Name.
func (s *Session) Put(img *ledmap.ConvertedImage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.images[img.Name]; !ok {
		s.order = append(s.order, img.Name)
	}
	s.images[img.Name] = img
}

// Get returns the image stored under name.
func (s *Session) Get(name string) (*ledmap.ConvertedImage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.images[name]
	return img, ok
}

// List returns all images in insertion order.
func (s *Session) List() []*ledmap.ConvertedImage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*ledmap.ConvertedImage, 0, len(s.order))
	for _, n := range s.order {
		out = append(out, s.images[n])
	}
	return out
}

// Remove drops the named images and reports how many were present.
func (s *Session) Remove(names ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := s.images[n]; ok {
			drop[n] = true
			delete(s.images, n)
		}
	}
	if len(drop) == 0 {
		return 0
	}
	kept := s.order[:0]
	for _, n := range s.order {
		if !drop[n] {
			kept = append(kept, n)
		}
	}
	s.order = kept
	return len(drop)
}

// Clear drops every image and returns how many there were.
func (s *Session) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.order)
	s.order = nil
	s.images = make(map[string]*ledmap.ConvertedImage)
	return n
}
