package site

import (
	"log/slog"
	"sync"

	"github.com/ziadkadry99/pytutor/internal/logging"
)

// Hub tracks the connected reader sessions.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]*Session
	logger   *slog.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{sessions: make(map[string]*Session), logger: logging.OrDefault(logger)}
}

func (h *Hub) add(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s.ID] = s
}

func (h *Hub) remove(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, s.ID)
}

// Len returns the number of connected sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// ChapterChanged asks every session showing filename to reload it and returns
// how many sessions were showing it.
func (h *Hub) ChapterChanged(filename string) int {
	h.mu.Lock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	n := 0
	for _, s := range sessions {
		if ch, ok := s.Active(); ok && ch.Filename == filename {
			s.Reload(filename)
			n++
		}
	}
	if n > 0 {
		h.logger.Info("chapter changed, reloading", "filename", filename, "sessions", n)
	}
	return n
}
