// Package notify holds transient user notifications with auto-dismiss.
package notify

import (
	"sync"
	"sync/atomic"
	"time"
)

// Notice levels.
const (
	LevelSuccess = "success"
	LevelError   = "error"
)

// Notice is one transient notification.
type Notice struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Level     string    `json:"level"`
	ExpiresAt time.Time `json:"expires_at"`
}

// sequencer provides monotonically increasing notice ids.
type sequencer struct{ n atomic.Uint64 }

func (s *sequencer) next() uint64 { return s.n.Add(1) }

// Hub keeps the active notices. Every notice expires after the hub TTL
// unless dismissed earlier.
type Hub struct {
	mu      sync.Mutex
	seq     sequencer
	ttl     time.Duration
	notices []Notice
	now     func() time.Time
}

func NewHub(ttl time.Duration) *Hub {
	if ttl <= 0 {
		ttl = 3 * time.Second
	}
	return &Hub{ttl: ttl, now: time.Now}
}

// Publish adds a notice and returns it.
func (h *Hub) Publish(title, message, level string) Notice {
	if level == "" {
		level = LevelSuccess
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	n := Notice{
		ID:        h.seq.next(),
		Title:     title,
		Message:   message,
		Level:     level,
		ExpiresAt: h.now().Add(h.ttl),
	}
	h.notices = append(h.notices, n)
	return n
}

// Active returns the not-yet-expired notices, pruning the rest.
func (h *Hub) Active() []Notice {
	h.mu.Lock()
	defer h.mu.Unlock()
	now := h.now()
	kept := h.notices[:0]
	for _, n := range h.notices {
		if n.ExpiresAt.After(now) {
			kept = append(kept, n)
		}
	}
	h.notices = kept
	out := make([]Notice, len(kept))
	copy(out, kept)
	return out
}

// Dismiss removes a notice before its TTL, reporting whether it existed.
func (h *Hub) Dismiss(id uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, n := range h.notices {
		if n.ID == id {
			h.notices = append(h.notices[:i], h.notices[i+1:]...)
			return true
		}
	}
	return false
}
