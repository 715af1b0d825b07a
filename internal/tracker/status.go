package tracker

import (
	"time"

	"github.com/banshee-data/telescope.tracker/internal/stellarium"
)

// Status is a snapshot of the loop published after every iteration.
type Status struct {
	Tracking    bool                      `json:"tracking"`
	Object      *stellarium.TrackedObject `json:"object,omitempty"`
	LastPayload string                    `json:"last_payload,omitempty"`
	LastError   string                    `json:"last_error,omitempty"`
	Polls       int                       `json:"polls"`
	Acks        int                       `json:"acks"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

// Status returns the most recently published snapshot.
func (t *Tracker) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s := t.status
	if s.Object != nil {
		obj := *s.Object
		s.Object = &obj
	}
	return s
}

func (t *Tracker) publish(update func(*Status)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	update(&t.status)
	t.status.Polls++
	t.status.UpdatedAt = t.now()
}
