package notify

import (
	"context"
	"slices"
	"sync"
)

// Recorder is an in-process Feed used when no Redis is configured.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice // newest first
}

var _ Feed = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(_ context.Context, n Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append([]Notice{n}, r.notices...)
	if len(r.notices) > FeedCap {
		r.notices = r.notices[:FeedCap]
	}
	return nil
}

func (r *Recorder) Recent(_ context.Context, limit int) ([]Notice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 || limit > len(r.notices) {
		limit = len(r.notices)
	}
	return slices.Clone(r.notices[:limit]), nil
}

// Last returns the most recent notice, if any.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[0], true
}
