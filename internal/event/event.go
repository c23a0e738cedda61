// Package event announces domain changes to downstream consumers.
package event

import (
	"context"
	"slices"
	"sync"
	"time"
)

const (
	RoundupPublished        = "roundup.published"
	StoryPublished          = "story.published"
	DraftArchived           = "draft.archived"
	ArticleStatusChanged    = "article.status_changed"
	CollectionStatusChanged = "collection.status_changed"
)

type Event struct {
	Name      string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	Subject   string    `json:"subject"`
	Payload   any       `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Memory keeps published events in order.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func (m *Memory) Publish(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.events)
}

// Names returns the names of the published events in order.
func (m *Memory) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, len(m.events))
	for i, e := range m.events {
		names[i] = e.Name
	}
	return names
}
