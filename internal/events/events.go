// Package events publishes document change notifications.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/jonathan/resume-builder/internal/types"
)

// TypeSectionUpdated is the event type emitted after a section update is applied
const TypeSectionUpdated = "section.updated"

// SectionUpdated is published whenever the tracker applies a generation result
type SectionUpdated struct {
	Type       string              `json:"type"`
	DocumentID string              `json:"documentId"`
	Section    types.SectionName   `json:"section"`
	Status     types.SectionStatus `json:"status"`
	Score      float64             `json:"score"`
	Provider   types.ProviderKind  `json:"provider"`
	Version    int                 `json:"version"`
	Timestamp  time.Time           `json:"timestamp"`
}

// Publisher delivers events to subscribers
type Publisher interface {
	Publish(ctx context.Context, event SectionUpdated) error
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, SectionUpdated) error { return nil }

// MemoryPublisher keeps published events in memory
type MemoryPublisher struct {
	mu     sync.Mutex
	events []SectionUpdated
}

func (p *MemoryPublisher) Publish(_ context.Context, event SectionUpdated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Events returns a copy of everything published so far
func (p *MemoryPublisher) Events() []SectionUpdated {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]SectionUpdated(nil), p.events...)
}
