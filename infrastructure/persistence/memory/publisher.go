package memory

import (
	"context"
	"sync"

	"stackmap-backend/domain/events"
)

// EventPublisher is an in-memory ports.EventPublisher that records
// published events for inspection in tests.
type EventPublisher struct {
	mu        sync.Mutex
	published []events.DomainEvent
}

// NewEventPublisher creates an empty publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{}
}

// Publish records a single event
func (p *EventPublisher) Publish(_ context.Context, event events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, event)
	return nil
}

// PublishBatch records multiple events
func (p *EventPublisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	for _, event := range batch {
		if err := p.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// Published returns a copy of everything published so far
func (p *EventPublisher) Published() []events.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.DomainEvent, len(p.published))
	copy(out, p.published)
	return out
}
