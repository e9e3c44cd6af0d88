package infrastructure

import (
	"context"

	"prizepool/domain/events"
)

// LocalEventPublisher only runs in-process handlers. It is used when NATS is
// disabled.
type LocalEventPublisher struct {
	*EventDispatcher
}

// NewLocalEventPublisher creates a publisher without a message bus
func NewLocalEventPublisher() *LocalEventPublisher {
	return &LocalEventPublisher{EventDispatcher: NewEventDispatcher()}
}

// Publish dispatches the event to local handlers
func (p *LocalEventPublisher) Publish(event events.Event) error {
	p.Dispatch(context.Background(), event)
	return nil
}
