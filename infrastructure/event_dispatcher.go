package infrastructure

import (
	"context"
	"sync"

	"prizepool/domain/events"

	log "github.com/sirupsen/logrus"
)

// EventHandler handles a domain event in the publishing process
type EventHandler func(context.Context, events.Event) error

// EventDispatcher invokes in-process handlers for published events
type EventDispatcher struct {
	mu       sync.RWMutex
	handlers map[events.EventType][]EventHandler
}

// NewEventDispatcher creates an empty dispatcher
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{handlers: make(map[events.EventType][]EventHandler)}
}

// RegisterLocalHandler registers a handler that will be invoked locally for events of eventType
func (d *EventDispatcher) RegisterLocalHandler(eventType events.EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[eventType] = append(d.handlers[eventType], handler)
	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(d.handlers[eventType]),
	}).Debug("Registered local event handler")
}

// Dispatch runs every handler registered for the event's type. Handler
// failures are logged and do not stop the remaining handlers.
func (d *EventDispatcher) Dispatch(ctx context.Context, event events.Event) {
	d.mu.RLock()
	handlers := d.handlers[event.Type()]
	d.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"error":     err,
			}).Error("Local event handler failed")
		}
	}
}
