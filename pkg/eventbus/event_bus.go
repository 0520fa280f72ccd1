// Package eventbus announces changes to stored process definitions.
//
// Every event belongs to exactly one process definition and travels on
// events.Topic keyed by that definition's id, so a partitioned broker keeps
// the compiled/deleted history of a single process in order.
package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dukex/flowc/pkg/events"
)

var ErrUnknownEventType = errors.New("unknown process event type")

// Event is a lifecycle notification about one process definition.
type Event interface {
	GetType() events.EventType
	GetProcessID() string
}

// EventPublisher sends an event keyed by its process id.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// EventSubscriber routes incoming events to the handler registered for their type.
type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler) error
	Subscribe(ctx context.Context) error
}

// EventHandler receives a decoded *events.ProcessCompiled or *events.ProcessDeleted.
// Returning an error leaves the message unacknowledged.
type EventHandler func(ctx context.Context, event Event) error

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
}

// Decode rebuilds the concrete event for eventType from its JSON payload.
func Decode(eventType events.EventType, payload []byte) (Event, error) {
	var event Event

	switch eventType {
	case events.ProcessCompiledEvent:
		event = &events.ProcessCompiled{}
	case events.ProcessDeletedEvent:
		event = &events.ProcessDeleted{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, eventType)
	}

	if err := json.Unmarshal(payload, event); err != nil {
		return nil, fmt.Errorf("failed to decode %s event: %w", eventType, err)
	}

	return event, nil
}
