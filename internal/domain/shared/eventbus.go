package shared

import "context"

// EventHandler reacts to published events. An empty EventTypes subscribes
// the handler to everything.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus is the publisher side plus subscription and lifecycle
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// EventSource is an aggregate with recorded events
type EventSource interface {
	PullDomainEvents() []DomainEvent
}

// PublishPending drains src and hands its events to pub. The events are
// dropped when pub is nil, so a service without a bus still clears them.
func PublishPending(ctx context.Context, pub EventPublisher, src EventSource) error {
	events := src.PullDomainEvents()
	if pub == nil || len(events) == 0 {
		return nil
	}
	return pub.Publish(ctx, events...)
}
