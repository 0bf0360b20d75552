package repository

import "context"

// EventPublisher announces successful writes to downstream consumers.
// Publishing is best effort; failures are logged, never surfaced to the
// caller.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event interface{}) error
}
