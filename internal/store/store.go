package store

import (
	"context"

	"github.com/rajnandniparmar/Event-Finder/internal/models"
)

// EventStore is an ordered, append-only collection of events.
type EventStore interface {
	// List returns a snapshot of every event in insertion order.
	List(ctx context.Context) ([]models.Event, error)
	// Append adds e at the end and persists the collection.
	Append(ctx context.Context, e models.Event) error
	// Ping reports whether the backing storage is usable.
	Ping(ctx context.Context) error
}
