package ports

import (
	"context"
	"time"

	"order-catalog/internal/catalog/domain"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// Create appends a new order
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by ID
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// List retrieves all orders, newest first
	List(ctx context.Context) ([]*domain.Order, error)

	// Delete deletes an order by ID
	Delete(ctx context.Context, id string) error

	// ExistsByISBNDigits reports whether an order with the given
	// digit-normalized ISBN exists
	ExistsByISBNDigits(ctx context.Context, digits string) (bool, error)

	// ExistsByTitleAuthor reports whether an order with the given title and
	// author exists (case-insensitive)
	ExistsByTitleAuthor(ctx context.Context, title, author string) (bool, error)

	// CountCreatedSince counts orders created at or after the given time
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// PublishOrderCreated publishes an order created event
	PublishOrderCreated(ctx context.Context, order *domain.Order) error
}

// ListCache caches the serialized order list served by the list endpoint.
// The create pipeline invalidates it after every successful append.
type ListCache interface {
	GetList(ctx context.Context) ([]byte, bool, error)
	SetList(ctx context.Context, payload []byte) error
	Invalidate(ctx context.Context) error
}
