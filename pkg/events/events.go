package events

import "time"

// Exchange names
const (
	ExchangeCatalog = "catalog.events"
)

// Routing keys
const (
	RoutingKeyOrderCreated = "order.created"
)

// OrderCreatedEvent is published when a catalog order is created
type OrderCreatedEvent struct {
	Version   string              `json:"version"`
	EventType string              `json:"event_type"`
	Timestamp time.Time           `json:"timestamp"`
	TraceID   string              `json:"trace_id"`
	Payload   OrderCreatedPayload `json:"payload"`
}

// OrderCreatedPayload contains order data
type OrderCreatedPayload struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	ISBN          string    `json:"isbn"`
	Category      string    `json:"category"`
	Price         float64   `json:"price"`
	StockQuantity int       `json:"stock_quantity"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(id, title, author, isbn, category string, price float64, stock int, createdAt time.Time, traceID string) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		Version:   "1.0",
		EventType: "order.created",
		Timestamp: time.Now(),
		TraceID:   traceID,
		Payload: OrderCreatedPayload{
			ID:            id,
			Title:         title,
			Author:        author,
			ISBN:          isbn,
			Category:      category,
			Price:         price,
			StockQuantity: stock,
			CreatedAt:     createdAt,
		},
	}
}
