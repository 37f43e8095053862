package domain

import "order-catalog/pkg/errors"

// NewOrderNotFound creates a not found error with the order ID
func NewOrderNotFound(id string) error {
	return errors.NewNotFound("order", id)
}

// NewDuplicateISBN creates a conflict error for an ISBN that already exists
func NewDuplicateISBN(isbn string) error {
	return errors.NewConflict("order with ISBN '" + isbn + "' already exists")
}
