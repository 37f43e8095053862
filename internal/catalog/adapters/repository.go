package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"order-catalog/internal/catalog/domain"
	apperrors "order-catalog/pkg/errors"
)

// OrderModel is the GORM model for orders (persistence layer)
type OrderModel struct {
	ID            string          `gorm:"primaryKey;size:36"`
	Title         string          `gorm:"size:200;not null"`
	Author        string          `gorm:"size:100;not null"`
	ISBN          string          `gorm:"size:32;not null"`
	ISBNDigits    string          `gorm:"column:isbn_digits;size:13;uniqueIndex;not null"`
	Category      domain.Category `gorm:"size:20;not null"`
	Price         float64         `gorm:"not null"`
	PublishedDate time.Time       `gorm:"not null"`
	CoverImageURL string          `gorm:"size:512"`
	StockQuantity int             `gorm:"not null"`
	IsAvailable   bool            `gorm:"not null"`
	CreatedAt     time.Time       `gorm:"index"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// PostgresOrderRepository implements OrderRepository using PostgreSQL
type PostgresOrderRepository struct {
	db *gorm.DB
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository
func NewPostgresOrderRepository(db *gorm.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

// Migrate runs auto-migration for the order model
func (r *PostgresOrderRepository) Migrate() error {
	return r.db.AutoMigrate(&OrderModel{})
}

// Create appends a new order. The unique index on isbn_digits closes the
// check-then-append race; violations surface as conflict errors.
func (r *PostgresOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	model := toModel(order)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.NewDuplicateISBN(order.ISBN)
		}
		return apperrors.NewInternal("failed to create order", result.Error)
	}

	order.CreatedAt = model.CreatedAt
	return nil
}

// GetByID retrieves an order by ID
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var model OrderModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewOrderNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get order", result.Error)
	}

	return toDomain(&model), nil
}

// List retrieves all orders, newest first
func (r *PostgresOrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	var models []OrderModel

	result := r.db.WithContext(ctx).Order("created_at DESC").Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list orders", result.Error)
	}

	orders := make([]*domain.Order, len(models))
	for i, model := range models {
		orders[i] = toDomain(&model)
	}

	return orders, nil
}

// Delete deletes an order by ID
func (r *PostgresOrderRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&OrderModel{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.NewInternal("failed to delete order", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewOrderNotFound(id)
	}
	return nil
}

// ExistsByISBNDigits reports whether an order with the given normalized
// ISBN exists
func (r *PostgresOrderRepository) ExistsByISBNDigits(ctx context.Context, digits string) (bool, error) {
	var count int64

	result := r.db.WithContext(ctx).
		Model(&OrderModel{}).
		Where("isbn_digits = ?", digits).
		Count(&count)
	if result.Error != nil {
		return false, apperrors.NewInternal("failed to check ISBN uniqueness", result.Error)
	}

	return count > 0, nil
}

// ExistsByTitleAuthor reports whether an order with the given title and
// author exists, compared case-insensitively
func (r *PostgresOrderRepository) ExistsByTitleAuthor(ctx context.Context, title, author string) (bool, error) {
	var count int64

	result := r.db.WithContext(ctx).
		Model(&OrderModel{}).
		Where("LOWER(title) = ? AND LOWER(author) = ?", strings.ToLower(title), strings.ToLower(author)).
		Count(&count)
	if result.Error != nil {
		return false, apperrors.NewInternal("failed to check title uniqueness", result.Error)
	}

	return count > 0, nil
}

// CountCreatedSince counts orders created at or after the given time
func (r *PostgresOrderRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64

	result := r.db.WithContext(ctx).
		Model(&OrderModel{}).
		Where("created_at >= ?", since).
		Count(&count)
	if result.Error != nil {
		return 0, apperrors.NewInternal("failed to count orders", result.Error)
	}

	return count, nil
}

// toModel converts a domain entity to a GORM model
func toModel(order *domain.Order) *OrderModel {
	return &OrderModel{
		ID:            order.ID,
		Title:         order.Title,
		Author:        order.Author,
		ISBN:          order.ISBN,
		ISBNDigits:    domain.ISBNDigits(order.ISBN),
		Category:      order.Category,
		Price:         order.Price,
		PublishedDate: order.PublishedDate,
		CoverImageURL: order.CoverImageURL,
		StockQuantity: order.StockQuantity,
		IsAvailable:   order.IsAvailable,
		CreatedAt:     order.CreatedAt,
	}
}

// toDomain converts a GORM model to a domain entity
func toDomain(model *OrderModel) *domain.Order {
	return &domain.Order{
		ID:            model.ID,
		Title:         model.Title,
		Author:        model.Author,
		ISBN:          model.ISBN,
		Category:      model.Category,
		Price:         model.Price,
		PublishedDate: model.PublishedDate,
		CoverImageURL: model.CoverImageURL,
		StockQuantity: model.StockQuantity,
		IsAvailable:   model.IsAvailable,
		CreatedAt:     model.CreatedAt,
	}
}
