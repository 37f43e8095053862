package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"order-catalog/internal/catalog/domain"
	"order-catalog/internal/catalog/ports"
	apperrors "order-catalog/pkg/errors"
	"order-catalog/pkg/logger"
)

// CreateOrderInput represents the input for creating a catalog order
type CreateOrderInput struct {
	Title         string
	Author        string
	ISBN          string
	Category      domain.Category
	Price         float64
	PublishedDate time.Time
	CoverImageURL string
	StockQuantity int
}

// OrderUseCase runs the create-order pipeline and the plain read/delete
// operations. One pipeline instance serves one request; no state is shared
// across requests outside the repository and cache.
type OrderUseCase struct {
	repo      ports.OrderRepository
	publisher ports.EventPublisher
	cache     ports.ListCache
	engine    *RuleEngine
	policy    *BusinessRulePolicy
	metrics   *MetricsRecorder
	log       *logger.Logger
	now       func() time.Time
	newID     func() string
}

// NewOrderUseCase creates a new order use case. Publisher and cache may be
// nil; the pipeline then skips eventing and cache invalidation.
func NewOrderUseCase(
	repo ports.OrderRepository,
	publisher ports.EventPublisher,
	cache ports.ListCache,
	dailyLimit int,
	log *logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		repo:      repo,
		publisher: publisher,
		cache:     cache,
		engine:    NewRuleEngine(repo, log),
		policy:    NewBusinessRulePolicy(repo, dailyLimit, log),
		metrics:   NewMetricsRecorder(log),
		log:       log,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// CreateOrder validates the request against the layered rule set, persists
// the order, and returns its response projection. Any rule failure aborts
// the pipeline and is recorded in metrics with a short reason.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderProfile, error) {
	opID := newOperationID()
	start := uc.now()

	log := uc.log.WithContext(ctx).With(zap.String("operation_id", opID))
	log.Info("order creation started",
		zap.String("event", EventCreationStarted),
		zap.String("title", input.Title),
		zap.String("author", input.Author),
		zap.String("category", string(input.Category)),
		zap.String("isbn", input.ISBN),
	)

	// Field rules, cascade-stop per field, then store-backed uniqueness
	valStart := uc.now()
	failures, err := uc.engine.Evaluate(ctx, &input)
	valDur := uc.now().Sub(valStart)
	if err != nil {
		uc.recordFailure(ctx, opID, &input, valDur, start, EventCreationFailed, "validation check failed")
		return nil, apperrors.NewInternal("failed to validate order", err)
	}

	if len(failures) > 0 {
		log.Warn("order validation failed",
			zap.String("event", EventValidationFailed),
			zap.Int("failure_count", len(failures)),
		)
		uc.recordFailure(ctx, opID, &input, valDur, start, "", failures[0].Message)
		return nil, apperrors.NewFieldValidation("order validation failed", failures)
	}

	// Defensive duplicate-ISBN re-check; the store's unique index on the
	// normalized ISBN is the backstop under concurrent creates
	log.Info("isbn uniqueness checked",
		zap.String("event", EventISBNChecked),
		zap.String("isbn", input.ISBN),
	)
	checkStart := uc.now()
	exists, err := uc.repo.ExistsByISBNDigits(ctx, domain.ISBNDigits(input.ISBN))
	valDur += uc.now().Sub(checkStart)
	if err != nil {
		uc.recordFailure(ctx, opID, &input, valDur, start, EventCreationFailed, "ISBN uniqueness check failed")
		return nil, apperrors.NewInternal("failed to check ISBN uniqueness", err)
	}
	if exists {
		log.Warn("order creation failed: duplicate ISBN",
			zap.String("event", EventValidationFailed),
			zap.String("isbn", input.ISBN),
		)
		uc.recordFailure(ctx, opID, &input, valDur, start, "", ErrReasonDuplicateISBN)
		return nil, apperrors.NewFieldValidation(
			"order with ISBN '"+input.ISBN+"' already exists",
			[]apperrors.FieldError{{Field: FieldISBN, Message: "ISBN must be unique in the system."}},
		)
	}

	// Defensive stock re-check
	log.Info("stock quantity checked",
		zap.String("event", EventStockChecked),
		zap.Int("stock_quantity", input.StockQuantity),
	)
	if input.StockQuantity < 0 {
		log.Warn("order creation failed: invalid stock",
			zap.String("event", EventValidationFailed),
			zap.Int("stock_quantity", input.StockQuantity),
		)
		uc.recordFailure(ctx, opID, &input, valDur, start, "", ErrReasonInvalidStock)
		return nil, apperrors.NewValidation("Stock quantity cannot be negative.", nil)
	}

	if err := ctx.Err(); err != nil {
		uc.recordFailure(ctx, opID, &input, valDur, start, EventCreationFailed, "request cancelled")
		return nil, apperrors.NewInternal("request cancelled", err)
	}

	// Store-dependent business rules, first failure wins
	reason, err := uc.policy.Check(ctx, &input)
	if err != nil {
		uc.recordFailure(ctx, opID, &input, valDur, start, EventCreationFailed, "business rule check failed")
		return nil, apperrors.NewInternal("failed to evaluate business rules", err)
	}
	if reason != "" {
		uc.recordFailure(ctx, opID, &input, valDur, start, "", reason)
		return nil, apperrors.NewValidation(BusinessPolicyMessage, nil)
	}

	order := ToOrder(&input, uc.newID(), uc.now().UTC())

	log.Info("database save started",
		zap.String("event", EventDBStarted),
		zap.String("isbn", input.ISBN),
	)
	dbStart := uc.now()
	if err := uc.repo.Create(ctx, order); err != nil {
		if apperrors.Is(err, apperrors.CodeConflict) {
			// Lost the race despite the earlier check
			uc.recordFailure(ctx, opID, &input, valDur, start, "", ErrReasonDuplicateISBN)
			return nil, err
		}
		uc.recordFailure(ctx, opID, &input, valDur, start, EventCreationFailed, "store append failed")
		return nil, apperrors.NewInternal("failed to create order", err)
	}
	dbDur := uc.now().Sub(dbStart)
	log.Info("database save completed",
		zap.String("event", EventDBCompleted),
		zap.String("order_id", order.ID),
		zap.Duration("duration", dbDur),
	)

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			log.Warn("failed to invalidate order list cache", zap.Error(err))
		} else {
			log.Info("order list cache invalidated",
				zap.String("event", EventCacheInvalidated),
			)
		}
	}

	// Publish event (best effort, never fails the request)
	if uc.publisher != nil {
		if err := uc.publisher.PublishOrderCreated(ctx, order); err != nil {
			log.Error("failed to publish order created event",
				zap.Error(err),
				zap.String("order_id", order.ID),
			)
		}
	}

	uc.metrics.Record(ctx, CreationMetrics{
		OperationID:          opID,
		OrderTitle:           input.Title,
		ISBN:                 input.ISBN,
		Category:             input.Category,
		ValidationDuration:   valDur,
		DatabaseSaveDuration: dbDur,
		TotalDuration:        uc.now().Sub(start),
		Success:              true,
	})

	log.Info("order created",
		zap.String("event", EventCreationComplete),
		zap.String("order_id", order.ID),
		zap.String("isbn", order.ISBN),
	)

	return ToProfile(order, uc.now().UTC()), nil
}

// GetOrder retrieves an order projection by ID
func (uc *OrderUseCase) GetOrder(ctx context.Context, id string) (*OrderProfile, error) {
	order, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToProfile(order, uc.now().UTC()), nil
}

// ListOrders retrieves all order projections, served from cache when warm
func (uc *OrderUseCase) ListOrders(ctx context.Context) ([]*OrderProfile, error) {
	if uc.cache != nil {
		payload, ok, err := uc.cache.GetList(ctx)
		if err != nil {
			uc.log.WithContext(ctx).Warn("order list cache read failed", zap.Error(err))
		} else if ok {
			var profiles []*OrderProfile
			if err := json.Unmarshal(payload, &profiles); err != nil {
				uc.log.WithContext(ctx).Warn("discarding unreadable order list cache entry", zap.Error(err))
			} else {
				return profiles, nil
			}
		}
	}

	orders, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	profiles := make([]*OrderProfile, len(orders))
	for i, order := range orders {
		profiles[i] = ToProfile(order, now)
	}

	if uc.cache != nil {
		if payload, err := json.Marshal(profiles); err == nil {
			if err := uc.cache.SetList(ctx, payload); err != nil {
				uc.log.WithContext(ctx).Warn("order list cache write failed", zap.Error(err))
			}
		}
	}

	return profiles, nil
}

// DeleteOrder deletes an order by ID
func (uc *OrderUseCase) DeleteOrder(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			uc.log.WithContext(ctx).Warn("failed to invalidate order list cache", zap.Error(err))
		}
	}
	return nil
}

// recordFailure emits the metrics record of an aborted run. An empty event
// means a request validation failure.
func (uc *OrderUseCase) recordFailure(
	ctx context.Context,
	opID string,
	in *CreateOrderInput,
	validation time.Duration,
	start time.Time,
	event string,
	reason string,
) {
	uc.metrics.Record(ctx, CreationMetrics{
		OperationID:        opID,
		OrderTitle:         in.Title,
		ISBN:               in.ISBN,
		Category:           in.Category,
		ValidationDuration: validation,
		TotalDuration:      uc.now().Sub(start),
		Success:            false,
		FailureEvent:       event,
		ErrorReason:        reason,
	})
}
