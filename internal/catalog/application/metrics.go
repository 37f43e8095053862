package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"order-catalog/internal/catalog/domain"
	"order-catalog/pkg/logger"
)

// Pipeline event kinds emitted as the "event" log field
const (
	EventCreationStarted  = "order.creation_started"
	EventValidationFailed = "order.validation_failed"
	EventISBNChecked      = "order.isbn_checked"
	EventStockChecked     = "order.stock_checked"
	EventDBStarted        = "order.db_started"
	EventDBCompleted      = "order.db_completed"
	EventCacheInvalidated = "order.cache_invalidated"
	EventCreationComplete = "order.creation_completed"
	// EventCreationFailed marks pipeline faults (store or collaborator
	// errors), as opposed to request validation failures
	EventCreationFailed = "order.creation_failed"
)

// Machine-readable error reasons carried in metrics
const (
	ErrReasonDuplicateISBN = "Duplicate ISBN"
	ErrReasonInvalidStock  = "Invalid stock quantity"
)

// CreationMetrics is the write-once outcome record of one pipeline run
type CreationMetrics struct {
	OperationID          string
	OrderTitle           string
	ISBN                 string
	Category             domain.Category
	ValidationDuration   time.Duration
	DatabaseSaveDuration time.Duration
	TotalDuration        time.Duration
	Success              bool
	// FailureEvent is the event kind for failed runs; empty means a
	// request validation failure
	FailureEvent string
	ErrorReason  string
}

// MetricsRecorder emits creation metrics through the logging sink
type MetricsRecorder struct {
	log *logger.Logger
}

// NewMetricsRecorder creates a metrics recorder
func NewMetricsRecorder(log *logger.Logger) *MetricsRecorder {
	return &MetricsRecorder{log: log}
}

// Record emits a structured metrics entry: info on success, warn on failure
func (r *MetricsRecorder) Record(ctx context.Context, m CreationMetrics) {
	fields := []zap.Field{
		zap.String("operation_id", m.OperationID),
		zap.String("title", m.OrderTitle),
		zap.String("isbn", m.ISBN),
		zap.String("category", string(m.Category)),
		zap.Int64("validation_ms", m.ValidationDuration.Milliseconds()),
		zap.Int64("db_save_ms", m.DatabaseSaveDuration.Milliseconds()),
		zap.Int64("total_ms", m.TotalDuration.Milliseconds()),
		zap.Bool("success", m.Success),
	}

	if m.Success {
		fields = append(fields, zap.String("event", EventCreationComplete))
		r.log.WithContext(ctx).Info("order creation metrics", fields...)
		return
	}

	event := m.FailureEvent
	if event == "" {
		event = EventValidationFailed
	}
	fields = append(fields,
		zap.String("event", event),
		zap.String("error_reason", m.ErrorReason),
	)
	r.log.WithContext(ctx).Warn("order creation metrics", fields...)
}

// newOperationID returns a short identifier correlating all log entries of
// one pipeline run
func newOperationID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}
