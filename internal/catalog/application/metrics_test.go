package application

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"order-catalog/internal/catalog/domain"
	"order-catalog/pkg/logger"
)

// newObservedLogger returns a logger whose output can be inspected
func newObservedLogger(t *testing.T) (*logger.Logger, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zapcore.InfoLevel)
	return &logger.Logger{Logger: zap.New(core)}, logs
}

func metricsEntries(logs *observer.ObservedLogs) []observer.LoggedEntry {
	return logs.FilterMessage("order creation metrics").All()
}

func TestMetricsRecorder_SuccessEvent(t *testing.T) {
	// Arrange
	log, logs := newObservedLogger(t)
	recorder := NewMetricsRecorder(log)

	// Act
	recorder.Record(context.Background(), CreationMetrics{
		OperationID:   "op-1",
		OrderTitle:    "Mastering APIs",
		ISBN:          "9781234567897",
		Category:      domain.CategoryTechnical,
		TotalDuration: 5 * time.Millisecond,
		Success:       true,
	})

	// Assert
	entries := metricsEntries(logs)
	if len(entries) != 1 {
		t.Fatalf("expected 1 metrics entry, got %d", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel {
		t.Errorf("expected info level, got %v", entries[0].Level)
	}
	if got := entries[0].ContextMap()["event"]; got != EventCreationComplete {
		t.Errorf("expected event %q, got %v", EventCreationComplete, got)
	}
}

func TestMetricsRecorder_FailureEvents(t *testing.T) {
	tests := []struct {
		name         string
		failureEvent string
		wantEvent    string
	}{
		{"validation failure by default", "", EventValidationFailed},
		{"pipeline fault keeps its own event", EventCreationFailed, EventCreationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			log, logs := newObservedLogger(t)
			recorder := NewMetricsRecorder(log)

			// Act
			recorder.Record(context.Background(), CreationMetrics{
				OperationID:  "op-1",
				FailureEvent: tt.failureEvent,
				ErrorReason:  "store append failed",
			})

			// Assert
			entries := metricsEntries(logs)
			if len(entries) != 1 {
				t.Fatalf("expected 1 metrics entry, got %d", len(entries))
			}
			if entries[0].Level != zapcore.WarnLevel {
				t.Errorf("expected warn level, got %v", entries[0].Level)
			}
			fields := entries[0].ContextMap()
			if fields["event"] != tt.wantEvent {
				t.Errorf("expected event %q, got %v", tt.wantEvent, fields["event"])
			}
			if fields["error_reason"] != "store append failed" {
				t.Errorf("expected error reason, got %v", fields["error_reason"])
			}
		})
	}
}
