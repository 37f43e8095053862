package errors

import (
	"encoding/json"
	"net/http"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NewValidation("bad input", nil), http.StatusBadRequest},
		{NewNotFound("order", "abc"), http.StatusNotFound},
		{NewConflict("duplicate"), http.StatusConflict},
		{NewInternal("boom", nil), http.StatusInternalServerError},
		{NewUnauthorized("no"), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestGRPCStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{NewValidation("bad input", nil), codes.InvalidArgument},
		{NewNotFound("order", "abc"), codes.NotFound},
		{NewConflict("duplicate"), codes.AlreadyExists},
		{NewInternal("boom", nil), codes.Internal},
	}

	for _, tt := range tests {
		st, ok := status.FromError(GRPCStatus(tt.err))
		if !ok {
			t.Fatalf("expected a gRPC status, got %v", tt.err)
		}
		if st.Code() != tt.want {
			t.Errorf("GRPCStatus(%v) = %v, want %v", tt.err, st.Code(), tt.want)
		}
	}
}

func TestFromGRPCStatusRoundTrip(t *testing.T) {
	appErr := FromGRPCStatus(GRPCStatus(NewConflict("duplicate ISBN")))
	if appErr.Code != CodeConflict {
		t.Errorf("expected %s, got %s", CodeConflict, appErr.Code)
	}
}

func TestNewFieldValidationDetails(t *testing.T) {
	failures := []FieldError{
		{Field: "Title", Message: "Title is required."},
		{Field: "ISBN", Message: "ISBN must be unique in the system."},
	}

	err := NewFieldValidation("order validation failed", failures)

	got, ok := err.Details.([]FieldError)
	if !ok {
		t.Fatalf("expected field errors in details, got %#v", err.Details)
	}
	if len(got) != 2 || got[0].Field != "Title" || got[1].Field != "ISBN" {
		t.Errorf("expected ordered failures, got %v", got)
	}
}

func TestToJSONKeepsFieldOrder(t *testing.T) {
	failures := []FieldError{
		{Field: "Title", Message: "Title is required."},
		{Field: "Price", Message: "Price must be greater than 0."},
	}

	statusCode, payload := ToJSON(NewFieldValidation("order validation failed", failures), "trace-1")
	if statusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", statusCode)
	}

	var resp struct {
		Error struct {
			Code    string       `json:"code"`
			Details []FieldError `json:"details"`
		} `json:"error"`
		TraceID string `json:"trace_id"`
	}
	if err := json.Unmarshal(payload, &resp); err != nil {
		t.Fatalf("expected valid JSON, got %v", err)
	}
	if resp.Error.Code != CodeValidation {
		t.Errorf("expected %s, got %s", CodeValidation, resp.Error.Code)
	}
	if len(resp.Error.Details) != 2 || resp.Error.Details[0].Field != "Title" {
		t.Errorf("expected ordered details, got %v", resp.Error.Details)
	}
	if resp.TraceID != "trace-1" {
		t.Errorf("expected trace id, got %q", resp.TraceID)
	}
}

func TestIsAndWrap(t *testing.T) {
	err := Wrap(NewValidation("bad", nil), "create order")
	if !Is(err, CodeValidation) {
		t.Errorf("expected wrapped error to keep its code, got %v", err)
	}
	if Is(err, CodeNotFound) {
		t.Error("expected code mismatch to report false")
	}
}
