package pkg

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_ToHTTPError(t *testing.T) {
	cause := errors.New("dynamodb timeout")
	appErr := NewDomainError("STORAGE_FAILURE", "Storage failure", cause, http.StatusServiceUnavailable)

	body := appErr.ToHTTPError()
	if body.Code != "STORAGE_FAILURE" || body.Message != "Storage failure" || body.Details != nil {
		t.Fatalf("unexpected body %+v", body)
	}
	if !errors.Is(appErr, cause) {
		t.Fatal("expected cause to be unwrapped")
	}
}

func TestAppError_WithDetail(t *testing.T) {
	base := NewDomainErrorSimple("CONFLICT", "Conflict", http.StatusConflict)
	withQuote := base.WithDetail("quote_id", "q1")

	if base.Details != nil {
		t.Fatal("WithDetail must not mutate the receiver")
	}
	if withQuote.ToHTTPError().Details["quote_id"] != "q1" || withQuote.HTTPStatus != http.StatusConflict {
		t.Fatalf("unexpected error %+v", withQuote)
	}
}

func TestAsAppError(t *testing.T) {
	known := NewDomainErrorSimple("NOT_FOUND", "Not found", http.StatusNotFound)
	if got := AsAppError(fmt.Errorf("wrapped: %w", known)); got != known {
		t.Fatalf("expected the wrapped AppError, got %+v", got)
	}
	if got := AsAppError(errors.New("boom")); got.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", got.HTTPStatus)
	}
}
