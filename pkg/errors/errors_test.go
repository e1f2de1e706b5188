package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrap(t *testing.T) {
	originalErr := errors.New("connection reset by peer")
	wrapped := Wrap(originalErr, CodeInternal, "failed to create reservation", http.StatusInternalServerError)

	if wrapped.Err != originalErr {
		t.Errorf("expected wrapped error to contain original error")
	}
	if wrapped.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, wrapped.Code)
	}
	if !errors.Is(wrapped, originalErr) {
		t.Errorf("errors.Is should find the original error")
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   NotFound("Reservation"),
			expected: "NOT_FOUND: Reservation not found",
		},
		{
			name:     "with underlying error",
			appErr:   Internal("Failed to create notification", errors.New("write concern timeout")),
			expected: "INTERNAL_ERROR: Failed to create notification (caused by: write concern timeout)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_StatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"unauthenticated", Unauthenticated(), http.StatusUnauthorized},
		{"forbidden", Forbidden("Only the owner can delete a reservation"), http.StatusForbidden},
		{"conflict", Conflict("Notification already answered"), http.StatusConflict},
		{"validation", Validation("invalid", nil), http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad id"), http.StatusBadRequest},
		{"rate limited", RateLimited(), http.StatusTooManyRequests},
		{"zero status falls back to 500", &AppError{Code: CodeInternal}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.StatusCode(); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Reservation", "665f1c2a9b1e8a0012345678")

	if err.Code != CodeNotFound {
		t.Errorf("expected code %s, got %s", CodeNotFound, err.Code)
	}
	if err.Details["resource"] != "Reservation" {
		t.Errorf("expected resource detail, got %v", err.Details["resource"])
	}
	if err.Details["id"] != "665f1c2a9b1e8a0012345678" {
		t.Errorf("expected id detail, got %v", err.Details["id"])
	}
}

func TestAsAppError(t *testing.T) {
	t.Run("wrapped app error is found", func(t *testing.T) {
		err := fmt.Errorf("service layer: %w", Unauthenticated())

		appErr := AsAppError(err)
		if appErr.Code != CodeUnauthenticated {
			t.Errorf("expected %s, got %s", CodeUnauthenticated, appErr.Code)
		}
		if !IsAppError(err) {
			t.Errorf("IsAppError should see through wrapping")
		}
		if !HasCode(err, CodeUnauthenticated) {
			t.Errorf("HasCode should match wrapped code")
		}
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		plain := errors.New("boom")

		appErr := AsAppError(plain)
		if appErr.Code != CodeInternal {
			t.Errorf("expected %s, got %s", CodeInternal, appErr.Code)
		}
		if appErr.Err != plain {
			t.Errorf("expected original error to be kept")
		}
		if IsAppError(plain) {
			t.Errorf("plain error is not an AppError")
		}
	})
}
