package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{name: "not found", err: NewNotFoundError("application", 7), sentinel: ErrNotFound},
		{name: "invalid filter", err: NewInvalidFilterError("location", "moon", "unknown value"), sentinel: ErrInvalidFilter},
		{name: "store unavailable", err: NewStoreUnavailableError("upsert swipe", context.DeadlineExceeded), sentinel: ErrStoreUnavailable},
		{name: "forbidden", err: NewForbiddenError(1, 2), sentinel: ErrForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("service call: %w", tc.err)
			if !errors.Is(wrapped, tc.sentinel) {
				t.Fatalf("expected %v to match sentinel %v", wrapped, tc.sentinel)
			}
		})
	}
}

func TestStoreUnavailableIsRetryableAndUnwraps(t *testing.T) {
	err := fmt.Errorf("record swipe: %w", NewStoreUnavailableError("upsert swipe", context.DeadlineExceeded))

	if !IsRetryable(err) {
		t.Fatalf("expected store unavailable to be retryable")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected wrapped cause to be reachable")
	}
	if !IsContextError(err) {
		t.Fatalf("expected context error detection through wrapping")
	}
	if IsRetryable(NewNotFoundError("user", 1)) {
		t.Fatalf("not found must not be retryable")
	}
}

func TestNotFoundErrorMessage(t *testing.T) {
	err := NewNotFoundError("user", 42)
	if err.Error() != "user 42 not found" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}
