package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/TLN1/linkr-back/backend/internal/domain/apperrors"
)

func TestClassifyMarksTransientFailuresRetryable(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), true},
		{"canceled", context.Canceled, true},
		{"serialization", &pgconn.PgError{Code: "40001"}, true},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classify("op", tc.err)
			if got := apperrors.IsRetryable(err); got != tc.retryable {
				t.Fatalf("unexpected retryable: got %v want %v (%v)", got, tc.retryable, err)
			}
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected classified error to wrap cause")
			}
		})
	}
}

func TestClassifyNil(t *testing.T) {
	if err := classify("op", nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestMigrationsAreEmbedded(t *testing.T) {
	body, err := migrationFiles.ReadFile("migrations/0001_init.sql")
	if err != nil {
		t.Fatalf("read embedded migration: %v", err)
	}
	if len(body) == 0 {
		t.Fatalf("embedded migration is empty")
	}
}
