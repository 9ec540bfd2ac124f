package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/TLN1/linkr-back/backend/internal/domain/apperrors"
)

// classify turns transient driver failures into StoreUnavailableError and wraps
// everything else with the operation name.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if isTransient(err) {
		return apperrors.NewStoreUnavailableError(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "57P01", "57P03", "53300":
			return true
		}
	}
	return false
}
