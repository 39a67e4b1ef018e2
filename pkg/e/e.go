package e

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func Wrap(message string, err error) error {
	return fmt.Errorf("%s: %w", message, err)
}

var (
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrForbidden             = errors.New("forbidden")
	ErrNotFound              = errors.New("not found")
	ErrConflict              = errors.New("conflict")
	ErrInvalidInput          = errors.New("invalid input")
	ErrStoreUnavailable      = errors.New("store unavailable")
	ErrGeoServiceUnavailable = errors.New("geo service unavailable")
	ErrCanceled              = errors.New("context canceled")
	ErrInvalidCoordinates    = fmt.Errorf("invalid coordinates: %w", ErrInvalidInput)
)

// Kind names the taxonomy bucket of err for structured failure bodies.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthenticated):
		return "Unauthenticated"
	case errors.Is(err, ErrForbidden):
		return "Forbidden"
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrInvalidInput):
		return "InvalidInput"
	case errors.Is(err, ErrConflict):
		return "Conflict"
	case errors.Is(err, ErrStoreUnavailable):
		return "StoreUnavailable"
	case errors.Is(err, ErrGeoServiceUnavailable):
		return "GeoServiceUnavailable"
	case errors.Is(err, ErrCanceled):
		return "Canceled"
	default:
		return "Internal"
	}
}

// WrapError classifies an error returned by the store. Anything the store
// cannot explain is reported as ErrStoreUnavailable so callers may retry.
func WrapError(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: query timeout: %w", op, ErrStoreUnavailable)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, ErrCanceled)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w", op, ErrConflict)
		case "23503", "23514", "22P02", "22007", "22023":
			return fmt.Errorf("%s: %w", op, ErrInvalidInput)
		case "57014":
			return fmt.Errorf("%s: statement canceled: %w", op, ErrStoreUnavailable)
		default:
			return fmt.Errorf("%s: pg error %s: %w", op, pgErr.Code, ErrStoreUnavailable)
		}
	}
	return fmt.Errorf("%s: %v: %w", op, err, ErrStoreUnavailable)
}
