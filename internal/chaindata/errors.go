package chaindata

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNetworkFailure wraps any transport or upstream failure.
	ErrNetworkFailure = errors.New("network failure")

	// ErrNotFound is returned when the upstream reports the item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnsupported is returned when the chain's protocol family cannot answer the query.
	ErrUnsupported = errors.New("operation not supported for chain family")

	// ErrPaginationUnsupported is returned when a page other than the first
	// is requested from a backend without pagination.
	ErrPaginationUnsupported = errors.New("pagination not supported for chain family")
)

// classify keeps taxonomy errors as they are and wraps everything else as a
// network failure.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNetworkFailure),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrUnsupported),
		errors.Is(err, ErrPaginationUnsupported),
		errors.Is(err, context.Canceled):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrNetworkFailure, err)
	}
}
