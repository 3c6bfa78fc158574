// Package domain defines the error taxonomy shared by all services.
// Handlers translate these into HTTP statuses at the boundary; services
// never format HTTP-specific messages.
package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound — an identity does not resolve to a record.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument — malformed, missing, or non-positive input, or a
	// product playing a role its category does not allow.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDuplicateIdentity — creation collision on a product code.
	ErrDuplicateIdentity = errors.New("identity already exists")
	// ErrConflict — the operation is blocked by a referential dependency or
	// by a state transition outside the allowed table.
	ErrConflict = errors.New("conflict")
)

func wrap(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)
}

func NotFoundf(format string, args ...any) error {
	return wrap(ErrNotFound, format, args...)
}

func Invalidf(format string, args ...any) error {
	return wrap(ErrInvalidArgument, format, args...)
}

func Duplicatef(format string, args ...any) error {
	return wrap(ErrDuplicateIdentity, format, args...)
}

func Conflictf(format string, args ...any) error {
	return wrap(ErrConflict, format, args...)
}

// InsufficientStockError reports a feasibility or execution-time shortfall.
// It always carries the material code, the amount needed, and the amount
// available so a caller can tell "recipe fine, just out of stock" apart from
// a malformed request.
type InsufficientStockError struct {
	ProductID string
	Needed    decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: needed %s, available %s",
		e.ProductID, e.Needed.String(), e.Available.String())
}
