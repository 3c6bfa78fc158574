// Package sequence assigns the next free product code. Codes are small
// human-friendly numbers zero-padded to at least two digits ("01", "02", …
// "99", "100"). The allocator is deliberately separate from the stock ledger:
// it only needs the current maximum and an existence probe.
package sequence

import (
	"context"
	"fmt"
	"strconv"
)

// Store is the minimal lookup surface the allocator needs. The product
// repository satisfies it.
type Store interface {
	MaxNumericID(ctx context.Context) (int, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
}

type Allocator struct {
	store Store
}

func NewAllocator(store Store) *Allocator { return &Allocator{store: store} }

// Next returns the lowest unused code above the current numeric maximum.
// When a candidate is already taken (a caller assigned it by hand), the
// allocator probes forward until it finds a free one.
func (a *Allocator) Next(ctx context.Context) (string, error) {
	max, err := a.store.MaxNumericID(ctx)
	if err != nil {
		return "", fmt.Errorf("sequence: read max code: %w", err)
	}
	for n := max + 1; ; n++ {
		code := Format(n)
		exists, err := a.store.ExistsByID(ctx, code)
		if err != nil {
			return "", fmt.Errorf("sequence: probe %s: %w", code, err)
		}
		if !exists {
			return code, nil
		}
	}
}

// Format renders a code with the canonical zero padding.
func Format(n int) string {
	if n < 0 {
		n = 0
	}
	if n < 100 {
		return fmt.Sprintf("%02d", n)
	}
	return strconv.Itoa(n)
}

// Normalize validates a caller-supplied code (digits only) and reapplies the
// canonical padding, so "7" and "07" resolve to the same identity.
func Normalize(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return "", false
	}
	return Format(n), true
}
