// Package random provides the seeded pseudo-random generator that drives
// every hash-derived artwork, plus helpers for producing seeds.
package random

import (
	"errors"
	"fmt"
)

// Sentinel errors for seed handling.
var (
	// ErrInvalidSeed is matched by every *InvalidSeedError.
	ErrInvalidSeed = errors.New("random: invalid seed")

	// ErrNotCanonical is returned by ValidateHash for seeds that decode but
	// are not in the full 0x + 64 hex form.
	ErrNotCanonical = errors.New("random: seed is not a canonical 0x-prefixed 64 digit hash")
)

// InvalidSeedError describes why a seed could not be decoded.
type InvalidSeedError struct {
	Seed   string // The rejected seed
	Offset int    // Offset of the offending window, or -1 for length errors
	Reason string // Human-readable reason
}

func (e *InvalidSeedError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("random: invalid seed %q at offset %d: %s", e.Seed, e.Offset, e.Reason)
	}
	return fmt.Sprintf("random: invalid seed %q: %s", e.Seed, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalidSeed) succeed.
func (e *InvalidSeedError) Unwrap() error {
	return ErrInvalidSeed
}
