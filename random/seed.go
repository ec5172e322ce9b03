package random

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"

	"golang.org/x/crypto/sha3"
)

const (
	// SeedPrefixLen is the length of the opaque prefix ("0x") skipped by the decoder.
	SeedPrefixLen = 2

	// SeedWindowLen is the number of hex digits parsed into each state word.
	SeedWindowLen = 8

	// MinSeedLen is the shortest seed DecodeSeed accepts: prefix + 4 windows.
	MinSeedLen = SeedPrefixLen + 4*SeedWindowLen

	// CanonicalSeedLen is the length of a full 0x + 64 hex digit hash.
	CanonicalSeedLen = SeedPrefixLen + 64
)

// State is the four word xorshift128 generator state.
type State [4]uint32

// DecodeSeed converts a seed string into generator state.
//
// Exactly four non-overlapping 8-digit windows are read, at offsets 2, 10,
// 18 and 26. The two character prefix is not inspected and anything past
// offset 34 is ignored, so "0x" + 32 hex digits is the shortest valid seed.
// This is a pure function with no side effects.
//
// Example:
//
//	state, err := DecodeSeed("0x1111111111111111111111111111111111111111111111111111111111111111")
//	// state == State{0x11111111, 0x11111111, 0x11111111, 0x11111111}
func DecodeSeed(seed string) (State, error) {
	var state State
	if len(seed) < MinSeedLen {
		return state, &InvalidSeedError{
			Seed:   seed,
			Offset: -1,
			Reason: "need at least " + strconv.Itoa(MinSeedLen) + " characters, got " + strconv.Itoa(len(seed)),
		}
	}

	for i := range state {
		offset := SeedPrefixLen + i*SeedWindowLen
		window := seed[offset : offset+SeedWindowLen]
		word, err := strconv.ParseUint(window, 16, 32)
		if err != nil {
			return State{}, &InvalidSeedError{
				Seed:   seed,
				Offset: offset,
				Reason: "window " + strconv.Quote(window) + " is not hexadecimal",
			}
		}
		state[i] = uint32(word)
	}
	return state, nil
}

// ValidateHash checks that seed is in the canonical 0x + 64 hex digit form.
// Seeds that DecodeSeed accepts but which are shorter, longer or carry a
// different prefix fail with ErrNotCanonical.
func ValidateHash(seed string) error {
	if _, err := DecodeSeed(seed); err != nil {
		return err
	}
	if len(seed) != CanonicalSeedLen || !strings.HasPrefix(seed, "0x") {
		return ErrNotCanonical
	}
	if _, err := hex.DecodeString(seed[SeedPrefixLen:]); err != nil {
		return ErrNotCanonical
	}
	return nil
}

// RandomHash returns a fresh "0x" + 64 lowercase hex digit hash from
// crypto/rand.
//
// The result is NOT reproducible. It exists so that a render without a
// configured seed still produces an artwork; callers should log the value
// so the render can be repeated.
func RandomHash() string {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing is effectively impossible; fall back to a
		// phrase-derived hash rather than panicking.
		return HashFromPhrase("hashart")
	}
	return "0x" + hex.EncodeToString(buf[:])
}

// HashFromPhrase derives a canonical hash from free text using Keccak-256,
// the same digest that produces Ethereum transaction hashes.
// This is a pure function with no side effects.
func HashFromPhrase(phrase string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(phrase))
	return "0x" + hex.EncodeToString(h.Sum(nil))
}
