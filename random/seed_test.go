package random

import (
	"errors"
	"strings"
	"testing"
)

const (
	seedOnes    = "0x1111111111111111111111111111111111111111111111111111111111111111"
	seedCounter = "0x0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
)

func TestDecodeSeed(t *testing.T) {
	tests := []struct {
		name string
		seed string
		want State
	}{
		{
			name: "repeated bytes",
			seed: seedOnes,
			want: State{0x11111111, 0x11111111, 0x11111111, 0x11111111},
		},
		{
			name: "distinct windows",
			seed: seedCounter,
			want: State{0x01234567, 0x89abcdef, 0x01234567, 0x89abcdef},
		},
		{
			name: "uppercase hex",
			seed: "0xDEADBEEFCAFEBABE0000000FFFFFFFFF",
			want: State{0xdeadbeef, 0xcafebabe, 0x0000000f, 0xffffffff},
		},
		{
			name: "minimum length ignores prefix",
			seed: "##00000001000000020000000300000004",
			want: State{1, 2, 3, 4},
		},
		{
			name: "trailing garbage past the last window is not read",
			seed: "0x00000001000000020000000300000004zzzz",
			want: State{1, 2, 3, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeSeed(tt.seed)
			if err != nil {
				t.Fatalf("DecodeSeed(%q) error: %v", tt.seed, err)
			}
			if got != tt.want {
				t.Errorf("DecodeSeed(%q) = %#v, want %#v", tt.seed, got, tt.want)
			}
		})
	}
}

func TestDecodeSeed_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		seed       string
		wantOffset int
	}{
		{"empty", "", -1},
		{"prefix only", "0x", -1},
		{"one short", "0x" + strings.Repeat("a", 31), -1},
		{"non hex first window", "0xZZ" + strings.Repeat("0", 62), 2},
		{"non hex third window", "0x" + strings.Repeat("0", 16) + "0000g000" + strings.Repeat("0", 40), 18},
		{"sign in window", "0x+0000001" + strings.Repeat("0", 56), 2},
		{"whitespace in window", "0x00000000 0000000" + strings.Repeat("0", 48), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSeed(tt.seed)
			if err == nil {
				t.Fatalf("DecodeSeed(%q) expected error", tt.seed)
			}
			if !errors.Is(err, ErrInvalidSeed) {
				t.Errorf("errors.Is(err, ErrInvalidSeed) = false for %v", err)
			}
			var seedErr *InvalidSeedError
			if !errors.As(err, &seedErr) {
				t.Fatalf("expected *InvalidSeedError, got %T", err)
			}
			if seedErr.Offset != tt.wantOffset {
				t.Errorf("Offset = %d, want %d", seedErr.Offset, tt.wantOffset)
			}
		})
	}
}

func TestValidateHash(t *testing.T) {
	if err := ValidateHash(seedCounter); err != nil {
		t.Errorf("ValidateHash(canonical) error: %v", err)
	}

	short := seedCounter[:MinSeedLen]
	if err := ValidateHash(short); !errors.Is(err, ErrNotCanonical) {
		t.Errorf("ValidateHash(short) = %v, want ErrNotCanonical", err)
	}

	tail := seedCounter[:CanonicalSeedLen-1] + "q"
	if err := ValidateHash(tail); !errors.Is(err, ErrNotCanonical) {
		t.Errorf("ValidateHash(bad tail) = %v, want ErrNotCanonical", err)
	}

	if err := ValidateHash("0xnope"); !errors.Is(err, ErrInvalidSeed) {
		t.Errorf("ValidateHash(garbage) = %v, want ErrInvalidSeed", err)
	}
}

func TestRandomHash_Format(t *testing.T) {
	for i := 0; i < 50; i++ {
		hash := RandomHash()
		if err := ValidateHash(hash); err != nil {
			t.Fatalf("RandomHash() = %q is not canonical: %v", hash, err)
		}
		if strings.ToLower(hash) != hash {
			t.Errorf("RandomHash() = %q, want lowercase", hash)
		}
	}
}

func TestRandomHash_Randomness(t *testing.T) {
	hashes := make(map[string]bool)
	for i := 0; i < 10; i++ {
		hashes[RandomHash()] = true
	}
	// 256 bits each; a collision here means the source is broken
	if len(hashes) != 10 {
		t.Errorf("expected 10 unique hashes, got %d", len(hashes))
	}
}

func TestHashFromPhrase(t *testing.T) {
	// Keccak-256 of the empty string
	const emptyKeccak = "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"
	if got := HashFromPhrase(""); got != emptyKeccak {
		t.Errorf("HashFromPhrase(\"\") = %q, want %q", got, emptyKeccak)
	}

	a := HashFromPhrase("dots on a page")
	if a != HashFromPhrase("dots on a page") {
		t.Error("HashFromPhrase is not deterministic")
	}
	if a == HashFromPhrase("dots on a page.") {
		t.Error("different phrases produced the same hash")
	}
	if err := ValidateHash(a); err != nil {
		t.Errorf("HashFromPhrase produced non-canonical hash %q: %v", a, err)
	}
}
