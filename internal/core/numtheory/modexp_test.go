// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package numtheory

import (
	"errors"
	"math/big"
	"math/rand"
	"testing"
)

func TestPowMod_KnownVectors(t *testing.T) {
	cases := []struct {
		base, exp, mod, want int64
	}{
		{4, 13, 497, 445},
		{65, 17, 3233, 2790},
		{2790, 2753, 3233, 65},
		{7, 0, 13, 1},
		{0, 0, 13, 1},
		{0, 5, 13, 0},
		{123, 456, 1, 0},
		{-2, 3, 7, 6}, // (-8) mod 7
		{10, 1, 3, 1},
	}
	for _, tc := range cases {
		got, err := PowMod(big.NewInt(tc.base), big.NewInt(tc.exp), big.NewInt(tc.mod))
		if err != nil {
			t.Fatalf("PowMod(%d, %d, %d) error: %v", tc.base, tc.exp, tc.mod, err)
		}
		if got.Int64() != tc.want {
			t.Fatalf("PowMod(%d, %d, %d) = %s, want %d", tc.base, tc.exp, tc.mod, got, tc.want)
		}
	}
}

func TestPowMod_RejectsBadInput(t *testing.T) {
	if _, err := PowMod(big.NewInt(2), big.NewInt(3), big.NewInt(0)); !errors.Is(err, ErrInvalidModulus) {
		t.Fatalf("expected ErrInvalidModulus for zero modulus, got %v", err)
	}
	if _, err := PowMod(big.NewInt(2), big.NewInt(3), big.NewInt(-5)); !errors.Is(err, ErrInvalidModulus) {
		t.Fatalf("expected ErrInvalidModulus for negative modulus, got %v", err)
	}
	if _, err := PowMod(big.NewInt(2), big.NewInt(3), nil); !errors.Is(err, ErrInvalidModulus) {
		t.Fatalf("expected ErrInvalidModulus for nil modulus, got %v", err)
	}
	if _, err := PowMod(big.NewInt(2), big.NewInt(-1), big.NewInt(7)); !errors.Is(err, ErrNegativeExponent) {
		t.Fatalf("expected ErrNegativeExponent, got %v", err)
	}
}

// TestPowMod_MatchesStdlib cross-checks against big.Int.Exp on random
// multi-word operands.
func TestPowMod_MatchesStdlib(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	limit := new(big.Int).Lsh(big.NewInt(1), 600)
	for i := 0; i < 200; i++ {
		base := new(big.Int).Rand(r, limit)
		exp := new(big.Int).Rand(r, limit)
		mod := new(big.Int).Rand(r, limit)
		mod.Add(mod, big.NewInt(1))

		got, err := PowMod(base, exp, mod)
		if err != nil {
			t.Fatalf("PowMod error: %v", err)
		}
		want := new(big.Int).Exp(base, exp, mod)
		if got.Cmp(want) != 0 {
			t.Fatalf("iteration %d: PowMod mismatch\n got  %s\n want %s", i, got, want)
		}
	}
}

func TestPowMod_DoesNotMutateArguments(t *testing.T) {
	base, exp, mod := big.NewInt(4), big.NewInt(13), big.NewInt(497)
	if _, err := PowMod(base, exp, mod); err != nil {
		t.Fatalf("PowMod error: %v", err)
	}
	if base.Int64() != 4 || exp.Int64() != 13 || mod.Int64() != 497 {
		t.Fatalf("arguments mutated: %s %s %s", base, exp, mod)
	}
}
