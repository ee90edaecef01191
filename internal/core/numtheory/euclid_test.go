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

// checkBezout verifies a*x + b*y == g and g == gcd(a, b) against both the
// iterative GCD and big.Int.GCD.
func checkBezout(t *testing.T, a, b *big.Int) {
	t.Helper()
	g, x, y := ExtendedGCD(a, b)

	lhs := new(big.Int).Mul(a, x)
	lhs.Add(lhs, new(big.Int).Mul(b, y))
	if lhs.Cmp(g) != 0 {
		t.Fatalf("Bezout identity failed for a=%s b=%s: a*x+b*y=%s, g=%s", a, b, lhs, g)
	}
	if want := GCD(a, b); g.Cmp(want) != 0 {
		t.Fatalf("ExtendedGCD(%s, %s) g=%s, iterative GCD=%s", a, b, g, want)
	}
	if want := new(big.Int).GCD(nil, nil, a, b); g.Cmp(want) != 0 {
		t.Fatalf("ExtendedGCD(%s, %s) g=%s, big.Int.GCD=%s", a, b, g, want)
	}
}

func TestExtendedGCD_EdgeCases(t *testing.T) {
	g, x, y := ExtendedGCD(big.NewInt(0), big.NewInt(17))
	if g.Int64() != 17 || x.Int64() != 0 || y.Int64() != 1 {
		t.Fatalf("ExtendedGCD(0, 17) = (%s, %s, %s), want (17, 0, 1)", g, x, y)
	}
	g, _, _ = ExtendedGCD(big.NewInt(0), big.NewInt(0))
	if g.Sign() != 0 {
		t.Fatalf("ExtendedGCD(0, 0) g = %s, want 0", g)
	}

	pairs := [][2]int64{
		{17, 0}, {1, 1}, {240, 46}, {46, 240}, {17, 3120}, {4, 8},
		{65537, 3120}, {12, 18}, {1, 1000000}, {999983, 1000003},
	}
	for _, p := range pairs {
		checkBezout(t, big.NewInt(p[0]), big.NewInt(p[1]))
	}
}

func TestExtendedGCD_Random(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		a := big.NewInt(r.Int63n(1 << 40))
		b := big.NewInt(r.Int63n(1 << 40))
		checkBezout(t, a, b)
	}
	limit := new(big.Int).Lsh(big.NewInt(1), 1024)
	for i := 0; i < 100; i++ {
		checkBezout(t, new(big.Int).Rand(r, limit), new(big.Int).Rand(r, limit))
	}
}

func TestGCD(t *testing.T) {
	cases := []struct{ a, b, want int64 }{
		{0, 0, 0}, {0, 9, 9}, {9, 0, 9}, {12, 18, 6}, {17, 3120, 1}, {4, 8, 4},
	}
	for _, tc := range cases {
		if got := GCD(big.NewInt(tc.a), big.NewInt(tc.b)); got.Int64() != tc.want {
			t.Fatalf("GCD(%d, %d) = %s, want %d", tc.a, tc.b, got, tc.want)
		}
	}
	if !Coprime(big.NewInt(65537), big.NewInt(3120)) {
		t.Fatalf("expected 65537 and 3120 to be coprime")
	}
	if Coprime(big.NewInt(4), big.NewInt(8)) {
		t.Fatalf("expected 4 and 8 not to be coprime")
	}
}

func TestModInverse_TextbookVector(t *testing.T) {
	d, err := ModInverse(big.NewInt(17), big.NewInt(3120))
	if err != nil {
		t.Fatalf("ModInverse error: %v", err)
	}
	if d.Int64() != 2753 {
		t.Fatalf("ModInverse(17, 3120) = %s, want 2753", d)
	}
}

func TestModInverse_NonCoprime(t *testing.T) {
	if _, err := ModInverse(big.NewInt(4), big.NewInt(8)); !errors.Is(err, ErrNonCoprimeExponent) {
		t.Fatalf("expected ErrNonCoprimeExponent for (4, 8), got %v", err)
	}
	if _, err := ModInverse(big.NewInt(3), big.NewInt(3120)); !errors.Is(err, ErrNonCoprimeExponent) {
		t.Fatalf("expected ErrNonCoprimeExponent for (3, 3120), got %v", err)
	}
	if _, err := ModInverse(big.NewInt(3), big.NewInt(0)); !errors.Is(err, ErrInvalidModulus) {
		t.Fatalf("expected ErrInvalidModulus for phi=0, got %v", err)
	}
}

func TestModInverse_CoprimeProperty(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	limit := new(big.Int).Lsh(big.NewInt(1), 512)
	checked := 0
	for checked < 200 {
		phi := new(big.Int).Rand(r, limit)
		e := new(big.Int).Rand(r, limit)
		if phi.Cmp(big.NewInt(2)) < 0 || !Coprime(e, phi) {
			continue
		}
		d, err := ModInverse(e, phi)
		if err != nil {
			t.Fatalf("ModInverse(%s, %s) error: %v", e, phi, err)
		}
		if d.Sign() < 0 || d.Cmp(phi) >= 0 {
			t.Fatalf("ModInverse result %s outside [0, %s)", d, phi)
		}
		prod := new(big.Int).Mul(e, d)
		if prod.Mod(prod, phi).Cmp(big.NewInt(1)) != 0 {
			t.Fatalf("e*d mod phi != 1 for e=%s phi=%s d=%s", e, phi, d)
		}
		checked++
	}
}

func TestModInverse_NegativeInputNormalized(t *testing.T) {
	// -17 = 3103 (mod 3120), and 3103 * 367 = 1 (mod 3120).
	d, err := ModInverse(big.NewInt(-17), big.NewInt(3120))
	if err != nil {
		t.Fatalf("ModInverse error: %v", err)
	}
	if d.Int64() != 367 {
		t.Fatalf("ModInverse(-17, 3120) = %s, want 367", d)
	}
}
