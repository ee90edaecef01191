// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package numtheory

import "math/big"

// GCD returns the greatest common divisor of a and b using the iterative
// Euclidean algorithm. Both inputs are expected to be non-negative;
// GCD(0, 0) is 0.
func GCD(a, b *big.Int) *big.Int {
	x := new(big.Int).Abs(a)
	y := new(big.Int).Abs(b)
	for y.Sign() != 0 {
		x.Mod(x, y)
		x, y = y, x
	}
	return x
}

// ExtendedGCD returns g = gcd(a, b) together with Bezout coefficients x and
// y such that a*x + b*y = g. The coefficients may be negative.
//
// The loop keeps two rows (r, s, t) that both satisfy r = a*s + b*t and
// replaces the older row by old - q*new until the remainder reaches zero,
// so stack usage does not grow with the number of Euclidean steps.
// ExtendedGCD(0, b) is (b, 0, 1). Inputs must be non-negative.
func ExtendedGCD(a, b *big.Int) (g, x, y *big.Int) {
	if a.Sign() == 0 {
		return new(big.Int).Set(b), big.NewInt(0), big.NewInt(1)
	}

	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldS, s := big.NewInt(1), big.NewInt(0)
	oldT, t := big.NewInt(0), big.NewInt(1)

	q := new(big.Int)
	for r.Sign() != 0 {
		q.Quo(oldR, r)
		oldR, r = r, reduceRow(oldR, r, q)
		oldS, s = s, reduceRow(oldS, s, q)
		oldT, t = t, reduceRow(oldT, t, q)
	}
	return oldR, oldS, oldT
}

// reduceRow returns old - q*cur as a fresh value.
func reduceRow(old, cur, q *big.Int) *big.Int {
	next := new(big.Int).Mul(q, cur)
	return next.Sub(old, next)
}

// ModInverse returns d in [0, phi) with e*d = 1 (mod phi).
//
// It fails with ErrNonCoprimeExponent when gcd(e, phi) != 1 and with
// ErrInvalidModulus when phi < 1. Negative e is reduced modulo phi first.
func ModInverse(e, phi *big.Int) (*big.Int, error) {
	if phi == nil || phi.Sign() <= 0 {
		return nil, ErrInvalidModulus
	}
	reduced := new(big.Int).Mod(e, phi)

	g, x, _ := ExtendedGCD(reduced, phi)
	if g.Cmp(one) != 0 {
		return nil, ErrNonCoprimeExponent
	}

	d := x.Mod(x, phi)
	d.Add(d, phi)
	return d.Mod(d, phi), nil
}

// Coprime reports whether gcd(a, b) == 1.
func Coprime(a, b *big.Int) bool {
	return GCD(a, b).Cmp(one) == 0
}
