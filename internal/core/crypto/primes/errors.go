// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package primes

import "errors"

var (
	// ErrBitLengthTooSmall is returned when a prime shorter than MinPrimeBits
	// is requested.
	ErrBitLengthTooSmall = errors.New("primes: bit length below minimum")

	// ErrDegenerateWitnessRange is returned by SingleRound when n is too small
	// (or even) for the witness range [2, n-2] to be meaningful.
	ErrDegenerateWitnessRange = errors.New("primes: witness range [2, n-2] is degenerate")

	// ErrInvalidOddPart is returned by SingleRound when d is not the odd part
	// of n-1.
	ErrInvalidOddPart = errors.New("primes: d is not the odd part of n-1")
)
