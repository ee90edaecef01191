// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package textbook

import (
	"errors"

	"github.com/toeirei/primeforge/internal/core/numtheory"
)

var (
	// ErrOutOfRangeMessage is returned when a message or ciphertext is not
	// in [0, n).
	ErrOutOfRangeMessage = errors.New("textbook: value outside [0, n)")

	// ErrInvalidExponent is returned for public exponents that are even or
	// smaller than 3.
	ErrInvalidExponent = errors.New("textbook: public exponent must be odd and >= 3")

	// ErrEqualPrimes is returned when both primes of a key are the same.
	ErrEqualPrimes = errors.New("textbook: p and q must be distinct")

	// ErrNotPrime is returned when a supplied factor fails the primality test.
	ErrNotPrime = errors.New("textbook: factor is not a probable prime")

	// ErrInvalidKey is returned when stored key components are inconsistent.
	ErrInvalidKey = errors.New("textbook: invalid key components")

	// ErrNonCoprimeExponent is the numtheory sentinel, re-exported so callers
	// of this package match a single value.
	ErrNonCoprimeExponent = numtheory.ErrNonCoprimeExponent
)
