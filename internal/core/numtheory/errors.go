// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package numtheory

import "errors"

var (
	// ErrInvalidModulus is returned when a modulus is nil, zero or negative.
	ErrInvalidModulus = errors.New("numtheory: modulus must be >= 1")

	// ErrNegativeExponent is returned by PowMod for exponents below zero.
	ErrNegativeExponent = errors.New("numtheory: exponent must be >= 0")

	// ErrNonCoprimeExponent is returned when a modular inverse is requested
	// for a value that shares a factor with the modulus.
	ErrNonCoprimeExponent = errors.New("numtheory: exponent is not coprime to modulus")
)
