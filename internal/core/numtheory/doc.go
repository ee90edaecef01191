// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

// Package numtheory holds the integer arithmetic shared by the prime search
// and the RSA key builder: square-and-multiply modular exponentiation, an
// iterative extended Euclidean algorithm and the modular inverse derived
// from it.
//
// All functions operate on *big.Int and never modify their arguments. Only
// the elementary math/big operations (add, multiply, divide, compare, bit
// access) are used; big.Int.Exp, big.Int.GCD and big.Int.ModInverse are
// deliberately avoided so the algorithms here are the ones actually run.
//
// This is the single canonical home for gcd, extended gcd and modular
// inverse. Callers must not re-implement them.
package numtheory
