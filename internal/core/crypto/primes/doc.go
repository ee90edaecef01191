// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

// Package primes implements the Miller-Rabin probable-prime test and a
// generator for random primes of an exact bit length.
//
// A number that passes r independent Miller-Rabin rounds is composite with
// probability at most 4^-r. DefaultRounds (40) is the usual cryptographic
// bound. The test never rejects a real prime.
//
// Randomness is read from an io.Reader so tests can inject a deterministic
// source; a nil reader means crypto/rand.
package primes
