// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

// Package textbook builds RSA key pairs from generated primes and performs
// textbook RSA encryption and decryption.
//
// SECURITY WARNING: textbook RSA is unpadded, deterministic and malleable.
// Equal messages encrypt to equal ciphertexts and ciphertexts can be
// multiplied to produce valid encryptions of products. It exists to show
// that the key arithmetic is correct and must not protect real data.
//
// A KeyPair keeps only the modulus and the two exponents. The primes and
// the totient are dropped (and their words zeroed) as soon as the private
// exponent has been derived.
package textbook
