// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package textbook

import (
	"fmt"
	"math/big"
)

// DefaultExponent is the conventional public exponent F4 = 2^16 + 1.
const DefaultExponent = 65537

// PublicKey is the public half of a KeyPair.
type PublicKey struct {
	N *big.Int
	E *big.Int
}

// KeyPair holds n = p*q and exponents e, d with e*d = 1 (mod (p-1)(q-1)).
// It is immutable; accessors return copies.
type KeyPair struct {
	n, e, d *big.Int
	bits    int
}

// NewKeyPair reassembles a KeyPair from stored components, for example a
// row loaded from the key store. bits is the per-prime size the key was
// generated with. Only structural checks are possible without the primes.
func NewKeyPair(n, e, d *big.Int, bits int) (*KeyPair, error) {
	if n == nil || e == nil || d == nil {
		return nil, fmt.Errorf("%w: missing component", ErrInvalidKey)
	}
	if n.Cmp(big.NewInt(6)) < 0 {
		return nil, fmt.Errorf("%w: modulus too small", ErrInvalidKey)
	}
	if err := validateExponent(e); err != nil {
		return nil, err
	}
	if d.Sign() <= 0 || d.Cmp(n) >= 0 {
		return nil, fmt.Errorf("%w: private exponent outside (0, n)", ErrInvalidKey)
	}
	return &KeyPair{
		n:    new(big.Int).Set(n),
		e:    new(big.Int).Set(e),
		d:    new(big.Int).Set(d),
		bits: bits,
	}, nil
}

// N returns a copy of the modulus.
func (k *KeyPair) N() *big.Int { return new(big.Int).Set(k.n) }

// E returns a copy of the public exponent.
func (k *KeyPair) E() *big.Int { return new(big.Int).Set(k.e) }

// D returns a copy of the private exponent.
func (k *KeyPair) D() *big.Int { return new(big.Int).Set(k.d) }

// Bits returns the per-prime bit length the key was built from.
func (k *KeyPair) Bits() int { return k.bits }

// ModulusBits returns the bit length of n.
func (k *KeyPair) ModulusBits() int { return k.n.BitLen() }

// Public returns the public half of the key.
func (k *KeyPair) Public() PublicKey {
	return PublicKey{N: k.N(), E: k.E()}
}

// Encrypt computes m^e mod n. See Encrypt.
func (k *KeyPair) Encrypt(m *big.Int) (*big.Int, error) {
	return Encrypt(m, k.e, k.n)
}

// Decrypt computes c^d mod n. See Decrypt.
func (k *KeyPair) Decrypt(c *big.Int) (*big.Int, error) {
	return Decrypt(c, k.d, k.n)
}

// String deliberately omits d.
func (k *KeyPair) String() string {
	return fmt.Sprintf("KeyPair{bits=%d, n=%d bits, e=%s}", k.bits, k.n.BitLen(), k.e)
}

func validateExponent(e *big.Int) error {
	if e.Cmp(big.NewInt(3)) < 0 || e.Bit(0) == 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidExponent, e)
	}
	return nil
}

// wipe zeroes the words backing each value and resets it to 0.
func wipe(values ...*big.Int) {
	for _, v := range values {
		if v == nil {
			continue
		}
		words := v.Bits()
		for i := range words {
			words[i] = 0
		}
		v.SetInt64(0)
	}
}
