// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/toeirei/primeforge/internal/core/crypto/textbook"
)

// TextbookVector is the classic worked example p=61, q=53, e=17, m=65.
type TextbookVector struct {
	P, Q, N, Phi, E, D *big.Int
	Message, Cipher    *big.Int
	Decrypted          *big.Int
}

// OK reports whether the vector decrypted back to its message.
func (v TextbookVector) OK() bool {
	return v.Decrypted != nil && v.Decrypted.Cmp(v.Message) == 0
}

// RunTextbookVector builds the worked example key and runs one round trip.
// The primes are public here, so the totient is reported for display.
func RunTextbookVector() (TextbookVector, error) {
	p, q, e := big.NewInt(61), big.NewInt(53), big.NewInt(17)
	kp, err := textbook.FromPrimes(p, q, e)
	if err != nil {
		return TextbookVector{}, err
	}
	one := big.NewInt(1)
	phi := new(big.Int).Mul(new(big.Int).Sub(p, one), new(big.Int).Sub(q, one))

	m := big.NewInt(65)
	c, err := kp.Encrypt(m)
	if err != nil {
		return TextbookVector{}, err
	}
	back, err := kp.Decrypt(c)
	if err != nil {
		return TextbookVector{}, err
	}
	return TextbookVector{P: p, Q: q, N: kp.N(), Phi: phi, E: kp.E(), D: kp.D(), Message: m, Cipher: c, Decrypted: back}, nil
}

// RoundTripReport summarizes RoundTripCheck.
type RoundTripReport struct {
	Samples  int
	Failures int
}

// RoundTripCheck encrypts and decrypts samples uniformly random messages in
// [0, n). rnd nil means crypto/rand.
func RoundTripCheck(kp *textbook.KeyPair, samples int, rnd io.Reader) (RoundTripReport, error) {
	if rnd == nil {
		rnd = rand.Reader
	}
	rep := RoundTripReport{Samples: samples}
	n := kp.N()
	for i := 0; i < samples; i++ {
		m, err := rand.Int(rnd, n)
		if err != nil {
			return rep, fmt.Errorf("draw message: %w", err)
		}
		c, err := kp.Encrypt(m)
		if err != nil {
			return rep, err
		}
		back, err := kp.Decrypt(c)
		if err != nil {
			return rep, err
		}
		if back.Cmp(m) != 0 {
			rep.Failures++
		}
	}
	return rep, nil
}
