// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package textbook

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/toeirei/primeforge/internal/core/crypto/primes"
	"github.com/toeirei/primeforge/internal/core/numtheory"
	"github.com/toeirei/primeforge/internal/logging"
)

var one = big.NewInt(1)

// Builder turns pairs of generated primes into key pairs.
type Builder struct {
	// Generator supplies the primes. nil uses a zero-value primes.Generator.
	Generator *primes.Generator
}

// Build generates a key pair from two distinct bits-bit primes and public
// exponent e (nil selects DefaultExponent).
//
// If gcd(e, (p-1)(q-1)) != 1 Build returns ErrNonCoprimeExponent and does
// not draw new primes; use BuildWithRetry for an explicit retry policy.
func (b *Builder) Build(ctx context.Context, bits int, e *big.Int) (*KeyPair, error) {
	if e == nil {
		e = big.NewInt(DefaultExponent)
	}
	if err := validateExponent(e); err != nil {
		return nil, err
	}

	gen := b.Generator
	if gen == nil {
		gen = &primes.Generator{}
	}
	p, q, err := gen.GenerateDistinctPair(ctx, bits)
	if err != nil {
		return nil, fmt.Errorf("generate primes: %w", err)
	}
	defer wipe(p, q)

	return assemble(p, q, e, bits)
}

// BuildWithRetry calls Build up to maxAttempts times, drawing fresh primes
// only after ErrNonCoprimeExponent. Each retry is logged. Any other error
// ends the loop immediately.
func (b *Builder) BuildWithRetry(ctx context.Context, bits int, e *big.Int, maxAttempts int) (*KeyPair, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		kp, err := b.Build(ctx, bits, e)
		if err == nil {
			return kp, nil
		}
		if !errors.Is(err, ErrNonCoprimeExponent) {
			return nil, err
		}
		lastErr = err
		logging.Warnf("keygen attempt %d/%d: public exponent shares a factor with the totient, regenerating primes", attempt, maxAttempts)
	}
	return nil, fmt.Errorf("no usable prime pair after %d attempts: %w", maxAttempts, lastErr)
}

// FromPrimes builds a key pair from caller-supplied primes. It is
// deterministic and mainly serves known-answer checks. The arguments are
// not modified.
func FromPrimes(p, q, e *big.Int) (*KeyPair, error) {
	if e == nil {
		e = big.NewInt(DefaultExponent)
	}
	if err := validateExponent(e); err != nil {
		return nil, err
	}
	if p.Cmp(q) == 0 {
		return nil, ErrEqualPrimes
	}
	for _, f := range []*big.Int{p, q} {
		if !primes.IsProbablePrime(f, primes.DefaultRounds) {
			return nil, fmt.Errorf("%w: %s", ErrNotPrime, f)
		}
	}

	pc, qc := new(big.Int).Set(p), new(big.Int).Set(q)
	defer wipe(pc, qc)
	bits := pc.BitLen()
	if qc.BitLen() > bits {
		bits = qc.BitLen()
	}
	return assemble(pc, qc, e, bits)
}

// assemble derives n and d from distinct primes p, q. The totient is wiped
// before returning.
func assemble(p, q, e *big.Int, bits int) (*KeyPair, error) {
	n := new(big.Int).Mul(p, q)

	pm1 := new(big.Int).Sub(p, one)
	qm1 := new(big.Int).Sub(q, one)
	phi := new(big.Int).Mul(pm1, qm1)
	defer wipe(pm1, qm1, phi)

	if !numtheory.Coprime(e, phi) {
		return nil, fmt.Errorf("%w: e=%s", ErrNonCoprimeExponent, e)
	}
	d, err := numtheory.ModInverse(e, phi)
	if err != nil {
		return nil, err
	}

	return &KeyPair{n: n, e: new(big.Int).Set(e), d: d, bits: bits}, nil
}
