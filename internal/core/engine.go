// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/toeirei/primeforge/internal/config"
	"github.com/toeirei/primeforge/internal/core/crypto/primes"
	"github.com/toeirei/primeforge/internal/core/crypto/textbook"
	"github.com/toeirei/primeforge/internal/logging"
)

// EngineOptions configures NewEngine. Zero values select the defaults of
// the underlying packages.
type EngineOptions struct {
	Rand        io.Reader     // nil: crypto/rand
	Rounds      int           // <= 0: primes.DefaultRounds
	Parallel    bool          // draw the two primes concurrently
	Timeout     time.Duration // 0: no deadline on key generation
	MaxAttempts int           // < 1: 1
}

// Engine bundles a configured prime generator and key builder with the
// retry and deadline policy for key generation.
type Engine struct {
	Generator   *primes.Generator
	Builder     *textbook.Builder
	Timeout     time.Duration
	MaxAttempts int
}

// NewEngine returns an Engine for opts.
func NewEngine(opts EngineOptions) *Engine {
	gen := &primes.Generator{Rand: opts.Rand, Rounds: opts.Rounds, Parallel: opts.Parallel}
	attempts := opts.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &Engine{
		Generator:   gen,
		Builder:     &textbook.Builder{Generator: gen},
		Timeout:     opts.Timeout,
		MaxAttempts: attempts,
	}
}

// NewEngineFromConfig returns an Engine for the engine section of the config.
func NewEngineFromConfig(c config.EngineConfig) *Engine {
	return NewEngine(EngineOptions{
		Rounds:      c.Rounds,
		Parallel:    c.Parallel,
		Timeout:     c.Timeout,
		MaxAttempts: c.MaxAttempts,
	})
}

var defaultEngine = NewEngine(EngineOptions{})

func (en *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if en.Timeout > 0 {
		return context.WithTimeout(ctx, en.Timeout)
	}
	return context.WithCancel(ctx)
}

// Rounds returns the Miller-Rabin round count the engine tests with.
func (en *Engine) Rounds() int {
	if en.Generator == nil || en.Generator.Rounds <= 0 {
		return primes.DefaultRounds
	}
	return en.Generator.Rounds
}

// GenerateKeyPair builds a key pair from two bits-bit primes. A nil e
// selects textbook.DefaultExponent. ErrNonCoprimeExponent is returned as is;
// see GenerateKeyPairWithRetry.
func (en *Engine) GenerateKeyPair(ctx context.Context, bits int, e *big.Int) (*textbook.KeyPair, error) {
	ctx, cancel := en.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	kp, err := en.Builder.Build(ctx, bits, e)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	logging.Debugf("engine: %d-bit modulus generated in %s", kp.ModulusBits(), time.Since(start))
	return kp, nil
}

// GenerateKeyPairWithRetry is GenerateKeyPair with up to MaxAttempts fresh
// prime pairs when e is not coprime to the totient. The timeout covers all
// attempts together.
func (en *Engine) GenerateKeyPairWithRetry(ctx context.Context, bits int, e *big.Int) (*textbook.KeyPair, error) {
	ctx, cancel := en.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	kp, err := en.Builder.BuildWithRetry(ctx, bits, e, en.MaxAttempts)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	logging.Debugf("engine: %d-bit modulus generated in %s", kp.ModulusBits(), time.Since(start))
	return kp, nil
}

// GeneratePrime returns one bits-bit probable prime under the engine's
// deadline.
func (en *Engine) GeneratePrime(ctx context.Context, bits int) (*big.Int, error) {
	ctx, cancel := en.withTimeout(ctx)
	defer cancel()
	p, err := en.Generator.GeneratePrime(ctx, bits)
	if err != nil {
		return nil, fmt.Errorf("generate prime: %w", err)
	}
	return p, nil
}

// IsProbablePrime tests n with the engine's round count and randomness.
func (en *Engine) IsProbablePrime(n *big.Int) (bool, error) {
	if en.Generator != nil && en.Generator.Rand != nil {
		return primes.IsProbablePrimeWithReader(n, en.Rounds(), en.Generator.Rand)
	}
	return primes.IsProbablePrime(n, en.Rounds()), nil
}

// GenerateKeyPair generates a key pair with the default engine
// (crypto/rand, 40 rounds, no deadline, no retry).
func GenerateKeyPair(ctx context.Context, bits int, e *big.Int) (*textbook.KeyPair, error) {
	return defaultEngine.GenerateKeyPair(ctx, bits, e)
}

// Encrypt computes m^e mod n for m in [0, n).
func Encrypt(m, e, n *big.Int) (*big.Int, error) {
	return textbook.Encrypt(m, e, n)
}

// Decrypt computes c^d mod n for c in [0, n).
func Decrypt(c, d, n *big.Int) (*big.Int, error) {
	return textbook.Decrypt(c, d, n)
}

// IsProbablePrime runs rounds Miller-Rabin rounds on n with crypto/rand.
func IsProbablePrime(n *big.Int, rounds int) bool {
	return primes.IsProbablePrime(n, rounds)
}
