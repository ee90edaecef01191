// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"errors"
	"math/big"
	mathrand "math/rand/v2"
	"testing"
	"time"

	"github.com/toeirei/primeforge/internal/config"
	"github.com/toeirei/primeforge/internal/core/crypto/primes"
	"github.com/toeirei/primeforge/internal/core/crypto/textbook"
)

func seededEngine(seed byte, opts EngineOptions) *Engine {
	var s [32]byte
	s[0] = seed
	opts.Rand = mathrand.NewChaCha8(s)
	return NewEngine(opts)
}

func TestEngine_GenerateKeyPairRoundTrip(t *testing.T) {
	en := seededEngine(1, EngineOptions{Parallel: true})
	kp, err := en.GenerateKeyPair(context.Background(), 128, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	if kp.Bits() != 128 {
		t.Fatalf("Bits = %d, want 128", kp.Bits())
	}
	m := big.NewInt(123456789)
	c, err := Encrypt(m, kp.E(), kp.N())
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	back, err := Decrypt(c, kp.D(), kp.N())
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if back.Cmp(m) != 0 {
		t.Fatalf("round trip gave %s", back)
	}
}

func TestEngine_DeterministicWithSeed(t *testing.T) {
	a, err := seededEngine(7, EngineOptions{}).GenerateKeyPair(context.Background(), 64, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	b, err := seededEngine(7, EngineOptions{}).GenerateKeyPair(context.Background(), 64, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	if a.N().Cmp(b.N()) != 0 || a.D().Cmp(b.D()) != 0 {
		t.Fatalf("same seed produced different keys")
	}
}

func TestEngine_TimeoutStopsGeneration(t *testing.T) {
	en := seededEngine(2, EngineOptions{Timeout: time.Nanosecond})
	_, err := en.GenerateKeyPair(context.Background(), 2048, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
}

func TestEngine_RetryPolicy(t *testing.T) {
	// e = 3 is unusable for roughly three in four 8-bit prime pairs.
	noRetry := seededEngine(3, EngineOptions{MaxAttempts: 1})
	failures := 0
	for i := 0; i < 20; i++ {
		if _, err := noRetry.GenerateKeyPair(context.Background(), 8, big.NewInt(3)); err != nil {
			if !errors.Is(err, textbook.ErrNonCoprimeExponent) {
				t.Fatalf("unexpected error: %v", err)
			}
			failures++
		}
	}
	if failures == 0 {
		t.Fatalf("expected some non-coprime failures without retry")
	}

	withRetry := seededEngine(3, EngineOptions{MaxAttempts: 200})
	for i := 0; i < 20; i++ {
		if _, err := withRetry.GenerateKeyPairWithRetry(context.Background(), 8, big.NewInt(3)); err != nil {
			t.Fatalf("GenerateKeyPairWithRetry: %v", err)
		}
	}
}

func TestEngine_GeneratePrimeAndIsProbablePrime(t *testing.T) {
	en := seededEngine(4, EngineOptions{Rounds: 20})
	p, err := en.GeneratePrime(context.Background(), 96)
	if err != nil {
		t.Fatalf("GeneratePrime: %v", err)
	}
	if p.BitLen() != 96 {
		t.Fatalf("bit length %d, want 96", p.BitLen())
	}
	ok, err := en.IsProbablePrime(p)
	if err != nil || !ok {
		t.Fatalf("IsProbablePrime(p) = %v, %v", ok, err)
	}
	ok, err = en.IsProbablePrime(new(big.Int).Add(p, big.NewInt(2)).Mul(p, big.NewInt(3)))
	if err != nil || ok {
		t.Fatalf("composite reported prime: %v, %v", ok, err)
	}
	if _, err := en.GeneratePrime(context.Background(), 4); !errors.Is(err, primes.ErrBitLengthTooSmall) {
		t.Fatalf("expected ErrBitLengthTooSmall, got %v", err)
	}
}

func TestNewEngineFromConfig(t *testing.T) {
	en := NewEngineFromConfig(config.EngineConfig{Bits: 256, Exponent: 65537, Rounds: 12, Timeout: time.Minute, Parallel: true, MaxAttempts: 3})
	if en.Rounds() != 12 || en.Timeout != time.Minute || en.MaxAttempts != 3 || !en.Generator.Parallel {
		t.Fatalf("engine not configured from config: %+v", en)
	}
	if en.Builder.Generator != en.Generator {
		t.Fatalf("builder must share the engine's generator")
	}
	if NewEngine(EngineOptions{}).Rounds() != primes.DefaultRounds {
		t.Fatalf("zero rounds should mean the default")
	}
}

func TestPackageFacade(t *testing.T) {
	if !IsProbablePrime(big.NewInt(104729), 10) {
		t.Fatalf("104729 is prime")
	}
	if IsProbablePrime(big.NewInt(561), 10) {
		t.Fatalf("561 is a Carmichael number")
	}
	kp, err := GenerateKeyPair(context.Background(), 32, big.NewInt(65537))
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	if kp.E().Int64() != 65537 {
		t.Fatalf("unexpected exponent %s", kp.E())
	}
	if _, err := Encrypt(kp.N(), kp.E(), kp.N()); !errors.Is(err, textbook.ErrOutOfRangeMessage) {
		t.Fatalf("expected ErrOutOfRangeMessage, got %v", err)
	}
}
