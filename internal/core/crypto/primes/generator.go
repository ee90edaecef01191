// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package primes

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"sync"
	"time"

	"github.com/toeirei/primeforge/internal/logging"
	"golang.org/x/sync/errgroup"
)

// MinPrimeBits is the smallest prime size Generator accepts. Below it the
// candidate space is tiny and the witness range of small candidates
// collapses.
const MinPrimeBits = 8

// Generator draws random primes of an exact bit length.
//
// The zero value is ready to use: crypto/rand, DefaultRounds, sequential
// pair generation.
type Generator struct {
	// Rand is the randomness source for candidates and witnesses.
	// nil means crypto/rand.Reader.
	Rand io.Reader
	// Rounds is the Miller-Rabin round count; <= 0 means DefaultRounds.
	Rounds int
	// Parallel runs the two draws of GenerateDistinctPair concurrently.
	Parallel bool
}

func (g *Generator) reader() io.Reader {
	if g == nil || g.Rand == nil {
		return rand.Reader
	}
	return g.Rand
}

func (g *Generator) rounds() int {
	if g == nil || g.Rounds <= 0 {
		return DefaultRounds
	}
	return g.Rounds
}

// GeneratePrime returns a probable prime of exactly bits bits.
//
// Each candidate has its top bit set (fixing the length) and its bottom bit
// set (forcing oddness) before it is tested. The search has no attempt cap;
// it ends on success, on a randomness error, or when ctx is done.
func (g *Generator) GeneratePrime(ctx context.Context, bits int) (*big.Int, error) {
	return g.generatePrime(ctx, bits, g.reader())
}

func (g *Generator) generatePrime(ctx context.Context, bits int, rnd io.Reader) (*big.Int, error) {
	if bits < MinPrimeBits {
		return nil, fmt.Errorf("%w: %d < %d", ErrBitLengthTooSmall, bits, MinPrimeBits)
	}
	rounds := g.rounds()
	start := time.Now()

	buf := make([]byte, (bits+7)/8)
	excess := uint(len(buf)*8 - bits)
	candidate := new(big.Int)

	for attempts := 1; ; attempts++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("prime search stopped after %d candidates: %w", attempts-1, err)
		}
		if _, err := io.ReadFull(rnd, buf); err != nil {
			return nil, fmt.Errorf("read candidate: %w", err)
		}
		buf[0] &= 0xFF >> excess

		candidate.SetBytes(buf)
		candidate.SetBit(candidate, bits-1, 1)
		candidate.SetBit(candidate, 0, 1)

		ok, err := IsProbablePrimeWithReader(candidate, rounds, rnd)
		if err != nil {
			return nil, err
		}
		if ok {
			logging.Debugf("primes: %d-bit prime after %d candidates in %s", bits, attempts, time.Since(start))
			return new(big.Int).Set(candidate), nil
		}
	}
}

// GenerateDistinctPair returns two probable primes of bits bits with p != q.
// The second prime is redrawn for as long as it equals the first.
func (g *Generator) GenerateDistinctPair(ctx context.Context, bits int) (p, q *big.Int, err error) {
	if g != nil && g.Parallel {
		p, q, err = g.generateConcurrently(ctx, bits)
	} else {
		p, err = g.GeneratePrime(ctx, bits)
		if err == nil {
			q, err = g.GeneratePrime(ctx, bits)
		}
	}
	if err != nil {
		return nil, nil, err
	}

	for p.Cmp(q) == 0 {
		logging.Debugf("primes: second %d-bit prime equals the first, redrawing", bits)
		if q, err = g.GeneratePrime(ctx, bits); err != nil {
			return nil, nil, err
		}
	}
	return p, q, nil
}

// generateConcurrently draws both primes at once. The draws share no data,
// so the order in which they finish does not affect the result.
func (g *Generator) generateConcurrently(ctx context.Context, bits int) (*big.Int, *big.Int, error) {
	// A caller-supplied reader is not necessarily safe for concurrent use.
	rnd := g.reader()
	if g.Rand != nil {
		rnd = &lockedReader{r: g.Rand}
	}

	var out [2]*big.Int
	eg, egCtx := errgroup.WithContext(ctx)
	for i := range out {
		eg.Go(func() error {
			prime, err := g.generatePrime(egCtx, bits, rnd)
			if err != nil {
				return err
			}
			out[i] = prime
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	return out[0], out[1], nil
}

type lockedReader struct {
	mu sync.Mutex
	r  io.Reader
}

func (l *lockedReader) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Read(p)
}
