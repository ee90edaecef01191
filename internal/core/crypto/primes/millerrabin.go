// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package primes

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/toeirei/primeforge/internal/core/numtheory"
)

// DefaultRounds is the number of Miller-Rabin rounds used when the caller
// passes a non-positive round count.
const DefaultRounds = 40

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
	four  = big.NewInt(4)
	five  = big.NewInt(5)
)

// SingleRound runs one Miller-Rabin round for odd n >= 5, where d is the odd
// part of n-1 (n-1 = d*2^r).
//
// A witness a is drawn uniformly from [2, n-2] and x = a^d mod n. The round
// passes if x is 1 or n-1. Otherwise x is squared up to r-1 times: reaching
// n-1 passes, reaching 1 first proves n composite, and running out of
// squarings also proves n composite. Any other d yields ErrInvalidOddPart.
func SingleRound(d, n *big.Int, rnd io.Reader) (bool, error) {
	if n.Cmp(five) < 0 || n.Bit(0) == 0 {
		return false, ErrDegenerateWitnessRange
	}
	nMinus1 := new(big.Int).Sub(n, one)
	if d == nil || d.Sign() <= 0 || oddPart(nMinus1).Cmp(d) != 0 {
		return false, ErrInvalidOddPart
	}
	if rnd == nil {
		rnd = rand.Reader
	}

	a, err := randomWitness(n, rnd)
	if err != nil {
		return false, err
	}
	x, err := numtheory.PowMod(a, d, n)
	if err != nil {
		return false, err
	}

	if x.Cmp(one) == 0 || x.Cmp(nMinus1) == 0 {
		return true, nil
	}

	// exp tracks the exponent of a in x. Doubling it up to n-1 itself would
	// only test Fermat's condition, which cannot yield n-1 for a prime.
	exp := new(big.Int).Set(d)
	for {
		exp.Lsh(exp, 1)
		if exp.Cmp(nMinus1) >= 0 {
			return false, nil
		}
		x.Mul(x, x)
		x.Mod(x, n)
		if x.Cmp(nMinus1) == 0 {
			return true, nil
		}
		if x.Cmp(one) == 0 {
			return false, nil
		}
	}
}

// oddPart returns m with its trailing zero bits shifted out.
func oddPart(m *big.Int) *big.Int {
	return new(big.Int).Rsh(m, m.TrailingZeroBits())
}

// randomWitness returns a uniform integer in [2, n-2].
func randomWitness(n *big.Int, rnd io.Reader) (*big.Int, error) {
	span := new(big.Int).Sub(n, three) // size of [2, n-2]
	a, err := rand.Int(rnd, span)
	if err != nil {
		return nil, fmt.Errorf("draw witness: %w", err)
	}
	return a.Add(a, two), nil
}

// IsProbablePrime reports whether n passes rounds Miller-Rabin rounds using
// crypto/rand for witnesses. rounds <= 0 selects DefaultRounds.
//
// crypto/rand does not fail on supported platforms, so a read error here is
// treated as a broken invariant and panics.
func IsProbablePrime(n *big.Int, rounds int) bool {
	ok, err := IsProbablePrimeWithReader(n, rounds, rand.Reader)
	if err != nil {
		panic(fmt.Sprintf("primes: crypto/rand failed: %v", err))
	}
	return ok
}

// IsProbablePrimeWithReader is IsProbablePrime with an explicit randomness
// source. Errors come only from the reader.
func IsProbablePrimeWithReader(n *big.Int, rounds int, rnd io.Reader) (bool, error) {
	switch {
	case n.Cmp(one) <= 0, n.Cmp(four) == 0:
		return false, nil
	case n.Cmp(three) <= 0:
		return true, nil
	case n.Bit(0) == 0:
		return false, nil
	}
	if rounds <= 0 {
		rounds = DefaultRounds
	}

	d := oddPart(new(big.Int).Sub(n, one))

	for i := 0; i < rounds; i++ {
		ok, err := SingleRound(d, n, rnd)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
