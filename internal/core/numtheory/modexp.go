// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package numtheory

import "math/big"

var one = big.NewInt(1)

// PowMod returns base^exponent mod modulus in the range [0, modulus).
//
// The exponent is consumed one bit at a time starting from the least
// significant bit: the accumulator is multiplied by the current power of the
// base whenever the bit is set, and the power is squared after every bit.
// This costs O(log exponent) modular multiplications. Negative bases are
// reduced into range first.
func PowMod(base, exponent, modulus *big.Int) (*big.Int, error) {
	if modulus == nil || modulus.Sign() <= 0 {
		return nil, ErrInvalidModulus
	}
	if exponent.Sign() < 0 {
		return nil, ErrNegativeExponent
	}

	// modulus 1 collapses everything to 0, including the empty product.
	result := new(big.Int).Mod(one, modulus)
	// big.Int.Mod is Euclidean, so power is non-negative even for base < 0.
	power := new(big.Int).Mod(base, modulus)

	for i := 0; i < exponent.BitLen(); i++ {
		if exponent.Bit(i) == 1 {
			result.Mul(result, power)
			result.Mod(result, modulus)
		}
		power.Mul(power, power)
		power.Mod(power, modulus)
	}
	return result, nil
}
