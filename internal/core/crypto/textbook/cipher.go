// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package textbook

import (
	"fmt"
	"math/big"

	"github.com/toeirei/primeforge/internal/core/numtheory"
)

// Encrypt returns c = m^e mod n. m must lie in [0, n); there is no padding,
// so the caller keeps plaintext integers inside that range.
func Encrypt(m, e, n *big.Int) (*big.Int, error) {
	if err := checkRange(m, n); err != nil {
		return nil, err
	}
	return numtheory.PowMod(m, e, n)
}

// Decrypt returns m = c^d mod n. c must lie in [0, n).
func Decrypt(c, d, n *big.Int) (*big.Int, error) {
	if err := checkRange(c, n); err != nil {
		return nil, err
	}
	return numtheory.PowMod(c, d, n)
}

func checkRange(v, n *big.Int) error {
	if n == nil || n.Sign() <= 0 {
		return numtheory.ErrInvalidModulus
	}
	if v == nil || v.Sign() < 0 || v.Cmp(n) >= 0 {
		return fmt.Errorf("%w: modulus has %d bits", ErrOutOfRangeMessage, n.BitLen())
	}
	return nil
}

// EncryptText encodes msg as a big-endian integer and encrypts it. Messages
// whose integer value does not fit below n fail with ErrOutOfRangeMessage.
func EncryptText(msg string, pub PublicKey) (*big.Int, error) {
	m := new(big.Int).SetBytes([]byte(msg))
	return Encrypt(m, pub.E, pub.N)
}

// DecryptText reverses EncryptText. Leading NUL bytes of the original
// message are not recoverable.
func DecryptText(c *big.Int, kp *KeyPair) (string, error) {
	m, err := kp.Decrypt(c)
	if err != nil {
		return "", err
	}
	return string(m.Bytes()), nil
}
