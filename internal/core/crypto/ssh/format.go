// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

// package ssh encodes the public half of a Primeforge key in OpenSSH
// authorized_keys format.
package ssh // import "github.com/toeirei/primeforge/internal/core/crypto/ssh"

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/toeirei/primeforge/internal/core/crypto/textbook"
	"golang.org/x/crypto/ssh"
)

var (
	// ErrExponentTooLarge is returned when e does not fit the wire format.
	ErrExponentTooLarge = errors.New("ssh: public exponent too large for ssh-rsa")
	// ErrNotRSAKey is returned when a parsed key is not ssh-rsa.
	ErrNotRSAKey = errors.New("ssh: not an ssh-rsa key")
)

const maxExponentBits = 24

func toSSH(pub textbook.PublicKey) (ssh.PublicKey, error) {
	if pub.N == nil || pub.E == nil || pub.N.Sign() <= 0 {
		return nil, fmt.Errorf("ssh: incomplete public key")
	}
	// ssh-rsa parsers refuse exponents wider than 24 bits.
	if pub.E.BitLen() > maxExponentBits {
		return nil, ErrExponentTooLarge
	}
	// crypto/rsa.PublicKey only carries (N, E) to the ssh encoder.
	key := &rsa.PublicKey{N: new(big.Int).Set(pub.N), E: int(pub.E.Int64())}
	return ssh.NewPublicKey(key)
}

// MarshalAuthorizedKey returns "ssh-rsa <base64> comment" for pub. An empty
// comment yields the bare two-field form.
func MarshalAuthorizedKey(pub textbook.PublicKey, comment string) (string, error) {
	sshPub, err := toSSH(pub)
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(sshPub)))
	if comment != "" {
		line += " " + comment
	}
	return line, nil
}

// FingerprintSHA256 returns the OpenSSH SHA256 fingerprint of pub.
func FingerprintSHA256(pub textbook.PublicKey) (string, error) {
	sshPub, err := toSSH(pub)
	if err != nil {
		return "", err
	}
	return ssh.FingerprintSHA256(sshPub), nil
}

// ParseAuthorizedKey reads one ssh-rsa authorized_keys line back into a
// public key and its comment.
func ParseAuthorizedKey(line string) (textbook.PublicKey, string, error) {
	parsed, comment, _, _, err := ssh.ParseAuthorizedKey([]byte(line))
	if err != nil {
		return textbook.PublicKey{}, "", fmt.Errorf("parse authorized key: %w", err)
	}
	if parsed.Type() != ssh.KeyAlgoRSA {
		return textbook.PublicKey{}, "", fmt.Errorf("%w: %s", ErrNotRSAKey, parsed.Type())
	}
	cpk, ok := parsed.(ssh.CryptoPublicKey)
	if !ok {
		return textbook.PublicKey{}, "", ErrNotRSAKey
	}
	rsaPub, ok := cpk.CryptoPublicKey().(*rsa.PublicKey)
	if !ok {
		return textbook.PublicKey{}, "", ErrNotRSAKey
	}
	return textbook.PublicKey{N: new(big.Int).Set(rsaPub.N), E: big.NewInt(int64(rsaPub.E))}, comment, nil
}
