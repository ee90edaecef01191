// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

// Package security holds small helpers for handling secret input such as a
// private exponent typed at a prompt.
package security

import "strings"

const redacted = "[SECRET]"

// Secret is a byte buffer that never prints its content. Call Zero once the
// value has been consumed.
type Secret []byte

// FromString copies s into a new Secret.
func FromString(s string) Secret {
	return Secret([]byte(s))
}

// FromBytes takes ownership of b.
func FromBytes(b []byte) Secret {
	return Secret(b)
}

// Bytes returns the underlying buffer without copying.
func (s Secret) Bytes() []byte { return s }

// Trimmed returns the content without surrounding whitespace as a string.
// The string is a copy and cannot be zeroed.
func (s Secret) Trimmed() string {
	return strings.TrimSpace(string(s))
}

// String implements fmt.Stringer.
func (s Secret) String() string { return redacted }

// GoString implements fmt.GoStringer so %#v is redacted too.
func (s Secret) GoString() string { return redacted }

// MarshalJSON emits the redaction marker instead of the content.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}

// Zero overwrites the buffer.
func (s *Secret) Zero() {
	if s == nil {
		return
	}
	for i := range *s {
		(*s)[i] = 0
	}
}
