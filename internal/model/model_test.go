// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"strings"
	"testing"
)

func TestStoredKeyString(t *testing.T) {
	k := StoredKey{Label: "demo", Bits: 512, N: "3233", E: "65537", D: "2753"}
	got := k.String()
	if got != "demo (512-bit primes, e=65537)" {
		t.Errorf("unexpected StoredKey.String(): %q", got)
	}
	if strings.Contains(got, k.D) {
		t.Errorf("StoredKey.String() leaks the private exponent: %q", got)
	}
}
