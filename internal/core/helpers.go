// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ErrInvalidInteger is returned by ParseInteger.
var ErrInvalidInteger = errors.New("invalid integer")

// ContainsIgnoreCase reports whether substr is within s, case-insensitive.
func ContainsIgnoreCase(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ParseInteger parses a decimal integer, or a hexadecimal one with a 0x
// prefix. Surrounding whitespace and underscores between digits are allowed.
func ParseInteger(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidInteger)
	}
	// Only an explicit 0x selects base 0; "010" stays decimal.
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 0
	}
	n, ok := new(big.Int).SetString(strings.ReplaceAll(s, "_", ""), base)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidInteger, s)
	}
	return n, nil
}
