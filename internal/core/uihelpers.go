// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"strconv"
	"strings"
)

// Pad returns the input string right-padded with spaces to reach width.
// If the string is already equal or longer, it is returned unchanged.
func Pad(s string, width int) string {
	if width <= 0 || len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// FormatLabelPadding formats a label/value pair so the label is left-aligned
// within labelWidth characters and the value follows immediately.
func FormatLabelPadding(label, value string, labelWidth int) string {
	return Pad(label, labelWidth) + " " + value
}

// Abbreviate shortens long digit strings to "head...tail (N digits)" so
// multi-hundred-digit integers fit on one table row. Strings up to max
// characters are returned unchanged.
func Abbreviate(s string, max int) string {
	if max < 8 || len(s) <= max {
		return s
	}
	keep := (max - 3) / 2
	return s[:keep] + "..." + s[len(s)-keep:] + " (" + strconv.Itoa(len(s)) + " digits)"
}
