// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package i18n

import (
	"sort"
	"testing"
)

func TestInitAndLanguages(t *testing.T) {
	Init("en")
	if Lang() != "en" {
		t.Fatalf("expected lang 'en', got %q", Lang())
	}
	langs := Languages()
	sort.Strings(langs)
	if len(langs) != 2 || langs[0] != "de" || langs[1] != "en" {
		t.Fatalf("unexpected languages: %v", langs)
	}
}

func TestT_BasicAndFormatting(t *testing.T) {
	Init("en")
	if got := T("keys.none"); got != "No keys stored." {
		t.Fatalf("unexpected translation: %q", got)
	}
	if got := T("keygen.saved", "demo"); got != "Key pair stored as 'demo'." {
		t.Fatalf("unexpected formatted translation: %q", got)
	}

	Init("de")
	t.Cleanup(func() { Init("en") })
	if Lang() != "de" {
		t.Fatalf("expected lang 'de', got %q", Lang())
	}
	if got := T("keys.none"); got != "Keine Schlüssel gespeichert." {
		t.Fatalf("expected German translation, got %q", got)
	}
}

func TestT_Fallbacks(t *testing.T) {
	Init("fr")
	t.Cleanup(func() { Init("en") })
	if got := T("restore.cli_success"); got != "Restore completed." {
		t.Fatalf("unknown language should fall back to English, got %q", got)
	}
	if got := T("no.such.message"); got != "no.such.message" {
		t.Fatalf("unknown ID should be returned unchanged, got %q", got)
	}
}
