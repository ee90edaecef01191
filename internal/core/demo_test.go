// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	mathrand "math/rand/v2"
	"testing"
)

func TestRunTextbookVector(t *testing.T) {
	v, err := RunTextbookVector()
	if err != nil {
		t.Fatalf("RunTextbookVector: %v", err)
	}
	checks := []struct {
		name string
		got  int64
		want int64
	}{
		{"n", v.N.Int64(), 3233},
		{"phi", v.Phi.Int64(), 3120},
		{"d", v.D.Int64(), 2753},
		{"cipher", v.Cipher.Int64(), 2790},
		{"decrypted", v.Decrypted.Int64(), 65},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Fatalf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}
	if !v.OK() {
		t.Fatalf("vector should report OK")
	}
}

func TestRoundTripCheck(t *testing.T) {
	en := seededEngine(9, EngineOptions{})
	kp, err := en.GenerateKeyPair(context.Background(), 64, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	rep, err := RoundTripCheck(kp, 50, mathrand.NewChaCha8([32]byte{1}))
	if err != nil {
		t.Fatalf("RoundTripCheck: %v", err)
	}
	if rep.Samples != 50 || rep.Failures != 0 {
		t.Fatalf("unexpected report: %+v", rep)
	}
}
