// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"

	clog "github.com/charmbracelet/log"
)

// withBufferLogger swaps L for a buffer-backed logger and restores it after fn.
func withBufferLogger(t *testing.T, fn func(buf *bytes.Buffer)) {
	t.Helper()
	var buf bytes.Buffer
	prev := L
	L = clog.New(&buf)
	defer func() { L = prev }()
	fn(&buf)
}

func TestLoggingHelpers_WriteToBuffer(t *testing.T) {
	withBufferLogger(t, func(buf *bytes.Buffer) {
		L.SetLevel(clog.DebugLevel)

		Debugf("hello %s", "dbg")
		Infof("info %d", 1)
		Warnf("warn")
		Errorf("err %v", "E")

		out := buf.String()
		for _, want := range []string{"hello dbg", "info 1", "warn", "err E"} {
			if !strings.Contains(out, want) {
				t.Fatalf("missing %q in output; got: %s", want, out)
			}
		}
	})
}

func TestSetDebug_TogglesDebugOutput(t *testing.T) {
	withBufferLogger(t, func(buf *bytes.Buffer) {
		SetDebug(false)
		Debugf("hidden %d", 1)
		if strings.Contains(buf.String(), "hidden 1") {
			t.Fatalf("debug output emitted while debug disabled: %s", buf.String())
		}

		SetDebug(true)
		Debugf("shown %d", 2)
		if !strings.Contains(buf.String(), "shown 2") {
			t.Fatalf("debug output missing after SetDebug(true): %s", buf.String())
		}
	})
}

func TestDefaultLogger_SetOutput(t *testing.T) {
	if L == nil {
		t.Fatalf("package logger is nil")
	}
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	Warnf("redirected %d", 3)
	if !strings.Contains(buf.String(), "redirected 3") {
		t.Fatalf("SetOutput did not redirect the package logger: %q", buf.String())
	}
}
