// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/toeirei/primeforge/internal/logging"
	"github.com/toeirei/primeforge/internal/model"
)

func populatedStore(t *testing.T, labels ...string) *fakeStore {
	t.Helper()
	st := newFakeStore()
	for _, l := range labels {
		if _, err := StoreKeyPair(st, l, textbookKey(t)); err != nil {
			t.Fatalf("StoreKeyPair(%q): %v", l, err)
		}
	}
	_ = st.LogAction("SAVE_KEY", "seed")
	return st
}

func TestWriteReadBackup_RoundTrip(t *testing.T) {
	st := populatedStore(t, "a", "b")
	data, err := ExportBackup(context.Background(), st)
	if err != nil {
		t.Fatalf("ExportBackup: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteBackup(context.Background(), data, &buf); err != nil {
		t.Fatalf("WriteBackup: %v", err)
	}
	got, err := ReadBackup(&buf)
	if err != nil {
		t.Fatalf("ReadBackup: %v", err)
	}
	if len(got.Keys) != 2 || got.Keys[0].Label != "a" || got.Keys[1].D != "2753" {
		t.Fatalf("unexpected keys: %+v", got.Keys)
	}
	if len(got.AuditLogEntries) != 1 {
		t.Fatalf("unexpected audit entries: %+v", got.AuditLogEntries)
	}
}

func TestReadBackup_Rejects(t *testing.T) {
	if _, err := ReadBackup(bytes.NewReader([]byte("not zstd at all"))); err == nil {
		t.Fatalf("expected error for garbage input")
	}

	var buf bytes.Buffer
	if err := WriteBackup(context.Background(), &model.BackupData{SchemaVersion: 2}, &buf); err != nil {
		t.Fatalf("WriteBackup: %v", err)
	}
	if _, err := ReadBackup(&buf); err == nil {
		t.Fatalf("expected error for unknown schema version")
	}
}

func TestWriteBackup_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	if err := WriteBackup(ctx, &model.BackupData{SchemaVersion: 1}, &buf); err == nil {
		t.Fatalf("expected context error")
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing should be written after cancellation")
	}
}

func backupOf(t *testing.T, st *fakeStore) *bytes.Buffer {
	t.Helper()
	data, err := ExportBackup(context.Background(), st)
	if err != nil {
		t.Fatalf("ExportBackup: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteBackup(context.Background(), data, &buf); err != nil {
		t.Fatalf("WriteBackup: %v", err)
	}
	return &buf
}

func TestRestore_FullVsIntegrate(t *testing.T) {
	src := populatedStore(t, "a", "b")

	full := populatedStore(t, "stale")
	if err := Restore(context.Background(), backupOf(t, src), RestoreOptions{Full: true}, full); err != nil {
		t.Fatalf("full Restore: %v", err)
	}
	if full.imported == nil || full.integrated != nil {
		t.Fatalf("full restore should import, not integrate")
	}
	if _, ok := full.keys["stale"]; ok {
		t.Fatalf("full restore should drop existing keys")
	}
	if full.lastAction() != "RESTORE_FULL" {
		t.Fatalf("expected RESTORE_FULL audit entry, got %q", full.lastAction())
	}

	merge := populatedStore(t, "b", "c")
	if err := Restore(context.Background(), backupOf(t, src), RestoreOptions{}, merge); err != nil {
		t.Fatalf("integrate Restore: %v", err)
	}
	if merge.integrated == nil || merge.imported != nil {
		t.Fatalf("default restore should integrate")
	}
	if len(merge.keys) != 3 {
		t.Fatalf("expected a, b, c after integrate, got %v", merge.keys)
	}
}

func TestMigrate(t *testing.T) {
	src := populatedStore(t, "x", "y")
	dst := populatedStore(t, "old")
	if err := Migrate(context.Background(), src, dst); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if len(dst.keys) != 2 {
		t.Fatalf("expected 2 keys in target, got %v", dst.keys)
	}
	if dst.lastAction() != "MIGRATE" {
		t.Fatalf("expected MIGRATE audit entry, got %q", dst.lastAction())
	}
}

func TestAuditFailuresAreLoggedNotFatal(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf)
	defer logging.SetOutput(os.Stderr)

	src := populatedStore(t, "x")
	dst := populatedStore(t)
	dst.logErr = errors.New("audit table gone")
	if err := Migrate(context.Background(), src, dst); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	full := populatedStore(t)
	full.logErr = errors.New("audit table gone")
	if err := Restore(context.Background(), backupOf(t, src), RestoreOptions{Full: true}, full); err != nil {
		t.Fatalf("full Restore: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"migrate: audit entry not written", "restore: audit entry not written", "audit table gone"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in log output: %q", want, out)
		}
	}
}
