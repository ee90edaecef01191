// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/toeirei/primeforge/internal/logging"
	"github.com/toeirei/primeforge/internal/model"
)

// RestoreOptions controls Restore.
type RestoreOptions struct {
	// Full wipes the store before importing. Otherwise keys whose label
	// already exists are skipped.
	Full bool
}

// ExportBackup snapshots the store.
func ExportBackup(ctx context.Context, st KeyStore) (*model.BackupData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	st, err := resolveStore(st)
	if err != nil {
		return nil, err
	}
	data, err := st.ExportDataForBackup()
	if err != nil {
		return nil, fmt.Errorf("export backup: %w", err)
	}
	return data, nil
}

// WriteBackup streams data as indented JSON through a zstd encoder into w.
func WriteBackup(ctx context.Context, data *model.BackupData, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		_ = zw.Close()
		return fmt.Errorf("could not encode json to zstd writer: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("could not flush zstd writer: %w", err)
	}
	return nil
}

// ReadBackup decodes a backup written by WriteBackup.
func ReadBackup(r io.Reader) (*model.BackupData, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer zr.Close()

	var data model.BackupData
	if err := json.NewDecoder(zr).Decode(&data); err != nil {
		return nil, fmt.Errorf("could not decode json from zstd reader: %w", err)
	}
	if data.SchemaVersion != 1 {
		return nil, fmt.Errorf("unsupported backup schema version %d", data.SchemaVersion)
	}
	return &data, nil
}

// Restore reads a backup from r and imports it into st.
func Restore(ctx context.Context, r io.Reader, opts RestoreOptions, st KeyStore) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	st, err := resolveStore(st)
	if err != nil {
		return err
	}
	data, err := ReadBackup(r)
	if err != nil {
		return err
	}
	if opts.Full {
		if err := st.ImportDataFromBackup(data); err != nil {
			return fmt.Errorf("full restore: %w", err)
		}
		if err := st.LogAction("RESTORE_FULL", fmt.Sprintf("keys: %d", len(data.Keys))); err != nil {
			logging.Warnf("restore: audit entry not written: %v", err)
		}
		return nil
	}
	if err := st.IntegrateDataFromBackup(data); err != nil {
		return fmt.Errorf("integrate restore: %w", err)
	}
	return nil
}

// Migrate copies every key and audit entry from src into dst, replacing
// what dst held before.
func Migrate(ctx context.Context, src, dst KeyStore) error {
	data, err := ExportBackup(ctx, src)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := dst.ImportDataFromBackup(data); err != nil {
		return fmt.Errorf("import into target: %w", err)
	}
	if err := dst.LogAction("MIGRATE", fmt.Sprintf("keys: %d, audit entries: %d", len(data.Keys), len(data.AuditLogEntries))); err != nil {
		logging.Warnf("migrate: audit entry not written: %v", err)
	}
	return nil
}
