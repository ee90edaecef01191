// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"

	"github.com/toeirei/primeforge/internal/model"
)

// PostgresStore is the PostgreSQL implementation of the Store interface.
type PostgresStore struct {
	*bunStore
}

// ImportDataFromBackup restores the backup and then moves the SERIAL
// sequences past the restored IDs, which PostgreSQL does not do on its own
// for explicit inserts.
func (s *PostgresStore) ImportDataFromBackup(backup *model.BackupData) error {
	if err := ImportDataFromBackupBun(s.bun, backup); err != nil {
		return err
	}
	ctx := context.Background()
	for _, t := range []string{"key_pairs", "audit_log"} {
		q := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)", t, t)
		if _, err := s.bun.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("postgres sequence reset for %s failed: %w", t, err)
		}
	}
	return nil
}

// Maintain runs VACUUM ANALYZE.
func (s *PostgresStore) Maintain(ctx context.Context) error {
	if _, err := s.bun.ExecContext(ctx, "VACUUM ANALYZE;"); err != nil {
		return fmt.Errorf("postgres vacuum failed: %w", err)
	}
	return nil
}
