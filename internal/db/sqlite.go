// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"
)

// SqliteStore is the SQLite implementation of the Store interface.
type SqliteStore struct {
	*bunStore
}

// Maintain runs PRAGMA optimize, VACUUM and a WAL checkpoint, then checks
// integrity. Optimize and checkpoint failures are not fatal; some
// environments (in-memory databases) do not support them.
func (s *SqliteStore) Maintain(ctx context.Context) error {
	if _, err := s.bun.ExecContext(ctx, "PRAGMA optimize;"); err != nil {
		dbLogf("db: sqlite optimize failed (ignored): %v", err)
	}
	if _, err := s.bun.ExecContext(ctx, "VACUUM;"); err != nil {
		return fmt.Errorf("sqlite vacuum failed: %w", err)
	}
	_, _ = s.bun.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE);")

	var res string
	if err := QueryRawInto(ctx, s.bun, &res, "PRAGMA integrity_check;"); err != nil {
		return fmt.Errorf("sqlite integrity_check failed: %w", err)
	}
	if res != "ok" {
		return fmt.Errorf("sqlite integrity_check failed: %s", res)
	}
	return nil
}
