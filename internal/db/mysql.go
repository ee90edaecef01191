// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"
)

// MySQLStore is the MySQL implementation of the Store interface.
type MySQLStore struct {
	*bunStore
}

// Maintain runs OPTIMIZE TABLE on every Primeforge table. A failing table
// does not stop the others; the last error is returned.
func (s *MySQLStore) Maintain(ctx context.Context) error {
	var lastErr error
	for _, table := range []string{"key_pairs", "audit_log", "schema_migrations"} {
		if _, err := s.bun.ExecContext(ctx, fmt.Sprintf("OPTIMIZE TABLE %s", table)); err != nil {
			dbLogf("db: mysql optimize table %s failed: %v", table, err)
			lastErr = err
		}
	}
	if lastErr != nil {
		return fmt.Errorf("mysql optimize encountered errors: %w", lastErr)
	}
	return nil
}
