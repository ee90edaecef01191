// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db is the key store of Primeforge.
//
// Key pairs and the audit log live in SQLite, PostgreSQL or MySQL behind the
// Store interface. All backends share one Bun-based implementation; the
// dialect-specific types only add what differs between engines (maintenance
// statements and sequence handling after a restore).
//
// Testing notes
//   - Use an in-memory SQLite DSN such as
//     "file:<test name>?mode=memory&cache=shared" to get real migrations.
//   - InitDB sets the package-level store used by the helper functions in
//     db.go; New does the same and also returns the Store.
package db
