// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the persisted data structures of Primeforge.
package model // import "github.com/toeirei/primeforge/internal/model"

import (
	"fmt"
	"time"
)

// StoredKey is a persisted RSA key pair. The integers are kept as base-10
// strings so every backend stores them without precision loss.
type StoredKey struct {
	ID        int
	Label     string    // Unique, human-chosen name.
	Bits      int       // Per-prime bit length the key was generated with.
	N         string    // Modulus.
	E         string    // Public exponent.
	D         string    // Private exponent.
	CreatedAt time.Time
}

// String returns a short description that never includes D.
func (k StoredKey) String() string {
	return fmt.Sprintf("%s (%d-bit primes, e=%s)", k.Label, k.Bits, k.E)
}

// AuditLogEntry represents a single event in the audit log.
type AuditLogEntry struct {
	ID        int
	Timestamp string
	Username  string
	Action    string
	Details   string
}

// BackupData is the container for a full store export.
type BackupData struct {
	SchemaVersion   int             `json:"schema_version"`
	Keys            []StoredKey     `json:"keys"`
	AuditLogEntries []AuditLogEntry `json:"audit_log_entries"`
}
