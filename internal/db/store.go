// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"

	"github.com/toeirei/primeforge/internal/model"
)

// Store defines the interface for all database operations in Primeforge.
// This allows for multiple database backends to be implemented.
//
// Lookups return (nil, nil) when no row matches.
type Store interface {
	// Key pair methods
	SaveKeyPair(label string, bits int, n, e, d string) (*model.StoredKey, error)
	GetKeyPairByLabel(label string) (*model.StoredKey, error)
	GetKeyPairByID(id int) (*model.StoredKey, error)
	ListKeyPairs() ([]model.StoredKey, error)
	DeleteKeyPair(id int) error

	// Audit Log methods
	GetAllAuditLogEntries() ([]model.AuditLogEntry, error)
	LogAction(action string, details string) error

	// Backup methods
	ExportDataForBackup() (*model.BackupData, error)
	ImportDataFromBackup(backup *model.BackupData) error
	IntegrateDataFromBackup(backup *model.BackupData) error

	// Maintain runs engine-specific housekeeping (VACUUM and friends).
	Maintain(ctx context.Context) error
	Close() error
}
