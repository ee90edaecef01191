// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import "github.com/toeirei/primeforge/internal/model"

// KeyStore is the subset of the database store used by core. Lookups
// return (nil, nil) when nothing matches.
type KeyStore interface {
	SaveKeyPair(label string, bits int, n, e, d string) (*model.StoredKey, error)
	GetKeyPairByLabel(label string) (*model.StoredKey, error)
	ListKeyPairs() ([]model.StoredKey, error)
	DeleteKeyPair(id int) error

	AuditWriter

	ExportDataForBackup() (*model.BackupData, error)
	ImportDataFromBackup(*model.BackupData) error
	IntegrateDataFromBackup(*model.BackupData) error
}

// AuditWriter records audit events.
type AuditWriter interface {
	LogAction(action string, details string) error
}
