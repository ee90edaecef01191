// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os/user"
	"strings"
	"time"

	"github.com/toeirei/primeforge/internal/logging"
	"github.com/toeirei/primeforge/internal/model"
	"github.com/uptrace/bun"
)

// KeyPairModel is the Bun mapping of the key_pairs table.
type KeyPairModel struct {
	bun.BaseModel `bun:"table:key_pairs"`
	ID            int       `bun:"id,pk,autoincrement"`
	Label         string    `bun:"label"`
	Bits          int       `bun:"bits"`
	N             string    `bun:"n"`
	E             string    `bun:"e"`
	D             string    `bun:"d"`
	CreatedAt     time.Time `bun:"created_at"`
}

// auditTimeFormat is fixed width so timestamps sort lexicographically.
const auditTimeFormat = "2006-01-02T15:04:05.000000Z"

// AuditLogModel is the Bun mapping of the audit_log table.
type AuditLogModel struct {
	bun.BaseModel `bun:"table:audit_log"`
	ID            int    `bun:"id,pk,autoincrement"`
	Timestamp     string `bun:"timestamp"`
	Username      string `bun:"username"`
	Action        string `bun:"action"`
	Details       string `bun:"details"`
}

func keyPairModelToModel(k KeyPairModel) model.StoredKey {
	return model.StoredKey{
		ID:        k.ID,
		Label:     k.Label,
		Bits:      k.Bits,
		N:         k.N,
		E:         k.E,
		D:         k.D,
		CreatedAt: k.CreatedAt,
	}
}

func auditLogModelToModel(a AuditLogModel) model.AuditLogEntry {
	return model.AuditLogEntry{ID: a.ID, Timestamp: a.Timestamp, Username: a.Username, Action: a.Action, Details: a.Details}
}

// bunStore implements Store on top of a *bun.DB. The per-engine store types
// embed it.
type bunStore struct {
	bun *bun.DB
}

func (s *bunStore) SaveKeyPair(label string, bits int, n, e, d string) (*model.StoredKey, error) {
	k, err := SaveKeyPairBun(s.bun, label, bits, n, e, d)
	if err == nil {
		s.audit("SAVE_KEY", fmt.Sprintf("label: %s, bits: %d", label, bits))
	}
	return k, err
}

// audit records action without failing the operation that triggered it.
func (s *bunStore) audit(action, details string) {
	if err := s.LogAction(action, details); err != nil {
		logging.Warnf("db: audit entry %s not written: %v", action, err)
	}
}

func (s *bunStore) GetKeyPairByLabel(label string) (*model.StoredKey, error) {
	return GetKeyPairByLabelBun(s.bun, label)
}

func (s *bunStore) GetKeyPairByID(id int) (*model.StoredKey, error) {
	return GetKeyPairByIDBun(s.bun, id)
}

func (s *bunStore) ListKeyPairs() ([]model.StoredKey, error) {
	return ListKeyPairsBun(s.bun)
}

func (s *bunStore) DeleteKeyPair(id int) error {
	details := fmt.Sprintf("id: %d", id)
	if k, err := GetKeyPairByIDBun(s.bun, id); err == nil && k != nil {
		details = fmt.Sprintf("label: %s", k.Label)
	}
	err := DeleteKeyPairBun(s.bun, id)
	if err == nil {
		s.audit("DELETE_KEY", details)
	}
	return err
}

func (s *bunStore) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	return GetAllAuditLogEntriesBun(s.bun)
}

func (s *bunStore) LogAction(action string, details string) error {
	return LogActionBun(s.bun, action, details)
}

func (s *bunStore) ExportDataForBackup() (*model.BackupData, error) {
	return ExportDataForBackupBun(s.bun)
}

func (s *bunStore) ImportDataFromBackup(backup *model.BackupData) error {
	return ImportDataFromBackupBun(s.bun, backup)
}

func (s *bunStore) IntegrateDataFromBackup(backup *model.BackupData) error {
	return IntegrateDataFromBackupBun(s.bun, backup)
}

func (s *bunStore) Close() error {
	return s.bun.Close()
}

// SaveKeyPairBun inserts a key pair and returns it with its assigned ID.
// A label that already exists yields ErrDuplicate.
func SaveKeyPairBun(bdb *bun.DB, label string, bits int, n, e, d string) (*model.StoredKey, error) {
	ctx := context.Background()
	km := &KeyPairModel{
		Label:     label,
		Bits:      bits,
		N:         n,
		E:         e,
		D:         d,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	if _, err := bdb.NewInsert().Model(km).Exec(ctx); err != nil {
		return nil, MapDBError(err)
	}
	m := keyPairModelToModel(*km)
	return &m, nil
}

func getKeyPairBun(bdb *bun.DB, column string, value interface{}) (*model.StoredKey, error) {
	ctx := context.Background()
	var km KeyPairModel
	err := bdb.NewSelect().Model(&km).Where("? = ?", bun.Ident(column), value).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	m := keyPairModelToModel(km)
	return &m, nil
}

// GetKeyPairByLabelBun returns the key with the given label, or nil.
func GetKeyPairByLabelBun(bdb *bun.DB, label string) (*model.StoredKey, error) {
	return getKeyPairBun(bdb, "label", label)
}

// GetKeyPairByIDBun returns the key with the given ID, or nil.
func GetKeyPairByIDBun(bdb *bun.DB, id int) (*model.StoredKey, error) {
	return getKeyPairBun(bdb, "id", id)
}

// ListKeyPairsBun returns all keys ordered by label.
func ListKeyPairsBun(bdb *bun.DB) ([]model.StoredKey, error) {
	ctx := context.Background()
	var kms []KeyPairModel
	if err := bdb.NewSelect().Model(&kms).OrderExpr("label ASC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.StoredKey, 0, len(kms))
	for _, k := range kms {
		out = append(out, keyPairModelToModel(k))
	}
	return out, nil
}

// DeleteKeyPairBun removes the key with the given ID. Deleting a missing ID
// is not an error.
func DeleteKeyPairBun(bdb *bun.DB, id int) error {
	ctx := context.Background()
	_, err := bdb.NewDelete().Model((*KeyPairModel)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}

// GetAllAuditLogEntriesBun retrieves audit log entries, newest first.
func GetAllAuditLogEntriesBun(bdb *bun.DB) ([]model.AuditLogEntry, error) {
	ctx := context.Background()
	var am []AuditLogModel
	if err := bdb.NewSelect().Model(&am).OrderExpr("timestamp DESC, id DESC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.AuditLogEntry, 0, len(am))
	for _, a := range am {
		out = append(out, auditLogModelToModel(a))
	}
	return out, nil
}

// currentUsername returns the OS user without a Windows domain prefix.
func currentUsername() string {
	curUser, err := user.Current()
	if err != nil {
		return "unknown"
	}
	if parts := strings.Split(curUser.Username, `\`); len(parts) > 1 {
		return parts[1]
	}
	return curUser.Username
}

// LogActionBun inserts an audit log entry with the current OS user.
func LogActionBun(bdb *bun.DB, action string, details string) error {
	ctx := context.Background()
	_, err := bdb.NewInsert().Model(&AuditLogModel{
		Timestamp: time.Now().UTC().Format(auditTimeFormat),
		Username:  currentUsername(),
		Action:    action,
		Details:   details,
	}).Exec(ctx)
	return MapDBError(err)
}

// ExportDataForBackupBun exports all tables into a model.BackupData using a
// single transaction so the snapshot is consistent.
func ExportDataForBackupBun(bdb *bun.DB) (*model.BackupData, error) {
	ctx := context.Background()
	var backup *model.BackupData
	err := WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		backup = &model.BackupData{SchemaVersion: 1}

		var kms []KeyPairModel
		if err := tx.NewSelect().Model(&kms).OrderExpr("id ASC").Scan(ctx); err != nil {
			return err
		}
		for _, k := range kms {
			backup.Keys = append(backup.Keys, keyPairModelToModel(k))
		}

		var als []AuditLogModel
		if err := tx.NewSelect().Model(&als).OrderExpr("id ASC").Scan(ctx); err != nil {
			return err
		}
		for _, a := range als {
			backup.AuditLogEntries = append(backup.AuditLogEntries, auditLogModelToModel(a))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return backup, nil
}

// ImportDataFromBackupBun performs a full wipe-and-replace in one transaction.
// Row IDs from the backup are preserved.
func ImportDataFromBackupBun(bdb *bun.DB, backup *model.BackupData) error {
	ctx := context.Background()
	return WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		for _, t := range []string{"audit_log", "key_pairs"} {
			if _, err := ExecRaw(ctx, tx, "DELETE FROM ?", bun.Ident(t)); err != nil {
				return err
			}
		}
		for _, k := range backup.Keys {
			km := &KeyPairModel{ID: k.ID, Label: k.Label, Bits: k.Bits, N: k.N, E: k.E, D: k.D, CreatedAt: k.CreatedAt}
			if _, err := tx.NewInsert().Model(km).Exec(ctx); err != nil {
				return MapDBError(err)
			}
		}
		for _, a := range backup.AuditLogEntries {
			am := &AuditLogModel{ID: a.ID, Timestamp: a.Timestamp, Username: a.Username, Action: a.Action, Details: a.Details}
			if _, err := tx.NewInsert().Model(am).Exec(ctx); err != nil {
				return MapDBError(err)
			}
		}
		return nil
	})
}

// IntegrateDataFromBackupBun merges keys whose label is not yet present.
// Merged keys receive new IDs; the audit log of the backup is not merged.
func IntegrateDataFromBackupBun(bdb *bun.DB, backup *model.BackupData) error {
	ctx := context.Background()
	added := 0
	err := WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		for _, k := range backup.Keys {
			exists, err := tx.NewSelect().Model((*KeyPairModel)(nil)).Where("label = ?", k.Label).Exists(ctx)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			km := &KeyPairModel{Label: k.Label, Bits: k.Bits, N: k.N, E: k.E, D: k.D, CreatedAt: k.CreatedAt}
			if _, err := tx.NewInsert().Model(km).Exec(ctx); err != nil {
				return MapDBError(err)
			}
			added++
		}
		return nil
	})
	if err != nil {
		return err
	}
	return LogActionBun(bdb, "INTEGRATE_BACKUP", fmt.Sprintf("keys added: %d of %d", added, len(backup.Keys)))
}
