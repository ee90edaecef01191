// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"errors"
	"sort"
	"time"

	"github.com/toeirei/primeforge/internal/model"
)

var errFakeDuplicate = errors.New("duplicate record")

// fakeStore is an in-memory KeyStore.
type fakeStore struct {
	keys    map[string]model.StoredKey
	nextID  int
	actions []model.AuditLogEntry
	logErr  error

	imported   *model.BackupData
	integrated *model.BackupData
}

func newFakeStore() *fakeStore {
	return &fakeStore{keys: map[string]model.StoredKey{}, nextID: 1}
}

func (f *fakeStore) SaveKeyPair(label string, bits int, n, e, d string) (*model.StoredKey, error) {
	if _, ok := f.keys[label]; ok {
		return nil, errFakeDuplicate
	}
	k := model.StoredKey{ID: f.nextID, Label: label, Bits: bits, N: n, E: e, D: d, CreatedAt: time.Now()}
	f.nextID++
	f.keys[label] = k
	return &k, nil
}

func (f *fakeStore) GetKeyPairByLabel(label string) (*model.StoredKey, error) {
	k, ok := f.keys[label]
	if !ok {
		return nil, nil
	}
	return &k, nil
}

func (f *fakeStore) ListKeyPairs() ([]model.StoredKey, error) {
	out := make([]model.StoredKey, 0, len(f.keys))
	for _, k := range f.keys {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func (f *fakeStore) DeleteKeyPair(id int) error {
	for label, k := range f.keys {
		if k.ID == id {
			delete(f.keys, label)
		}
	}
	return nil
}

func (f *fakeStore) LogAction(action, details string) error {
	if f.logErr != nil {
		return f.logErr
	}
	f.actions = append(f.actions, model.AuditLogEntry{ID: len(f.actions) + 1, Action: action, Details: details})
	return nil
}

func (f *fakeStore) ExportDataForBackup() (*model.BackupData, error) {
	keys, _ := f.ListKeyPairs()
	return &model.BackupData{SchemaVersion: 1, Keys: keys, AuditLogEntries: append([]model.AuditLogEntry(nil), f.actions...)}, nil
}

func (f *fakeStore) ImportDataFromBackup(b *model.BackupData) error {
	f.imported = b
	f.keys = map[string]model.StoredKey{}
	for _, k := range b.Keys {
		f.keys[k.Label] = k
	}
	f.actions = append([]model.AuditLogEntry(nil), b.AuditLogEntries...)
	return nil
}

func (f *fakeStore) IntegrateDataFromBackup(b *model.BackupData) error {
	f.integrated = b
	for _, k := range b.Keys {
		if _, ok := f.keys[k.Label]; !ok {
			f.keys[k.Label] = k
		}
	}
	return nil
}

func (f *fakeStore) lastAction() string {
	if len(f.actions) == 0 {
		return ""
	}
	return f.actions[len(f.actions)-1].Action
}
