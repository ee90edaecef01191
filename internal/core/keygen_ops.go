// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/toeirei/primeforge/internal/core/crypto/textbook"
	"github.com/toeirei/primeforge/internal/model"
)

var (
	// ErrKeyNotFound is returned when no key is stored under a label.
	ErrKeyNotFound = errors.New("key not found")
	// ErrLabelRequired is returned for empty labels.
	ErrLabelRequired = errors.New("key label must not be empty")
)

// StoreKeyPair persists kp under label.
func StoreKeyPair(st KeyStore, label string, kp *textbook.KeyPair) (*model.StoredKey, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrLabelRequired
	}
	st, err := resolveStore(st)
	if err != nil {
		return nil, err
	}
	saved, err := st.SaveKeyPair(label, kp.Bits(), kp.N().String(), kp.E().String(), kp.D().String())
	if err != nil {
		return nil, fmt.Errorf("save key %q: %w", label, err)
	}
	return saved, nil
}

// LoadKeyPair fetches the key stored under label and rebuilds it.
func LoadKeyPair(st KeyStore, label string) (*textbook.KeyPair, error) {
	st, err := resolveStore(st)
	if err != nil {
		return nil, err
	}
	stored, err := st.GetKeyPairByLabel(label)
	if err != nil {
		return nil, fmt.Errorf("load key %q: %w", label, err)
	}
	if stored == nil {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, label)
	}
	return KeyPairFromStored(*stored)
}

// KeyPairFromStored converts a stored row back into a KeyPair.
func KeyPairFromStored(k model.StoredKey) (*textbook.KeyPair, error) {
	n, err := ParseInteger(k.N)
	if err != nil {
		return nil, fmt.Errorf("key %q: modulus: %w", k.Label, err)
	}
	e, err := ParseInteger(k.E)
	if err != nil {
		return nil, fmt.Errorf("key %q: public exponent: %w", k.Label, err)
	}
	d, err := ParseInteger(k.D)
	if err != nil {
		return nil, fmt.Errorf("key %q: private exponent: %w", k.Label, err)
	}
	kp, err := textbook.NewKeyPair(n, e, d, k.Bits)
	if err != nil {
		return nil, fmt.Errorf("key %q: %w", k.Label, err)
	}
	return kp, nil
}

// DeleteKeyPairByLabel removes the key stored under label.
func DeleteKeyPairByLabel(st KeyStore, label string) error {
	st, err := resolveStore(st)
	if err != nil {
		return err
	}
	stored, err := st.GetKeyPairByLabel(label)
	if err != nil {
		return fmt.Errorf("load key %q: %w", label, err)
	}
	if stored == nil {
		return fmt.Errorf("%w: %q", ErrKeyNotFound, label)
	}
	return st.DeleteKeyPair(stored.ID)
}

// FilterKeys returns the keys whose label contains filter, ignoring case.
func FilterKeys(keys []model.StoredKey, filter string) []model.StoredKey {
	if filter == "" {
		return keys
	}
	out := make([]model.StoredKey, 0, len(keys))
	for _, k := range keys {
		if ContainsIgnoreCase(k.Label, filter) {
			out = append(out, k)
		}
	}
	return out
}

// ListKeys returns the stored keys whose label contains filter.
func ListKeys(st KeyStore, filter string) ([]model.StoredKey, error) {
	st, err := resolveStore(st)
	if err != nil {
		return nil, err
	}
	keys, err := st.ListKeyPairs()
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	return FilterKeys(keys, filter), nil
}
