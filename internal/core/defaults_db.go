// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import "errors"

// ErrNoKeyStore is returned by store-bound helpers when neither an explicit
// KeyStore nor a package default is available.
var ErrNoKeyStore = errors.New("no key store configured")

// Package-level defaults. The CLI installs them at startup; tests inject
// fakes through the SetDefault* functions.
var (
	defaultKeyStore        KeyStore
	defaultDBInit          func(dbType, dsn string) error
	defaultDBIsInitialized func() bool
)

// DefaultKeyStore returns the package-level KeyStore if set, else nil.
func DefaultKeyStore() KeyStore { return defaultKeyStore }

// SetDefaultKeyStore sets the package-level KeyStore used by core helpers.
func SetDefaultKeyStore(s KeyStore) { defaultKeyStore = s }

// DefaultInitDB calls the injected DB initializer, if any.
func DefaultInitDB(dbType, dsn string) error {
	if defaultDBInit == nil {
		return errors.New("no DB initializer registered")
	}
	return defaultDBInit(dbType, dsn)
}

// SetDefaultDBInit registers the DB initializer.
func SetDefaultDBInit(fn func(dbType, dsn string) error) { defaultDBInit = fn }

// IsDBInitialized reports whether the injected DB reports itself ready.
func IsDBInitialized() bool {
	if defaultDBIsInitialized == nil {
		return false
	}
	return defaultDBIsInitialized()
}

// SetDefaultDBIsInitialized registers the readiness probe.
func SetDefaultDBIsInitialized(fn func() bool) { defaultDBIsInitialized = fn }

// resolveStore returns st, or the package default when st is nil.
func resolveStore(st KeyStore) (KeyStore, error) {
	if st != nil {
		return st, nil
	}
	if defaultKeyStore != nil {
		return defaultKeyStore, nil
	}
	return nil, ErrNoKeyStore
}
