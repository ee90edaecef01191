// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

// Package core is the facade the CLI talks to. It wires the number theory,
// prime generation and textbook RSA packages into an Engine configured from
// the application config, and it implements the key store oriented
// operations (persisting keys, backups, migrations) against the small
// KeyStore interface so that it never depends on a concrete database.
package core
