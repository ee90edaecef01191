// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the Primeforge command-line interface using Cobra.
// It wires configuration, i18n and the key store, then delegates to the
// `core` facades. Commands stay thin; arithmetic lives in internal/core.
package cli
