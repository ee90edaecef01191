// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Primeforge.
//
// Usage:
//
//	go run . [flags]
//	./primeforge [flags]
//
// See --help for the available commands.
package main

import (
	"fmt"
	"os"

	log "github.com/charmbracelet/log"

	"github.com/toeirei/primeforge/buildvars"
	"github.com/toeirei/primeforge/ui/cli"
)

// main is the entrypoint for the Primeforge CLI.
func main() {
	if os.Getenv("PRIMEFORGE_SHOW_VERSION") == "1" {
		fmt.Fprintf(os.Stderr, "Primeforge version: %s\n", buildvars.VersionOrDefault("dev"))
	}

	if err := cli.Execute(); err != nil {
		log.Debugf("Primeforge CLI error: %v", err)
		os.Exit(1)
	}
}
