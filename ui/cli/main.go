// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the root command, configuration loading and the default
// services every subcommand relies on.

package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toeirei/primeforge/buildvars"
	"github.com/toeirei/primeforge/internal/config"
	"github.com/toeirei/primeforge/internal/core"
	"github.com/toeirei/primeforge/internal/db"
	"github.com/toeirei/primeforge/internal/i18n"
	"github.com/toeirei/primeforge/internal/logging"
)

var version = "dev"   // set by the linker
var gitCommit = "dev" // short commit SHA, set at build time
var buildDate = ""    // RFC3339, set at build time

// appConfig holds the configuration resolved by setupDefaultServices.
var appConfig config.Config

// initializeDefaults registers the db package with core so core never
// imports it directly.
func initializeDefaults() {
	core.SetDefaultDBInit(db.InitDB)
	core.SetDefaultDBIsInitialized(db.IsInitialized)
}

func setupDefaultServices(cmd *cobra.Command, args []string) error {
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	appConfig, err = config.LoadConfig[config.Config](cmd, config.Defaults(), optionalConfigPath)
	// A missing file is expected on first run: persist the defaults.
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			log.Warnf("could not write default config file: %v", writeErr)
		} else {
			logging.Debugf("wrote default config to user config path")
		}
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if err := appConfig.Validate(); err != nil {
		return errors.New(i18n.T("config.error_invalid", err))
	}

	if i18n.Lang() != appConfig.Language {
		i18n.Init(appConfig.Language)
	}

	// Tests install their own store before running a command.
	if core.DefaultKeyStore() == nil || !core.IsDBInitialized() {
		st, err := db.New(appConfig.Database.Type, appConfig.Database.Dsn)
		if err != nil {
			return errors.New(i18n.T("config.error_init_db", err))
		}
		core.SetDefaultKeyStore(st)
	}
	return nil
}

// Execute runs the CLI entrypoint. The main package calls it and handles
// the process exit code.
func Execute() error {
	defer func() {
		if err := db.CloseDB(); err != nil {
			logging.Errorf("closing database: %v", err)
		}
	}()
	return NewRootCmd().Execute()
}

// applyDefaultFlags adds the database selection flags. Their dotted names
// match the config keys so viper binds them directly.
func applyDefaultFlags(cmd *cobra.Command) {
	if cmd.PersistentFlags().Lookup("database.type") == nil {
		cmd.PersistentFlags().String("database.type", "sqlite", `Database type ("sqlite", "postgres", "mysql")`)
	}
	if cmd.PersistentFlags().Lookup("database.dsn") == nil {
		cmd.PersistentFlags().String("database.dsn", "./primeforge.db", "Database connection string (DSN)")
	}
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// NewRootCmd creates a fresh root command with all subcommands attached.
// Every call builds new subcommands, so tests get isolated flag state.
func NewRootCmd() *cobra.Command {
	initializeDefaults()

	var verbose bool
	cmd := &cobra.Command{
		Use:   "primeforge",
		Short: "Primeforge is a from-scratch textbook RSA engine.",
		Long: `Primeforge generates probable primes with Miller-Rabin, derives textbook
RSA key pairs from them and encrypts or decrypts integers and short
messages. Keys can be stored by label in SQLite, PostgreSQL or MySQL.

Textbook RSA has no padding and is deterministic. It is a teaching and
testing tool, not a substitute for a vetted cryptographic library.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logging.SetDebug(true)
				db.SetDebug(true)
			}
			return setupDefaultServices(cmd, args)
		},
	}
	cmd.Version = compositeVersion()

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging (engine timings, SQL)")
	cmd.PersistentFlags().String("config", "", "config file")
	cmd.PersistentFlags().String("language", "en", `Output language ("en", "de")`)
	applyDefaultFlags(cmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		// No config or database needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version: %s\n", v)
			fmt.Fprintf(out, "commit: %s\n", c)
			if d != "" {
				fmt.Fprintf(out, "built: %s\n", d)
			}
		},
	}

	cmd.AddCommand(
		newKeygenCmd(),
		newGenPrimeCmd(),
		newIsPrimeCmd(),
		newEncryptCmd(),
		newDecryptCmd(),
		newDemoCmd(),
		newKeysCmd(),
		newBackupCmd(),
		newRestoreCmd(),
		newMigrateCmd(),
		newDBMaintainCmd(),
		versionCmd,
	)
	return cmd
}

func compositeVersion() string {
	v, c, d := resolveBuildVersion(nil)
	out := v
	if c != "" && c != "dev" {
		out += " (" + c + ")"
	}
	if d != "" {
		out += " built: " + d
	}
	return out
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If info is nil, it reads build info from the
// runtime.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault(version)
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	if info == nil {
		if local, ok := debug.ReadBuildInfo(); ok {
			info = local
		}
	}

	if info != nil {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		if (resolvedVersion == "dev" || resolvedVersion == "(devel)") && info.Deps != nil {
			for _, dep := range info.Deps {
				if dep.Path == "github.com/toeirei/primeforge" && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}
	return resolvedVersion, resolvedCommit, resolvedDate
}
