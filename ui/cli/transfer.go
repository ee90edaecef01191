// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/toeirei/primeforge/internal/core"
	"github.com/toeirei/primeforge/internal/db"
	"github.com/toeirei/primeforge/internal/i18n"
)

// defaultBackupName returns the backup file name used when none is given.
func defaultBackupName(now time.Time) string {
	return fmt.Sprintf("primeforge-backup-%s.json.zst", now.Format("2006-01-02"))
}

func newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup [output-file]",
		Short: "Create a compressed (zstd) JSON backup of the key store",
		Long: `Dumps every stored key pair and the audit log into a single
Zstandard-compressed JSON file.

If an output file is specified, '.zst' is appended when missing. Without
one, 'primeforge-backup-YYYY-MM-DD.json.zst' is used.

The file contains private exponents. Store it accordingly.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFile := defaultBackupName(time.Now())
			if len(args) > 0 {
				outputFile = args[0]
				if !strings.HasSuffix(outputFile, ".zst") {
					outputFile += ".zst"
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("backup.cli_starting"))

			data, err := core.ExportBackup(cmd.Context(), nil)
			if err != nil {
				return errors.New(i18n.T("backup.cli_error_export", err))
			}
			outf, err := os.OpenFile(outputFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
			if err != nil {
				return errors.New(i18n.T("backup.cli_error_write", err))
			}
			defer func() { _ = outf.Close() }()
			if err := core.WriteBackup(cmd.Context(), data, outf); err != nil {
				return errors.New(i18n.T("backup.cli_error_write", err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("backup.cli_success", outputFile, len(data.Keys)))
			return nil
		},
	}
}

func newRestoreCmd() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "restore <backup-file>",
		Short: "Restore key pairs from a backup file",
		Long: `Restores a backup created with 'primeforge backup'.

By default the backup is integrated: keys whose label already exists are
left alone and the rest are added. With --full the key store and audit log
are wiped first and replaced by the backup contents.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.New(i18n.T("restore.cli_error_open", err))
			}
			defer func() { _ = f.Close() }()

			if full {
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("restore.cli_full_warning"))
			}
			if err := core.Restore(cmd.Context(), f, core.RestoreOptions{Full: full}, nil); err != nil {
				return errors.New(i18n.T("restore.cli_error", err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("restore.cli_success"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "Perform a full, destructive restore (wipes all existing data first)")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	var targetType, targetDsn string
	cmd := &cobra.Command{
		Use:   "migrate --type <db-type> --dsn <target-dsn>",
		Short: "Copy the key store into another database",
		Long: `Exports everything from the configured database and performs a full,
destructive import into the target. Schema migrations are applied to the
target first.

Example:
  primeforge migrate --type postgres --dsn "postgres://primeforge@localhost/primeforge"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if targetType == "" || targetDsn == "" {
				return errors.New(i18n.T("migrate.cli_error_flags"))
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("migrate.cli_starting", targetType))

			target, err := db.NewStoreFromDSN(targetType, targetDsn)
			if err != nil {
				return errors.New(i18n.T("migrate.cli_error_target", err))
			}
			defer func() { _ = target.Close() }()

			if err := core.Migrate(cmd.Context(), core.DefaultKeyStore(), target); err != nil {
				return errors.New(i18n.T("migrate.cli_error", err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("migrate.cli_success"))
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("migrate.cli_next_steps"))
			return nil
		},
	}
	cmd.Flags().StringVar(&targetType, "type", "", `Target database type ("sqlite", "postgres", "mysql")`)
	cmd.Flags().StringVar(&targetDsn, "dsn", "", "Target database connection string")
	return cmd
}

func newDBMaintainCmd() *cobra.Command {
	var timeoutSec int
	cmd := &cobra.Command{
		Use:   "db-maintain",
		Short: "Run database maintenance (VACUUM/OPTIMIZE) for the configured DB",
		Long:  `Runs engine-specific maintenance tasks (PRAGMA optimize and VACUUM, VACUUM ANALYZE, OPTIMIZE TABLE).`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeoutSec > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, time.Duration(timeoutSec)*time.Second)
				defer cancel()
			}
			if err := db.RunMaintenance(ctx); err != nil {
				return errors.New(i18n.T("maintain.error", err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("maintain.success", appConfig.Database.Type))
			return nil
		},
	}
	cmd.Flags().IntVar(&timeoutSec, "timeout", 0, "Timeout in seconds for maintenance (0 means no timeout)")
	return cmd
}
