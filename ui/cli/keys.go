// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/toeirei/primeforge/internal/core"
	sshfmt "github.com/toeirei/primeforge/internal/core/crypto/ssh"
	"github.com/toeirei/primeforge/internal/i18n"
)

// abbreviateWidth keeps multi-hundred-digit moduli on one table row.
const abbreviateWidth = 24

// newKeysCmd is the root command for stored key pairs.
func newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage stored key pairs (list, show, delete, export)",
		Long: `The 'keys' command group works on key pairs saved with 'keygen --label':
  - List stored keys, optionally filtered by label
  - Show the full public and private components of one key
  - Delete a key
  - Export the public half as an OpenSSH authorized_keys line`,
	}
	cmd.AddCommand(newKeysListCmd(), newKeysShowCmd(), newKeysDeleteCmd(), newKeysExportCmd())
	return cmd
}

func newKeysListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [filter]",
		Short: "List stored key pairs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ""
			if len(args) > 0 {
				filter = args[0]
			}
			keys, err := core.ListKeys(nil, filter)
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("keys.none"))
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tLABEL\tBITS\tE\tN\tCREATED")
			for _, k := range keys {
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\n",
					k.ID, k.Label, k.Bits, k.E, core.Abbreviate(k.N, abbreviateWidth), k.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}

func newKeysShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <label>",
		Short: "Show one stored key pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, err := core.LoadKeyPair(nil, args[0])
			if err != nil {
				return err
			}
			showPrivate, _ := cmd.Flags().GetBool("show-private")
			fmt.Fprintln(cmd.OutOrStdout(), core.FormatLabelPadding(i18n.T("keys.field_label"), args[0], 10))
			printKeyPair(cmd.OutOrStdout(), kp, showPrivate)
			return nil
		},
	}
	cmd.Flags().Bool("show-private", false, "Also print the private exponent d")
	return cmd
}

func newKeysDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <label>",
		Short: "Delete a stored key pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := core.DeleteKeyPairByLabel(nil, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("keys.deleted", args[0]))
			return nil
		},
	}
}

func newKeysExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <label>",
		Short: "Export the public key as an authorized_keys line",
		Long: `Prints the public half of a stored key pair in OpenSSH authorized_keys
format together with its SHA256 fingerprint. The exponent must fit into
an int for the SSH wire format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			label := args[0]
			kp, err := core.LoadKeyPair(nil, label)
			if err != nil {
				return err
			}
			comment, _ := cmd.Flags().GetString("comment")
			if comment == "" {
				comment = label
			}
			line, err := sshfmt.MarshalAuthorizedKey(kp.Public(), comment)
			if err != nil {
				return errors.New(i18n.T("keys.error_export", err))
			}
			fp, err := sshfmt.FingerprintSHA256(kp.Public())
			if err != nil {
				return errors.New(i18n.T("keys.error_export", err))
			}

			if outFile, _ := cmd.Flags().GetString("out"); outFile != "" {
				if err := os.WriteFile(outFile, []byte(line+"\n"), 0644); err != nil {
					return errors.New(i18n.T("keys.error_export", err))
				}
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("keys.exported_file", outFile))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), i18n.T("keys.fingerprint", fp))

			if toClipboard, _ := cmd.Flags().GetBool("clipboard"); toClipboard {
				if err := clipboard.WriteAll(line); err != nil {
					return errors.New(i18n.T("keys.error_clipboard", err))
				}
				fmt.Fprintln(cmd.ErrOrStderr(), i18n.T("keys.copied"))
			}
			return nil
		},
	}
	cmd.Flags().String("comment", "", "Comment appended to the key line (default: the label)")
	cmd.Flags().String("out", "", "Write the key line to this file instead of stdout")
	cmd.Flags().Bool("clipboard", false, "Also copy the key line to the clipboard")
	return cmd
}
