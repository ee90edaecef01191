// Copyright (c) 2026 Keymaster Team
// Primeforge - number-theoretic RSA engine
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/toeirei/primeforge/internal/core"
	sshfmt "github.com/toeirei/primeforge/internal/core/crypto/ssh"
	"github.com/toeirei/primeforge/internal/core/crypto/textbook"
	"github.com/toeirei/primeforge/internal/i18n"
	"github.com/toeirei/primeforge/internal/security"
)

// engineFromFlags builds an engine from the loaded config, with --rounds and
// --retries overriding it when set on cmd.
func engineFromFlags(cmd *cobra.Command) *core.Engine {
	ec := appConfig.Engine
	if f := cmd.Flags().Lookup("rounds"); f != nil && f.Changed {
		ec.Rounds, _ = cmd.Flags().GetInt("rounds")
	}
	if f := cmd.Flags().Lookup("retries"); f != nil && f.Changed {
		ec.MaxAttempts, _ = cmd.Flags().GetInt("retries")
	}
	return core.NewEngineFromConfig(ec)
}

// bitsFromFlag returns --bits, or the configured default when unset.
func bitsFromFlag(cmd *cobra.Command) int {
	bits, _ := cmd.Flags().GetInt("bits")
	if bits <= 0 {
		return appConfig.Engine.Bits
	}
	return bits
}

// exponentFromFlag parses --exponent, falling back to the configured one.
func exponentFromFlag(cmd *cobra.Command) (*big.Int, error) {
	raw, _ := cmd.Flags().GetString("exponent")
	if raw == "" {
		return big.NewInt(appConfig.Engine.Exponent), nil
	}
	return core.ParseInteger(raw)
}

func printKeyPair(w io.Writer, kp *textbook.KeyPair, showPrivate bool) {
	const width = 10
	fmt.Fprintln(w, core.FormatLabelPadding(i18n.T("keygen.field_bits"), fmt.Sprintf("%d (%d-bit modulus)", kp.Bits(), kp.ModulusBits()), width))
	fmt.Fprintln(w, core.FormatLabelPadding("n:", kp.N().String(), width))
	fmt.Fprintln(w, core.FormatLabelPadding("e:", kp.E().String(), width))
	if showPrivate {
		fmt.Fprintln(w, core.FormatLabelPadding("d:", kp.D().String(), width))
	}
}

func newKeygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a textbook RSA key pair",
		Long: `Generates two distinct probable primes of --bits bits each and derives
n = p*q and d = e^-1 mod (p-1)(q-1). The primes and the totient are wiped
once d is known.

If --label is given the key pair is stored under that label. If the public
exponent shares a factor with the totient, fresh primes are drawn up to
--retries times.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bits := bitsFromFlag(cmd)
			e, err := exponentFromFlag(cmd)
			if err != nil {
				return err
			}
			label, _ := cmd.Flags().GetString("label")
			showPrivate, _ := cmd.Flags().GetBool("show-private")

			en := engineFromFlags(cmd)
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("keygen.generating", bits))
			kp, err := en.GenerateKeyPairWithRetry(cmd.Context(), bits, e)
			if err != nil {
				return errors.New(i18n.T("keygen.error_generate", err))
			}
			printKeyPair(cmd.OutOrStdout(), kp, showPrivate || label == "")

			if label != "" {
				if _, err := core.StoreKeyPair(nil, label, kp); err != nil {
					return errors.New(i18n.T("keygen.error_save", err))
				}
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("keygen.saved", label))
			}
			return nil
		},
	}
	cmd.Flags().Int("bits", 0, "Bit length of each prime (default from config)")
	cmd.Flags().String("exponent", "", "Public exponent, decimal or 0x-hex (default from config)")
	cmd.Flags().String("label", "", "Store the key pair under this label")
	cmd.Flags().Int("retries", 0, "Maximum prime pairs to try (default from config)")
	cmd.Flags().Int("rounds", 0, "Miller-Rabin rounds per candidate (default from config)")
	cmd.Flags().Bool("show-private", false, "Print d even when the key is stored")
	return cmd
}

func newGenPrimeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genprime",
		Short: "Generate a single probable prime",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := engineFromFlags(cmd).GeneratePrime(cmd.Context(), bitsFromFlag(cmd))
			if err != nil {
				return errors.New(i18n.T("prime.error_generate", err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.String())
			return nil
		},
	}
	cmd.Flags().Int("bits", 0, "Bit length of the prime (default from config)")
	cmd.Flags().Int("rounds", 0, "Miller-Rabin rounds per candidate (default from config)")
	return cmd
}

func newIsPrimeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "isprime <n>",
		Short: "Run the Miller-Rabin test on an integer",
		Long: `Runs --rounds Miller-Rabin rounds with uniformly random witnesses. A
"composite" answer is certain; "probably prime" errs with probability at
most 4^-rounds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := core.ParseInteger(args[0])
			if err != nil {
				return err
			}
			en := engineFromFlags(cmd)
			ok, err := en.IsProbablePrime(n)
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("prime.probably_prime", n.String(), en.Rounds()))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("prime.composite", n.String()))
			}
			return nil
		},
	}
	cmd.Flags().Int("rounds", 0, "Miller-Rabin rounds (default from config)")
	return cmd
}

// resolvePublic returns (e, n) from --key, --pubkey-file or --e/--n.
func resolvePublic(cmd *cobra.Command) (e, n *big.Int, err error) {
	if label, _ := cmd.Flags().GetString("key"); label != "" {
		kp, err := core.LoadKeyPair(nil, label)
		if err != nil {
			return nil, nil, err
		}
		return kp.E(), kp.N(), nil
	}
	if path, _ := cmd.Flags().GetString("pubkey-file"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		pub, _, err := sshfmt.ParseAuthorizedKey(string(raw))
		if err != nil {
			return nil, nil, err
		}
		return pub.E, pub.N, nil
	}
	rawE, _ := cmd.Flags().GetString("e")
	rawN, _ := cmd.Flags().GetString("n")
	if rawE == "" || rawN == "" {
		return nil, nil, errors.New(i18n.T("cipher.error_need_public"))
	}
	if e, err = core.ParseInteger(rawE); err != nil {
		return nil, nil, err
	}
	if n, err = core.ParseInteger(rawN); err != nil {
		return nil, nil, err
	}
	return e, n, nil
}

// resolvePrivate returns (d, n) from --key or from --d/--n. Without --d on
// a terminal the exponent is read without echo.
func resolvePrivate(cmd *cobra.Command) (d, n *big.Int, err error) {
	if label, _ := cmd.Flags().GetString("key"); label != "" {
		kp, err := core.LoadKeyPair(nil, label)
		if err != nil {
			return nil, nil, err
		}
		return kp.D(), kp.N(), nil
	}
	rawN, _ := cmd.Flags().GetString("n")
	rawD, _ := cmd.Flags().GetString("d")
	if rawN == "" {
		return nil, nil, errors.New(i18n.T("cipher.error_need_private"))
	}
	if rawD == "" {
		secret, err := readSecret(cmd, i18n.T("cipher.prompt_private"))
		if err != nil {
			return nil, nil, err
		}
		rawD = secret.Trimmed()
		secret.Zero()
	}
	if n, err = core.ParseInteger(rawN); err != nil {
		return nil, nil, err
	}
	if d, err = core.ParseInteger(rawD); err != nil {
		return nil, nil, err
	}
	return d, n, nil
}

// readSecret prompts on a terminal and reads a line without echo. The
// caller zeroes the returned secret.
func readSecret(cmd *cobra.Command, prompt string) (security.Secret, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New(i18n.T("cipher.error_need_private"))
	}
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("read private exponent: %w", err)
	}
	return security.FromBytes(raw), nil
}

func addKeyFlags(cmd *cobra.Command, private bool) {
	cmd.Flags().String("key", "", "Use the stored key pair with this label")
	cmd.Flags().String("n", "", "Modulus, decimal or 0x-hex")
	if private {
		cmd.Flags().String("d", "", "Private exponent; prompted for when omitted")
	} else {
		cmd.Flags().String("e", "", "Public exponent, decimal or 0x-hex")
		cmd.Flags().String("pubkey-file", "", "Read the public key from an OpenSSH authorized_keys line")
	}
	cmd.Flags().Bool("text", false, "Treat the message as UTF-8 text instead of an integer")
	cmd.Flags().String("out", "", "Write the result to this file instead of stdout")
}

// writeResult prints result, or writes it to --out when set.
func writeResult(cmd *cobra.Command, result string) error {
	outFile, _ := cmd.Flags().GetString("out")
	if outFile == "" {
		fmt.Fprintln(cmd.OutOrStdout(), result)
		return nil
	}
	if err := os.WriteFile(outFile, []byte(result+"\n"), 0600); err != nil {
		return fmt.Errorf("write %s: %w", outFile, err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), i18n.T("cipher.written", outFile))
	return nil
}

func newEncryptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encrypt <message>",
		Short: "Encrypt an integer (or --text) with a public key",
		Long: `Computes c = m^e mod n. The message must lie in [0, n); with --text its
UTF-8 bytes are read as one big-endian integer.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, n, err := resolvePublic(cmd)
			if err != nil {
				return err
			}
			asText, _ := cmd.Flags().GetBool("text")
			var c *big.Int
			if asText {
				c, err = textbook.EncryptText(args[0], textbook.PublicKey{N: n, E: e})
			} else {
				var m *big.Int
				if m, err = core.ParseInteger(args[0]); err != nil {
					return err
				}
				c, err = core.Encrypt(m, e, n)
			}
			if err != nil {
				return errors.New(i18n.T("cipher.error_encrypt", err))
			}
			return writeResult(cmd, c.String())
		},
	}
	addKeyFlags(cmd, false)
	return cmd
}

func newDecryptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decrypt <ciphertext>",
		Short: "Decrypt an integer with a private key",
		Long:  `Computes m = c^d mod n for c in [0, n). With --text the result is printed as UTF-8.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, n, err := resolvePrivate(cmd)
			if err != nil {
				return err
			}
			c, err := core.ParseInteger(args[0])
			if err != nil {
				return err
			}
			m, err := core.Decrypt(c, d, n)
			if err != nil {
				return errors.New(i18n.T("cipher.error_decrypt", err))
			}
			if asText, _ := cmd.Flags().GetBool("text"); asText {
				return writeResult(cmd, string(m.Bytes()))
			}
			return writeResult(cmd, m.String())
		},
	}
	addKeyFlags(cmd, true)
	return cmd
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through the p=61, q=53 example and a random round trip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			v, err := core.RunTextbookVector()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, i18n.T("demo.vector_header"))
			fmt.Fprintf(out, "  p=%s q=%s n=%s phi=%s e=%s d=%s\n", v.P, v.Q, v.N, v.Phi, v.E, v.D)
			fmt.Fprintf(out, "  m=%s -> c=%s -> m'=%s\n", v.Message, v.Cipher, v.Decrypted)
			if !v.OK() {
				return errors.New(i18n.T("demo.vector_failed"))
			}

			samples, _ := cmd.Flags().GetInt("samples")
			if samples <= 0 {
				return nil
			}
			bits := bitsFromFlag(cmd)
			e, err := exponentFromFlag(cmd)
			if err != nil {
				return err
			}
			kp, err := engineFromFlags(cmd).GenerateKeyPairWithRetry(cmd.Context(), bits, e)
			if err != nil {
				return errors.New(i18n.T("keygen.error_generate", err))
			}
			rep, err := core.RoundTripCheck(kp, samples, nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, i18n.T("demo.roundtrip_result", rep.Samples, kp.ModulusBits(), kp.E().String(), rep.Failures))
			if rep.Failures > 0 {
				return errors.New(i18n.T("demo.roundtrip_failed", rep.Failures))
			}
			return nil
		},
	}
	cmd.Flags().Int("bits", 0, "Bit length of each prime for the random round trip (default from config)")
	cmd.Flags().String("exponent", "", "Public exponent for the random key, decimal or 0x-hex (default from config)")
	cmd.Flags().Int("samples", 20, "Random messages to round-trip; 0 skips the random key")
	return cmd
}
