package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/leapstack-labs/leapprofile/internal/cli/output"
	"github.com/leapstack-labs/leapprofile/internal/secrets"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// openSecrets opens the keyring. Replaced in tests.
var openSecrets = secrets.Open

// NewSecretCommand creates the secret command group.
func NewSecretCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage target passwords in the OS keyring",
		Long: `Store database passwords in the OS keyring instead of leapprofile.yaml.

Reference a stored secret from the config with the keyring: prefix:

  target:
    type: postgres
    password: keyring:warehouse

On systems without a native keyring an encrypted file under
~/.leapprofile/keyring is used; set ` + secrets.PasswordEnv + ` to unlock it.`,
	}

	cmd.AddCommand(newSecretSetCommand(), newSecretDeleteCommand(), newSecretListCommand())
	return cmd
}

func newSecretSetCommand() *cobra.Command {
	var value string

	cmd := &cobra.Command{
		Use:   "set <key>",
		Short: "Store a secret",
		Example: `  # Prompt for the value
  leapprofile secret set warehouse

  # Read the value from stdin
  echo "$PGPASSWORD" | leapprofile secret set warehouse`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("value") {
				v, err := readSecret(cmd)
				if err != nil {
					return err
				}
				value = v
			}
			if value == "" {
				return errors.New("secret value is empty")
			}

			mgr, err := openSecrets()
			if err != nil {
				return err
			}
			if err := mgr.Set(args[0], value); err != nil {
				return err
			}
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(getConfig().OutputFormat))
			r.Success(fmt.Sprintf("Stored %s%s", secrets.Prefix, args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "Secret value (visible in shell history; prefer stdin)")
	return cmd
}

func newSecretDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <key>",
		Aliases: []string{"rm"},
		Short:   "Remove a secret",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := openSecrets()
			if err != nil {
				return err
			}
			if err := mgr.Delete(args[0]); err != nil {
				return err
			}
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(getConfig().OutputFormat))
			r.Success("Deleted " + args[0])
			return nil
		},
	}
}

func newSecretListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored secret keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := openSecrets()
			if err != nil {
				return err
			}
			keys, err := mgr.Keys()
			if err != nil {
				return err
			}
			slices.Sort(keys)

			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(getConfig().OutputFormat))
			if r.EffectiveMode() == output.ModeJSON {
				if keys == nil {
					keys = []string{}
				}
				return r.JSON(keys)
			}
			if len(keys) == 0 {
				r.Muted("No secrets stored.")
				return nil
			}
			for _, k := range keys {
				r.Println(secrets.Prefix + k)
			}
			return nil
		},
	}
}

// readSecret prompts without echo on a terminal, otherwise reads the first
// line of stdin.
func readSecret(cmd *cobra.Command) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // fd fits in int
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Secret value: ")
		b, err := term.ReadPassword(int(f.Fd())) //nolint:gosec // fd fits in int
		_, _ = fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read secret from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
