package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jb-empire/empire-desktop/internal/vault"
)

func (r *runner) tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage per-identity tokens in the secret vault",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "store <identity>",
			Short: "Store a token read from stdin (no echo on a terminal)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := r.app.Vault()
				if err != nil {
					return err
				}
				secret, err := readSecret(r.streams.In, r.streams.ErrOut)
				if err != nil {
					return err
				}
				if err := v.Store(cmd.Context(), args[0], secret); err != nil {
					return err
				}
				r.printf("token stored for %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "get <identity>",
			Short: "Print the stored token",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := r.app.Vault()
				if err != nil {
					return err
				}
				secret, ok, err := v.Retrieve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no token stored for %s", args[0])
				}
				r.printf("%s\n", secret)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <identity>",
			Short: "Delete the stored token; deleting a missing token succeeds",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := r.app.Vault()
				if err != nil {
					return err
				}
				if err := v.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				r.printf("token deleted for %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "has <identity>",
			Short: "Report whether a token is stored",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := r.app.Vault()
				if err != nil {
					return err
				}
				ok, err := v.Exists(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				r.printf("%t\n", ok)
				return nil
			},
		},
		&cobra.Command{
			Use:   "status <identity>",
			Short: "Show whether the stored token is present and when it expires",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := r.app.Vault()
				if err != nil {
					return err
				}
				return r.tokenStatus(cmd, v, args[0])
			},
		},
	)
	return cmd
}

func (r *runner) tokenStatus(cmd *cobra.Command, v *vault.Vault, identity string) error {
	secret, ok, err := v.Retrieve(cmd.Context(), identity)
	if err != nil {
		return err
	}
	if !ok {
		r.printf("%s: absent\n", identity)
		return nil
	}

	exp, hasExp, err := vault.TokenExpiry(secret)
	switch {
	case err != nil:
		r.printf("%s: present (%v)\n", identity, err)
	case !hasExp:
		r.printf("%s: present, no expiry\n", identity)
	case time.Now().After(exp):
		r.printf("%s: present, expired at %s\n", identity, exp.UTC().Format(time.RFC3339))
	default:
		r.printf("%s: present, expires at %s\n", identity, exp.UTC().Format(time.RFC3339))
	}
	return nil
}
