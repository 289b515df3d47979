package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jb-empire/empire-desktop/internal/common"
)

func (r *runner) settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and change user preferences",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Print every setting as key=value",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := r.app.Cache(cmd.Context())
				if err != nil {
					return err
				}
				all, err := c.Settings().List(cmd.Context())
				if err != nil {
					return err
				}
				keys := make([]string, 0, len(all))
				for k := range all {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					r.printf("%s=%s\n", k, all[k])
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one setting's JSON value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := r.app.Cache(cmd.Context())
				if err != nil {
					return err
				}
				s, err := c.Settings().Get(cmd.Context(), args[0])
				if errors.Is(err, common.ErrorNotFound) {
					return fmt.Errorf("setting %s not found", args[0])
				}
				if err != nil {
					return err
				}
				r.printf("%s\n", s.Value)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <json-value>",
			Short: `Set a setting to a JSON scalar, e.g. theme '"light"'`,
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := r.app.Cache(cmd.Context())
				if err != nil {
					return err
				}
				return c.Settings().Set(cmd.Context(), args[0], args[1])
			},
		},
	)
	return cmd
}
