package cli

import (
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (r *runner) dbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Inspect and migrate the local cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply pending schema migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := r.app.Cache(cmd.Context())
				if err != nil {
					return err
				}
				v, err := c.SchemaVersion(cmd.Context())
				if err != nil {
					return err
				}
				r.printf("schema version %d\n", v)
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List schema migrations and whether they are applied",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := r.app.Cache(cmd.Context())
				if err != nil {
					return err
				}
				st, err := c.MigrationStatus(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(r.streams.Out, 0, 4, 2, ' ', 0)
				fprintf(tw, "VERSION\tSTATE\tNAME\n")
				for _, s := range st {
					fprintf(tw, "%d\t%s\t%s\n", s.Version, s.State, s.Name)
				}
				return tw.Flush()
			},
		},
		&cobra.Command{
			Use:   "pending",
			Short: "Count rows not yet reconciled with the remote store",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := r.app.Cache(cmd.Context())
				if err != nil {
					return err
				}
				ps, err := c.Pending(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(r.streams.Out, 0, 4, 2, ' ', 0)
				fprintf(tw, "TABLE\tPENDING\n")
				fprintf(tw, "users\t%d\n", len(ps.Users))
				fprintf(tw, "projects\t%d\n", len(ps.Projects))
				fprintf(tw, "conversations\t%d\n", len(ps.Conversations))
				fprintf(tw, "messages\t%d\n", len(ps.Messages))
				fprintf(tw, "project_files\t%d\n", len(ps.ProjectFiles))
				return tw.Flush()
			},
		},
	)
	return cmd
}
