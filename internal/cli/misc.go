package cli

import (
	"github.com/spf13/cobra"

	"github.com/jb-empire/empire-desktop/internal/buildinfo"
)

func (r *runner) pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the core responds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r.printf("pong\n")
			return nil
		},
	}
}

func (r *runner) versionCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if verbose {
				buildinfo.PrintBuildData(r.streams.Out)
				return nil
			}
			r.printf("%s\n", buildinfo.AppVersion())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "include build date and commit")
	return cmd
}
