package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jb-empire/empire-desktop/internal/app"
	"github.com/jb-empire/empire-desktop/internal/config"
)

// Streams are the standard streams a command reads from and writes to.
type Streams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// StdStreams returns the process streams.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr}
}

type runner struct {
	args    []string
	streams Streams
	app     *app.App
}

// Execute runs the command line args (without the program name) and returns
// the process exit code.
func Execute(ctx context.Context, args []string, s Streams) int {
	r := &runner{args: args, streams: s}
	defer r.close()

	cmd := r.rootCmd()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(s.ErrOut, "error: %v\n", err)
		return 1
	}
	return 0
}

func (r *runner) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "empire",
		Short:         "Empire desktop core: token vault and local cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return r.init()
		},
	}
	root.SetIn(r.streams.In)
	root.SetOut(r.streams.Out)
	root.SetErr(r.streams.ErrOut)

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "path to a JSON or YAML config file")
	pf.StringP("db", "d", "", "path of the cache database")
	pf.StringP("service", "s", "", "keychain service namespace")
	pf.StringP("log-level", "l", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		r.pingCmd(),
		r.versionCmd(),
		r.tokenCmd(),
		r.dbCmd(),
		r.settingsCmd(),
	)
	return root
}

func (r *runner) init() error {
	if r.app != nil {
		return nil
	}
	cfg, err := config.LoadConfig(r.args)
	if err != nil {
		return err
	}
	a, err := app.New(cfg, r.streams.ErrOut)
	if err != nil {
		return err
	}
	r.app = a
	return nil
}

func (r *runner) close() {
	if r.app != nil {
		_ = r.app.Close()
	}
}

func (r *runner) printf(format string, args ...any) {
	fprintf(r.streams.Out, format, args...)
}

func fprintf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}
