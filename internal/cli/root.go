// Package cli defines the bindgen command tree.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/kvbindgen/internal/app"
	"github.com/dmitrijs2005/kvbindgen/internal/config"
	"github.com/dmitrijs2005/kvbindgen/internal/logging"
)

type runner struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
	app    *app.App
	logger logging.Logger
}

// NewRootCmd builds the command tree for args (without the program name).
// The JSON config named in args is loaded here so that its values become
// flag defaults.
func NewRootCmd(args []string, stdout, stderr io.Writer) (*cobra.Command, error) {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return nil, err
	}
	r := &runner{cfg: cfg, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "bindgen",
		Short: "Generate key-value binding tests for Python, Ruby and Java",
		Long: `bindgen turns an abstract script of get/put/delete operations into one
test program per target language and a shell launcher per program.

Without a subcommand it runs generate.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: r.setup,
		PersistentPostRun: r.teardown,
		RunE:              r.generate,
	}
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	config.BindFlags(root.PersistentFlags(), cfg)

	root.AddCommand(
		&cobra.Command{
			Use:   "generate",
			Short: "Write programs, launchers and the shellwrappers fragment",
			Args:  cobra.NoArgs,
			RunE:  r.generate,
		},
		&cobra.Command{
			Use:   "list",
			Short: "List test-cases with their operation counts",
			Args:  cobra.NoArgs,
			RunE:  r.list,
		},
		&cobra.Command{
			Use:   "check",
			Short: "Syntax-check an existing output tree and compare it with the manifest",
			Args:  cobra.NoArgs,
			RunE:  r.check,
		},
	)
	return root, nil
}

// Execute runs the command tree for args.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root, err := NewRootCmd(args, stdout, stderr)
	if err != nil {
		return err
	}
	return root.ExecuteContext(ctx)
}

func (r *runner) setup(cmd *cobra.Command, _ []string) error {
	logger, err := logging.New(r.cfg.LogFormat, r.cfg.LogLevel, r.stderr)
	if err != nil {
		return err
	}
	a, err := app.NewApp(r.cfg, logger, r.stdout)
	if err != nil {
		return err
	}
	r.logger = logger
	r.app = a
	return nil
}

func (r *runner) teardown(*cobra.Command, []string) {
	if z, ok := r.logger.(*logging.ZapLogger); ok {
		_ = z.Sync()
	}
}

func (r *runner) generate(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments %q", args)
	}
	_, err := r.app.Generate(cmd.Context())
	return err
}

func (r *runner) list(cmd *cobra.Command, _ []string) error {
	return r.app.List(cmd.Context(), r.stdout)
}

func (r *runner) check(cmd *cobra.Command, _ []string) error {
	n, err := r.app.Check(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(r.stdout, "%d files ok\n", n)
	return nil
}
