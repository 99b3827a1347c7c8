// Package cli implements the csfloat command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"csfloat/market/internal/config"
	"csfloat/market/internal/container"

	"github.com/spf13/cobra"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

type app struct {
	configFile string
	output     string

	container *container.Container
}

// NewRootCommand builds the command tree. Configuration is loaded and the
// client wired before any subcommand runs.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "csfloat",
		Short:         "Client for the CSFloat market API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.output != outputTable && a.output != outputJSON {
				return fmt.Errorf("unknown output format %q", a.output)
			}

			cfg, err := config.Load(a.configFile)
			if err != nil {
				return err
			}
			if err := setupLogging(cfg.Log, cmd.ErrOrStderr()); err != nil {
				return err
			}

			a.container, err = container.New(cfg)
			return err
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "path to a config file (default ./config.yaml when present)")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", outputTable, "output format: table or json")

	root.AddCommand(
		newSearchCommand(a),
		newGetCommand(a),
		newCreateCommand(a),
		newExportCommand(a),
	)

	return root
}

// Execute runs the CLI with os.Args. An interrupt cancels the running
// request.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return run(ctx, NewRootCommand(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, root *cobra.Command, args []string, out, errOut io.Writer) error {
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}
