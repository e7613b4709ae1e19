// Package cli provides the CLI client, i.e. the `bricksmith` binary.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/hoistlabs/bricksmith/internal"
	cmdutil "github.com/hoistlabs/bricksmith/internal/cmd"
	"github.com/hoistlabs/bricksmith/internal/logr"
	"github.com/hoistlabs/bricksmith/internal/provision"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// CLI is the `bricksmith` cli application
type CLI struct {
	loggerCfg logr.Config
	profile   string
	debug     bool

	workflow *provision.Workflow
}

func New() *CLI {
	return &CLI{
		workflow: &provision.Workflow{},
	}
}

func (a *CLI) Run(ctx context.Context, args []string, out io.Writer) error {
	cmd := &cobra.Command{
		Use:               "bricksmith",
		Short:             "Provision AI Foundry agents with Databricks access",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	logr.LoadConfigFromFlags(cmd.PersistentFlags(), &a.loggerCfg)
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Print full error detail on failure")
	cmd.PersistentFlags().StringVar(&a.profile, "profile", "", "Path to a YAML profile providing flag defaults")

	cmd.SetArgs(args)
	cmd.SetOut(out)

	cmd.AddCommand(provision.NewCommand(a.workflow))
	cmd.AddCommand(versionCommand())

	return cmd.ExecuteContext(ctx)
}

// Debug reports whether the last run had debugging enabled.
func (a *CLI) Debug() bool { return a.debug }

// setup runs after flags are parsed and before any subcommand: it binds
// flags to the environment and profile, then equips the workflow with a
// logger and credentials.
func (a *CLI) setup(cmd *cobra.Command, args []string) error {
	if err := cmdutil.SetFlagsFromEnvVariables(cmd.Flags()); err != nil {
		return errors.Wrap(err, "failed to populate config from environment vars")
	}
	if a.profile != "" {
		if err := cmdutil.SetFlagsFromProfile(cmd.Flags(), a.profile); err != nil {
			return err
		}
	}

	logger, err := logr.New(&a.loggerCfg)
	if err != nil {
		return err
	}
	a.workflow.Logger = logger.WithValues("run_id", uuid.NewString())
	return nil
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print client version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), internal.Version)
			return nil
		},
	}
}
