package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	configcmd "github.com/nemberjs/nember/cmd/config"
	"github.com/nemberjs/nember/internal/cmd"
	cmdopts "github.com/nemberjs/nember/internal/cmd/options"
	"github.com/nemberjs/nember/internal/flags"
)

type RootCmd struct {
	*cmd.BaseCmd
}

// Execute builds the root command and runs it.
func Execute() error {
	rootCmd, err := NewRootCmd(&cmd.BaseCmd{})
	if err != nil {
		return fmt.Errorf("error creating root command: %w", err)
	}

	return rootCmd.Execute()
}

// NewRootCmd creates the root command with every sub-command attached.
func NewRootCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	c := &RootCmd{
		BaseCmd: baseCmd,
	}

	rootCmd := &cobra.Command{
		Use:           cmd.AppName + " <command> [args]",
		Short:         "'nember' serves resources wrapped in root key envelopes",
		Long:          c.longDescription(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       cmd.Version(),
	}

	// Global flags
	flags.InitFlags(rootCmd.PersistentFlags())

	// Add top-level commands.
	fns := []func(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error){
		NewInitCmd,       // init
		NewServeCmd,      // serve
		configcmd.NewCmd, // config
	}

	for _, fn := range fns {
		tempCmd, err := fn(c.BaseCmd, opt...)
		if err != nil {
			return nil, err
		}
		rootCmd.AddCommand(tempCmd)
	}

	return rootCmd, nil
}

func (c *RootCmd) longDescription() string {
	return `The 'nember' CLI runs an HTTP API whose bodies are wrapped in root key envelopes.

Domain values are placed under a key named after their type ("post", "posts"), related
resources are side-loaded next to them and document level metadata is added under "meta".
Scalars, maps and ad-hoc records are sent as they are.`
}
