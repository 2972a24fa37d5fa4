package config

import (
	"github.com/spf13/cobra"

	"github.com/nemberjs/nember/internal/cmd"
	"github.com/nemberjs/nember/internal/cmd/options"
)

func NewCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	cobraCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspects nember configuration",
		Long:  "Inspects the .nember.toml configuration file including API settings, CORS, formats, plurals and meta",
	}

	// Sub-commands for: nember config
	fns := []func(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error){
		NewShowCmd,     // show
		NewValidateCmd, // validate
	}

	for _, fn := range fns {
		tempCmd, err := fn(baseCmd, opt...)
		if err != nil {
			return nil, err
		}
		cobraCmd.AddCommand(tempCmd)
	}

	return cobraCmd, nil
}
