package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nemberjs/nember/internal/cmd"
	cmdopts "github.com/nemberjs/nember/internal/cmd/options"
	"github.com/nemberjs/nember/internal/config"
)

type ValidateCmd struct {
	*cmd.BaseCmd
	Strict    bool
	cfgLoader config.Loader
}

func NewValidateCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ValidateCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCmd := &cobra.Command{
		Use:   "validate [--strict]",
		Short: "Validates the configuration",
		Long:  "Validates the .nember.toml file against its schema and value rules",
		RunE:  c.run,
		Args:  cobra.NoArgs,
	}

	cobraCmd.Flags().BoolVar(
		&c.Strict,
		"strict",
		false,
		"Also require settings that are optional for 'serve' (api.addr)",
	)

	return cobraCmd, nil
}

func (c *ValidateCmd) run(cobraCmd *cobra.Command, _ []string) error {
	var predicates []config.ValidationPredicate
	if c.Strict {
		predicates = append(predicates, config.RequireAPIAddr)
	}

	if _, err := c.LoadConfig(config.NewValidatingLoader(c.cfgLoader, predicates...)); err != nil {
		_, _ = fmt.Fprintf(cobraCmd.OutOrStderr(), "✗ Configuration validation failed: %v\n", err)
		return err
	}

	_, _ = fmt.Fprintf(cobraCmd.OutOrStdout(), "✓ Configuration is valid\n")
	return nil
}
