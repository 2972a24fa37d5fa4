package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nemberjs/nember/internal/cmd"
	cmdopts "github.com/nemberjs/nember/internal/cmd/options"
	"github.com/nemberjs/nember/internal/config"
)

type ShowCmd struct {
	*cmd.BaseCmd
	Format    cmd.OutputFormat
	cfgLoader config.Loader
}

func NewShowCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ShowCmd{
		BaseCmd:   baseCmd,
		Format:    cmd.FormatTOML,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCmd := &cobra.Command{
		Use:   "show",
		Short: "Shows the loaded configuration",
		Long:  "Shows the configuration loaded from the .nember.toml file, rendered in the requested format",
		RunE:  c.run,
		Args:  cobra.NoArgs,
	}

	allowed := cmd.AllowedOutputFormats()
	cobraCmd.Flags().Var(
		&c.Format,
		"format",
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)

	return cobraCmd, nil
}

func (c *ShowCmd) run(cobraCmd *cobra.Command, _ []string) error {
	handler, err := cmd.NewOutputHandler[*config.Config](c.Format, cobraCmd.OutOrStdout())
	if err != nil {
		return err
	}

	cfg, err := c.LoadConfig(c.cfgLoader)
	if err != nil {
		return handler.HandleError(err)
	}

	return handler.HandleResult(cfg)
}
