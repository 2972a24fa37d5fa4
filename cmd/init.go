package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nemberjs/nember/internal/cmd"
	cmdopts "github.com/nemberjs/nember/internal/cmd/options"
	"github.com/nemberjs/nember/internal/config"
	"github.com/nemberjs/nember/internal/flags"
)

type InitCmd struct {
	*cmd.BaseCmd
	cfgInitializer config.Initializer
}

func NewInitCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &InitCmd{
		BaseCmd:        baseCmd,
		cfgInitializer: opts.ConfigInitializer,
	}

	return &cobra.Command{
		Use:   "init",
		Short: "Creates a `nember` configuration file",
		Long: fmt.Sprintf(
			"Creates a %s configuration file in the current directory.\n\n"+
				"A path ending in .json or .jsonc gets a JSON (with comments) skeleton instead of TOML, "+
				"missing parent directories are created.\n\n"+
				"The path can be overridden using the `--%s` flag or the `%s` environment variable",
			flags.DefaultConfigFile,
			flags.FlagNameConfigFile,
			flags.EnvVarConfigFile,
		),
		RunE: c.run,
		Args: cobra.NoArgs,
	}, nil
}

func (c *InitCmd) run(cobraCmd *cobra.Command, _ []string) error {
	logger, err := c.Logger()
	if err != nil {
		return err
	}

	path := strings.TrimSpace(flags.ConfigFile)
	if path == "" || path == flags.DefaultConfigFile {
		path = flags.DefaultConfigFile
		_, _ = fmt.Fprintf(
			cobraCmd.OutOrStdout(),
			"📄 Using default config file: '%s' in the current directory\n", flags.DefaultConfigFile,
		)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		logger.Error("Failed to resolve config file path", "path", path, "error", err)
		return fmt.Errorf("error resolving config file path '%s': %w", path, err)
	}

	if err := c.cfgInitializer.Init(abs); err != nil {
		logger.Error("Config initialization failed", "path", abs, "error", err)
		return fmt.Errorf("error initializing nember config: %w", err)
	}

	logger.Info("Config file created", "path", abs)
	_, err = fmt.Fprintf(cobraCmd.OutOrStdout(), "✅ Config file created: %s\n", abs)
	return err
}
