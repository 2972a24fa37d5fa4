package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nemberjs/nember/internal/cmd"
	cmdopts "github.com/nemberjs/nember/internal/cmd/options"
	"github.com/nemberjs/nember/internal/config"
	"github.com/nemberjs/nember/internal/daemon"
	"github.com/nemberjs/nember/internal/flags"
	"github.com/nemberjs/nember/internal/normalize"
)

const (
	// defaultAddr is used when neither the --addr flag nor the config file set an address.
	defaultAddr = "0.0.0.0:8090"

	// devAddr replaces any configured address in --dev mode.
	devAddr = "localhost:8090"

	flagNameAddr = "addr"
	flagNameDev  = "dev"
)

// ServeCmd should be used to represent the 'serve' command.
type ServeCmd struct {
	*cmd.BaseCmd
	Dev       bool
	Addr      string
	cfgLoader config.Loader
}

// NewServeCmd creates a newly configured (Cobra) command.
func NewServeCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ServeCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "serve [--dev] [--addr]",
		Short: "Launches the `nember` API",
		Long: "Launches the `nember` API, which serves posts and comments in root key envelopes " +
			"using the formats, plural overrides and meta settings of the configuration file",
		RunE: c.run,
		Args: cobra.NoArgs,
	}

	cobraCommand.Flags().BoolVar(
		&c.Dev,
		flagNameDev,
		false,
		"Run the API in development-focused mode",
	)

	cobraCommand.Flags().StringVar(
		&c.Addr,
		flagNameAddr,
		defaultAddr,
		"Address for the API to bind, overrides api.addr from the config file (not applicable in --dev mode)",
	)

	cobraCommand.MarkFlagsMutuallyExclusive(flagNameDev, flagNameAddr)

	return cobraCommand, nil
}

// run is configured (via NewServeCmd) to be called by the Cobra framework when the command is executed.
// It may return an error (or nil, when there is no error).
func (c *ServeCmd) run(cobraCmd *cobra.Command, _ []string) error {
	logger, err := c.Logger()
	if err != nil {
		return err
	}

	cfg, err := c.LoadConfig(c.cfgLoader)
	if err != nil {
		return err
	}

	addr := c.resolveAddr(cfg, cobraCmd.Flags().Changed(flagNameAddr))

	// Override address for dev mode.
	if c.Dev {
		logger.Info("Development-focused mode", "addr", addr, "override", devAddr)
		addr = devAddr
	}

	if err := daemon.IsValidAddr(addr); err != nil {
		return err
	}

	deps, err := daemon.NewDependencies(logger, addr)
	if err != nil {
		return fmt.Errorf("error configuring nember daemon dependencies: %w", err)
	}

	opts, err := buildDaemonOptions(cfg)
	if err != nil {
		return fmt.Errorf("error configuring nember daemon options: %w", err)
	}

	d, err := daemon.NewDaemon(deps, opts...)
	if err != nil {
		return fmt.Errorf("failed to create nember daemon instance: %w", err)
	}

	// Create the signal handling context for the application.
	daemonCtx, daemonCtxCancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGINT,
	)
	defer daemonCtxCancel()

	runErr := make(chan error, 1)
	go func() {
		if err := d.StartAndManage(daemonCtx); err != nil && !errors.Is(err, context.Canceled) {
			runErr <- err
		}
		close(runErr)
	}()

	// Print --dev mode banner if required.
	if c.Dev {
		logger.Info("Launching API in dev mode", "addr", addr)
		banner := fmt.Sprintf("nember running in 'dev' mode.\n\n"+
			"  Local API:\thttp://%s/api/v1\n"+
			"  OpenAPI UI:\thttp://%s/docs\n"+
			"  Config file:\t%s\n"+
			"  Formats:\t%s\n",
			addr, addr, cfg.Path(), strings.Join(cfg.Envelope.FormatsOrDefault(), ", "))

		if flags.LogPath != "" {
			banner += fmt.Sprintf("  Log file:\t%s => (%s)\n", flags.LogPath, flags.LogLevel)
		}

		banner += "\nPress Ctrl+C to stop.\n\n"
		_, _ = fmt.Fprint(cobraCmd.OutOrStdout(), banner)
	}

	select {
	case <-daemonCtx.Done():
		logger.Info("Shutting down daemon")
		err := <-runErr // Wait for cleanup and deferred logging.
		return err      // Graceful Ctrl+C / SIGTERM.
	case err := <-runErr:
		logger.Error("daemon exited with error", "error", err)
		return err // Propagate daemon failure.
	}
}

// resolveAddr picks the bind address: an explicit --addr flag wins over api.addr from the config file,
// which wins over the flag default.
func (c *ServeCmd) resolveAddr(cfg *config.Config, flagChanged bool) string {
	addr := strings.TrimSpace(c.Addr)
	if flagChanged {
		return addr
	}

	if cfg != nil && cfg.API != nil && cfg.API.Addr != nil && strings.TrimSpace(*cfg.API.Addr) != "" {
		return strings.TrimSpace(*cfg.API.Addr)
	}

	if addr == "" {
		return defaultAddr
	}
	return addr
}

// buildDaemonOptions converts the configuration file into daemon options.
func buildDaemonOptions(cfg *config.Config) ([]daemon.Option, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	apiOpts, err := buildAPIOptions(cfg)
	if err != nil {
		return nil, err
	}

	opts := []daemon.Option{
		daemon.WithAPIOptions(apiOpts...),
		daemon.WithMetaTotal(cfg.Envelope.TotalEnabled()),
		daemon.WithAPIVersion(cfg.Envelope.APIVersion()),
		daemon.WithConventions(normalize.Conventions{
			OmitNulls:   cfg.Envelope.OmitNullsEnabled(),
			TrimStrings: cfg.Envelope.TrimStringsEnabled(),
		}),
	}

	if cfg.Envelope != nil && len(cfg.Envelope.Plurals) > 0 {
		opts = append(opts, daemon.WithPlurals(cfg.Envelope.Plurals))
	}

	return opts, nil
}

// buildAPIOptions converts the API and envelope sections of the configuration file into API server options.
func buildAPIOptions(cfg *config.Config) ([]daemon.APIOption, error) {
	opts := []daemon.APIOption{
		daemon.WithFormats(cfg.Envelope.FormatsOrDefault()...),
	}

	if cfg.API == nil {
		return opts, nil
	}

	if t := cfg.API.Timeout; t != nil && t.Shutdown != nil {
		opts = append(opts, daemon.WithShutdownTimeout(time.Duration(*t.Shutdown)))
	}

	cors := cfg.API.CORS
	if cors == nil || cors.Enable == nil || !*cors.Enable {
		return opts, nil
	}

	opts = append(opts, daemon.WithCORSEnabled(true))
	if len(cors.Origins) > 0 {
		opts = append(opts, daemon.WithCORSAllowOrigins(cors.Origins))
	}
	if len(cors.Methods) > 0 {
		opts = append(opts, daemon.WithCORSAllowMethods(cors.Methods))
	}
	if len(cors.Headers) > 0 {
		opts = append(opts, daemon.WithCORSAllowHeaders(cors.Headers))
	}
	if len(cors.ExposeHeaders) > 0 {
		opts = append(opts, daemon.WithCORSExposeHeaders(cors.ExposeHeaders))
	}
	if cors.Credentials != nil {
		opts = append(opts, daemon.WithCORSAllowCredentials(*cors.Credentials))
	}
	if cors.MaxAge != nil {
		opts = append(opts, daemon.WithCORSMaxAge(time.Duration(*cors.MaxAge)))
	}

	return opts, nil
}
