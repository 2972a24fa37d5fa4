package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/nemberjs/nember/internal/config"
	"github.com/nemberjs/nember/internal/files"
	"github.com/nemberjs/nember/internal/flags"
	"github.com/nemberjs/nember/internal/perms"
)

const (
	// AppName is the name of the application, used for the root command and the logger.
	AppName = "nember"

	// UserConfigFile is the name of the configuration file inside the user-specific configuration directory.
	UserConfigFile = "config.toml"
)

var version = "dev" // Set at build time using -ldflags

// Version returns the version of the application.
func Version() string {
	return version
}

type BaseCmd struct {
	logger hclog.Logger
}

// SetLogger updates the command's logger
func (c *BaseCmd) SetLogger(logger hclog.Logger) {
	c.logger = logger
}

// Logger returns the current logger for the command.
// When none was set, one is created from the log flags, falling back to the environment.
// Logs are discarded unless a log path is configured.
func (c *BaseCmd) Logger() (hclog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}

	// Get log level from flags first, then environment, then default
	logLevel := strings.ToLower(strings.TrimSpace(flags.LogLevel))
	if logLevel == "" {
		logLevel = strings.ToLower(os.Getenv(flags.EnvVarLogLevel))
		if logLevel == "" {
			logLevel = flags.DefaultLogLevel
		}
	}

	level := hclog.LevelFromString(logLevel)
	if level == hclog.NoLevel {
		return nil, fmt.Errorf("invalid log level '%s'", logLevel)
	}

	// Get log path from flags first, then environment
	logPath := strings.TrimSpace(flags.LogPath)
	if logPath == "" {
		logPath = strings.TrimSpace(os.Getenv(flags.EnvVarLogPath))
	}

	// Configure logger output
	var output io.Writer = io.Discard
	if logPath != "" {
		if err := files.EnsureParentDir(logPath); err != nil {
			return nil, fmt.Errorf("failed to open log file (%s): %w", logPath, err)
		}
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, perms.RegularFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file (%s): %w", logPath, err)
		}
		output = f
	}

	c.logger = hclog.New(&hclog.LoggerOptions{
		Name:   AppName,
		Level:  level,
		Output: output,
	})

	return c.logger, nil
}

// LoadConfig loads the configuration file named by the config file flag with loader.
// When the flag names the default file and it is absent from the current directory,
// the user-specific configuration file is used instead, if present.
func (c *BaseCmd) LoadConfig(loader config.Loader) (*config.Config, error) {
	path := strings.TrimSpace(flags.ConfigFile)
	if path == "" {
		path = flags.DefaultConfigFile
	}
	if path == flags.DefaultConfigFile {
		path = userConfigFallback(path)
	}

	cfg, err := loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", path, err)
	}
	return cfg, nil
}

// userConfigFallback returns the user-specific configuration file when path does not exist and the former does.
func userConfigFallback(path string) string {
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		return path
	}

	dir, err := files.UserSpecificConfigDir()
	if err != nil {
		return path
	}

	candidate := filepath.Join(dir, UserConfigFile)
	if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
		return candidate
	}

	return path
}
