package config

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/nemberjs/nember/internal/cmd"
	cmdopts "github.com/nemberjs/nember/internal/cmd/options"
	"github.com/nemberjs/nember/internal/config"
)

type stubLoader struct {
	cfg *config.Config
	err error
}

func (s *stubLoader) Load(_ string) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.cfg, nil
}

func ptr[T any](v T) *T {
	return &v
}

func testConfig() *config.Config {
	return &config.Config{
		API: &config.APIConfigSection{
			Addr: ptr("localhost:9000"),
		},
		Envelope: &config.EnvelopeConfigSection{
			Formats: []string{"json", "yaml"},
			Plurals: map[string]string{"person": "people"},
			Meta: &config.MetaConfigSection{
				APIVersion: ptr("v2"),
			},
		},
	}
}

func execute(t *testing.T, c *cobra.Command, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	c.SetOut(&stdout)
	c.SetErr(&stderr)
	c.SetArgs(args)

	err := c.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNewCmd_Subcommands(t *testing.T) {
	t.Parallel()

	c, err := NewCmd(&cmd.BaseCmd{})
	require.NoError(t, err)

	var names []string
	for _, sub := range c.Commands() {
		names = append(names, sub.Name())
	}
	require.ElementsMatch(t, []string{"show", "validate"}, names)
}

func TestNewCmd_InvalidOption(t *testing.T) {
	t.Parallel()

	_, err := NewCmd(&cmd.BaseCmd{}, cmdopts.WithConfigLoader(nil))
	require.EqualError(t, err, "config loader cannot be nil")
}

func TestShowCmd_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{
			name: "default toml",
			args: nil,
			contains: []string{
				"[api]",
				`addr = "localhost:9000"`,
				"[envelope]",
				`api_version = "v2"`,
			},
		},
		{
			name: "json",
			args: []string{"--format", "json"},
			contains: []string{
				`"addr": "localhost:9000"`,
				`"formats": [`,
				`"person": "people"`,
				`"apiVersion": "v2"`,
			},
		},
		{
			name: "yaml",
			args: []string{"--format", "YAML"},
			contains: []string{
				"addr: localhost:9000",
				"person: people",
				"api_version: v2",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c, err := NewShowCmd(&cmd.BaseCmd{}, cmdopts.WithConfigLoader(&stubLoader{cfg: testConfig()}))
			require.NoError(t, err)

			out, _, err := execute(t, c, tc.args...)
			require.NoError(t, err)
			for _, s := range tc.contains {
				require.Contains(t, out, s)
			}
		})
	}
}

func TestShowCmd_InvalidFormat(t *testing.T) {
	t.Parallel()

	c, err := NewShowCmd(&cmd.BaseCmd{}, cmdopts.WithConfigLoader(&stubLoader{cfg: testConfig()}))
	require.NoError(t, err)

	_, _, err = execute(t, c, "--format", "text")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid format 'text'")
}

func TestShowCmd_LoadErrorRendered(t *testing.T) {
	t.Parallel()

	loader := &stubLoader{err: errors.New("boom")}
	c, err := NewShowCmd(&cmd.BaseCmd{}, cmdopts.WithConfigLoader(loader))
	require.NoError(t, err)

	out, _, err := execute(t, c, "--format", "json")
	require.NoError(t, err)
	require.Contains(t, out, `"error": "failed to load config file`)
	require.Contains(t, out, "boom")
}

func TestValidateCmd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		cfg       *config.Config
		loadErr   error
		args      []string
		wantErr   error
		errSubstr string
	}{
		{
			name: "valid",
			cfg:  testConfig(),
		},
		{
			name: "valid strict",
			cfg:  testConfig(),
			args: []string{"--strict"},
		},
		{
			name: "missing addr allowed without strict",
			cfg:  &config.Config{},
		},
		{
			name:    "missing addr rejected with strict",
			cfg:     &config.Config{},
			args:    []string{"--strict"},
			wantErr: config.ErrInvalidValue,
		},
		{
			name:      "load failure",
			loadErr:   errors.New("bad toml"),
			errSubstr: "bad toml",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			loader := &stubLoader{cfg: tc.cfg, err: tc.loadErr}
			c, err := NewValidateCmd(&cmd.BaseCmd{}, cmdopts.WithConfigLoader(loader))
			require.NoError(t, err)

			out, errOut, err := execute(t, c, tc.args...)

			if tc.wantErr == nil && tc.errSubstr == "" {
				require.NoError(t, err)
				require.Contains(t, out, "✓ Configuration is valid")
				return
			}

			require.Error(t, err)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			}
			if tc.errSubstr != "" {
				require.Contains(t, err.Error(), tc.errSubstr)
			}
			require.Contains(t, errOut, "✗ Configuration validation failed")
		})
	}
}
