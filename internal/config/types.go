package config

var (
	_ Provider = (*DefaultLoader)(nil)
	_ Loader   = (*validatingLoader)(nil)
)

// Loader loads a configuration file.
type Loader interface {
	Load(path string) (*Config, error)
}

// Initializer writes a skeleton configuration file.
type Initializer interface {
	Init(path string) error
}

// Provider can both create and load configuration files.
type Provider interface {
	Initializer
	Loader
}

// DefaultLoader reads .toml files with BurntSushi/toml and .json/.jsonc files as JSON with comments.
type DefaultLoader struct{}

// Config represents the .nember.toml file structure.
type Config struct {
	// API server configuration (includes address and nested timeout/cors)
	API *APIConfigSection `json:"api,omitempty" toml:"api,omitempty" yaml:"api,omitempty"`

	// Envelope transform configuration (formats, plural overrides and meta)
	Envelope *EnvelopeConfigSection `json:"envelope,omitempty" toml:"envelope,omitempty" yaml:"envelope,omitempty"`

	configFilePath string
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.configFilePath
}
