package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"github.com/xeipuuv/gojsonschema"

	"github.com/nemberjs/nember/internal/files"
	"github.com/nemberjs/nember/internal/perms"
)

//go:embed schema.json
var schemaJSON []byte

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

const tomlSkeleton = `# nember configuration

[api]
addr = "0.0.0.0:8090"

[api.timeout]
shutdown = "5s"

[envelope]
# Served formats, the first one is the default.
formats = ["json", "yaml", "cbor", "msgpack"]
# Body conventions: drop null members, trim strings.
omit_nulls = true
trim_strings = true

[envelope.plurals]
# singular = "plural"

[envelope.meta]
total = true
`

const jsoncSkeleton = `// nember configuration
{
  "api": {
    "addr": "0.0.0.0:8090",
    "timeout": { "shutdown": "5s" }
  },
  "envelope": {
    // Served formats, the first one is the default.
    "formats": ["json", "yaml", "cbor", "msgpack"],
    "omitNulls": true,
    "trimStrings": true,
    "plurals": {},
    "meta": { "total": true }
  }
}
`

// Init creates the base skeleton configuration file for the nember project.
// Files ending in .json or .jsonc get a JSON skeleton, anything else TOML.
func (d *DefaultLoader) Init(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	content := tomlSkeleton
	if isJSONPath(path) {
		content = jsoncSkeleton
	}

	if err := files.EnsureParentDir(path); err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(content), perms.RegularFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// Load reads, schema-checks and validates the configuration file at path.
func (d *DefaultLoader) Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", ErrConfigLoadFailed)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: config file cannot be found, run: 'nember init'", ErrConfigLoadFailed)
		}
		return nil, fmt.Errorf("%w: failed to read config file (%s): %w", ErrConfigLoadFailed, path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: config file is empty (%s)", ErrConfigLoadFailed, path)
	}

	cfg, err := decode(path, data)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode config from file (%s): %w", ErrConfigLoadFailed, path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: failed to validate existing config (%s): %w", ErrConfigLoadFailed, path, err)
	}

	cfg.configFilePath = path

	return cfg, nil
}

// decode parses data by file extension, rejecting unknown keys.
func decode(path string, data []byte) (*Config, error) {
	cfg := &Config{}

	if isJSONPath(path) {
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	return cfg, nil
}

// validate orchestrates validation of configuration structure.
func (c *Config) validate() error {
	if err := c.validateSchema(); err != nil {
		return err
	}

	var validationErrors []error

	if err := c.API.Validate(); err != nil {
		validationErrors = append(validationErrors, fmt.Errorf("API configuration error: %w", err))
	}

	if err := c.Envelope.Validate(); err != nil {
		validationErrors = append(validationErrors, fmt.Errorf("envelope configuration error: %w", err))
	}

	return errors.Join(validationErrors...)
}

// validateSchema checks the canonical JSON form of c against the embedded JSON schema.
func (c *Config) validateSchema() error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}

	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config for schema validation: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("validating config schema: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(msgs, "; "))
}

func isJSONPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return true
	default:
		return false
	}
}
