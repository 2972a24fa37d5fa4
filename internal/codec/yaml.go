package codec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	// YAMLName is the configuration name of the YAML codec.
	YAMLName = "yaml"

	// YAMLContentType is the media type served by the YAML codec.
	YAMLContentType = "application/yaml"
)

// YAML encodes with gopkg.in/yaml.v3 using two space indentation.
type YAML struct {
	indent int
}

// NewYAML returns the YAML codec.
func NewYAML() *YAML {
	return &YAML{indent: 2}
}

func (*YAML) Name() string {
	return YAMLName
}

func (*YAML) ContentType() string {
	return YAMLContentType
}

func (y *YAML) Marshal(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	defer func(enc *yaml.Encoder) {
		// Ensure encoder is closed to flush any buffered data.
		_ = enc.Close()
	}(enc)
	enc.SetIndent(y.indent)
	return enc.Encode(v)
}

func (*YAML) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

func (*YAML) UnmarshalRoot(data []byte, key string, v any) error {
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding yaml envelope: %w", err)
	}

	node, err := rootOf(doc, key)
	if err != nil {
		return err
	}

	return node.Decode(v)
}
