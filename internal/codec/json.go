package codec

import (
	"encoding/json"
	"fmt"
	"io"
)

const (
	// JSONName is the configuration name of the JSON codec.
	JSONName = "json"

	// JSONContentType is the media type served by the JSON codec.
	JSONContentType = "application/json"
)

// JSON encodes with encoding/json, matching the engine huma uses by default.
type JSON struct{}

// NewJSON returns the JSON codec.
func NewJSON() *JSON {
	return &JSON{}
}

func (*JSON) Name() string {
	return JSONName
}

func (*JSON) ContentType() string {
	return JSONContentType
}

func (*JSON) Marshal(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func (*JSON) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (*JSON) UnmarshalRoot(data []byte, key string, v any) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding json envelope: %w", err)
	}

	raw, err := rootOf(doc, key)
	if err != nil {
		return err
	}

	return json.Unmarshal(raw, v)
}
