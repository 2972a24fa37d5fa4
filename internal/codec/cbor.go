package codec

import (
	"fmt"
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

const (
	// CBORName is the configuration name of the CBOR codec.
	CBORName = "cbor"

	// CBORContentType is the media type served by the CBOR codec.
	CBORContentType = "application/cbor"
)

// CBOR encodes with github.com/fxamacker/cbor/v2 using Core Deterministic Encoding.
// Struct fields use their json tag names when no cbor tag is present.
type CBOR struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// NewCBOR returns the CBOR codec.
func NewCBOR() *CBOR {
	encOptions := cbor.CoreDetEncOptions()
	encOptions.Time = cbor.TimeRFC3339Nano
	enc, err := encOptions.EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	dec, err := cbor.DecOptions{
		// Decoded any-typed maps must be usable as map[string]any.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}

	return &CBOR{enc: enc, dec: dec}
}

func (*CBOR) Name() string {
	return CBORName
}

func (*CBOR) ContentType() string {
	return CBORContentType
}

func (c *CBOR) Marshal(w io.Writer, v any) error {
	return c.enc.NewEncoder(w).Encode(v)
}

func (c *CBOR) Unmarshal(data []byte, v any) error {
	return c.dec.Unmarshal(data, v)
}

func (c *CBOR) UnmarshalRoot(data []byte, key string, v any) error {
	var doc map[string]cbor.RawMessage
	if err := c.dec.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding cbor envelope: %w", err)
	}

	raw, err := rootOf(doc, key)
	if err != nil {
		return err
	}

	return c.dec.Unmarshal(raw, v)
}
