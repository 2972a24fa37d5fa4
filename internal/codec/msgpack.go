package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	// MsgpackName is the configuration name of the MessagePack codec.
	MsgpackName = "msgpack"

	// MsgpackContentType is the media type served by the MessagePack codec.
	MsgpackContentType = "application/msgpack"

	// structTag makes MessagePack field names agree with the JSON representation.
	structTag = "json"
)

// Msgpack encodes with github.com/vmihailenco/msgpack/v5.
type Msgpack struct{}

// NewMsgpack returns the MessagePack codec.
func NewMsgpack() *Msgpack {
	return &Msgpack{}
}

func (*Msgpack) Name() string {
	return MsgpackName
}

func (*Msgpack) ContentType() string {
	return MsgpackContentType
}

func (*Msgpack) Marshal(w io.Writer, v any) error {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag(structTag)
	return enc.Encode(v)
}

func (*Msgpack) Unmarshal(data []byte, v any) error {
	return newMsgpackDecoder(data).Decode(v)
}

func (*Msgpack) UnmarshalRoot(data []byte, key string, v any) error {
	var doc map[string]msgpack.RawMessage
	if err := newMsgpackDecoder(data).Decode(&doc); err != nil {
		return fmt.Errorf("decoding msgpack envelope: %w", err)
	}

	raw, err := rootOf(doc, key)
	if err != nil {
		return err
	}

	return newMsgpackDecoder(raw).Decode(v)
}

func newMsgpackDecoder(data []byte) *msgpack.Decoder {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag(structTag)
	return dec
}
