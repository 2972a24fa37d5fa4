// Package codec provides the byte-level serializers that render response bodies and parse request bodies.
//
// Every Codec can also decode a single named top-level entry of a document, which is what the envelope
// read path needs to unwrap a root key without knowing the codec's raw message type.
package codec

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/nemberjs/nember/internal/errors"
)

// MetaKey is the top-level key reserved for response metadata, it is never treated as a root key.
const MetaKey = "meta"

// Codec serializes values for one media type.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Name returns the short name used in configuration, e.g. "json".
	Name() string

	// ContentType returns the media type served by this codec.
	ContentType() string

	// Marshal writes the encoded form of v to w.
	Marshal(w io.Writer, v any) error

	// Unmarshal decodes data into the value pointed to by v.
	Unmarshal(data []byte, v any) error

	// UnmarshalRoot decodes only the top-level entry named key into v.
	// A document without that entry fails with errors.ErrMissingRoot.
	UnmarshalRoot(data []byte, key string, v any) error
}

// Names returns the names of all built-in codecs.
func Names() []string {
	return []string{JSONName, YAMLName, CBORName, MsgpackName}
}

// ByName returns the built-in codec registered under name.
func ByName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case JSONName:
		return NewJSON(), nil
	case YAMLName:
		return NewYAML(), nil
	case CBORName:
		return NewCBOR(), nil
	case MsgpackName:
		return NewMsgpack(), nil
	default:
		return nil, fmt.Errorf("unknown codec '%s', expected one of: %s", name, strings.Join(Names(), ", "))
	}
}

// ResolveAll returns the codecs for names, in order, rejecting duplicates.
func ResolveAll(names []string) ([]Codec, error) {
	seen := make(map[string]struct{}, len(names))
	codecs := make([]Codec, 0, len(names))
	for _, name := range names {
		c, err := ByName(name)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[c.Name()]; ok {
			return nil, fmt.Errorf("duplicate codec '%s'", c.Name())
		}
		seen[c.Name()] = struct{}{}
		codecs = append(codecs, c)
	}
	return codecs, nil
}

// selectRoot picks the entry of a decoded document that holds the enveloped payload.
// Only the expected key qualifies, other entries are reported in the error.
func selectRoot(keys []string, want string) (string, error) {
	found := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == want && k != MetaKey {
			return k, nil
		}
		if k != MetaKey {
			found = append(found, k)
		}
	}

	slices.Sort(found)
	return "", fmt.Errorf("%w: expected '%s', found %v", errors.ErrMissingRoot, want, found)
}

// rootOf looks up the selected root entry in a decoded document.
func rootOf[R any](doc map[string]R, want string) (R, error) {
	var zero R

	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}

	key, err := selectRoot(keys, want)
	if err != nil {
		return zero, err
	}
	return doc[key], nil
}
