package api

import (
	"fmt"
	"io"

	"github.com/danielgtaylor/huma/v2"

	"github.com/nemberjs/nember/internal/codec"
	"github.com/nemberjs/nember/internal/envelope"
)

// Formats returns the huma formats for codecs, keyed by content type and by name so that
// structured syntax suffixes (e.g. application/problem+json) resolve too.
// Request bodies are decoded through the envelope transform, response bodies are already
// shaped by the envelope transformer when they reach the format.
func Formats(transform *envelope.Transform, codecs []codec.Codec) (map[string]huma.Format, error) {
	if transform == nil {
		return nil, fmt.Errorf("envelope transform cannot be nil")
	}
	if len(codecs) == 0 {
		return nil, fmt.Errorf("at least one codec is required")
	}

	formats := make(map[string]huma.Format, len(codecs)*2)
	for _, c := range codecs {
		f := format(transform, c)
		formats[c.ContentType()] = f
		formats[c.Name()] = f
	}

	return formats, nil
}

func format(transform *envelope.Transform, c codec.Codec) huma.Format {
	return huma.Format{
		Marshal: func(w io.Writer, v any) error {
			return c.Marshal(w, v)
		},
		Unmarshal: func(data []byte, v any) error {
			return transform.DecodeInto(c, data, v)
		},
	}
}
