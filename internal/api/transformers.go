package api

import (
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/nemberjs/nember/internal/envelope"
)

// Transformers returns all response transformers used by the API.
// Transformers modify responses after handlers execute but before serialization.
// They are registered globally in the Huma config and run on all API responses.
//
// IMPORTANT: Order matters. Transformers execute sequentially, with each transformer's
// output becoming the next transformer's input. The envelope transformer must stay last,
// its output is a shaped document rather than a typed body.
//
// Current transformers:
//   - envelopeTransformer: Wraps domain bodies in their root envelope.
func Transformers(transform *envelope.Transform) []huma.Transformer {
	return []huma.Transformer{
		envelopeTransformer(transform),
	}
}

// envelopeTransformer wraps response bodies whose runtime type requires it, falling back to the
// body type declared by the operation when the body is nil.
// Error responses are passed through untouched.
func envelopeTransformer(transform *envelope.Transform) huma.Transformer {
	return func(ctx huma.Context, status string, v any) (any, error) {
		if code, err := strconv.Atoi(status); err == nil && code >= http.StatusBadRequest {
			return v, nil
		}

		return transform.Prepare(DeclaredBodyType(ctx.Operation()), v)
	}
}
