package api

import (
	"bytes"
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/danielgtaylor/huma/v2"

	"github.com/nemberjs/nember/internal/envelope"
	"github.com/nemberjs/nember/internal/errors"
)

// metadataBodyType is the operation metadata key holding the declared response body type.
const metadataBodyType = "nember.bodyType"

// Operations registers API operations and keeps track of the body types they declare.
// NewOperations should be used to create instances of Operations.
type Operations struct {
	classifier envelope.Classifier

	mu    sync.Mutex
	types map[reflect.Type]struct{}
}

// NewOperations creates an Operations that classifies request bodies with classifier.
func NewOperations(classifier envelope.Classifier) (*Operations, error) {
	if classifier == nil || reflect.ValueOf(classifier).IsNil() {
		return nil, fmt.Errorf("classifier cannot be nil")
	}

	return &Operations{
		classifier: classifier,
		types:      make(map[reflect.Type]struct{}),
	}, nil
}

// BodyTypes returns every request and response body type registered so far, sorted by name.
func (o *Operations) BodyTypes() []reflect.Type {
	o.mu.Lock()
	defer o.mu.Unlock()

	types := slices.Collect(maps.Keys(o.types))
	slices.SortFunc(types, func(a, b reflect.Type) int {
		return strings.Compare(a.String(), b.String())
	})
	return types
}

func (o *Operations) track(t reflect.Type) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.types[t] = struct{}{}
}

// Register registers an operation like huma.Register and records the declared body types the
// envelope transformer needs.
// Request bodies whose type is enveloped are not validated against the body schema, as the
// document on the wire carries the value under its root key. Their envelope is checked before
// huma parses the body (see checkEnvelope).
func Register[I, O any](
	router huma.API,
	ops *Operations,
	op huma.Operation,
	handler func(context.Context, *I) (*O, error),
) {
	if t, ok := bodyType(reflect.TypeFor[O]()); ok {
		ops.track(t)
		op.Metadata = withMetadata(op.Metadata, metadataBodyType, t)
	}

	if t, ok := bodyType(reflect.TypeFor[I]()); ok {
		ops.track(t)
		if enveloped, err := ops.classifier.ShouldEnvelope(t); err == nil && enveloped {
			op.SkipValidateBody = true
			op.Middlewares = append(slices.Clone(op.Middlewares), checkEnvelope(router, t))
		}
	}

	huma.Register(router, op, handler)
}

// replayContext serves an already read request body.
type replayContext struct {
	huma.Context
	body []byte
}

func (c replayContext) BodyReader() io.Reader {
	return bytes.NewReader(c.body)
}

// checkEnvelope decodes request bodies of type t before huma does. huma reports every body decode
// failure as an unprocessable entity, so bodies whose envelope cannot be resolved are answered here
// with the status their error maps to. Other failures are left to huma, which reads the same bytes.
func checkEnvelope(router huma.API, t reflect.Type) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		reader := ctx.BodyReader()
		if reader == nil {
			next(ctx)
			return
		}

		limit := int64(-1)
		if op := ctx.Operation(); op != nil {
			limit = op.MaxBodyBytes
		}
		if limit > 0 {
			reader = io.LimitReader(reader, limit)
		}

		body, err := io.ReadAll(reader)
		if err != nil {
			_ = huma.WriteErr(router, ctx, http.StatusInternalServerError, "cannot read request body", err)
			return
		}

		// Empty and oversized bodies are huma's to reject.
		if len(body) > 0 && (limit <= 0 || int64(len(body)) < limit) {
			target := reflect.New(t).Interface()
			err := router.Unmarshal(ctx.Header("Content-Type"), body, target)
			if stdErrors.Is(err, errors.ErrMissingRoot) || stdErrors.Is(err, errors.ErrUnsupportedShape) {
				_ = huma.WriteErr(router, ctx, http.StatusBadRequest, "invalid request envelope", err)
				return
			}
		}

		next(replayContext{Context: ctx, body: body})
	}
}

// DeclaredBodyType returns the response body type declared by the operation, or nil.
func DeclaredBodyType(op *huma.Operation) reflect.Type {
	if op == nil || op.Metadata == nil {
		return nil
	}
	t, _ := op.Metadata[metadataBodyType].(reflect.Type)
	return t
}

// bodyType returns the type of the Body field of the input or output struct t.
func bodyType(t reflect.Type) (reflect.Type, bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, false
	}

	f, ok := t.FieldByName("Body")
	if !ok {
		return nil, false
	}
	return f.Type, true
}

func withMetadata(m map[string]any, key string, value any) map[string]any {
	out := make(map[string]any, len(m)+1)
	maps.Copy(out, m)
	out[key] = value
	return out
}
