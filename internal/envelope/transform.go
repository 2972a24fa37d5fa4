package envelope

import (
	"fmt"
	"io"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/nemberjs/nember/internal/cache"
	"github.com/nemberjs/nember/internal/codec"
	"github.com/nemberjs/nember/internal/errors"
	"github.com/nemberjs/nember/internal/normalize"
)

var opaqueType = reflect.TypeFor[any]()

// Transform sits between the HTTP layer and the codecs: outgoing values are wrapped in their root
// envelope when their type requires it, and incoming bodies are parsed into the read envelope of
// their target type.
// NewTransform should be used to create instances of Transform.
type Transform struct {
	logger   hclog.Logger
	markers  SideloadMarkers
	shaper   Shaper
	registry *Registry

	conventions normalize.Conventions

	// verdicts caches the classification of every type seen.
	verdicts *cache.TypeCache[bool]

	// readers caches the read envelope constructor of every enveloped target type.
	readers *cache.TypeCache[Reader]
}

// NewTransform creates a Transform from its collaborators.
// Both caches are created here and live as long as the Transform.
func NewTransform(deps Dependencies, opt ...Option) (*Transform, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies for envelope transform: %w", err)
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid envelope transform options: %w", err)
	}

	t := &Transform{
		logger:      deps.Logger.Named("envelope"),
		markers:     deps.Markers,
		shaper:      deps.Shaper,
		registry:    opts.Registry,
		conventions: opts.Conventions,
	}

	t.verdicts, err = cache.NewTypeCache[bool](t.logger, deps.Classifier.ShouldEnvelope, cache.WithName("verdicts"))
	if err != nil {
		return nil, err
	}

	t.readers, err = cache.NewTypeCache[Reader](t.logger, t.lookupReader, cache.WithName("readers"))
	if err != nil {
		return nil, err
	}

	return t, nil
}

// Registry returns the read envelope registry used by the Transform.
func (t *Transform) Registry() *Registry {
	return t.registry
}

// AddMetaProvider registers a metadata provider with the shaper.
func (t *Transform) AddMetaProvider(p MetaProvider) {
	if isNil(p) {
		return
	}
	t.shaper.AddMetaProvider(p)
}

// ShouldEnvelope returns the cached classification of typ.
func (t *Transform) ShouldEnvelope(typ reflect.Type) (bool, error) {
	return t.verdicts.GetOrCompute(typ)
}

// RootKey returns the key values of typ are enveloped under.
func (t *Transform) RootKey(typ reflect.Type) string {
	return t.shaper.RootKey(typ)
}

// EffectiveType returns the type an outgoing value is classified by.
// The runtime type of a present value is preferred over the declared type. A nil interface or a
// nil pointer is absent: the declared type is used, then the nil pointer's own type, then the
// opaque any type.
func EffectiveType(declared reflect.Type, value any) reflect.Type {
	if value == nil {
		if declared == nil {
			return opaqueType
		}
		return declared
	}

	runtime := reflect.TypeOf(value)
	if runtime.Kind() == reflect.Pointer && reflect.ValueOf(value).IsNil() && declared != nil {
		return declared
	}
	return runtime
}

// Prepare returns the value that must be handed to the codec for value: a shaped envelope when the
// effective type requires one, otherwise value itself. The configured conventions are applied to
// either. value is never mutated.
func (t *Transform) Prepare(declared reflect.Type, value any) (any, error) {
	effective := EffectiveType(declared, value)

	shouldEnvelope, err := t.verdicts.GetOrCompute(effective)
	if err != nil {
		return nil, err
	}
	if !shouldEnvelope {
		return t.conventions.Outgoing(value), nil
	}

	w := Write{
		Value:    value,
		Type:     effective,
		Sideload: t.markers.IsSideload(effective),
	}

	doc, err := t.shaper.Shape(w)
	if err != nil {
		return nil, fmt.Errorf("shaping envelope for %s: %w", effective, err)
	}
	out := t.conventions.Outgoing(doc)

	// The root key stays even when its value is null.
	if members, ok := out.(map[string]any); ok {
		root := t.shaper.RootKey(effective)
		if _, present := members[root]; !present {
			members[root] = nil
		}
	}
	return out, nil
}

// WritePayload writes value to w with codec c, enveloped when its effective type requires it.
// Codec errors are returned unchanged.
func (t *Transform) WritePayload(c codec.Codec, w io.Writer, declared reflect.Type, value any) error {
	out, err := t.Prepare(declared, value)
	if err != nil {
		return err
	}
	return c.Marshal(w, out)
}

// ReadPayload parses the body in r for target type declared.
// Enveloped types are parsed into their read envelope, which is returned as is (see Unwrap);
// other types are parsed into a new *declared value.
func (t *Transform) ReadPayload(c codec.Codec, declared reflect.Type, r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	shouldEnvelope, err := t.verdicts.GetOrCompute(declared)
	if err != nil {
		return nil, err
	}

	if !shouldEnvelope {
		target := reflect.New(declared)
		if err := c.Unmarshal(data, target.Interface()); err != nil {
			return nil, err
		}
		t.conventions.Incoming(target.Interface())
		return target.Interface(), nil
	}

	env, err := t.newReadEnvelope(declared)
	if err != nil {
		return nil, err
	}
	if err := env.decode(c, data); err != nil {
		return nil, err
	}
	t.conventions.Incoming(env)
	return env, nil
}

// DecodeInto parses data into the value pointed to by target, unwrapping the root envelope when the
// pointed-to type requires one.
func (t *Transform) DecodeInto(c codec.Codec, data []byte, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: decode target must be a non-nil pointer, got %T", errors.ErrInvalidArgument, target)
	}

	declared := rv.Type().Elem()
	shouldEnvelope, err := t.verdicts.GetOrCompute(declared)
	if err != nil {
		return err
	}
	if !shouldEnvelope {
		if err := c.Unmarshal(data, target); err != nil {
			return err
		}
		t.conventions.Incoming(target)
		return nil
	}

	env, err := t.newReadEnvelope(declared)
	if err != nil {
		return err
	}
	if err := env.decode(c, data); err != nil {
		return err
	}

	rv.Elem().Set(env.value())
	t.conventions.Incoming(target)
	return nil
}

// Decode parses the body in r as a T with codec c and returns the unwrapped value.
// T is registered with the Transform's registry first, so it never fails with ErrUnsupportedShape.
func Decode[T any](t *Transform, c codec.Codec, r io.Reader) (T, error) {
	var zero T
	Register[T](t.registry)

	v, err := t.ReadPayload(c, reflect.TypeFor[T](), r)
	if err != nil {
		return zero, err
	}

	switch parsed := v.(type) {
	case *Read[T]:
		return parsed.Value, nil
	case *T:
		return *parsed, nil
	default:
		return zero, fmt.Errorf("unexpected parsed value %T for %s", v, reflect.TypeFor[T]())
	}
}

func (t *Transform) newReadEnvelope(declared reflect.Type) (readEnvelope, error) {
	reader, err := t.readers.GetOrCompute(declared)
	if err != nil {
		return nil, err
	}
	return reader.newEnvelope(t.shaper.RootKey(declared)), nil
}

// lookupReader resolves the read envelope constructor for an enveloped target type.
func (t *Transform) lookupReader(typ reflect.Type) (Reader, error) {
	reader, ok := t.registry.Lookup(typ)
	if !ok {
		t.logger.Error("No read envelope registered", "type", typ.String())
		return nil, fmt.Errorf("%w: no read envelope registered for %s", errors.ErrUnsupportedShape, typ)
	}
	return reader, nil
}
