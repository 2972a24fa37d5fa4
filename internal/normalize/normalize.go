// Package normalize applies the body conventions of the API to values crossing the codecs:
// object members holding null are dropped and strings lose their surrounding white space.
//
// Outgoing values are rebuilt as plain maps and slices, keyed by their json field names, so every
// codec renders the same document. Values that serialize themselves (time.Time, uuid.UUID,
// math/big numbers) are kept as they are.
package normalize

import (
	"encoding"
	"encoding/json"
	"reflect"
	"strings"
)

// maxDepth bounds the walk over self-referencing values, which no codec can render anyway.
const maxDepth = 1000

var (
	jsonMarshalerType   = reflect.TypeFor[json.Marshaler]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	jsonUnmarshalerType = reflect.TypeFor[json.Unmarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// Conventions selects the conventions applied to bodies.
// The zero value applies none.
type Conventions struct {
	// OmitNulls drops object members whose value is null.
	OmitNulls bool

	// TrimStrings trims white space around every string, on the way out and on the way in.
	TrimStrings bool
}

// Default returns the conventions the API applies unless configured otherwise.
func Default() Conventions {
	return Conventions{OmitNulls: true, TrimStrings: true}
}

// Enabled reports whether any convention is applied.
func (c Conventions) Enabled() bool {
	return c.OmitNulls || c.TrimStrings
}

// Outgoing returns v with the conventions applied. v is never mutated.
func (c Conventions) Outgoing(v any) any {
	if !c.Enabled() || v == nil {
		return v
	}
	return c.out(reflect.ValueOf(v), 0)
}

// Incoming trims, in place, the strings reachable from target, which should be a pointer.
// Only TrimStrings applies to incoming values.
func (c Conventions) Incoming(target any) {
	if !c.TrimStrings || target == nil {
		return
	}
	trim(reflect.ValueOf(target), 0)
}

func (c Conventions) out(rv reflect.Value, depth int) any {
	if !rv.IsValid() {
		return nil
	}
	if (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil() {
		return nil
	}
	if !rv.CanInterface() {
		return nil
	}
	if depth > maxDepth {
		return rv.Interface()
	}

	t := rv.Type()
	if marshalsItself(t) {
		return self(rv)
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return c.out(rv.Elem(), depth+1)
	case reflect.String:
		if !c.TrimStrings {
			return rv.Interface()
		}
		return reflect.ValueOf(strings.TrimSpace(rv.String())).Convert(t).Interface()
	case reflect.Struct:
		members := make(map[string]any, rv.NumField())
		c.fields(rv, members, depth)
		return members
	case reflect.Map:
		return c.outMap(rv, depth)
	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		if t.Elem().Kind() == reflect.Uint8 {
			return rv.Interface()
		}
		return c.outItems(rv, depth)
	case reflect.Array:
		return c.outItems(rv, depth)
	default:
		return rv.Interface()
	}
}

func (c Conventions) outMap(rv reflect.Value, depth int) any {
	if rv.IsNil() {
		return nil
	}
	if rv.Type().Key().Kind() != reflect.String {
		return rv.Interface()
	}

	members := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		v := c.out(iter.Value(), depth+1)
		if v == nil && c.OmitNulls {
			continue
		}
		members[iter.Key().String()] = v
	}
	return members
}

// outItems keeps null items: only object members are dropped.
func (c Conventions) outItems(rv reflect.Value, depth int) []any {
	items := make([]any, rv.Len())
	for i := range rv.Len() {
		items[i] = c.out(rv.Index(i), depth+1)
	}
	return items
}

// fields adds the members of struct rv the way encoding/json names them.
// Embedded structs without a name of their own are flattened.
func (c Conventions) fields(rv reflect.Value, members map[string]any, depth int) {
	t := rv.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")

		fv := rv.Field(i)
		if f.Anonymous && name == "" {
			embedded := fv
			for embedded.Kind() == reflect.Pointer && !embedded.IsNil() {
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Pointer {
				continue
			}
			if embedded.Kind() == reflect.Struct && !marshalsItself(embedded.Type()) {
				c.fields(embedded, members, depth+1)
				continue
			}
		}
		if !f.IsExported() {
			continue
		}

		if name == "" {
			name = f.Name
		}
		if hasOption(opts, "omitempty") && isEmpty(fv) {
			continue
		}

		v := c.out(fv, depth+1)
		if v == nil && c.OmitNulls {
			continue
		}
		members[name] = v
	}
}

func trim(rv reflect.Value, depth int) {
	if !rv.IsValid() || depth > maxDepth {
		return
	}

	switch rv.Kind() {
	case reflect.Pointer:
		if !rv.IsNil() {
			trim(rv.Elem(), depth+1)
		}
	case reflect.Interface:
		if rv.IsNil() {
			return
		}
		e := rv.Elem()
		if e.Kind() == reflect.String && rv.CanSet() {
			rv.Set(reflect.ValueOf(strings.TrimSpace(e.String())).Convert(e.Type()))
			return
		}
		trim(e, depth+1)
	case reflect.String:
		if rv.CanSet() {
			rv.SetString(strings.TrimSpace(rv.String()))
		}
	case reflect.Struct:
		t := rv.Type()
		if unmarshalsItself(t) {
			return
		}
		for i := range rv.NumField() {
			if f := t.Field(i); f.IsExported() || f.Anonymous {
				trim(rv.Field(i), depth+1)
			}
		}
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			trim(rv.Index(i), depth+1)
		}
	case reflect.Map:
		trimMap(rv, depth)
	}
}

// trimMap replaces map values with trimmed copies, map entries are not addressable.
func trimMap(rv reflect.Value, depth int) {
	if rv.IsNil() || !rv.CanInterface() {
		return
	}

	iter := rv.MapRange()
	for iter.Next() {
		v := iter.Value()
		cp := reflect.New(v.Type()).Elem()
		cp.Set(v)
		trim(cp, depth+1)
		rv.SetMapIndex(iter.Key(), cp)
	}
}

func marshalsItself(t reflect.Type) bool {
	return t.Implements(jsonMarshalerType) || t.Implements(textMarshalerType) ||
		reflect.PointerTo(t).Implements(jsonMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType)
}

func unmarshalsItself(t reflect.Type) bool {
	pt := reflect.PointerTo(t)
	return pt.Implements(jsonUnmarshalerType) || pt.Implements(textUnmarshalerType)
}

// self returns a value whose marshal methods are reachable, pointer receivers included.
func self(rv reflect.Value) any {
	t := rv.Type()
	if rv.Kind() == reflect.Pointer || t.Implements(jsonMarshalerType) || t.Implements(textMarshalerType) {
		return rv.Interface()
	}
	p := reflect.New(t)
	p.Elem().Set(rv)
	return p.Interface()
}

func hasOption(opts string, want string) bool {
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == want {
			return true
		}
	}
	return false
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	default:
		return false
	}
}
