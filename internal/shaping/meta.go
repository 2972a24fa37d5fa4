package shaping

import (
	"reflect"

	"github.com/nemberjs/nember/internal/envelope"
)

const (
	// MetaKeyTotal is the meta entry holding the number of resources in a collection.
	MetaKeyTotal = "total"

	// MetaKeyAPIVersion is the meta entry holding the API version that produced the document.
	MetaKeyAPIVersion = "apiVersion"
)

// TotalProvider reports the size of enveloped collections.
func TotalProvider() envelope.MetaProvider {
	return envelope.MetaProviderFunc(func(t reflect.Type, value any) (map[string]any, error) {
		if !isCollection(t) || value == nil {
			return nil, nil
		}

		rv := indirect(reflect.ValueOf(value))
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			return map[string]any{MetaKeyTotal: rv.Len()}, nil
		default:
			return nil, nil
		}
	})
}

// VersionProvider stamps every enveloped document with the API version.
func VersionProvider(version string) envelope.MetaProvider {
	return envelope.MetaProviderFunc(func(reflect.Type, any) (map[string]any, error) {
		if version == "" {
			return nil, nil
		}
		return map[string]any{MetaKeyAPIVersion: version}, nil
	})
}
