package api

type Convertible[T any] interface {
	// ToAPIType can be used to convert a wrapped domain type to an API-safe type.
	// It should be responsible for any normalization required to ensure consistency
	// across the API boundary.
	ToAPIType() (T, error)
}

// convertAll converts every domain value with conv, stopping at the first error.
func convertAll[D any, T any](items []D, conv func(D) Convertible[T]) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, item := range items {
		v, err := conv(item).ToAPIType()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
