package contracts

// Repository provides access to stored resources of one kind.
type Repository[T any] interface {
	// Create mints an ID, builds the resource with it and stores it.
	Create(build func(id string) T) T

	// Get returns the resource with the given ID.
	// It returns an error wrapping errors.ErrResourceNotFound when there is none.
	Get(id string) (T, error)

	// Delete removes the resource with the given ID.
	Delete(id string) error

	// List returns every resource in insertion order.
	List() []T

	// Filter returns the resources matching keep in insertion order.
	Filter(keep func(T) bool) []T

	// Len returns the number of stored resources.
	Len() int
}
