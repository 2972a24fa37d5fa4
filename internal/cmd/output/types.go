package output

import "io"

type Handler[T any] interface {
	// Writer returns the io.Writer this Handler will write to.
	Writer() io.Writer

	// HandleResult renders item as a document of its own.
	HandleResult(item T) error

	// HandleError renders the error.
	HandleError(err error) error
}

// ErrorPayload represents an error message rendered by a Handler.
// The payload is serialized with the key "error".
type ErrorPayload struct {
	Error string `json:"error" toml:"error" yaml:"error"`
}
