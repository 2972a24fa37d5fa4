package output

import (
	"io"
	"strings"

	"github.com/BurntSushi/toml"
)

// TOMLHandler writes TOML for both data and errors, honoring toml struct tags.
// Items must encode to a TOML table (structs or maps).
type TOMLHandler[T any] struct {
	out    io.Writer
	indent string
}

// NewTOMLHandler constructs a new TOMLHandler for items of type T.
// indentSpaces controls the indentation of nested tables.
func NewTOMLHandler[T any](w io.Writer, indentSpaces int) *TOMLHandler[T] {
	return &TOMLHandler[T]{
		out:    w,
		indent: strings.Repeat(" ", indentSpaces),
	}
}

// Writer returns the underlying io.Writer where TOML will be written.
func (h *TOMLHandler[T]) Writer() io.Writer {
	return h.out
}

// HandleResult marshals the given item to TOML.
func (h *TOMLHandler[T]) HandleResult(item T) error {
	return h.encode(item)
}

// HandleError marshals the given error string under an "error" key to TOML.
func (h *TOMLHandler[T]) HandleError(err error) error {
	return h.encode(ErrorPayload{Error: err.Error()})
}

func (h *TOMLHandler[T]) encode(v any) error {
	enc := toml.NewEncoder(h.out)
	enc.Indent = h.indent
	return enc.Encode(v)
}
