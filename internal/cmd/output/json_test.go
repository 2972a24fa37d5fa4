package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// testSample type for testing
type testSample struct {
	ID    int               `json:"id"              toml:"id"              yaml:"id"`
	Name  string            `json:"name"            toml:"name"            yaml:"name"`
	Extra map[string]string `json:"extra,omitempty" toml:"extra,omitempty" yaml:"extra,omitempty"`
}

func TestNewJSONHandler_Writer(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	h := NewJSONHandler[testSample](buf, 2)
	require.Equal(t, buf, h.Writer())
}

func TestJSONHandler_HandleResult(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	h := NewJSONHandler[testSample](buf, 2)

	err := h.HandleResult(testSample{ID: 1, Name: "Alice"})
	require.NoError(t, err)

	// The item is written as is, not wrapped.
	expected := `{
  "id": 1,
  "name": "Alice"
}` + "\n"
	require.Equal(t, expected, buf.String())
}

func TestJSONHandler_HandleResult_Compact(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	h := NewJSONHandler[*testSample](buf, 0)

	err := h.HandleResult(nil)
	require.NoError(t, err)
	require.Equal(t, "null\n", buf.String())
}

func TestJSONHandler_HandleError(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	h := NewJSONHandler[testSample](buf, 4)

	testErr := errors.New("something went wrong")
	err := h.HandleError(testErr)
	require.NoError(t, err)

	// Check that the JSON contains the error message under "error"
	expected := `{
    "error": "something went wrong"
}` + "\n"
	require.Equal(t, expected, buf.String())
}

func TestJSONHandler_HandleError_EmptyMessage(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	h := NewJSONHandler[testSample](buf, 0)

	err := h.HandleError(errors.New(""))
	require.NoError(t, err)

	// Even empty error string should be marshaled
	expected := `{"error":""}` + "\n"
	require.Equal(t, expected, buf.String())
}
