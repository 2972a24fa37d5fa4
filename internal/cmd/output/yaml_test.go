package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewYAMLHandler_Writer(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	h := NewYAMLHandler[testSample](buf, 2)
	require.Equal(t, buf, h.Writer())
}

func TestYAMLHandler_HandleResult(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	h := NewYAMLHandler[testSample](buf, 4)

	err := h.HandleResult(testSample{ID: 7, Name: "Bob", Extra: map[string]string{"k": "v"}})
	require.NoError(t, err)

	expected := "id: 7\nname: Bob\nextra:\n    k: v\n"
	require.Equal(t, expected, buf.String())
}

func TestYAMLHandler_HandleError(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	h := NewYAMLHandler[testSample](buf, 2)

	err := h.HandleError(errors.New("oops"))
	require.NoError(t, err)
	require.Equal(t, "error: oops\n", buf.String())
}
