package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nemberjs/nember/internal/errors"
)

type note struct {
	ID     string   `json:"id"`
	Body   string   `json:"body"`
	Rating *int     `json:"rating"`
	Tags   []string `json:"tags" yaml:"tags,omitempty"`
}

func allCodecs() []Codec {
	return []Codec{NewJSON(), NewYAML(), NewCBOR(), NewMsgpack()}
}

func TestByName(t *testing.T) {
	t.Parallel()

	for _, name := range Names() {
		c, err := ByName(name)
		require.NoError(t, err)
		require.Equal(t, name, c.Name())
		require.NotEmpty(t, c.ContentType())
	}

	c, err := ByName("  JSON ")
	require.NoError(t, err)
	require.Equal(t, JSONName, c.Name())

	_, err = ByName("xml")
	require.EqualError(t, err, "unknown codec 'xml', expected one of: json, yaml, cbor, msgpack")
}

func TestResolveAll(t *testing.T) {
	t.Parallel()

	codecs, err := ResolveAll([]string{"cbor", "json"})
	require.NoError(t, err)
	require.Len(t, codecs, 2)
	require.Equal(t, CBORName, codecs[0].Name())
	require.Equal(t, JSONName, codecs[1].Name())

	_, err = ResolveAll([]string{"json", "Json"})
	require.EqualError(t, err, "duplicate codec 'json'")

	_, err = ResolveAll([]string{"json", "toml"})
	require.Error(t, err)
}

func TestCodecs_RoundTrip(t *testing.T) {
	t.Parallel()

	rating := 4
	tests := []struct {
		name  string
		input note
	}{
		{"all fields", note{ID: "n1", Body: "hello", Rating: &rating, Tags: []string{"a", "b"}}},
		{"nil pointer and slice", note{ID: "n2", Body: "empty"}},
	}

	for _, c := range allCodecs() {
		for _, tc := range tests {
			t.Run(c.Name()+"/"+tc.name, func(t *testing.T) {
				t.Parallel()

				var buf bytes.Buffer
				require.NoError(t, c.Marshal(&buf, tc.input))

				var got note
				require.NoError(t, c.Unmarshal(buf.Bytes(), &got))
				require.Equal(t, tc.input, got)
			})
		}
	}
}

func TestCodecs_UnmarshalRoot(t *testing.T) {
	t.Parallel()

	payload := note{ID: "n1", Body: "hello", Tags: []string{"x"}}

	tests := []struct {
		name      string
		doc       map[string]any
		key       string
		expectErr error
	}{
		{
			name: "expected key",
			doc:  map[string]any{"note": payload, MetaKey: map[string]any{"total": 1}},
			key:  "note",
		},
		{
			name:      "single other key",
			doc:       map[string]any{"memo": payload},
			key:       "note",
			expectErr: errors.ErrMissingRoot,
		},
		{
			name:      "single other key next to meta",
			doc:       map[string]any{"memo": payload, MetaKey: map[string]any{}},
			key:       "note",
			expectErr: errors.ErrMissingRoot,
		},
		{
			name:      "flat value",
			doc:       map[string]any{"id": "n1"},
			key:       "note",
			expectErr: errors.ErrMissingRoot,
		},
		{
			name:      "ambiguous keys",
			doc:       map[string]any{"memo": payload, "other": payload},
			key:       "note",
			expectErr: errors.ErrMissingRoot,
		},
		{
			name:      "only meta",
			doc:       map[string]any{MetaKey: map[string]any{}},
			key:       "note",
			expectErr: errors.ErrMissingRoot,
		},
	}

	for _, c := range allCodecs() {
		for _, tc := range tests {
			t.Run(c.Name()+"/"+tc.name, func(t *testing.T) {
				t.Parallel()

				var buf bytes.Buffer
				require.NoError(t, c.Marshal(&buf, tc.doc))

				var got note
				err := c.UnmarshalRoot(buf.Bytes(), tc.key, &got)
				if tc.expectErr != nil {
					require.ErrorIs(t, err, tc.expectErr)
					return
				}
				require.NoError(t, err)
				require.Equal(t, payload, got)
			})
		}
	}
}

func TestCodecs_UnmarshalRoot_Malformed(t *testing.T) {
	t.Parallel()

	for _, c := range allCodecs() {
		var got note
		err := c.UnmarshalRoot([]byte{0xff, 0x00, '{'}, "note", &got)
		require.Error(t, err, c.Name())
	}
}

func TestSelectRoot(t *testing.T) {
	t.Parallel()

	key, err := selectRoot([]string{"meta", "post", "comments"}, "post")
	require.NoError(t, err)
	require.Equal(t, "post", key)

	_, err = selectRoot([]string{"posts", "comments"}, "post")
	require.EqualError(t, err, "envelope root key missing: expected 'post', found [comments posts]")

	_, err = selectRoot([]string{"title"}, "post")
	require.EqualError(t, err, "envelope root key missing: expected 'post', found [title]")

	_, err = selectRoot([]string{"meta"}, "meta")
	require.EqualError(t, err, "envelope root key missing: expected 'meta', found []")

	_, err = selectRoot(nil, "post")
	require.ErrorIs(t, err, errors.ErrMissingRoot)
}
