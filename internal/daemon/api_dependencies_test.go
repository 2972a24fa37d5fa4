package daemon

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nemberjs/nember/internal/domain"
	"github.com/nemberjs/nember/internal/store"
)

func testStores(t *testing.T) (*store.Store[domain.Post], *store.Store[domain.Comment]) {
	t.Helper()

	posts, err := store.NewStore[domain.Post](hclog.NewNullLogger(), "post")
	require.NoError(t, err)

	comments, err := store.NewStore[domain.Comment](hclog.NewNullLogger(), "comment")
	require.NoError(t, err)

	return posts, comments
}

func TestDaemon_APIDependencies_Validate(t *testing.T) {
	t.Parallel()

	valid := testAPIDependencies(t)

	tests := []struct {
		name    string
		mutate  func(d *APIDependencies)
		wantErr string
	}{
		{
			name:   "valid dependencies",
			mutate: func(*APIDependencies) {},
		},
		{
			name:    "nil logger",
			mutate:  func(d *APIDependencies) { d.Logger = nil },
			wantErr: "logger cannot be nil",
		},
		{
			name:    "nil transform",
			mutate:  func(d *APIDependencies) { d.Transform = nil },
			wantErr: "envelope transform cannot be nil",
		},
		{
			name:    "nil posts",
			mutate:  func(d *APIDependencies) { d.Posts = nil },
			wantErr: "post repository cannot be nil",
		},
		{
			name:    "typed nil comments",
			mutate:  func(d *APIDependencies) { d.Comments = (*store.Store[domain.Comment])(nil) },
			wantErr: "comment repository cannot be nil",
		},
		{
			name:    "invalid address",
			mutate:  func(d *APIDependencies) { d.Addr = "invalid-address" },
			wantErr: "invalid API address 'invalid-address': invalid address format: address invalid-address: missing port in address",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			deps := valid
			tc.mutate(&deps)
			err := deps.Validate()

			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.EqualError(t, err, tc.wantErr)
			}
		})
	}
}

func TestDaemon_NewAPIDependencies(t *testing.T) {
	t.Parallel()

	valid := testAPIDependencies(t)

	deps, err := NewAPIDependencies(valid.Logger, valid.Transform, valid.Posts, valid.Comments, ":8090")
	require.NoError(t, err)
	require.Equal(t, ":8090", deps.Addr)

	_, err = NewAPIDependencies(valid.Logger, nil, valid.Posts, valid.Comments, ":8090")
	require.EqualError(t, err, "envelope transform cannot be nil")
}
