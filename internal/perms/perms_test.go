package perms

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		perm     os.FileMode
		expected os.FileMode
		str      string
	}{
		{name: "RegularFile", perm: RegularFile, expected: 0o644, str: "-rw-r--r--"},
		{name: "RegularDir", perm: RegularDir, expected: 0o755, str: "-rwxr-xr-x"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.expected, tc.perm)
			require.Equal(t, tc.str, tc.perm.String())
			require.Zero(t, tc.perm&0o002, "others must not have write access")
		})
	}
}

func TestCreatedModes(t *testing.T) {
	t.Parallel()

	base := t.TempDir()

	dir := filepath.Join(base, "conf")
	require.NoError(t, os.Mkdir(dir, RegularDir))
	require.NoError(t, os.Chmod(dir, RegularDir))

	file := filepath.Join(dir, ".nember.toml")
	require.NoError(t, os.WriteFile(file, []byte("[api]\n"), RegularFile))
	require.NoError(t, os.Chmod(file, RegularFile))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
	require.Equal(t, RegularDir, info.Mode().Perm())

	info, err = os.Stat(file)
	require.NoError(t, err)
	require.Equal(t, RegularFile, info.Mode().Perm())
}
