package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvSearchesParents(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env.test"), []byte("# comment\nMEDIA_TEST_KEY=from-file\nMEDIA_TEST_SET=from-file\n"), 0o600))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	chdir(t, nested)

	t.Setenv("MEDIA_TEST_SET", "from-env")
	os.Unsetenv("MEDIA_TEST_KEY")
	t.Cleanup(func() { os.Unsetenv("MEDIA_TEST_KEY") })

	require.NoError(t, LoadEnv(".env.test"))
	assert.Equal(t, "from-file", os.Getenv("MEDIA_TEST_KEY"))
	assert.Equal(t, "from-env", os.Getenv("MEDIA_TEST_SET"))
}

func TestLoadEnvMissing(t *testing.T) {
	chdir(t, t.TempDir())
	assert.ErrorIs(t, LoadEnv(".env.does-not-exist"), os.ErrNotExist)
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
