package filex

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureParentDir_CreatesDirectory(t *testing.T) {
	tmp := t.TempDir()
	dbPath := filepath.Join(tmp, "data", "nested", "credseal.db")

	got, err := EnsureParentDir(dbPath)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(tmp, "data", "nested"), got)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		perm := fi.Mode().Perm()
		require.Equal(t, os.FileMode(0o700), perm&0o700)
	}
}

func TestEnsureParentDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	dbPath := filepath.Join(tmp, "data", "credseal.db")

	first, err := EnsureParentDir(dbPath)
	require.NoError(t, err)

	second, err := EnsureParentDir(dbPath)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestEnsureParentDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "data")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o660))

	_, err := EnsureParentDir(filepath.Join(blocker, "credseal.db"))
	require.Error(t, err, "should fail when a file exists where the directory should be")
}

func TestReadSecretFile(t *testing.T) {
	tmp := t.TempDir()

	t.Run("reads content", func(t *testing.T) {
		p := filepath.Join(tmp, "ok.key")
		require.NoError(t, os.WriteFile(p, []byte("0123456789"), 0o600))

		b, err := ReadSecretFile(p, 32)
		require.NoError(t, err)
		require.Equal(t, []byte("0123456789"), b)
	})

	t.Run("too large", func(t *testing.T) {
		p := filepath.Join(tmp, "big.key")
		require.NoError(t, os.WriteFile(p, make([]byte, 65), 0o600))

		_, err := ReadSecretFile(p, 64)
		require.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		p := filepath.Join(tmp, "empty.key")
		require.NoError(t, os.WriteFile(p, nil, 0o600))

		_, err := ReadSecretFile(p, 64)
		require.True(t, errors.Is(err, ErrEmptyFile))
	})

	t.Run("missing", func(t *testing.T) {
		_, err := ReadSecretFile(filepath.Join(tmp, "nope"), 64)
		require.True(t, errors.Is(err, os.ErrNotExist))
	})
}

func TestTrimSecret(t *testing.T) {
	require.Equal(t, []byte("pepper"), TrimSecret([]byte("  pepper\r\n")))
}
