package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFiles creates a temporary root directory, writes every entry of files
// into it (keys are slash-separated relative paths, which naturally creates the
// subdirectory structure), and returns the root.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}
	return root
}

// Workspace writes files like WriteFiles and makes the root the working
// directory for the rest of the test. Tests using it must not call t.Parallel.
func Workspace(t *testing.T, files map[string]string) string {
	t.Helper()

	root := WriteFiles(t, files)
	t.Chdir(root)
	return root
}
