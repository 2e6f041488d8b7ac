package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/venvcache/internal/adapters/fs"
)

func TestWalker_WalkTree(t *testing.T) {
	// tmp/
	//   bin/
	//     python -> /usr/bin/python3
	//   lib/
	//     __pycache__/
	//       site.pyc
	//     site.py
	//   pyvenv.cfg
	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "bin"), 0o750))
	require.NoError(t, os.Symlink("/usr/bin/python3", filepath.Join(tmpDir, "bin", "python")))
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "lib", "__pycache__"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "lib", "__pycache__", "site.pyc"), []byte("pyc"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "lib", "site.py"), []byte("import os"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "pyvenv.cfg"), []byte("home = /usr/bin"), 0o600))

	walker := fs.NewWalker(fs.NewFilesystem())

	var paths []string
	var symlinks []string
	for node, err := range walker.WalkTree(tmpDir, []string{"__pycache__"}) {
		require.NoError(t, err)
		paths = append(paths, filepath.ToSlash(node.Path))
		if node.IsSymlink() {
			symlinks = append(symlinks, filepath.ToSlash(node.Path))
		}
	}

	assert.Equal(t, []string{"bin", "bin/python", "lib", "lib/site.py", "pyvenv.cfg"}, paths)
	assert.Equal(t, []string{"bin/python"}, symlinks)
}

func TestWalker_WalkTree_StopEarly(t *testing.T) {
	fsys := memfs.New()
	writeFile(t, fsys, "/tree/a", "a")
	writeFile(t, fsys, "/tree/b", "b")
	writeFile(t, fsys, "/tree/c", "c")

	walker := fs.NewWalker(fsys)

	count := 0
	for _, err := range walker.WalkTree("/tree", nil) {
		require.NoError(t, err)
		count++
		if count == 2 {
			break
		}
	}

	assert.Equal(t, 2, count)
}

func TestWalker_WalkTree_MissingRoot(t *testing.T) {
	walker := fs.NewWalker(memfs.New())

	var errs []error
	for _, err := range walker.WalkTree("/missing", nil) {
		errs = append(errs, err)
	}

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], os.ErrNotExist)
}
