// Package cas implements the on-disk cache entry store.
//
// A cache root holds one directory per entry, named by its key. Each entry holds the
// environment payload and a usage record:
//
//	<root>/<key>/venv/
//	<root>/<key>/virtualenv-cache-usage.json
package cas

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.trai.ch/venvcache/internal/adapters/fs"
	"go.trai.ch/venvcache/internal/core/domain"
	"go.trai.ch/venvcache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.EntryStore = (*Store)(nil)

// Store implements ports.EntryStore on a billy filesystem.
type Store struct {
	fs     billy.Filesystem
	walker *fs.Walker
	logger ports.Logger
}

// NewStore creates a new Store.
func NewStore(fsys billy.Filesystem, walker *fs.Walker, logger ports.Logger) *Store {
	return &Store{fs: fsys, walker: walker, logger: logger}
}

// RootExists reports whether the cache root directory exists.
func (s *Store) RootExists(root string) (bool, error) {
	return s.isDir(root)
}

// Exists reports whether the entry holds a payload directory.
func (s *Store) Exists(root string, key domain.CacheKey) (bool, error) {
	return s.isDir(domain.PayloadDir(root, key))
}

// Create makes the entry directory and its parents.
func (s *Store) Create(root string, key domain.CacheKey) error {
	dir := domain.EntryDir(root, key)
	if err := s.fs.MkdirAll(dir, domain.DirPerm); err != nil {
		return storeError(domain.ErrStoreWriteFailed, err, "failed to create entry directory", dir)
	}
	return nil
}

// CopyIn replaces the entry payload with a copy of src.
// The copy is staged in a temporary directory inside the entry, so a failed copy
// leaves the previous payload untouched.
func (s *Store) CopyIn(ctx context.Context, root string, key domain.CacheKey, src string) error {
	dir := domain.EntryDir(root, key)
	if err := s.fs.MkdirAll(dir, domain.DirPerm); err != nil {
		return storeError(domain.ErrStoreWriteFailed, err, "failed to create entry directory", dir)
	}

	return s.replaceTree(ctx, src, domain.PayloadDir(root, key), dir, "."+domain.PayloadDirName+"-")
}

// CopyOut replaces dst with a copy of the entry payload.
// The copy is staged next to dst and moved into place once complete.
func (s *Store) CopyOut(ctx context.Context, root string, key domain.CacheKey, dst string) error {
	dst = filepath.Clean(dst)
	parent := filepath.Dir(dst)
	if err := s.fs.MkdirAll(parent, domain.DirPerm); err != nil {
		return storeError(domain.ErrCopyFailed, err, "failed to create parent directory", parent)
	}

	return s.replaceTree(ctx, domain.PayloadDir(root, key), dst, parent, "."+filepath.Base(dst)+"-")
}

// replaceTree copies src into a fresh temporary directory under stageDir and renames it to dst.
func (s *Store) replaceTree(ctx context.Context, src, dst, stageDir, stagePrefix string) error {
	tmp, err := util.TempDir(s.fs, stageDir, stagePrefix)
	if err != nil {
		return storeError(domain.ErrCopyFailed, err, "failed to create staging directory", stageDir)
	}

	if err := s.copyTree(ctx, src, tmp); err != nil {
		_ = util.RemoveAll(s.fs, tmp)
		return err
	}

	if err := util.RemoveAll(s.fs, dst); err != nil {
		_ = util.RemoveAll(s.fs, tmp)
		return storeError(domain.ErrCopyFailed, err, "failed to remove previous tree", dst)
	}
	if err := s.fs.Rename(tmp, dst); err != nil {
		_ = util.RemoveAll(s.fs, tmp)
		return storeError(domain.ErrCopyFailed, err, "failed to move tree into place", dst)
	}
	return nil
}

// dirMode is a copied directory and the permission bits of its source.
type dirMode struct {
	path string
	perm os.FileMode
}

// copyTree copies every node under src into dst, which must exist.
// Symbolic links are recreated with the same target. Sockets, devices and pipes are skipped.
// Directories stay writable during the copy and get their source permissions once it is complete.
func (s *Store) copyTree(ctx context.Context, src, dst string) error {
	rootInfo, err := s.fs.Stat(src)
	if err != nil {
		return storeError(domain.ErrCopyFailed, err, "failed to stat source tree", src)
	}
	dirs := []dirMode{{path: dst, perm: rootInfo.Mode().Perm()}}

	for node, err := range s.walker.WalkTree(src, nil) {
		if err != nil {
			return errors.Join(domain.ErrCopyFailed, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		from := filepath.Join(src, node.Path)
		to := filepath.Join(dst, node.Path)
		mode := node.Info.Mode()

		switch {
		case mode.IsDir():
			if err := s.fs.MkdirAll(to, domain.DirPerm|0o700); err != nil {
				return storeError(domain.ErrCopyFailed, err, "failed to create directory", to)
			}
			dirs = append(dirs, dirMode{path: to, perm: mode.Perm()})
		case node.IsSymlink():
			target, err := s.fs.Readlink(from)
			if err != nil {
				return storeError(domain.ErrCopyFailed, err, "failed to read symlink", from)
			}
			if err := s.fs.Symlink(target, to); err != nil {
				return storeError(domain.ErrCopyFailed, err, "failed to create symlink", to)
			}
		case mode.IsRegular():
			if err := s.copyFile(from, to, mode.Perm()); err != nil {
				return err
			}
		default:
			s.logger.Debug("skipping special file", "path", from)
		}
	}
	return s.restoreDirModes(dirs)
}

// restoreDirModes applies the recorded permissions, children before their parents.
func (s *Store) restoreDirModes(dirs []dirMode) error {
	change, ok := s.fs.(billy.Change)
	if !ok {
		return nil
	}
	for _, d := range slices.Backward(dirs) {
		if err := change.Chmod(d.path, d.perm); err != nil {
			return storeError(domain.ErrCopyFailed, err, "failed to set directory permissions", d.path)
		}
	}
	return nil
}

func (s *Store) copyFile(from, to string, perm os.FileMode) error {
	in, err := s.fs.Open(from)
	if err != nil {
		return storeError(domain.ErrCopyFailed, err, "failed to open file", from)
	}
	defer in.Close() //nolint:errcheck // Read-only file

	out, err := s.fs.OpenFile(to, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return storeError(domain.ErrCopyFailed, err, "failed to create file", to)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return storeError(domain.ErrCopyFailed, err, "failed to copy file", to)
	}
	if err := out.Close(); err != nil {
		return storeError(domain.ErrCopyFailed, err, "failed to close file", to)
	}
	return nil
}

// ReadUsage returns the usage record of the entry.
// A missing or malformed record yields domain.ErrUsageRecordInvalid.
func (s *Store) ReadUsage(root string, key domain.CacheKey) (domain.Usage, error) {
	path := domain.UsageFile(root, key)
	data, err := util.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Usage{}, storeError(domain.ErrUsageRecordInvalid, err, "usage record not found", path)
		}
		return domain.Usage{}, storeError(domain.ErrStoreReadFailed, err, "failed to read usage record", path)
	}
	return domain.ParseUsage(data)
}

// WriteUsage overwrites the usage record of the entry.
func (s *Store) WriteUsage(root string, key domain.CacheKey, usage domain.Usage) error {
	path := domain.UsageFile(root, key)
	tmp := path + ".tmp"

	if err := util.WriteFile(s.fs, tmp, usage.Encode(), domain.FilePerm); err != nil {
		return storeError(domain.ErrStoreWriteFailed, err, "failed to write usage record", tmp)
	}
	err := s.fs.Rename(tmp, path)
	if errors.Is(err, os.ErrExist) {
		// Filesystems without atomic replace refuse to rename over an existing file.
		if err = s.fs.Remove(path); err == nil {
			err = s.fs.Rename(tmp, path)
		}
	}
	if err != nil {
		_ = s.fs.Remove(tmp)
		return storeError(domain.ErrStoreWriteFailed, err, "failed to replace usage record", path)
	}
	return nil
}

// Delete removes the entry and everything in it.
func (s *Store) Delete(root string, key domain.CacheKey) error {
	dir := domain.EntryDir(root, key)
	if err := util.RemoveAll(s.fs, dir); err != nil {
		return storeError(domain.ErrStoreWriteFailed, err, "failed to remove entry", dir)
	}
	return nil
}

// Enumerate lists the entry directories under root. A missing root has no entries.
// Directories whose name is not a cache key are ignored.
func (s *Store) Enumerate(root string) ([]domain.CacheKey, error) {
	infos, err := s.fs.ReadDir(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, storeError(domain.ErrStoreReadFailed, err, "failed to list cache root", root)
	}

	keys := make([]domain.CacheKey, 0, len(infos))
	for _, info := range infos {
		if !info.IsDir() {
			continue
		}
		key := domain.CacheKey(info.Name())
		if !key.IsValid() {
			s.logger.Debug("ignoring directory that is not a cache entry", "path", filepath.Join(root, info.Name()))
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// RemoveRoot deletes the cache root recursively.
func (s *Store) RemoveRoot(root string) (bool, error) {
	if _, err := s.fs.Lstat(root); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, storeError(domain.ErrStoreReadFailed, err, "failed to stat cache root", root)
	}
	if err := util.RemoveAll(s.fs, root); err != nil {
		return false, storeError(domain.ErrStoreWriteFailed, err, "failed to remove cache root", root)
	}
	return true, nil
}

// PayloadPath returns the location of the entry payload.
func (s *Store) PayloadPath(root string, key domain.CacheKey) string {
	return domain.PayloadDir(root, key)
}

func (s *Store) isDir(path string) (bool, error) {
	info, err := s.fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, storeError(domain.ErrStoreReadFailed, err, "failed to stat path", path)
	}
	return info.IsDir(), nil
}

func storeError(category, err error, msg, path string) error {
	return errors.Join(category, zerr.With(zerr.Wrap(err, msg), "path", path))
}
