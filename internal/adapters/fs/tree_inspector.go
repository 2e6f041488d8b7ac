package fs

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/go-git/go-billy/v5"
	"go.trai.ch/venvcache/internal/core/domain"
	"go.trai.ch/venvcache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.TreeInspector = (*TreeInspector)(nil)

const executableBits iofs.FileMode = 0o111

// TreeInspector fingerprints directory trees with XXHash.
type TreeInspector struct {
	fs     billy.Filesystem
	walker *Walker
}

// NewTreeInspector creates a new TreeInspector.
func NewTreeInspector(fsys billy.Filesystem, walker *Walker) *TreeInspector {
	return &TreeInspector{fs: fsys, walker: walker}
}

// IsDir reports whether path exists and is a directory. Symbolic links are followed.
func (t *TreeInspector) IsDir(path string) (bool, error) {
	info, err := t.fs.Stat(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, "failed to stat path"), "path", path)
	}
	return info.IsDir(), nil
}

// HashTree computes a single hash covering every node under root.
func (t *TreeInspector) HashTree(ctx context.Context, root string) (string, error) {
	hasher := xxhash.New()

	for node, err := range t.walker.WalkTree(root, nil) {
		if err != nil {
			return "", err
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if err := t.hashNode(root, node, hasher); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

// hashNode writes the node's path and type followed by its content.
// Symbolic links contribute their target, regular files their executable bit and the XXHash
// of their content. Other permission bits are left out as they depend on the umask.
func (t *TreeInspector) hashNode(root string, node Node, hasher io.Writer) error {
	_, _ = hasher.Write([]byte(filepath.ToSlash(node.Path)))
	_, _ = hasher.Write([]byte{0})

	mode := node.Info.Mode() & iofs.ModeType
	if node.Info.Mode().IsRegular() {
		mode |= node.Info.Mode() & executableBits
	}
	if err := binary.Write(hasher, binary.LittleEndian, uint32(mode)); err != nil {
		return zerr.Wrap(err, "failed to write mode to digest")
	}

	path := filepath.Join(root, node.Path)
	switch {
	case node.IsSymlink():
		target, err := t.fs.Readlink(path)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to read symlink"), "path", path)
		}
		_, _ = hasher.Write([]byte(target))
		_, _ = hasher.Write([]byte{0})
	case node.Info.Mode().IsRegular():
		hash, err := t.ComputeFileHash(path)
		if err != nil {
			return err
		}
		if err := binary.Write(hasher, binary.LittleEndian, hash); err != nil {
			return zerr.Wrap(err, "failed to write hash to digest")
		}
	}
	return nil
}

// ComputeFileHash computes the XXHash of a file's content.
func (t *TreeInspector) ComputeFileHash(path string) (uint64, error) {
	f, err := t.fs.Open(path)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}

	return hasher.Sum64(), nil
}
