// Package fs provides file system adapters for walking, hashing and keying files.
package fs

import (
	"errors"
	"iter"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.trai.ch/zerr"
)

// Node is a single file system node found by the Walker.
type Node struct {
	// Path is relative to the walk root.
	Path string
	// Info is the Lstat result for the node.
	Info os.FileInfo
}

// IsSymlink reports whether the node is a symbolic link.
func (n Node) IsSymlink() bool {
	return n.Info.Mode()&os.ModeSymlink != 0
}

// Walker provides tree walking functionality over a billy filesystem.
type Walker struct {
	fs billy.Filesystem
}

// NewWalker creates a new Walker.
func NewWalker(fsys billy.Filesystem) *Walker {
	return &Walker{fs: fsys}
}

// WalkTree yields every node below root in lexical order. The root itself is not yielded.
// Symbolic links are yielded as nodes and never followed.
// Names matching one of the ignore patterns are skipped, directories with their whole subtree.
func (w *Walker) WalkTree(root string, ignores []string) iter.Seq2[Node, error] {
	return func(yield func(Node, error) bool) {
		stopped := false
		err := util.Walk(w.fs, root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if path == root {
				return nil
			}

			if matchesAny(info.Name(), ignores) {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}

			if !yield(Node{Path: rel, Info: info}, nil) {
				stopped = true
				return filepath.SkipAll
			}
			return nil
		})

		if err != nil && !stopped && !errors.Is(err, filepath.SkipAll) {
			yield(Node{}, zerr.With(zerr.Wrap(err, "failed to walk directory"), "path", root))
		}
	}
}

func matchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
