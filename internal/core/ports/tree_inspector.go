package ports

import "context"

// TreeInspector inspects directory trees that live outside the cache.
//
//go:generate go run go.uber.org/mock/mockgen -source=tree_inspector.go -destination=mocks/mock_tree_inspector.go -package=mocks
type TreeInspector interface {
	// IsDir reports whether path exists and is a directory.
	IsDir(path string) (bool, error)

	// HashTree returns a fingerprint covering the relative path, type, mode and content
	// of every node under root. Identical trees yield identical fingerprints.
	HashTree(ctx context.Context, root string) (string, error)
}
