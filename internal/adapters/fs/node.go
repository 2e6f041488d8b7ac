package fs

import (
	"context"

	"github.com/go-git/go-billy/v5"
	"github.com/grindlemire/graft"
	"go.trai.ch/venvcache/internal/adapters/logger"
	"go.trai.ch/venvcache/internal/core/ports"
)

const (
	// FilesystemNodeID is the unique identifier for the host filesystem Graft node.
	FilesystemNodeID graft.ID = "adapter.fs.filesystem"
	// WalkerNodeID is the unique identifier for the tree walker Graft node.
	WalkerNodeID graft.ID = "adapter.fs.walker"
	// KeyDeriverNodeID is the unique identifier for the cache key deriver Graft node.
	KeyDeriverNodeID graft.ID = "adapter.fs.key_deriver"
	// TreeInspectorNodeID is the unique identifier for the tree inspector Graft node.
	TreeInspectorNodeID graft.ID = "adapter.fs.tree_inspector"
)

func init() {
	graft.Register(graft.Node[billy.Filesystem]{
		ID:        FilesystemNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (billy.Filesystem, error) {
			return NewFilesystem(), nil
		},
	})

	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{FilesystemNodeID},
		Run: func(ctx context.Context) (*Walker, error) {
			fsys, err := graft.Dep[billy.Filesystem](ctx)
			if err != nil {
				return nil, err
			}
			return NewWalker(fsys), nil
		},
	})

	graft.Register(graft.Node[ports.KeyDeriver]{
		ID:        KeyDeriverNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{FilesystemNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.KeyDeriver, error) {
			fsys, err := graft.Dep[billy.Filesystem](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewKeyDeriver(fsys, log), nil
		},
	})

	graft.Register(graft.Node[ports.TreeInspector]{
		ID:        TreeInspectorNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{FilesystemNodeID, WalkerNodeID},
		Run: func(ctx context.Context) (ports.TreeInspector, error) {
			fsys, err := graft.Dep[billy.Filesystem](ctx)
			if err != nil {
				return nil, err
			}
			walker, err := graft.Dep[*Walker](ctx)
			if err != nil {
				return nil, err
			}
			return NewTreeInspector(fsys, walker), nil
		},
	})
}
