package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/venvcache/internal/adapters/cas"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/venvcache/internal/adapters/fs"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/venvcache/internal/adapters/lock"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/venvcache/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/venvcache/internal/core/ports"
)

// NodeID is the unique identifier for the cache engine Graft node.
const NodeID graft.ID = "engine.cache"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.KeyDeriverNodeID,
			cas.NodeID,
			lock.NodeID,
			fs.TreeInspectorNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Engine, error) {
			keys, err := graft.Dep[ports.KeyDeriver](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.EntryStore](ctx)
			if err != nil {
				return nil, err
			}

			locker, err := graft.Dep[ports.Locker](ctx)
			if err != nil {
				return nil, err
			}

			trees, err := graft.Dep[ports.TreeInspector](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(keys, store, locker, trees, log), nil
		},
	})
}
