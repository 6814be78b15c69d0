package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/trier/internal/adapters/logger" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/trier/internal/core/ports"
)

// NodeID is the unique identifier for the file watcher factory Graft node.
const NodeID graft.ID = "adapter.watcher"

func init() {
	graft.Register(graft.Node[ports.WatcherFactory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.WatcherFactory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return func() (ports.Watcher, error) {
				return NewWatcher(log)
			}, nil
		},
	})
}
