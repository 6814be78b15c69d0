package reporter

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/trier/internal/adapters/logger" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/trier/internal/core/ports"
)

// NodeID is the unique identifier for the reporter Graft node.
const NodeID graft.ID = "adapter.reporter"

func init() {
	graft.Register(graft.Node[ports.Reporter]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Reporter, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(os.Stderr, log), nil
		},
	})
}
