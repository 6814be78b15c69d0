package manifest

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/trier/internal/core/ports"
)

// NodeID is the unique identifier for the manifest store factory Graft node.
const NodeID graft.ID = "adapter.manifest_store"

func init() {
	graft.Register(graft.Node[ports.ManifestStoreFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ManifestStoreFactory, error) {
			return func(ext string) ports.ManifestStore {
				return NewStore(ext)
			}, nil
		},
	})
}
