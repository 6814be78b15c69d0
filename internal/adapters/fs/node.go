package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/trier/internal/core/ports"
)

const (
	// WalkerNodeID is the unique identifier for the walker Graft node.
	WalkerNodeID graft.ID = "adapter.fs.walker"
	// FinderNodeID is the unique identifier for the script finder Graft node.
	FinderNodeID graft.ID = "adapter.fs.finder"
	// WriterNodeID is the unique identifier for the output writer Graft node.
	WriterNodeID graft.ID = "adapter.fs.writer"
)

func init() {
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[ports.ScriptFinder]{
		ID:        FinderNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{WalkerNodeID},
		Run: func(ctx context.Context) (ports.ScriptFinder, error) {
			walker, err := graft.Dep[*Walker](ctx)
			if err != nil {
				return nil, err
			}
			return NewFinder(walker), nil
		},
	})

	graft.Register(graft.Node[ports.OutputWriter]{
		ID:        WriterNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.OutputWriter, error) {
			return NewWriter(), nil
		},
	})
}
