package generator

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/trier/internal/adapters/fs"                 //nolint:depguard // Wired in engine wiring
	"go.trai.ch/trier/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/trier/internal/adapters/manifest"           //nolint:depguard // Wired in engine wiring
	"go.trai.ch/trier/internal/adapters/reporter"           //nolint:depguard // Wired in engine wiring
	"go.trai.ch/trier/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/trier/internal/adapters/yaegi"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/trier/internal/core/ports"
)

// NodeID is the unique identifier for the generator factory Graft node.
const NodeID graft.ID = "engine.generator"

func init() {
	graft.Register(graft.Node[*Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			yaegi.NodeID,
			manifest.NodeID,
			fs.WriterNodeID,
			reporter.NodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Factory, error) {
			interpreter, err := graft.Dep[ports.Interpreter](ctx)
			if err != nil {
				return nil, err
			}

			manifests, err := graft.Dep[ports.ManifestStoreFactory](ctx)
			if err != nil {
				return nil, err
			}

			writer, err := graft.Dep[ports.OutputWriter](ctx)
			if err != nil {
				return nil, err
			}

			rep, err := graft.Dep[ports.Reporter](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return NewFactory(interpreter, manifests, writer, rep, log, tel), nil
		},
	})
}
