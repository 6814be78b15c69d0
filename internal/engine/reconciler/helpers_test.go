package reconciler_test

import (
	"context"

	"go.trai.ch/trier/internal/core/ports"
)

func portsContext(v ports.Vertex) context.Context {
	return ports.ContextWithVertex(context.Background(), v)
}
