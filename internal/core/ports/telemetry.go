package ports

import (
	"context"
	"io"

	"go.trai.ch/trier/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records one vertex per generation run.
type Telemetry interface {
	// Record starts a new vertex named name.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes and closes the recording session.
	Close() error
}

// Vertex is a unit of recorded work.
type Vertex interface {
	// Stdout returns a writer for regular output of the vertex.
	Stdout() io.Writer
	// Stderr returns a writer for error output of the vertex.
	Stderr() io.Writer
	// Log records a message at level.
	Log(level domain.LogLevel, msg string)
	// Complete marks the vertex as finished, failed when err is non-nil.
	Complete(err error)
	// Cached marks the vertex as having changed nothing.
	Cached()
}

type vertexKey struct{}

// ContextWithVertex returns a copy of ctx carrying v.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexKey{}, v)
}

// VertexFromContext returns the vertex stored in ctx, or nil.
func VertexFromContext(ctx context.Context) Vertex {
	v, _ := ctx.Value(vertexKey{}).(Vertex)
	return v
}
