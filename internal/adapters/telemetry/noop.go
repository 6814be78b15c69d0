// Package telemetry provides telemetry adapters that do not record anything.
package telemetry

import (
	"context"
	"io"

	"go.trai.ch/trier/internal/core/domain"
	"go.trai.ch/trier/internal/core/ports"
)

// NoOp is a ports.Telemetry that discards everything.
type NoOp struct{}

// NewNoOp creates a new NoOp telemetry.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Record returns a vertex that discards its output.
func (t *NoOp) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	v := &NoOpVertex{}
	return ports.ContextWithVertex(ctx, v), v
}

// Close does nothing.
func (t *NoOp) Close() error {
	return nil
}

// NoOpVertex is a no-op implementation of ports.Vertex.
type NoOpVertex struct{}

// Stdout returns io.Discard.
func (v *NoOpVertex) Stdout() io.Writer { return io.Discard }

// Stderr returns io.Discard.
func (v *NoOpVertex) Stderr() io.Writer { return io.Discard }

// Log does nothing.
func (v *NoOpVertex) Log(domain.LogLevel, string) {}

// Complete does nothing.
func (v *NoOpVertex) Complete(error) {}

// Cached does nothing.
func (v *NoOpVertex) Cached() {}
