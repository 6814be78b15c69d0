// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/trier/internal/core/ports"
)

// Recorder implements the ports.Telemetry interface using the vito/progrock library.
type Recorder struct {
	w      progrock.Writer
	rec    *progrock.Recorder
	seq    atomic.Uint64
	stdout io.Writer
	stderr io.Writer
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithMirror copies every vertex's script output to the given writers as well as the tape.
func WithMirror(stdout, stderr io.Writer) Option {
	return func(r *Recorder) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// New creates a new Recorder with a default tape.
func New(opts ...Option) *Recorder {
	tape := progrock.NewTape()
	return NewRecorder(tape, opts...)
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer, opts ...Option) *Recorder {
	r := &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record starts recording a new vertex.
// Every call yields a distinct vertex, so the same script can be recorded repeatedly in watch mode.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	d := digest.FromString(fmt.Sprintf("%s#%d", name, r.seq.Add(1)))
	v := r.rec.Vertex(d, name)
	vertex := &Vertex{vertex: v, stdout: r.stdout, stderr: r.stderr}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
