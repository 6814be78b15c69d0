package script

import (
	"fmt"
	"path/filepath"
	"sync"

	"go.trai.ch/trier/internal/core/domain"
)

// Multiplexer collects the named output streams of one evaluation.
// Nothing touches the disk; content stays buffered until the evaluation is sealed.
type Multiplexer struct {
	mu sync.Mutex

	sourcePath      string
	baseDir         string
	sourceExtension string

	def     *Stream
	streams []*Stream
	byName  map[string]*Stream
	byPath  map[string]*Stream
	// reserved paths may never become artifacts: the script source and its manifest.
	reserved map[string]struct{}

	diagnostics []domain.Diagnostic
	sealed      bool
}

// NewMultiplexer creates a multiplexer for the script at sourcePath. Neither sourcePath nor
// any of the reserved paths can be claimed as an output.
func NewMultiplexer(sourcePath, sourceExtension string, reserved ...string) *Multiplexer {
	m := &Multiplexer{
		sourcePath:      sourcePath,
		baseDir:         filepath.Dir(sourcePath),
		sourceExtension: sourceExtension,
		byName:          make(map[string]*Stream),
		byPath:          make(map[string]*Stream),
		reserved:        map[string]struct{}{filepath.Clean(sourcePath): {}},
	}
	for _, path := range reserved {
		m.reserved[filepath.Clean(path)] = struct{}{}
	}
	m.def = m.newStream("", domain.DefaultOutputPath(sourcePath, sourceExtension))
	return m
}

func (m *Multiplexer) newStream(name, path string) *Stream {
	return &Stream{
		mux:    m,
		name:   name,
		path:   path,
		action: domain.DefaultBuildAction(path, m.sourceExtension),
	}
}

// Default returns the unnamed output stream.
func (m *Multiplexer) Default() *Stream {
	return m.def
}

// File returns the stream for name, creating it on first use.
// Relative names resolve against the script's directory.
// A name that resolves to a path already claimed under another name stages a
// diagnostic and returns the stream that owns the path. A reserved path stages a
// diagnostic and returns a stream whose content is never emitted.
func (m *Multiplexer) File(name string) *Stream {
	if name == "" {
		return m.def
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.byName[name]; ok {
		return s
	}

	path := m.resolve(name)
	if m.isReserved(path) {
		m.stageLocked(0, 0, fmt.Sprintf("%s: %q", domain.ErrOutputPathReserved.Error(), path))
		s := m.newStream(name, path)
		m.byName[name] = s
		return s
	}
	if owner, ok := m.byPath[path]; ok {
		m.stageLocked(0, 0, fmt.Sprintf("%s: output path %q is already claimed by %q",
			domain.ErrOutputPathClaimed.Error(), path, owner.name))
		return owner
	}

	s := m.newStream(name, path)
	m.streams = append(m.streams, s)
	m.byName[name] = s
	m.byPath[path] = s
	return s
}

func (m *Multiplexer) resolve(name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(m.baseDir, name)
}

func (m *Multiplexer) isReserved(path string) bool {
	_, ok := m.reserved[filepath.Clean(path)]
	return ok
}

// Errorf stages a script-authored diagnostic without a position.
func (m *Multiplexer) Errorf(format string, args ...any) {
	m.ErrorAt(0, 0, fmt.Sprintf(format, args...))
}

// ErrorAt stages a script-authored diagnostic at line and column.
func (m *Multiplexer) ErrorAt(line, column int, message string) {
	if line < 0 {
		line = 0
	}
	if column < 0 {
		column = 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.stageLocked(uint(line), uint(column), message)
}

func (m *Multiplexer) stageLocked(line, column uint, message string) {
	m.diagnostics = append(m.diagnostics, domain.Diagnostic{
		Path:    m.sourcePath,
		Message: message,
		Line:    line,
		Column:  column,
	})
}

// Seal ends the evaluation. Streams reject writes afterwards and build actions are final.
// A used default stream that collides with a named stream is reported here, since the
// script may claim either one first.
func (m *Multiplexer) Seal() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sealed {
		return
	}
	m.sealed = true

	if m.def.used() {
		if m.isReserved(m.def.path) {
			m.stageLocked(0, 0, fmt.Sprintf("%s: default output %q", domain.ErrOutputPathReserved.Error(), m.def.path))
		}
		if owner, ok := m.byPath[m.def.path]; ok {
			m.stageLocked(0, 0, fmt.Sprintf("%s: default output path %q is also claimed by %q",
				domain.ErrOutputPathClaimed.Error(), m.def.path, owner.name))
		}
	}
}

// Sealed reports whether Seal has been called.
func (m *Multiplexer) Sealed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sealed
}

// Artifacts snapshots the streams in creation order, the default stream first when it was used.
// Streams on reserved paths are left out.
func (m *Multiplexer) Artifacts() []domain.Artifact {
	m.mu.Lock()
	defer m.mu.Unlock()

	artifacts := make([]domain.Artifact, 0, len(m.streams)+1)
	if m.def.used() && !m.isReserved(m.def.path) {
		artifacts = append(artifacts, m.def.artifact())
	}
	for _, s := range m.streams {
		artifacts = append(artifacts, s.artifact())
	}
	return artifacts
}

// Diagnostics returns the diagnostics staged so far, in staging order.
func (m *Multiplexer) Diagnostics() []domain.Diagnostic {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Diagnostic, len(m.diagnostics))
	copy(out, m.diagnostics)
	return out
}
