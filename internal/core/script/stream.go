package script

import (
	"bytes"
	"fmt"

	"go.trai.ch/trier/internal/core/domain"
	"go.trai.ch/zerr"
)

// errStreamSealed is returned by writes that arrive after the evaluation ended.
var errStreamSealed = zerr.New("output stream is sealed")

// Stream is one buffered output of a script. All methods are safe for concurrent use.
type Stream struct {
	mux  *Multiplexer
	name string
	path string

	buf      bytes.Buffer
	action   domain.BuildAction
	explicit bool
	written  bool
}

// Name returns the name the script used, or "" for the default stream.
func (s *Stream) Name() string {
	return s.name
}

// Path returns the absolute path the stream is written to.
func (s *Stream) Path() string {
	return s.path
}

// Write appends p to the stream.
func (s *Stream) Write(p []byte) (int, error) {
	s.mux.mu.Lock()
	defer s.mux.mu.Unlock()

	if s.mux.sealed {
		return 0, zerr.With(errStreamSealed, "path", s.path)
	}
	s.written = true
	return s.buf.Write(p)
}

// WriteString appends str to the stream.
func (s *Stream) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}

// Printf formats according to format and appends the result.
func (s *Stream) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s, format, args...)
}

// Println appends args separated by spaces and a trailing newline.
func (s *Stream) Println(args ...any) {
	_, _ = fmt.Fprintln(s, args...)
}

// SetBuildAction overrides the default build action. The last value set before the
// evaluation ends is the one the artifact is registered with.
func (s *Stream) SetBuildAction(action domain.BuildAction) {
	s.mux.mu.Lock()
	defer s.mux.mu.Unlock()

	if s.mux.sealed {
		return
	}
	if !action.IsValid() {
		s.mux.stageLocked(0, 0, fmt.Sprintf("%s %q for output %q",
			domain.ErrUnknownBuildAction.Error(), string(action), s.path))
		return
	}
	s.action = action
	s.explicit = true
}

// BuildAction returns the build action currently in effect.
func (s *Stream) BuildAction() domain.BuildAction {
	s.mux.mu.Lock()
	defer s.mux.mu.Unlock()
	return s.action
}

// String returns the content buffered so far.
func (s *Stream) String() string {
	s.mux.mu.Lock()
	defer s.mux.mu.Unlock()
	return s.buf.String()
}

// used reports whether the stream produced anything. Callers hold mux.mu.
func (s *Stream) used() bool {
	return s.written || s.explicit
}

// artifact snapshots the stream. Callers hold mux.mu.
func (s *Stream) artifact() domain.Artifact {
	content := make([]byte, s.buf.Len())
	copy(content, s.buf.Bytes())
	return domain.Artifact{
		Path:        s.path,
		Content:     content,
		BuildAction: s.action,
	}
}
