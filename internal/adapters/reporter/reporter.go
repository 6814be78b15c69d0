// Package reporter prints diagnostics in the "<path>(<line>,<col>): error: <message>" form
// editors and build hosts parse.
package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"go.trai.ch/trier/internal/core/domain"
	"go.trai.ch/trier/internal/core/ports"
	"go.trai.ch/trier/internal/ui/output"
	"go.trai.ch/trier/internal/ui/style"
)

var _ ports.Reporter = (*Reporter)(nil)

// Reporter implements ports.Reporter. Every diagnostic becomes one line on the diagnostic
// stream and is forwarded to the logger.
type Reporter struct {
	mu     sync.Mutex
	out    *termenv.Output
	logger ports.Logger
}

// New creates a Reporter writing to w, or stderr when w is nil. logger may be nil.
func New(w io.Writer, logger ports.Logger) *Reporter {
	if w == nil {
		w = os.Stderr
	}
	return &Reporter{out: output.New(w), logger: logger}
}

// Report writes d. It never fails; write errors are dropped.
func (r *Reporter) Report(d domain.Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = r.out.WriteString(r.format(d) + "\n")
	if r.logger != nil {
		r.logger.Warn(fmt.Sprintf("%s: %s", location(d), firstLine(d.Message)))
	}
}

func (r *Reporter) format(d domain.Diagnostic) string {
	severity := r.out.String(domain.Severity).Foreground(termenv.RGBColor(string(style.Red))).Bold()
	// Continuation lines would be parsed as separate records by IDEs.
	msg := strings.ReplaceAll(d.Message, "\n", " ")
	return fmt.Sprintf("%s: %s: %s", location(d), severity, msg)
}

func location(d domain.Diagnostic) string {
	return fmt.Sprintf("%s(%d,%d)", d.Path, d.Line, d.Column)
}

func firstLine(s string) string {
	first, _, _ := strings.Cut(s, "\n")
	return first
}
