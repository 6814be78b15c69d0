package domain

import (
	"errors"
	"fmt"
	"go/scanner"
	"regexp"
	"strconv"
	"strings"
)

// Severity is the only diagnostic severity the engine emits.
const Severity = "error"

// Diagnostic is a script-level error normalized for the host.
// Line and Column are 1-based; zero means the position is unknown.
type Diagnostic struct {
	Path    string
	Message string
	Line    uint
	Column  uint
}

// String renders the diagnostic in the MSBuild canonical form understood by most editors.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s(%d,%d): %s: %s", d.Path, d.Line, d.Column, Severity, d.Message)
}

// ScriptError is an error raised at a known position of a script.
type ScriptError struct {
	Line    uint
	Column  uint
	Message string
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// positionPrefix matches "[file:]line:col: message" as produced by go/scanner and the interpreter.
var positionPrefix = regexp.MustCompile(`^(?:.*?:)?(\d+):(\d+): (.*)$`)

// DiagnosticsFromError converts err into one or more diagnostics for path.
// Positions are kept when the error carries them, otherwise line and column are zero.
func DiagnosticsFromError(path string, err error) []Diagnostic {
	if err == nil {
		return nil
	}

	var scriptErr *ScriptError
	if errors.As(err, &scriptErr) {
		return []Diagnostic{{Path: path, Message: scriptErr.Message, Line: scriptErr.Line, Column: scriptErr.Column}}
	}

	var list scanner.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		diags := make([]Diagnostic, 0, len(list))
		for _, e := range list {
			diags = append(diags, Diagnostic{
				Path:    path,
				Message: e.Msg,
				Line:    toUint(e.Pos.Line),
				Column:  toUint(e.Pos.Column),
			})
		}
		return diags
	}

	var single scanner.Error
	if errors.As(err, &single) {
		return []Diagnostic{{
			Path:    path,
			Message: single.Msg,
			Line:    toUint(single.Pos.Line),
			Column:  toUint(single.Pos.Column),
		}}
	}

	return []Diagnostic{diagnosticFromMessage(path, err.Error())}
}

func diagnosticFromMessage(path, msg string) Diagnostic {
	first, rest, _ := strings.Cut(msg, "\n")
	if m := positionPrefix.FindStringSubmatch(first); m != nil {
		line, lineErr := strconv.ParseUint(m[1], 10, 32)
		col, colErr := strconv.ParseUint(m[2], 10, 32)
		if lineErr == nil && colErr == nil {
			text := m[3]
			if rest != "" {
				text += "\n" + rest
			}
			return Diagnostic{Path: path, Message: text, Line: uint(line), Column: uint(col)}
		}
	}
	return Diagnostic{Path: path, Message: msg}
}

func toUint(n int) uint {
	if n < 0 {
		return 0
	}
	return uint(n)
}
