// Package yaegi runs generator scripts with the yaegi Go interpreter.
package yaegi

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"go.trai.ch/trier/internal/core/domain"
	"go.trai.ch/trier/internal/core/ports"
	"go.trai.ch/trier/internal/core/script"
	"go.trai.ch/zerr"
)

// entryPoint is the function every script must define in package main.
const entryPoint = "main.Generate"

var _ ports.Interpreter = (*Interpreter)(nil)

// Interpreter implements ports.Interpreter. A new yaegi interpreter is built for every
// call, so no state leaks between evaluations.
type Interpreter struct{}

// New creates a new Interpreter.
func New() *Interpreter {
	return &Interpreter{}
}

// Interpret compiles sourceText, binds sc as package "trier" and calls Generate.
// Compile and runtime errors are returned unwrapped so their positions survive.
//
// Cancelling ctx stops interpreted code at its next statement, so loops in Generate
// end. A native call already in progress, such as time.Sleep, runs to completion first.
func (y *Interpreter) Interpret(ctx context.Context, sc *script.Context, sourceText string) error {
	stdout, stderr := io.Discard, io.Discard
	if v := ports.VertexFromContext(ctx); v != nil {
		stdout, stderr = v.Stdout(), v.Stderr()
	}

	i := interp.New(interp.Options{
		Stdout: stdout,
		Stderr: stderr,
	})
	if err := i.Use(stdlib.Symbols); err != nil {
		return zerr.Wrap(err, domain.ErrInterpreterUnavailable.Error())
	}
	if err := i.Use(symbols(sc)); err != nil {
		return zerr.Wrap(err, domain.ErrInterpreterUnavailable.Error())
	}

	if _, err := i.EvalWithContext(ctx, sourceText); err != nil {
		return callError(ctx, err)
	}

	v, err := i.Eval(entryPoint)
	if err != nil {
		return domain.ErrMissingEntryPoint
	}
	switch v.Interface().(type) {
	case func(), func() error:
	default:
		return zerr.With(domain.ErrInvalidEntryPoint, "type", v.Type().String())
	}

	res, err := i.EvalWithContext(ctx, entryPoint+"()")
	if err != nil {
		return callError(ctx, err)
	}
	if res.IsValid() && res.CanInterface() {
		if err, ok := res.Interface().(error); ok && err != nil {
			return err
		}
	}
	return nil
}

// callError maps interpreter failures: a cancelled ctx and a panic in the script get
// their own errors, anything else is returned as is.
func callError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return zerr.Wrap(ctxErr, "script cancelled")
	}
	var p interp.Panic
	if errors.As(err, &p) {
		return zerr.Wrap(zerr.New(fmt.Sprint(p.Value)), domain.ErrScriptPanicked.Error())
	}
	return err
}
