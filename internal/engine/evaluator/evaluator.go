// Package evaluator turns one script source into an evaluation result.
package evaluator

import (
	"context"
	"fmt"
	"strings"

	"go.trai.ch/trier/internal/core/domain"
	"go.trai.ch/trier/internal/core/ports"
	"go.trai.ch/trier/internal/core/script"
)

// Evaluator runs scripts through a ports.Interpreter and collects what they produced.
type Evaluator struct {
	interpreter       ports.Interpreter
	sourceExtension   string
	manifestExtension string
}

// New creates an Evaluator. sourceExtension decides the default output path and build action;
// manifestExtension locates the manifest path scripts may not write to.
func New(interpreter ports.Interpreter, sourceExtension, manifestExtension string) *Evaluator {
	if domain.NormalizeExtension(sourceExtension) == "" {
		sourceExtension = domain.DefaultSourceExtension
	}
	return &Evaluator{
		interpreter:       interpreter,
		sourceExtension:   sourceExtension,
		manifestExtension: manifestExtension,
	}
}

// Evaluate runs sourceText as the script at sourcePath inside project.
// It never fails: interpreter errors, panics and staged diagnostics all end up in the
// result's Diagnostics, after the ones the script staged itself.
func (e *Evaluator) Evaluate(
	ctx context.Context,
	sourcePath, sourceText string,
	project script.Project,
) (result domain.EvaluationResult) {
	sc := script.NewContext(sourcePath, project, e.sourceExtension,
		domain.ManifestPath(sourcePath, e.manifestExtension))
	out := sc.Output()

	defer func() {
		if r := recover(); r != nil {
			out.Seal()
			result = domain.EvaluationResult{
				Artifacts: out.Artifacts(),
				Diagnostics: append(out.Diagnostics(), domain.Diagnostic{
					Path:    sourcePath,
					Message: fmt.Sprintf("%s: %v", domain.ErrScriptPanicked.Error(), r),
				}),
			}
		}
	}()

	var err error
	if e.interpreter == nil {
		err = domain.ErrInterpreterUnavailable
	} else {
		err = e.interpreter.Interpret(ctx, sc, sourceText)
	}
	out.Seal()

	diags := out.Diagnostics()
	if err != nil {
		diags = append(diags, toDiagnostics(sourcePath, err)...)
	}

	return domain.EvaluationResult{
		Artifacts:   out.Artifacts(),
		Diagnostics: diags,
	}
}

// toDiagnostics keeps positions for script errors. Infrastructure failures never carry one.
func toDiagnostics(sourcePath string, err error) []domain.Diagnostic {
	if strings.HasPrefix(err.Error(), domain.ErrInterpreterUnavailable.Error()) {
		return []domain.Diagnostic{{Path: sourcePath, Message: err.Error()}}
	}
	return domain.DiagnosticsFromError(sourcePath, err)
}
