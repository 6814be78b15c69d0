package ports

import (
	"context"

	"go.trai.ch/trier/internal/core/script"
)

// Interpreter runs script source with a per-evaluation context injected as ambient state.
//
//go:generate go run go.uber.org/mock/mockgen -source=interpreter.go -destination=mocks/mock_interpreter.go -package=mocks
type Interpreter interface {
	// Interpret compiles and runs sourceText. Errors are fatal for this evaluation;
	// non-fatal problems are staged on sc.Output() instead.
	Interpret(ctx context.Context, sc *script.Context, sourceText string) error
}
