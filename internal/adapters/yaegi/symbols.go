package yaegi

import (
	"reflect"

	"github.com/traefik/yaegi/interp"
	"go.trai.ch/trier/internal/core/domain"
	"go.trai.ch/trier/internal/core/script"
)

// importPath is the path scripts import to reach their evaluation context.
const importPath = "trier"

// symbols exports the evaluation context of sc as package "trier".
// Every function closes over sc, so the exports must not outlive one evaluation.
func symbols(sc *script.Context) interp.Exports {
	out := sc.Output()
	return interp.Exports{
		importPath + "/" + importPath: map[string]reflect.Value{
			// Context
			"SourcePath": reflect.ValueOf(sc.SourcePath),
			"SourceDir":  reflect.ValueOf(sc.SourceDir),
			"Project":    reflect.ValueOf(sc.Project),
			"Output":     reflect.ValueOf(sc.Output),

			// Shortcuts on the multiplexer
			"Default": reflect.ValueOf(out.Default),
			"File":    reflect.ValueOf(out.File),
			"Errorf":  reflect.ValueOf(out.Errorf),
			"ErrorAt": reflect.ValueOf(out.ErrorAt),
			"Fail":    reflect.ValueOf(fail),

			// Build actions
			"GenerateOnly":     reflect.ValueOf(domain.BuildActionGenerateOnly),
			"None":             reflect.ValueOf(domain.BuildActionNone),
			"Compile":          reflect.ValueOf(domain.BuildActionCompile),
			"Content":          reflect.ValueOf(domain.BuildActionContent),
			"EmbeddedResource": reflect.ValueOf(domain.BuildActionEmbeddedResource),

			// Types
			"BuildAction": reflect.ValueOf((*domain.BuildAction)(nil)),
			"Multiplexer": reflect.ValueOf((*script.Multiplexer)(nil)),
			"Stream":      reflect.ValueOf((*script.Stream)(nil)),
		},
	}
}

// fail returns an error that aborts the script at a known position.
func fail(line, column int, message string) error {
	if line < 0 {
		line = 0
	}
	if column < 0 {
		column = 0
	}
	return &domain.ScriptError{Line: uint(line), Column: uint(column), Message: message}
}
