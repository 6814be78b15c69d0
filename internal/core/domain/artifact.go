package domain

// Artifact is one named output produced by a script evaluation.
// Path is absolute and cleaned; it is the artifact's identity within one evaluation.
type Artifact struct {
	Path        string
	Content     []byte
	BuildAction BuildAction
}

// EvaluationResult is everything a single evaluation produced.
type EvaluationResult struct {
	Artifacts   []Artifact
	Diagnostics []Diagnostic
}

// Failed reports whether the evaluation produced any diagnostic.
func (r EvaluationResult) Failed() bool {
	return len(r.Diagnostics) > 0
}

// Paths returns the artifact paths in evaluation order.
func (r EvaluationResult) Paths() []string {
	paths := make([]string, 0, len(r.Artifacts))
	for _, a := range r.Artifacts {
		paths = append(paths, a.Path)
	}
	return paths
}

// ProjectItem is a handle to an item tracked by the host project model.
type ProjectItem struct {
	Path        string
	BuildAction BuildAction
	Project     string
}
