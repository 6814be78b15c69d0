// Package script holds the per-evaluation state a generator script sees:
// its source location, the host project and the output multiplexer.
package script

import "path/filepath"

// Project is the read-only view of the host project handed to scripts.
type Project interface {
	Name() string
	Root() string
}

// Context is the ambient state of one evaluation. A fresh Context is built for every run.
type Context struct {
	sourcePath string
	project    Project
	output     *Multiplexer
}

// NewContext binds sourcePath, project and a fresh multiplexer into a new Context.
// sourceExtension is the host language source extension used for default build actions.
// reserved paths, such as the script's manifest, cannot be claimed as outputs.
func NewContext(sourcePath string, project Project, sourceExtension string, reserved ...string) *Context {
	return &Context{
		sourcePath: sourcePath,
		project:    project,
		output:     NewMultiplexer(sourcePath, sourceExtension, reserved...),
	}
}

// SourcePath returns the absolute path of the script being evaluated.
func (c *Context) SourcePath() string {
	return c.sourcePath
}

// SourceDir returns the directory relative output names resolve against.
func (c *Context) SourceDir() string {
	return filepath.Dir(c.sourcePath)
}

// Project returns the project containing the script.
func (c *Context) Project() Project {
	return c.project
}

// Output returns the multiplexer collecting this evaluation's artifacts.
func (c *Context) Output() *Multiplexer {
	return c.output
}
