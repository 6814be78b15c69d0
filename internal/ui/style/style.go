// Package style holds the colours and icons shared by everything trier prints.
package style

import "github.com/charmbracelet/lipgloss"

// Colours.
var (
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
	Iris   = lipgloss.Color("#8B5CF6")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Dot     = "●"
)
