package domain

// RunState is the state of one evaluate-and-reconcile attempt for a single source file.
type RunState string

const (
	// RunStateStart is the state before anything has been inspected.
	RunStateStart RunState = "start"
	// RunStateAborted means diagnostics were reported and nothing was touched.
	RunStateAborted RunState = "aborted"
	// RunStateSyncing means artifacts are being written and registered.
	RunStateSyncing RunState = "syncing"
	// RunStateDeleting means stale outputs from the previous manifest are being removed.
	RunStateDeleting RunState = "deleting"
	// RunStateCommitting means the new manifest is being persisted.
	RunStateCommitting RunState = "committing"
	// RunStateDone means the project model and manifest match the run's artifacts.
	RunStateDone RunState = "done"
	// RunStateFailed means a step after Start failed; the manifest was left untouched.
	RunStateFailed RunState = "failed"
)

// IsTerminal checks if a state ends the attempt (Aborted, Done, Failed).
func (s RunState) IsTerminal() bool {
	switch s {
	case RunStateAborted, RunStateDone, RunStateFailed:
		return true
	default:
		return false
	}
}

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}
