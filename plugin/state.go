package plugin

// PluginState represents the lifecycle state of a plugin.
type PluginState int

const (
	StateRegistered PluginState = iota // Registered, not yet built
	StateBuilding                      // Build() in progress
	StateBuilt                         // Build() succeeded
	StateFailed                        // Build() failed or was never reached
)

// String returns a human-readable state name.
func (s PluginState) String() string {
	switch s {
	case StateRegistered:
		return "registered"
	case StateBuilding:
		return "building"
	case StateBuilt:
		return "built"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal returns true if the state cannot transition further.
func (s PluginState) IsTerminal() bool {
	return s == StateBuilt || s == StateFailed
}

// AppState is the application lifecycle: Constructing -> Built -> Running -> Terminal.
type AppState int32

const (
	AppConstructing AppState = iota // mutable Builder
	AppBuilt                        // frozen App, schedulers not started
	AppRunning                      // schedulers executing
	AppTerminal                     // schedulers and shutdown hooks drained
)

// String returns a human-readable state name.
func (s AppState) String() string {
	switch s {
	case AppConstructing:
		return "constructing"
	case AppBuilt:
		return "built"
	case AppRunning:
		return "running"
	case AppTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}
