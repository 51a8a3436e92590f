// SPDX-License-Identifier: MPL-2.0

package runtime

// Session states. The zero value is StateCreated.
const (
	StateCreated State = iota
	StateConfigured
	StateLoaded
	StateRunning
	StateCompleted
	StateFaulted
)

// State is the lifecycle stage of a Session.
type State int32

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateConfigured:
		return "configured"
	case StateLoaded:
		return "loaded"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transition is possible.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateFaulted
}
