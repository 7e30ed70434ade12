// Package engine implements the Connection Engine: the state machine,
// reconnect scheduler, heartbeat monitor, action dispatcher, and lifecycle
// gate that together keep one outbound message channel healthy. Every
// mutation of engine state is serialized behind one mutex (Engine.mu), which
// gives each engine a single logical thread of control.
package engine

import "fmt"

// State is one of the five connection lifecycle states.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
	Reconnecting
	Error
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "DISCONNECTED"
	case Connecting:
		return "CONNECTING"
	case Connected:
		return "CONNECTED"
	case Reconnecting:
		return "RECONNECTING"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// transitionTable[from][to] reports whether the transition is allowed.
// Self-transitions are permitted for every state.
var transitionTable = map[State]map[State]bool{
	Disconnected: {Disconnected: true, Connecting: true, Error: true},
	Connecting:   {Disconnected: true, Connecting: true, Connected: true, Reconnecting: true, Error: true},
	Connected:    {Disconnected: true, Connected: true, Reconnecting: true, Error: true},
	Reconnecting: {Disconnected: true, Connected: true, Reconnecting: true, Error: true},
	Error:        {Disconnected: true, Connecting: true, Reconnecting: true, Error: true},
}

// illegalTransitionError is returned by stateMachine.transition when the
// requested move is not in the table; the caller surfaces it as CLIENT_ERROR
// without mutating state.
type illegalTransitionError struct {
	from, to State
}

func (e *illegalTransitionError) Error() string {
	return fmt.Sprintf("Illegal state transition: %s -> %s", e.from, e.to)
}

// stateMachine owns the current State and enforces the transition table.
// It is not safe for concurrent use; the engine façade is its only mutator,
// invoked from a single logical thread of control.
type stateMachine struct {
	current State
}

func newStateMachine() *stateMachine {
	return &stateMachine{current: Disconnected}
}

// transition attempts to move to `to`. On success it returns the new state
// and a nil error. On failure it leaves current unchanged and returns the
// unchanged state with an *illegalTransitionError.
func (m *stateMachine) transition(to State) (State, error) {
	allowed := transitionTable[m.current]
	if allowed == nil || !allowed[to] {
		return m.current, &illegalTransitionError{from: m.current, to: to}
	}
	m.current = to
	return m.current, nil
}

func (m *stateMachine) get() State { return m.current }
