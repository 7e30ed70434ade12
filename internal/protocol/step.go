// Package protocol implements the connection engine's wire protocol: the
// Step/Action types the dispatcher assembles, the JSON envelopes exchanged
// with the desktop host, and the bounds/shape checks applied before a step
// sequence is allowed on the wire.
package protocol

// StepType enumerates the closed set of atomic host operations a Step can carry.
type StepType string

const (
	StepShortcut StepType = "shortcut"
	StepText     StepType = "text"
	StepDelay    StepType = "delay"
	StepKey      StepType = "key"
	StepCommand  StepType = "command"
)

// Step is a tagged variant carrying exactly the fields its Type requires.
// Exactly one of the field groups below is populated, selected by Type.
type Step struct {
	Type StepType `json:"type"`

	Keys     []string `json:"keys,omitempty"`  // shortcut
	Value    string   `json:"value,omitempty"` // text
	Duration *float64 `json:"duration,omitempty"` // delay, milliseconds; pointer so a 0ms delay still marshals
	Key      string   `json:"key,omitempty"`      // key
	Command  string   `json:"command,omitempty"`  // command
}

// Shortcut builds a shortcut Step from an ordered list of key names.
func Shortcut(keys ...string) Step { return Step{Type: StepShortcut, Keys: keys} }

// Text builds a text-injection Step.
func Text(value string) Step { return Step{Type: StepText, Value: value} }

// Delay builds a timed-delay Step, duration in milliseconds.
func Delay(durationMs float64) Step { d := durationMs; return Step{Type: StepDelay, Duration: &d} }

// Key builds a single key-press Step.
func Key(key string) Step { return Step{Type: StepKey, Key: key} }

// Command builds a shell command-line Step.
func Command(command string) Step { return Step{Type: StepCommand, Command: command} }

// Action is a client-originated request to execute a bounded sequence of
// steps on the host and return a correlated result.
type Action struct {
	ID    string `json:"id"`
	Steps []Step `json:"steps"`
}
