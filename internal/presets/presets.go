// Package presets holds the static catalog of predefined command presets
// the engine treats as an external collaborator. Presets are convenience
// constructors for common Action step sequences; the engine itself has no
// notion of a preset, only of Actions.
package presets

import "github.com/tapvolt/connect-engine/internal/protocol"

// Preset names a predefined step sequence shown to the caller for selection.
type Preset struct {
	Name  string
	Steps []protocol.Step
}

// Catalog is the fixed, ordered list of predefined presets.
var Catalog = []Preset{
	{Name: "Lock screen", Steps: []protocol.Step{protocol.Shortcut("meta", "l")}},
	{Name: "Screenshot", Steps: []protocol.Step{protocol.Shortcut("shift", "meta", "s")}},
	{Name: "Mission control", Steps: []protocol.Step{protocol.Key("f3")}},
	{Name: "Open spotlight", Steps: []protocol.Step{protocol.Shortcut("meta", "space")}},
	{Name: "Paste clipboard", Steps: []protocol.Step{protocol.Shortcut("control", "v")}},
}

// Find returns the preset with the given name, and whether it was found.
func Find(name string) (Preset, bool) {
	for _, p := range Catalog {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// Names returns every preset name in catalog order.
func Names() []string {
	names := make([]string, len(Catalog))
	for i, p := range Catalog {
		names[i] = p.Name
	}
	return names
}
