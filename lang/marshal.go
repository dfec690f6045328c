package lang

import (
	"encoding/json"
)

// callRecord is the serialized form of a [Call].
type callRecord struct {
	Name string `json:"name" yaml:"name"`
	Args []any  `json:"args" yaml:"args"`
}

func (c Call) record() callRecord {
	args := make([]any, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.Value()
	}

	return callRecord{Name: c.Name, Args: args}
}

func (p Program) records() [][]callRecord {
	out := make([][]callRecord, len(p.Instances))

	for i, c := range p.Instances {
		out[i] = make([]callRecord, len(c.calls))
		for j, call := range c.calls {
			out[i][j] = call.record()
		}
	}

	return out
}

// MarshalJSON implements json.Marshaler. A program is a list of composites,
// each a list of {"name": ..., "args": [...]} objects.
func (p Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.records())
}

// MarshalYAML implements yaml.InterfaceMarshaler with the same shape as
// [Program.MarshalJSON].
func (p Program) MarshalYAML() (any, error) {
	return p.records(), nil
}
