package pipes

import (
	"slices"

	"github.com/kbukum/pipekit/errors"
)

// Contract lists the context keys a leaf pipe needs and adds.
type Contract struct {
	Requires []string `json:"requires,omitempty"`
	Provides []string `json:"provides,omitempty"`
}

// DeclaresContract is implemented by pipes that expose their contract,
// including every leaf built with New or Of.
type DeclaresContract interface {
	Contract() Contract
}

// ContractOf returns the declared contract of p. Pipelines and closures
// declare none.
func ContractOf(p Pipe) Contract {
	d, ok := p.(DeclaresContract)
	if !ok {
		return Contract{}
	}
	c := d.Contract()
	return Contract{
		Requires: slices.Clone(c.Requires),
		Provides: slices.Clone(c.Provides),
	}
}

// Check walks p's members in order and reports the first required key that
// neither a seed key nor an earlier member provides. It never runs anything.
func Check(p Pipe, seeded ...string) error {
	available := make(map[string]struct{}, len(seeded))
	for _, k := range seeded {
		available[k] = struct{}{}
	}
	for _, m := range members(p) {
		contract := ContractOf(m)
		for _, k := range contract.Requires {
			if _, ok := available[k]; !ok {
				return errors.MissingContext(m.Name(), k, "required")
			}
		}
		for _, k := range contract.Provides {
			available[k] = struct{}{}
		}
	}
	return nil
}

func members(p Pipe) []Pipe {
	if pl, ok := p.(*Pipeline); ok {
		return pl.pipes
	}
	return []Pipe{p}
}
