package chem

import (
	"fmt"
	"strings"
)

// Phase is the physical state of a substance.
type Phase int

const (
	PhaseGas Phase = iota
	PhaseLiquid
	PhaseSolid
	PhaseAqueous
)

// String returns the long form of the phase, e.g. "liquid".
func (p Phase) String() string {
	switch p {
	case PhaseGas:
		return "gas"
	case PhaseLiquid:
		return "liquid"
	case PhaseSolid:
		return "solid"
	case PhaseAqueous:
		return "aqueous"
	default:
		return "unknown"
	}
}

// Symbol returns the conventional state abbreviation, e.g. "aq".
func (p Phase) Symbol() string {
	switch p {
	case PhaseGas:
		return "g"
	case PhaseLiquid:
		return "l"
	case PhaseSolid:
		return "s"
	case PhaseAqueous:
		return "aq"
	default:
		return "?"
	}
}

// ParsePhase parses a phase from its long or abbreviated form,
// case-insensitively.
func ParsePhase(s string) (Phase, error) {
	switch strings.ToLower(s) {
	case "gas", "g":
		return PhaseGas, nil
	case "liquid", "l":
		return PhaseLiquid, nil
	case "solid", "s":
		return PhaseSolid, nil
	case "aqueous", "aq":
		return PhaseAqueous, nil
	default:
		return PhaseLiquid, fmt.Errorf("unknown phase %q", s)
	}
}
