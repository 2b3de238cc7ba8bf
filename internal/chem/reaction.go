package chem

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// DefaultMinTemperature is the floor below which the stock rate policy
// stops a reaction from firing, in degrees Celsius.
const DefaultMinTemperature = -100.0

// RateFunc decides how far a reaction proceeds in one tick, returning the
// desired extent in moles (zero means the reaction does not fire). The
// engine afterwards caps the extent by reactant availability, so a rate
// function never needs to. Implementations must treat the matters mapping
// as read-only.
type RateFunc func(tickLength float64, r *Reaction, matters map[*Substance]*Matter) float64

// Reaction is a fixed stoichiometric equation: positive coefficients on
// both sides, reactants on the left, products on the right, plus the rate
// policy that drives it. Reactions are immutable shared configuration; the
// same Reaction may be ticked by many systems concurrently.
type Reaction struct {
	Name  string
	Left  map[*Substance]float64
	Right map[*Substance]float64
	Rate  RateFunc
}

// NewReaction builds a reaction from explicit coefficient maps. The maps
// are copied and entries with non-positive coefficients dropped. A nil
// rate never fires; pass DefaultRate() for the stock policy.
func NewReaction(name string, left, right map[*Substance]float64, rate RateFunc) *Reaction {
	return &Reaction{
		Name:  name,
		Left:  copyCoefficients(left),
		Right: copyCoefficients(right),
		Rate:  rate,
	}
}

// Reversed returns a new reaction running r backwards under the given rate
// policy: products become reactants and vice versa.
func Reversed(r *Reaction, rate RateFunc) *Reaction {
	return NewReaction(r.Name+" (reversed)", r.Right, r.Left, rate)
}

// ChemicalEnergy returns the net energy in joules released per mole of
// extent when the reaction proceeds left to right; negative values mean
// the reaction absorbs energy.
func (r *Reaction) ChemicalEnergy() float64 {
	energy := 0.0
	for s, coeff := range r.Left {
		energy += s.ChemicalEnergy * coeff
	}
	for s, coeff := range r.Right {
		energy -= s.ChemicalEnergy * coeff
	}
	return energy
}

// Reactants returns the left-side substances ordered by name.
func (r *Reaction) Reactants() []*Substance {
	return sortedCoefficientKeys(r.Left)
}

// Products returns the right-side substances ordered by name.
func (r *Reaction) Products() []*Substance {
	return sortedCoefficientKeys(r.Right)
}

// String renders the equation, e.g. "Fe + S -> FeS".
func (r *Reaction) String() string {
	var b strings.Builder
	writeSide(&b, r.Left)
	b.WriteString(" -> ")
	writeSide(&b, r.Right)
	return b.String()
}

func writeSide(b *strings.Builder, side map[*Substance]float64) {
	subs := sortedCoefficientKeys(side)
	if len(subs) == 0 {
		b.WriteString("(nothing)")
		return
	}
	for i, s := range subs {
		if i > 0 {
			b.WriteString(" + ")
		}
		if coeff := side[s]; coeff != 1 {
			fmt.Fprintf(b, "%g ", coeff)
		}
		b.WriteString(s.String())
	}
}

// WindowRate builds the stock rate policy: the reaction proceeds at
// base*tickLength while every reactant is present and every reactant's
// temperature lies inside [minTemperature, maxTemperature], otherwise not
// at all. Pass math.Inf for an open end of the window.
func WindowRate(base, minTemperature, maxTemperature float64) RateFunc {
	return func(tickLength float64, r *Reaction, matters map[*Substance]*Matter) float64 {
		for s := range r.Left {
			m, ok := matters[s]
			if !ok {
				return 0
			}
			if m.Temperature < minTemperature || m.Temperature > maxTemperature {
				return 0
			}
		}
		return base * tickLength
	}
}

// DefaultRate returns the stock rate policy: unit base rate with only the
// conventional low-temperature floor. There is no hidden global default;
// construction sites pass this explicitly.
func DefaultRate() RateFunc {
	return WindowRate(1, DefaultMinTemperature, math.Inf(1))
}

func copyCoefficients(side map[*Substance]float64) map[*Substance]float64 {
	out := make(map[*Substance]float64, len(side))
	for s, coeff := range side {
		if coeff <= 0 {
			continue
		}
		out[s] = coeff
	}
	return out
}

func sortedCoefficientKeys(side map[*Substance]float64) []*Substance {
	subs := make([]*Substance, 0, len(side))
	for s := range side {
		subs = append(subs, s)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].String() < subs[j].String() })
	return subs
}
