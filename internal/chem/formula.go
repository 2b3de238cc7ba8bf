package chem

import (
	"fmt"
	"sort"
	"strings"
)

// Formula is an immutable multiset of elements with a net valence.
// The zero value is the empty formula. All operations are pure and return
// new Formulas; the element counts are never mutated after construction.
type Formula struct {
	counts       map[*Element]int
	valence      int
	relativeMass float64
}

// NewFormula builds a formula from an element to count mapping and a net
// valence. Entries with a non-positive count are dropped. The mapping is
// copied, so the caller may reuse it.
func NewFormula(counts map[*Element]int, valence int) Formula {
	f := Formula{
		counts:  make(map[*Element]int, len(counts)),
		valence: valence,
	}
	for el, n := range counts {
		if n <= 0 {
			continue
		}
		f.counts[el] = n
		f.relativeMass += el.RelativeMass * float64(n)
	}
	return f
}

// Valence returns the net valence (ionic charge) of the formula.
func (f Formula) Valence() int {
	return f.valence
}

// RelativeMass returns the summed relative mass in g/mol.
func (f Formula) RelativeMass() float64 {
	return f.relativeMass
}

// Count returns how many atoms of el the formula holds, zero if absent.
func (f Formula) Count(el *Element) int {
	return f.counts[el]
}

// Elements returns the constituent elements ordered by symbol.
func (f Formula) Elements() []*Element {
	out := make([]*Element, 0, len(f.counts))
	for el := range f.counts {
		out = append(out, el)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Counts returns a copy of the element to count mapping.
func (f Formula) Counts() map[*Element]int {
	out := make(map[*Element]int, len(f.counts))
	for el, n := range f.counts {
		out[el] = n
	}
	return out
}

// Scale multiplies every count and the valence by t.
func (f Formula) Scale(t int) Formula {
	scaled := make(map[*Element]int, len(f.counts))
	for el, n := range f.counts {
		scaled[el] = n * t
	}
	return NewFormula(scaled, f.valence*t)
}

// Combine merges the two formulas, summing overlapping element counts and
// adding the valences.
func (f Formula) Combine(other Formula) Formula {
	merged := f.Counts()
	for el, n := range other.counts {
		merged[el] += n
	}
	return NewFormula(merged, f.valence+other.valence)
}

// BalanceCombine combines two oppositely charged formulas in the smallest
// ratio that neutralises them: with L = lcm(|v1|, |v2|) the receiver is
// scaled by L/|v1| and other by L/|v2|, so the result always has valence
// zero. It fails with ErrInvalidCombination when either valence is zero or
// both share a sign.
func (f Formula) BalanceCombine(other Formula) (Formula, error) {
	if f.valence == 0 || other.valence == 0 {
		return Formula{}, fmt.Errorf("combine %s and %s: zero valence: %w", f, other, ErrInvalidCombination)
	}
	if (f.valence > 0) == (other.valence > 0) {
		return Formula{}, fmt.Errorf("combine %s and %s: same-sign valence: %w", f, other, ErrInvalidCombination)
	}
	l := lcm(abs(f.valence), abs(other.valence))
	return f.Scale(l / abs(f.valence)).Combine(other.Scale(l / abs(other.valence))), nil
}

// String renders the formula in a compact symbolic form, elements ordered
// by symbol with counts as suffixes and the valence appended like "^2-".
func (f Formula) String() string {
	var b strings.Builder
	for _, el := range f.Elements() {
		b.WriteString(el.Symbol)
		if n := f.counts[el]; n > 1 {
			fmt.Fprintf(&b, "%d", n)
		}
	}
	switch v := f.valence; {
	case v == 1:
		b.WriteString("^+")
	case v > 1:
		fmt.Fprintf(&b, "^%d+", v)
	case v == -1:
		b.WriteString("^-")
	case v < -1:
		fmt.Fprintf(&b, "^%d-", -v)
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int) int {
	return a / gcd(a, b) * b
}
