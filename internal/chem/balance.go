package chem

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

const (
	// balanceTolerance bounds the residual of the conservation system; a
	// least-squares solution further away than this is no solution at all.
	balanceTolerance = 1e-9

	// coefficientEps is the magnitude below which a solved coefficient is
	// treated as zero and its participant dropped from the equation.
	coefficientEps = 1e-10
)

// BalanceReaction derives the stoichiometric coefficients for a reaction
// from conservation alone. The caller lists every participating substance
// without labelling sides; the balancer fixes the first participant's
// coefficient at 1, solves one linear conservation equation per element
// (plus a charge-conservation equation when some but not all participants
// are charged), and partitions the participants by the sign of the solved
// coefficient: positive to the left, negative to the right, zero dropped.
//
// The system is solved over the reals, so fractional coefficients such as
// 1/2 are normal; callers wanting whole numbers scale externally. It fails
// with ErrEmptyReactionSet when no substances are given and with
// ErrUnbalanceable when the system is singular, underdetermined, or
// inconsistent beyond tolerance.
func BalanceReaction(name string, rate RateFunc, participants ...*Substance) (*Reaction, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("balance %q: %w", name, ErrEmptyReactionSet)
	}

	elements := participantElements(participants)

	charged, uncharged := 0, 0
	for _, p := range participants {
		if p.Charge() != 0 {
			charged++
		} else {
			uncharged++
		}
	}
	chargeRow := charged > 0 && uncharged > 0

	unknowns := len(participants) - 1
	rows := len(elements)
	if chargeRow {
		rows++
	}
	// Fewer equations than unknowns means the stoichiometry is ambiguous.
	if unknowns == 0 || rows < unknowns {
		return nil, fmt.Errorf("balance %q: %w", name, ErrUnbalanceable)
	}

	a := mat.NewDense(rows, unknowns, nil)
	b := mat.NewVecDense(rows, nil)
	for i, el := range elements {
		b.SetVec(i, -float64(participants[0].Formula.Count(el)))
		for j, p := range participants[1:] {
			a.Set(i, j, float64(p.Formula.Count(el)))
		}
	}
	if chargeRow {
		i := rows - 1
		b.SetVec(i, -float64(participants[0].Charge()))
		for j, p := range participants[1:] {
			a.Set(i, j, float64(p.Charge()))
		}
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("balance %q: %w", name, ErrUnbalanceable)
	}

	// An overdetermined system solves in the least-squares sense; accept
	// the solution only if it actually satisfies every equation.
	var residual mat.VecDense
	residual.MulVec(a, &x)
	residual.SubVec(&residual, b)
	if mat.Norm(&residual, math.Inf(1)) > balanceTolerance {
		return nil, fmt.Errorf("balance %q: %w", name, ErrUnbalanceable)
	}

	left := make(map[*Substance]float64)
	right := make(map[*Substance]float64)
	for i, p := range participants {
		coeff := 1.0
		if i > 0 {
			coeff = x.AtVec(i - 1)
		}
		switch {
		case coeff > coefficientEps:
			left[p] += coeff
		case coeff < -coefficientEps:
			right[p] += -coeff
		}
	}
	return NewReaction(name, left, right, rate), nil
}

// participantElements returns the union of all elements across the
// participants' formulas, ordered by symbol for a stable system layout.
func participantElements(participants []*Substance) []*Element {
	seen := make(map[*Element]bool)
	var elements []*Element
	for _, p := range participants {
		for _, el := range p.Formula.Elements() {
			if !seen[el] {
				seen[el] = true
				elements = append(elements, el)
			}
		}
	}
	sort.Slice(elements, func(i, j int) bool { return elements[i].Symbol < elements[j].Symbol })
	return elements
}
