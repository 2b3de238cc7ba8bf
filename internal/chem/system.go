package chem

import (
	"math"
	"sort"
)

// AmountClearEpsilon is the near-zero amount in moles at or below which a
// matter entry counts as depleted and is dropped from the system.
const AmountClearEpsilon = 1e-10

// CouplingFunc combines the heat-transfer coefficients of the two sides of
// an exchange into one conduction coefficient. It must be symmetric.
type CouplingFunc func(k1, k2 float64) float64

// GeometricCoupling combines two heat-transfer coefficients by their
// geometric mean. It is the default policy; exchanging with the
// environment then conducts at exactly the substance's own coefficient.
func GeometricCoupling(k1, k2 float64) float64 {
	return math.Sqrt(k1 * k2)
}

// ProductCoupling combines two heat-transfer coefficients by plain
// multiplication.
func ProductCoupling(k1, k2 float64) float64 {
	return k1 * k2
}

// Firing records one reaction that fired during a tick and the extent in
// moles by which it proceeded.
type Firing struct {
	Reaction string  `json:"reaction"`
	Extent   float64 `json:"extent"`
}

// MatterState is a read-only view of one matter entry, fit for display and
// JSON encoding.
type MatterState struct {
	Substance   string  `json:"substance"`
	Formula     string  `json:"formula"`
	Phase       string  `json:"phase"`
	Color       string  `json:"color"`
	Amount      float64 `json:"amount"`
	Temperature float64 `json:"temperature"`
	Mass        float64 `json:"mass"`
	Volume      float64 `json:"volume"`
}

// ChemicalSystem is the tick-driven simulation engine: a mapping from
// substance to its current matter, advanced by Tick. It is synchronous and
// single-threaded; hosts sharing a system across goroutines must treat
// each Tick call as one critical section. The system owns its matter
// entries exclusively.
type ChemicalSystem struct {
	matters  map[*Substance]*Matter
	coupling CouplingFunc
}

// NewChemicalSystem creates an empty system with geometric-mean heat
// coupling.
func NewChemicalSystem() *ChemicalSystem {
	return &ChemicalSystem{
		matters:  make(map[*Substance]*Matter),
		coupling: GeometricCoupling,
	}
}

// WithCoupling replaces the heat-coupling policy and returns the system
// for chaining.
func (cs *ChemicalSystem) WithCoupling(f CouplingFunc) *ChemicalSystem {
	cs.coupling = f
	return cs
}

// Add folds matter into the system, merging with any existing entry for
// the same substance. The system takes ownership of m; the caller must not
// touch it afterwards.
func (cs *ChemicalSystem) Add(m *Matter) {
	if cur, ok := cs.matters[m.Substance]; ok {
		_ = cur.Merge(m)
		return
	}
	cs.matters[m.Substance] = m
}

// Amount returns the current amount of a substance in moles, zero when
// absent.
func (cs *ChemicalSystem) Amount(s *Substance) float64 {
	if m, ok := cs.matters[s]; ok {
		return m.Amount
	}
	return 0
}

// Temperature returns the current temperature of a substance's matter and
// whether the substance is present at all.
func (cs *ChemicalSystem) Temperature(s *Substance) (float64, bool) {
	if m, ok := cs.matters[s]; ok {
		return m.Temperature, true
	}
	return 0, false
}

// Substances returns the substances currently present, ordered by name.
func (cs *ChemicalSystem) Substances() []*Substance {
	subs := make([]*Substance, 0, len(cs.matters))
	for s := range cs.matters {
		subs = append(subs, s)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].String() < subs[j].String() })
	return subs
}

// TotalMass returns the summed mass of all matter in kilograms.
func (cs *ChemicalSystem) TotalMass() float64 {
	total := 0.0
	for _, m := range cs.matters {
		total += m.Mass()
	}
	return total
}

// Contents returns a snapshot of every matter entry, ordered by substance
// name.
func (cs *ChemicalSystem) Contents() []MatterState {
	states := make([]MatterState, 0, len(cs.matters))
	for _, s := range cs.Substances() {
		m := cs.matters[s]
		states = append(states, MatterState{
			Substance:   s.String(),
			Formula:     s.Formula.String(),
			Phase:       s.Phase.String(),
			Color:       s.Color,
			Amount:      m.Amount,
			Temperature: m.Temperature,
			Mass:        m.Mass(),
			Volume:      m.Volume(),
		})
	}
	return states
}

// changeSet is the pending outcome of one tick's reactions: matter to add,
// heat to return, matter to take away. It is computed in full against the
// pre-tick state before anything is applied.
type changeSet struct {
	adds    []*Matter
	heats   []heatEntry
	removes []*Matter
}

type heatEntry struct {
	substance *Substance
	joules    float64
}

// Tick advances the system by one step: evaluate every reaction against
// the pre-tick state, apply the aggregated changes, then diffuse heat. A
// nil envTemperature means an isolated system with no environmental
// exchange. The returned firings report which reactions proceeded and by
// how much.
func (cs *ChemicalSystem) Tick(reactions []*Reaction, tickLength float64, envTemperature *float64) []Firing {
	var firings []Firing
	var changes changeSet
	for _, r := range reactions {
		multiplier := cs.reactionMultiplier(r, tickLength)
		if multiplier <= 0 {
			continue
		}
		cs.collectChanges(&changes, r, multiplier)
		firings = append(firings, Firing{Reaction: r.Name, Extent: multiplier})
	}
	cs.applyChanges(&changes)
	cs.diffuseHeat(tickLength, envTemperature)
	return firings
}

// reactionMultiplier evaluates the rate policy and caps the extent so no
// reactant is consumed beyond what is present.
func (cs *ChemicalSystem) reactionMultiplier(r *Reaction, tickLength float64) float64 {
	if r.Rate == nil {
		return 0
	}
	multiplier := r.Rate(tickLength, r, cs.matters)
	for s, coeff := range r.Left {
		m, ok := cs.matters[s]
		if !ok {
			return 0
		}
		if available := m.Amount / coeff; available < multiplier {
			multiplier = available
		}
	}
	return multiplier
}

// collectChanges appends one firing reaction's effects to the change set:
// reactants leave at their current temperature, products arrive at the
// consumption-weighted reaction temperature, and whatever energy the swap
// does not account for flows back onto the reactants as heat, split in
// proportion to the amount each contributed.
func (cs *ChemicalSystem) collectChanges(set *changeSet, r *Reaction, multiplier float64) {
	consumed := 0.0
	reactionTemp := 0.0
	removedEnergy := 0.0
	for _, s := range r.Reactants() {
		take := r.Left[s] * multiplier
		temp := cs.matters[s].Temperature
		consumed += take
		reactionTemp += take * temp
		removedEnergy += take * (s.SpecificHeat*temp + s.ChemicalEnergy)
		set.removes = append(set.removes, NewMatter(s, take).WithTemperature(temp))
	}
	if consumed > 0 {
		reactionTemp /= consumed
	} else {
		reactionTemp = AmbientTemperature
	}

	producedEnergy := 0.0
	for _, s := range r.Products() {
		give := r.Right[s] * multiplier
		producedEnergy += give * (s.SpecificHeat*reactionTemp + s.ChemicalEnergy)
		set.adds = append(set.adds, NewMatter(s, give).WithTemperature(reactionTemp))
	}

	if net := removedEnergy - producedEnergy; net != 0 && consumed > 0 {
		for _, s := range r.Reactants() {
			set.heats = append(set.heats, heatEntry{
				substance: s,
				joules:    net * r.Left[s] * multiplier / consumed,
			})
		}
	}
}

// applyChanges applies a tick's aggregated change set: adds first, then
// heats, then removes. Matter depleted to the clearing epsilon by a remove
// is dropped from the system.
func (cs *ChemicalSystem) applyChanges(set *changeSet) {
	for _, add := range set.adds {
		cs.Add(add)
	}
	for _, h := range set.heats {
		if m, ok := cs.matters[h.substance]; ok {
			m.AddHeat(h.joules)
		}
	}
	for _, rem := range set.removes {
		m, ok := cs.matters[rem.Substance]
		if !ok {
			continue
		}
		_ = m.Remove(rem)
		if m.Amount <= AmountClearEpsilon {
			delete(cs.matters, rem.Substance)
		}
	}
}

// diffuseHeat exchanges heat between every pair of present substances and,
// when an environment temperature is given, between each substance and the
// environment. All flows are computed from the pre-diffusion snapshot and
// applied together, so ordering never leaks into the result. Conduction is
// bounded by the smaller exposed interface of a pair; the environment is
// taken as unbounded and couples with the substance's own coefficient on
// both sides.
func (cs *ChemicalSystem) diffuseHeat(tickLength float64, envTemperature *float64) {
	if len(cs.matters) == 0 {
		return
	}
	subs := cs.Substances()
	flows := make(map[*Substance]float64, len(subs))
	for i, si := range subs {
		mi := cs.matters[si]
		areaI := mi.SurfaceArea * mi.Volume()
		for _, sj := range subs[i+1:] {
			mj := cs.matters[sj]
			overlap := math.Min(areaI, mj.SurfaceArea*mj.Volume())
			q := cs.coupling(si.HeatTransfer, sj.HeatTransfer) * overlap *
				(mi.Temperature - mj.Temperature) * tickLength
			flows[si] -= q
			flows[sj] += q
		}
		if envTemperature != nil {
			q := cs.coupling(si.HeatTransfer, si.HeatTransfer) * areaI *
				(mi.Temperature - *envTemperature) * tickLength
			flows[si] -= q
		}
	}
	for s, q := range flows {
		cs.matters[s].AddHeat(q)
	}
}
