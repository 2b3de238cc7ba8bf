package chem

import (
	"fmt"
	"math"
	"math/rand"
)

// ScenarioOptions bounds the size of a generated scenario. Zero fields fall
// back to the defaults.
type ScenarioOptions struct {
	Elements   int // invented elements
	Substances int // compound substances to attempt on top of the elemental ones
	Reactions  int // total reactions, synthesis and decomposition combined
	Seeds      int // matter entries present at start
}

// DefaultScenarioOptions returns the scenario size used when the caller does
// not care.
func DefaultScenarioOptions() ScenarioOptions {
	return ScenarioOptions{Elements: 4, Substances: 5, Reactions: 6, Seeds: 3}
}

var (
	scenarioColors = []string{
		"white", "gray", "black", "red", "orange",
		"yellow", "green", "blue", "violet", "brown",
	}
	// solids dominate, the way inorganic chemistry tends to.
	scenarioPhases = []Phase{
		PhaseSolid, PhaseSolid, PhaseSolid,
		PhaseLiquid, PhaseLiquid,
		PhaseGas,
		PhaseAqueous,
	}
	scenarioValences = []int{-2, -1, -1, 0, 0, 1, 1, 2}
)

// GenerateScenario invents a self-consistent catalog and starting matter
// from a random seed: elements with random masses and valences, elemental
// substances, compounds built by formula composition, and synthesis plus
// decomposition reactions balanced against those compounds. The same seed
// always yields the same scenario.
func GenerateScenario(seed int64, opts ScenarioOptions) (*Catalog, []*Matter) {
	defaults := DefaultScenarioOptions()
	if opts.Elements <= 0 {
		opts.Elements = defaults.Elements
	}
	if opts.Substances < 0 {
		opts.Substances = defaults.Substances
	}
	if opts.Reactions < 0 {
		opts.Reactions = defaults.Reactions
	}
	if opts.Seeds < 0 {
		opts.Seeds = defaults.Seeds
	}

	rng := rand.New(rand.NewSource(seed))

	elements := make([]*Element, 0, opts.Elements)
	elementals := make([]*Substance, 0, opts.Elements)
	for i := range opts.Elements {
		symbol := scenarioSymbol(i)
		mass := roundScenario(1 + rng.Float64()*250)
		el := NewElement(symbol, mass)
		elements = append(elements, el)

		valence := scenarioValences[rng.Intn(len(scenarioValences))]
		phase := scenarioPhases[rng.Intn(len(scenarioPhases))]
		formula := NewFormula(map[*Element]int{el: 1}, valence)
		sub := NewSubstance(symbol, formula, scenarioDensity(rng, phase)).
			WithPhase(phase).
			WithColor(scenarioColors[rng.Intn(len(scenarioColors))]).
			WithHeatTransfer(roundScenario(1 + rng.Float64()*499))
		elementals = append(elementals, sub)
	}

	type compound struct {
		sub         *Substance
		left, right *Substance
	}

	taken := make(map[string]bool, len(elementals))
	for _, s := range elementals {
		taken[s.Name] = true
	}

	var compounds []compound
	for range opts.Substances {
		if len(elementals) < 2 {
			break
		}
		i := rng.Intn(len(elementals))
		j := rng.Intn(len(elementals) - 1)
		if j >= i {
			j++
		}
		a, b := elementals[i], elementals[j]

		var formula Formula
		if a.Charge()*b.Charge() < 0 {
			combined, err := a.Formula.BalanceCombine(b.Formula)
			if err != nil {
				continue
			}
			formula = combined
		} else {
			formula = a.Formula.Scale(1 + rng.Intn(2)).Combine(b.Formula.Scale(1 + rng.Intn(2)))
		}

		name := formula.String()
		if taken[name] {
			continue
		}
		taken[name] = true

		phase := scenarioPhases[rng.Intn(len(scenarioPhases))]
		sub := NewSubstance(name, formula, scenarioDensity(rng, phase)).
			WithPhase(phase).
			WithColor(scenarioColors[rng.Intn(len(scenarioColors))]).
			WithHeatTransfer(roundScenario(1 + rng.Float64()*499)).
			WithChemicalEnergy(roundScenario(-5000 + rng.Float64()*10000))
		compounds = append(compounds, compound{sub: sub, left: a, right: b})
	}

	var reactions []*Reaction
	for _, c := range compounds {
		if len(reactions) >= opts.Reactions {
			break
		}
		activation := float64(rng.Intn(5)) * 50
		rate := WindowRate(roundScenario(0.5+rng.Float64()*1.5), activation, math.Inf(1))
		r, err := BalanceReaction("synthesis of "+c.sub.Name, rate, c.left, c.right, c.sub)
		if err != nil {
			continue
		}
		reactions = append(reactions, r)

		if len(reactions) < opts.Reactions && rng.Intn(2) == 0 {
			back := WindowRate(roundScenario(0.1+rng.Float64()*0.4), activation+200, math.Inf(1))
			reactions = append(reactions, Reversed(r, back))
		}
	}

	substances := make([]*Substance, 0, len(elementals)+len(compounds))
	substances = append(substances, elementals...)
	for _, c := range compounds {
		substances = append(substances, c.sub)
	}

	catalog := NewCatalog(fmt.Sprintf("scenario-%d", seed)).
		WithElements(elements...).
		WithSubstances(substances...).
		WithReactions(reactions...)

	seeds := make([]*Matter, 0, opts.Seeds)
	for range opts.Seeds {
		if len(elementals) == 0 {
			break
		}
		sub := elementals[rng.Intn(len(elementals))]
		amount := roundScenario(5 + rng.Float64()*20)
		seeds = append(seeds, NewMatter(sub, amount))
	}

	return catalog, seeds
}

// scenarioSymbol yields Aa, Ab, ... Ba, Bb, ... so symbols never collide.
func scenarioSymbol(i int) string {
	return string(rune('A'+i/26)) + string(rune('a'+i%26))
}

func scenarioDensity(rng *rand.Rand, phase Phase) float64 {
	switch phase {
	case PhaseGas:
		return roundScenario(0.1 + rng.Float64()*4.9)
	case PhaseLiquid:
		return roundScenario(500 + rng.Float64()*1500)
	case PhaseAqueous:
		return roundScenario(950 + rng.Float64()*250)
	default:
		return roundScenario(1000 + rng.Float64()*9000)
	}
}

func roundScenario(v float64) float64 {
	return math.Round(v*100) / 100
}
