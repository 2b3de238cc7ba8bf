package chem

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func coeffsMatch(t *testing.T, label string, got map[*Substance]float64, want map[string]float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Expected %d %s coefficients, got %d (%v)", len(want), label, len(got), got)
	}
	for s, coeff := range got {
		expected, ok := want[s.Name]
		if !ok {
			t.Errorf("Unexpected %s participant %s", label, s.Name)
			continue
		}
		if math.Abs(coeff-expected) > 1e-9 {
			t.Errorf("Expected %s coefficient %g for %s, got %g", label, expected, s.Name, coeff)
		}
	}
}

func TestBalanceIronSulfur(t *testing.T) {
	iron, sulfur, ironSulfide := ironSulfurSubstances(t)

	r, err := BalanceReaction("synthesis", DefaultRate(), iron, sulfur, ironSulfide)
	if err != nil {
		t.Fatalf("Expected reaction to balance, got error: %v", err)
	}

	coeffsMatch(t, "left", r.Left, map[string]float64{"iron": 1, "sulfur": 1})
	coeffsMatch(t, "right", r.Right, map[string]float64{"iron sulfide": 1})
	if r.Name != "synthesis" {
		t.Errorf("Expected name 'synthesis', got '%s'", r.Name)
	}
	if r.Rate == nil {
		t.Error("Expected rate function to be attached")
	}
}

func TestBalanceCombustion(t *testing.T) {
	h := NewElement("H", 1.008)
	o := NewElement("O", 16)
	hydrogen := NewSubstance("hydrogen", NewFormula(map[*Element]int{h: 2}, 0), 0.09)
	oxygen := NewSubstance("oxygen", NewFormula(map[*Element]int{o: 2}, 0), 1.43)
	water := NewSubstance("water", NewFormula(map[*Element]int{h: 2, o: 1}, 0), 1000)

	r, err := BalanceReaction("combustion", DefaultRate(), hydrogen, oxygen, water)
	if err != nil {
		t.Fatalf("Expected reaction to balance, got error: %v", err)
	}

	// H2 + 1/2 O2 -> H2O; the solver works over the reals, so the half
	// coefficient is expected rather than the doubled integer form.
	coeffsMatch(t, "left", r.Left, map[string]float64{"hydrogen": 1, "oxygen": 0.5})
	coeffsMatch(t, "right", r.Right, map[string]float64{"water": 1})
}

func TestBalanceFirstParticipantAnchorsLeft(t *testing.T) {
	h := NewElement("H", 1.008)
	o := NewElement("O", 16)
	hydrogen := NewSubstance("hydrogen", NewFormula(map[*Element]int{h: 2}, 0), 0.09)
	oxygen := NewSubstance("oxygen", NewFormula(map[*Element]int{o: 2}, 0), 1.43)
	water := NewSubstance("water", NewFormula(map[*Element]int{h: 2, o: 1}, 0), 1000)

	// Listing water first flips the derived direction: decomposition.
	r, err := BalanceReaction("decomposition", DefaultRate(), water, hydrogen, oxygen)
	if err != nil {
		t.Fatalf("Expected reaction to balance, got error: %v", err)
	}

	coeffsMatch(t, "left", r.Left, map[string]float64{"water": 1})
	coeffsMatch(t, "right", r.Right, map[string]float64{"hydrogen": 1, "oxygen": 0.5})
}

func TestBalanceFourParticipants(t *testing.T) {
	k := NewElement("K", 39.1)
	mn := NewElement("Mn", 54.9)
	o := NewElement("O", 16)

	permanganate := NewSubstance("potassium permanganate", NewFormula(map[*Element]int{k: 1, mn: 1, o: 4}, 0), 2700)
	oxygen := NewSubstance("oxygen", NewFormula(map[*Element]int{o: 2}, 0), 1.43)
	manganate := NewSubstance("potassium manganate", NewFormula(map[*Element]int{k: 2, mn: 1, o: 4}, 0), 2780)
	dioxide := NewSubstance("manganese dioxide", NewFormula(map[*Element]int{mn: 1, o: 2}, 0), 5030)

	r, err := BalanceReaction("thermal decomposition", DefaultRate(), permanganate, oxygen, manganate, dioxide)
	if err != nil {
		t.Fatalf("Expected reaction to balance, got error: %v", err)
	}

	coeffsMatch(t, "left", r.Left, map[string]float64{"potassium permanganate": 1})
	coeffsMatch(t, "right", r.Right, map[string]float64{
		"oxygen":              0.5,
		"potassium manganate": 0.5,
		"manganese dioxide":   0.5,
	})
}

func TestBalanceWithChargeConservation(t *testing.T) {
	na := NewElement("Na", 22.99)
	cl := NewElement("Cl", 35.45)

	salt := NewSubstance("salt", NewFormula(map[*Element]int{na: 1, cl: 1}, 0), 2160)
	sodiumIon := NewSubstance("sodium ion", NewFormula(map[*Element]int{na: 1}, 1), 1000).WithPhase(PhaseAqueous)
	chlorideIon := NewSubstance("chloride ion", NewFormula(map[*Element]int{cl: 1}, -1), 1000).WithPhase(PhaseAqueous)

	r, err := BalanceReaction("dissolution", DefaultRate(), salt, sodiumIon, chlorideIon)
	if err != nil {
		t.Fatalf("Expected reaction to balance, got error: %v", err)
	}

	coeffsMatch(t, "left", r.Left, map[string]float64{"salt": 1})
	coeffsMatch(t, "right", r.Right, map[string]float64{"sodium ion": 1, "chloride ion": 1})
}

func TestBalanceChargeRowRejectsUnmatchedIon(t *testing.T) {
	na := NewElement("Na", 22.99)
	cl := NewElement("Cl", 35.45)

	salt := NewSubstance("salt", NewFormula(map[*Element]int{na: 1, cl: 1}, 0), 2160)
	sodiumIon := NewSubstance("sodium ion", NewFormula(map[*Element]int{na: 1}, 1), 1000)

	// Without the chloride ion there is no assignment conserving sodium,
	// chlorine and charge at once; the least-squares fit must be rejected.
	_, err := BalanceReaction("dissolution", DefaultRate(), salt, sodiumIon)
	if !errors.Is(err, ErrUnbalanceable) {
		t.Errorf("Expected ErrUnbalanceable, got %v", err)
	}
}

func TestBalanceAllChargedSkipsChargeRow(t *testing.T) {
	cu := NewElement("Cu", 63.5)
	cupric := NewSubstance("cupric ion", NewFormula(map[*Element]int{cu: 1}, 2), 1000)
	cuprous := NewSubstance("cuprous ion", NewFormula(map[*Element]int{cu: 1}, 1), 1000)

	// Charge conservation is only enforced when charged and neutral
	// species mix; an all-ion set balances on elements alone.
	r, err := BalanceReaction("reduction", DefaultRate(), cupric, cuprous)
	if err != nil {
		t.Fatalf("Expected reaction to balance, got error: %v", err)
	}

	coeffsMatch(t, "left", r.Left, map[string]float64{"cupric ion": 1})
	coeffsMatch(t, "right", r.Right, map[string]float64{"cuprous ion": 1})
}

func TestBalanceDropsSpectator(t *testing.T) {
	iron, sulfur, ironSulfide := ironSulfurSubstances(t)
	cu := NewElement("Cu", 63.5)
	copper := NewSubstance("copper", NewFormula(map[*Element]int{cu: 1}, 0), 8960)

	r, err := BalanceReaction("synthesis", DefaultRate(), iron, sulfur, ironSulfide, copper)
	if err != nil {
		t.Fatalf("Expected reaction to balance, got error: %v", err)
	}

	if _, ok := r.Left[copper]; ok {
		t.Error("Expected copper to be dropped from the left side")
	}
	if _, ok := r.Right[copper]; ok {
		t.Error("Expected copper to be dropped from the right side")
	}
	coeffsMatch(t, "left", r.Left, map[string]float64{"iron": 1, "sulfur": 1})
	coeffsMatch(t, "right", r.Right, map[string]float64{"iron sulfide": 1})
}

func TestBalanceInconsistentSet(t *testing.T) {
	fe := NewElement("Fe", 56)
	s := NewElement("S", 32)
	o := NewElement("O", 16)

	iron := NewSubstance("iron", NewFormula(map[*Element]int{fe: 1}, 0), 7874)
	sulfur := NewSubstance("sulfur", NewFormula(map[*Element]int{s: 1}, 0), 2070)
	oxide := NewSubstance("iron oxide", NewFormula(map[*Element]int{fe: 1, o: 1}, 0), 5740)

	// No oxygen source exists for the oxide, so no exact solution does.
	_, err := BalanceReaction("impossible", DefaultRate(), iron, sulfur, oxide)
	if !errors.Is(err, ErrUnbalanceable) {
		t.Errorf("Expected ErrUnbalanceable, got %v", err)
	}
}

func TestBalanceUnderdetermined(t *testing.T) {
	o := NewElement("O", 16)
	atomic := NewSubstance("atomic oxygen", NewFormula(map[*Element]int{o: 1}, 0), 1.43)
	oxygen := NewSubstance("oxygen", NewFormula(map[*Element]int{o: 2}, 0), 1.43)
	ozone := NewSubstance("ozone", NewFormula(map[*Element]int{o: 3}, 0), 2.14)

	// One element, two unknowns: infinitely many stoichiometries.
	_, err := BalanceReaction("allotropes", DefaultRate(), atomic, oxygen, ozone)
	if !errors.Is(err, ErrUnbalanceable) {
		t.Errorf("Expected ErrUnbalanceable, got %v", err)
	}
}

func TestBalanceSingleParticipant(t *testing.T) {
	o := NewElement("O", 16)
	oxygen := NewSubstance("oxygen", NewFormula(map[*Element]int{o: 2}, 0), 1.43)

	_, err := BalanceReaction("lonely", DefaultRate(), oxygen)
	if !errors.Is(err, ErrUnbalanceable) {
		t.Errorf("Expected ErrUnbalanceable, got %v", err)
	}
}

func TestBalanceNoParticipants(t *testing.T) {
	_, err := BalanceReaction("empty", DefaultRate())
	if !errors.Is(err, ErrEmptyReactionSet) {
		t.Errorf("Expected ErrEmptyReactionSet, got %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), `balance "empty"`) {
		t.Errorf("Expected error to name the reaction, got %v", err)
	}
}

func TestBalanceConservesMass(t *testing.T) {
	h := NewElement("H", 1.008)
	o := NewElement("O", 16)
	hydrogen := NewSubstance("hydrogen", NewFormula(map[*Element]int{h: 2}, 0), 0.09)
	oxygen := NewSubstance("oxygen", NewFormula(map[*Element]int{o: 2}, 0), 1.43)
	water := NewSubstance("water", NewFormula(map[*Element]int{h: 2, o: 1}, 0), 1000)

	r, err := BalanceReaction("combustion", DefaultRate(), hydrogen, oxygen, water)
	if err != nil {
		t.Fatalf("Expected reaction to balance, got error: %v", err)
	}

	leftMass, rightMass := 0.0, 0.0
	for s, coeff := range r.Left {
		leftMass += coeff * s.Formula.RelativeMass()
	}
	for s, coeff := range r.Right {
		rightMass += coeff * s.Formula.RelativeMass()
	}
	if math.Abs(leftMass-rightMass) > 1e-6 {
		t.Errorf("Expected balanced sides to carry equal mass, got %f vs %f", leftMass, rightMass)
	}
}
