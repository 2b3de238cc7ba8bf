package chem

// SpecificHeatDefault is the molar heat capacity assumed for substances
// that do not specify one, in J/(mol*K).
const SpecificHeatDefault = 75.0

// Substance is a formula plus the physical-state metadata the engine needs.
// Substances are compared by pointer: liquid water and ice share a formula
// but are distinct substances, so a *Substance is the map key throughout.
// Treat a Substance as immutable once it has been handed to a reaction or
// a system.
type Substance struct {
	Name           string
	Formula        Formula
	Density        float64 // kg/m^3
	Phase          Phase
	ChemicalEnergy float64 // J/mol, formation enthalpy convention
	SpecificHeat   float64 // J/(mol*K)
	HeatTransfer   float64 // heat-transfer coefficient
	Color          string
}

// NewSubstance creates a substance with the given name, formula and
// density, defaulting to a transparent liquid with the stock specific heat
// and a unit heat-transfer coefficient. Use the With* chain to adjust.
func NewSubstance(name string, formula Formula, density float64) *Substance {
	return &Substance{
		Name:         name,
		Formula:      formula,
		Density:      density,
		Phase:        PhaseLiquid,
		SpecificHeat: SpecificHeatDefault,
		HeatTransfer: 1,
		Color:        "transparent",
	}
}

// WithPhase sets the physical state and returns the substance for chaining.
func (s *Substance) WithPhase(p Phase) *Substance {
	s.Phase = p
	return s
}

// WithChemicalEnergy sets the formation energy in J/mol and returns the
// substance for chaining. More negative means more stable.
func (s *Substance) WithChemicalEnergy(e float64) *Substance {
	s.ChemicalEnergy = e
	return s
}

// WithSpecificHeat sets the molar heat capacity and returns the substance
// for chaining.
func (s *Substance) WithSpecificHeat(c float64) *Substance {
	s.SpecificHeat = c
	return s
}

// WithHeatTransfer sets the heat-transfer coefficient and returns the
// substance for chaining.
func (s *Substance) WithHeatTransfer(k float64) *Substance {
	s.HeatTransfer = k
	return s
}

// WithColor sets the display color and returns the substance for chaining.
func (s *Substance) WithColor(color string) *Substance {
	s.Color = color
	return s
}

// Charge returns the net ionic charge, taken from the formula valence.
func (s *Substance) Charge() int {
	return s.Formula.Valence()
}

// RelativeMass returns the formula's relative mass in g/mol.
func (s *Substance) RelativeMass() float64 {
	return s.Formula.RelativeMass()
}

// String returns the substance name, falling back to the formula rendering
// for unnamed substances.
func (s *Substance) String() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Formula.String()
}
