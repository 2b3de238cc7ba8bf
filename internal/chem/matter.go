package chem

import "fmt"

// AmbientTemperature is the default temperature for new matter and the
// conventional room temperature of the model, in degrees Celsius.
const AmbientTemperature = 20.0

// Matter is a live quantity of one substance inside a system: an amount in
// moles, a temperature, and a surface-area multiplier scaling how much
// interface it exposes for heat exchange. A ChemicalSystem owns its Matter
// entries exclusively; do not keep aliases to matter after adding it.
type Matter struct {
	Substance   *Substance
	Amount      float64 // mol
	Temperature float64 // degrees Celsius
	SurfaceArea float64 // surface-area multiplier
}

// NewMatter creates matter at ambient temperature with a unit surface-area
// multiplier.
func NewMatter(s *Substance, amount float64) *Matter {
	return &Matter{
		Substance:   s,
		Amount:      amount,
		Temperature: AmbientTemperature,
		SurfaceArea: 1,
	}
}

// WithTemperature sets the temperature and returns the matter for chaining.
func (m *Matter) WithTemperature(t float64) *Matter {
	m.Temperature = t
	return m
}

// WithSurfaceArea sets the surface-area multiplier and returns the matter
// for chaining.
func (m *Matter) WithSurfaceArea(sa float64) *Matter {
	m.SurfaceArea = sa
	return m
}

// InternalEnergy returns the thermal energy of the pool in joules.
func (m *Matter) InternalEnergy() float64 {
	return m.Amount * m.Temperature * m.Substance.SpecificHeat
}

// ChemicalEnergy returns the stored formation energy of the pool in joules.
func (m *Matter) ChemicalEnergy() float64 {
	return m.Amount * m.Substance.ChemicalEnergy
}

// Mass returns the mass of the pool in kilograms.
func (m *Matter) Mass() float64 {
	return m.Amount * m.Substance.RelativeMass() / 1000
}

// Volume returns the volume of the pool in cubic metres, zero when the
// substance density is not positive.
func (m *Matter) Volume() float64 {
	if m.Substance.Density <= 0 {
		return 0
	}
	return m.Mass() / m.Substance.Density
}

// Merge folds another quantity of the same substance into this one. The
// temperature becomes the energy-weighted average of the two pools; when
// the merged amount is not positive the amount clamps to zero and the
// prior temperature is kept. Merging different substances fails with
// ErrSubstanceMismatch.
func (m *Matter) Merge(other *Matter) error {
	if other.Substance != m.Substance {
		return fmt.Errorf("merge %s into %s: %w", other.Substance, m.Substance, ErrSubstanceMismatch)
	}
	total := m.Amount + other.Amount
	if total <= 0 {
		m.Amount = 0
		return nil
	}
	if m.Temperature != other.Temperature {
		if c := m.Substance.SpecificHeat; c != 0 {
			m.Temperature = (m.InternalEnergy() + other.InternalEnergy()) / (total * c)
		}
	}
	m.Amount = total
	return nil
}

// Remove subtracts another quantity of the same substance, clamping the
// amount at zero. The pool temperature is unchanged; the energy carried by
// the removed portion simply leaves with it. Removing a different
// substance fails with ErrSubstanceMismatch.
func (m *Matter) Remove(other *Matter) error {
	if other.Substance != m.Substance {
		return fmt.Errorf("remove %s from %s: %w", other.Substance, m.Substance, ErrSubstanceMismatch)
	}
	m.Amount -= other.Amount
	if m.Amount < 0 {
		m.Amount = 0
	}
	return nil
}

// AddHeat shifts the temperature by the given energy in joules. It is a
// no-op for zero heat, an empty pool, or a zero specific heat, so callers
// never divide by zero.
func (m *Matter) AddHeat(heat float64) {
	if heat == 0 || m.Amount <= 0 {
		return
	}
	c := m.Substance.SpecificHeat
	if c == 0 {
		return
	}
	m.Temperature += heat / (m.Amount * c)
}
