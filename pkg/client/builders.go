package client

import (
	"github.com/beakerlab/beaker/internal/chem"
)

// CatalogBuilder provides a fluent API for building catalog configurations.
// Use it to define the elements, substances, reactions and starting matter
// of a beaker without writing JSON by hand.
type CatalogBuilder struct {
	name       string
	elements   []chem.ElementConfig
	substances []*SubstanceBuilder
	reactions  []*ReactionBuilder
	seeds      []*SeedBuilder
}

// NewCatalog creates a new catalog builder with the given name.
func NewCatalog(name string) *CatalogBuilder {
	return &CatalogBuilder{name: name}
}

// Element adds an element with its relative mass in g/mol.
func (cb *CatalogBuilder) Element(symbol string, relativeMass float64) *CatalogBuilder {
	cb.elements = append(cb.elements, chem.ElementConfig{
		Symbol:       symbol,
		RelativeMass: relativeMass,
	})
	return cb
}

// Substance adds a substance definition to the catalog.
func (cb *CatalogBuilder) Substance(sb *SubstanceBuilder) *CatalogBuilder {
	cb.substances = append(cb.substances, sb)
	return cb
}

// Reaction adds a reaction definition to the catalog.
func (cb *CatalogBuilder) Reaction(rb *ReactionBuilder) *CatalogBuilder {
	cb.reactions = append(cb.reactions, rb)
	return cb
}

// Seed adds matter that is present before the first tick.
func (cb *CatalogBuilder) Seed(sb *SeedBuilder) *CatalogBuilder {
	cb.seeds = append(cb.seeds, sb)
	return cb
}

// Build converts the builder to a CatalogConfig that can be sent to a
// server with CreateBeaker or ReplaceCatalog.
func (cb *CatalogBuilder) Build() chem.CatalogConfig {
	substances := make([]chem.SubstanceConfig, 0, len(cb.substances))
	for _, sb := range cb.substances {
		substances = append(substances, sb.Build())
	}
	reactions := make([]chem.ReactionConfig, 0, len(cb.reactions))
	for _, rb := range cb.reactions {
		reactions = append(reactions, rb.Build())
	}
	seeds := make([]chem.SeedConfig, 0, len(cb.seeds))
	for _, sb := range cb.seeds {
		seeds = append(seeds, sb.Build())
	}

	return chem.CatalogConfig{
		Name:       cb.name,
		Elements:   cb.elements,
		Substances: substances,
		Reactions:  reactions,
		Seeds:      seeds,
	}
}

// SubstanceBuilder provides a fluent API for building substance
// configurations: a formula over the catalog's elements plus physical
// properties.
type SubstanceBuilder struct {
	cfg chem.SubstanceConfig
}

// NewSubstance creates a new substance builder with the given name.
func NewSubstance(name string) *SubstanceBuilder {
	return &SubstanceBuilder{
		cfg: chem.SubstanceConfig{
			Name:     name,
			Elements: make(map[string]int),
		},
	}
}

// Element adds count atoms of an element (by symbol) to the formula.
func (sb *SubstanceBuilder) Element(symbol string, count int) *SubstanceBuilder {
	sb.cfg.Elements[symbol] = count
	return sb
}

// Valence sets the net ionic charge of the formula. The default is 0.
func (sb *SubstanceBuilder) Valence(valence int) *SubstanceBuilder {
	sb.cfg.Valence = valence
	return sb
}

// Density sets the density in kg/m³. Required.
func (sb *SubstanceBuilder) Density(density float64) *SubstanceBuilder {
	sb.cfg.Density = density
	return sb
}

// Phase sets the phase: "gas", "liquid", "solid" or "aqueous" (or the
// short forms g/l/s/aq). The default is liquid.
func (sb *SubstanceBuilder) Phase(phase string) *SubstanceBuilder {
	sb.cfg.Phase = phase
	return sb
}

// ChemicalEnergy sets the stored chemical energy in J/mol.
func (sb *SubstanceBuilder) ChemicalEnergy(energy float64) *SubstanceBuilder {
	sb.cfg.ChemicalEnergy = energy
	return sb
}

// SpecificHeat overrides the molar heat capacity in J/(mol·K).
func (sb *SubstanceBuilder) SpecificHeat(c float64) *SubstanceBuilder {
	sb.cfg.SpecificHeat = &c
	return sb
}

// HeatTransfer sets the heat-transfer coefficient in W/(m²·K).
func (sb *SubstanceBuilder) HeatTransfer(k float64) *SubstanceBuilder {
	sb.cfg.HeatTransfer = &k
	return sb
}

// Color sets the observer-visible color. The default is "transparent".
func (sb *SubstanceBuilder) Color(color string) *SubstanceBuilder {
	sb.cfg.Color = color
	return sb
}

// Build converts the builder to a SubstanceConfig.
func (sb *SubstanceBuilder) Build() chem.SubstanceConfig {
	return sb.cfg
}

// ReactionBuilder provides a fluent API for building reaction
// configurations. A reaction is written either as a participant list for
// the balancer (Balance) or as explicit left/right coefficients.
type ReactionBuilder struct {
	cfg chem.ReactionConfig
}

// NewReaction creates a new reaction builder with the given name.
func NewReaction(name string) *ReactionBuilder {
	return &ReactionBuilder{cfg: chem.ReactionConfig{Name: name}}
}

// Balance lists the participating substances and leaves coefficients and
// sides to the stoichiometric balancer. Mutually exclusive with Left/Right.
func (rb *ReactionBuilder) Balance(substances ...string) *ReactionBuilder {
	rb.cfg.Balance = append(rb.cfg.Balance, substances...)
	return rb
}

// Left adds a reactant with its coefficient.
func (rb *ReactionBuilder) Left(substance string, coefficient float64) *ReactionBuilder {
	if rb.cfg.Left == nil {
		rb.cfg.Left = make(map[string]float64)
	}
	rb.cfg.Left[substance] = coefficient
	return rb
}

// Right adds a product with its coefficient.
func (rb *ReactionBuilder) Right(substance string, coefficient float64) *ReactionBuilder {
	if rb.cfg.Right == nil {
		rb.cfg.Right = make(map[string]float64)
	}
	rb.cfg.Right[substance] = coefficient
	return rb
}

// Rate sets the base speed of the temperature-window rate policy.
func (rb *ReactionBuilder) Rate(base float64) *ReactionBuilder {
	rb.rate().Base = &base
	return rb
}

// MinTemperature sets the lowest temperature at which the reaction runs.
func (rb *ReactionBuilder) MinTemperature(t float64) *ReactionBuilder {
	rb.rate().MinTemperature = &t
	return rb
}

// MaxTemperature sets the highest temperature at which the reaction runs.
func (rb *ReactionBuilder) MaxTemperature(t float64) *ReactionBuilder {
	rb.rate().MaxTemperature = &t
	return rb
}

func (rb *ReactionBuilder) rate() *chem.RateConfig {
	if rb.cfg.Rate == nil {
		rb.cfg.Rate = &chem.RateConfig{}
	}
	return rb.cfg.Rate
}

// Build converts the builder to a ReactionConfig.
func (rb *ReactionBuilder) Build() chem.ReactionConfig {
	return rb.cfg
}

// SeedBuilder provides a fluent API for building seed matter
// configurations.
type SeedBuilder struct {
	cfg chem.SeedConfig
}

// NewSeed creates a seed of the given substance and amount in moles.
func NewSeed(substance string, amount float64) *SeedBuilder {
	return &SeedBuilder{cfg: chem.SeedConfig{Substance: substance, Amount: amount}}
}

// Temperature sets the seed's starting temperature in Celsius. The default
// is ambient.
func (sb *SeedBuilder) Temperature(t float64) *SeedBuilder {
	sb.cfg.Temperature = &t
	return sb
}

// SurfaceArea sets the seed's exposed surface per unit volume. The default
// is 1.
func (sb *SeedBuilder) SurfaceArea(a float64) *SeedBuilder {
	sb.cfg.SurfaceArea = &a
	return sb
}

// Build converts the builder to a SeedConfig.
func (sb *SeedBuilder) Build() chem.SeedConfig {
	return sb.cfg
}
