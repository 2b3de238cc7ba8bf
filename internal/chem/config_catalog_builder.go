package chem

import (
	"fmt"
	"math"
)

// BuildCatalogFromConfig converts a CatalogConfig to a Catalog plus the
// seed matter it declares. The configuration is validated first, so a
// well-formed config only fails here when the balancer rejects one of its
// reactions.
func BuildCatalogFromConfig(cfg CatalogConfig) (*Catalog, []*Matter, error) {
	if err := ValidateCatalogConfig(cfg); err != nil {
		return nil, nil, err
	}

	c := NewCatalog(cfg.Name)

	for _, ec := range cfg.Elements {
		c = c.WithElements(NewElement(ec.Symbol, ec.RelativeMass))
	}

	for _, sc := range cfg.Substances {
		counts := make(map[*Element]int, len(sc.Elements))
		for symbol, n := range sc.Elements {
			el, _ := c.Element(symbol)
			counts[el] = n
		}
		s := NewSubstance(sc.Name, NewFormula(counts, sc.Valence), sc.Density).
			WithChemicalEnergy(sc.ChemicalEnergy)
		if sc.Phase != "" {
			p, _ := ParsePhase(sc.Phase)
			s = s.WithPhase(p)
		}
		if sc.SpecificHeat != nil {
			s = s.WithSpecificHeat(*sc.SpecificHeat)
		}
		if sc.HeatTransfer != nil {
			s = s.WithHeatTransfer(*sc.HeatTransfer)
		}
		if sc.Color != "" {
			s = s.WithColor(sc.Color)
		}
		c = c.WithSubstances(s)
	}

	for _, rc := range cfg.Reactions {
		rate := rateFromConfig(rc.Rate)
		if len(rc.Balance) > 0 {
			participants := make([]*Substance, 0, len(rc.Balance))
			for _, name := range rc.Balance {
				s, _ := c.Substance(name)
				participants = append(participants, s)
			}
			r, err := BalanceReaction(rc.Name, rate, participants...)
			if err != nil {
				return nil, nil, fmt.Errorf("reaction %q: %w", rc.Name, err)
			}
			c = c.WithReactions(r)
			continue
		}
		c = c.WithReactions(NewReaction(rc.Name, resolveSide(c, rc.Left), resolveSide(c, rc.Right), rate))
	}

	seeds := make([]*Matter, 0, len(cfg.Seeds))
	for _, seed := range cfg.Seeds {
		s, _ := c.Substance(seed.Substance)
		m := NewMatter(s, seed.Amount)
		if seed.Temperature != nil {
			m = m.WithTemperature(*seed.Temperature)
		}
		if seed.SurfaceArea != nil {
			m = m.WithSurfaceArea(*seed.SurfaceArea)
		}
		seeds = append(seeds, m)
	}

	return c, seeds, nil
}

func resolveSide(c *Catalog, side map[string]float64) map[*Substance]float64 {
	out := make(map[*Substance]float64, len(side))
	for name, coeff := range side {
		s, _ := c.Substance(name)
		out[s] = coeff
	}
	return out
}

func rateFromConfig(rc *RateConfig) RateFunc {
	if rc == nil {
		return DefaultRate()
	}
	base := 1.0
	if rc.Base != nil {
		base = *rc.Base
	}
	minTemperature := DefaultMinTemperature
	if rc.MinTemperature != nil {
		minTemperature = *rc.MinTemperature
	}
	maxTemperature := math.Inf(1)
	if rc.MaxTemperature != nil {
		maxTemperature = *rc.MaxTemperature
	}
	return WindowRate(base, minTemperature, maxTemperature)
}
