package chem

import (
	"fmt"
	"strings"
)

// ValidationError collects multiple validation issues
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid catalog: unknown validation error"
	}
	if len(e.Issues) == 1 {
		return e.Issues[0]
	}
	return "catalog validation errors: " + strings.Join(e.Issues, "; ")
}

func (e *ValidationError) Add(issue string) {
	e.Issues = append(e.Issues, issue)
}

func (e *ValidationError) HasIssues() bool {
	return len(e.Issues) > 0
}

// ValidateCatalogConfig performs comprehensive validation of a CatalogConfig
func ValidateCatalogConfig(cfg CatalogConfig) error {
	err := &ValidationError{}

	// Validate catalog name
	if cfg.Name == "" {
		err.Add("catalog name is required")
	}

	// Build a map of element symbols for quick lookup
	elementMap := make(map[string]bool)

	// Validate elements
	for _, ec := range cfg.Elements {
		if ec.Symbol == "" {
			err.Add("element symbol is required")
			continue
		}
		if elementMap[ec.Symbol] {
			err.Add("duplicate element symbol: " + ec.Symbol)
		} else {
			elementMap[ec.Symbol] = true
		}
		if ec.RelativeMass <= 0 {
			err.Add("element '" + ec.Symbol + "': relative mass must be positive")
		}
	}

	// Build a map of substance names for quick lookup
	substanceMap := make(map[string]bool)

	// Validate substances
	for i, sc := range cfg.Substances {
		prefix := "substance '" + sc.Name + "'"
		if sc.Name == "" {
			prefix = fmt.Sprintf("substance at index %d", i)
			err.Add(prefix + ": substance name is required")
		} else if substanceMap[sc.Name] {
			err.Add("duplicate substance name: " + sc.Name)
		} else {
			substanceMap[sc.Name] = true
		}

		if len(sc.Elements) == 0 {
			err.Add(prefix + ": element composition is required")
		}
		for symbol, count := range sc.Elements {
			if !elementMap[symbol] {
				err.Add(prefix + ": element '" + symbol + "' does not exist")
			}
			if count <= 0 {
				err.Add(prefix + ": element '" + symbol + "' count must be positive")
			}
		}
		if sc.Density <= 0 {
			err.Add(prefix + ": density must be positive")
		}
		if sc.Phase != "" {
			if _, perr := ParsePhase(sc.Phase); perr != nil {
				err.Add(prefix + ": unknown phase '" + sc.Phase + "'")
			}
		}
		if sc.SpecificHeat != nil && *sc.SpecificHeat <= 0 {
			err.Add(prefix + ": specific heat must be positive")
		}
		if sc.HeatTransfer != nil && *sc.HeatTransfer < 0 {
			err.Add(prefix + ": heat transfer coefficient cannot be negative")
		}
	}

	// Build a map of reaction names for uniqueness check
	reactionNames := make(map[string]bool)

	// Validate reactions
	for i, rc := range cfg.Reactions {
		prefix := "reaction '" + rc.Name + "'"
		if rc.Name == "" {
			prefix = fmt.Sprintf("reaction at index %d", i)
			err.Add(prefix + ": reaction name is required")
		} else if reactionNames[rc.Name] {
			err.Add("duplicate reaction name: " + rc.Name)
		} else {
			reactionNames[rc.Name] = true
		}

		balanced := len(rc.Balance) > 0
		explicit := len(rc.Left) > 0 || len(rc.Right) > 0
		switch {
		case balanced && explicit:
			err.Add(prefix + ": use either a balance list or explicit left/right, not both")
		case !balanced && !explicit:
			err.Add(prefix + ": a balance list or explicit left/right is required")
		}

		seen := make(map[string]bool)
		for _, name := range rc.Balance {
			if !substanceMap[name] {
				err.Add(prefix + ": balance substance '" + name + "' does not exist")
			}
			if seen[name] {
				err.Add(prefix + ": balance substance '" + name + "' listed twice")
			}
			seen[name] = true
		}
		validateReactionSide(rc.Left, prefix+" left", substanceMap, err)
		validateReactionSide(rc.Right, prefix+" right", substanceMap, err)

		if rc.Rate != nil {
			if rc.Rate.Base != nil && *rc.Rate.Base < 0 {
				err.Add(prefix + ": rate base cannot be negative")
			}
			if rc.Rate.MinTemperature != nil && rc.Rate.MaxTemperature != nil &&
				*rc.Rate.MinTemperature > *rc.Rate.MaxTemperature {
				err.Add(prefix + ": rate window minimum exceeds maximum")
			}
		}
	}

	// Validate seeds
	for i, seed := range cfg.Seeds {
		prefix := fmt.Sprintf("seed at index %d", i)
		if seed.Substance == "" {
			err.Add(prefix + ": seed substance is required")
		} else if !substanceMap[seed.Substance] {
			err.Add(prefix + ": seed substance '" + seed.Substance + "' does not exist")
		}
		if seed.Amount <= 0 {
			err.Add(prefix + ": seed amount must be positive")
		}
		if seed.SurfaceArea != nil && *seed.SurfaceArea < 0 {
			err.Add(prefix + ": seed surface area cannot be negative")
		}
	}

	if err.HasIssues() {
		return err
	}
	return nil
}

func validateReactionSide(side map[string]float64, prefix string, substanceMap map[string]bool, err *ValidationError) {
	for name, coeff := range side {
		if !substanceMap[name] {
			err.Add(prefix + ": substance '" + name + "' does not exist")
		}
		if coeff <= 0 {
			err.Add(prefix + ": coefficient for '" + name + "' must be positive")
		}
	}
}
