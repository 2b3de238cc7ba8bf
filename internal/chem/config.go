package chem

import (
	"encoding/json"
	"fmt"
	"os"
)

type ElementConfig struct {
	Symbol       string  `json:"symbol"`
	RelativeMass float64 `json:"relative_mass"`
}

type SubstanceConfig struct {
	Name           string         `json:"name"`
	Elements       map[string]int `json:"elements"`
	Valence        int            `json:"valence,omitempty"`
	Density        float64        `json:"density"`
	Phase          string         `json:"phase,omitempty"`
	ChemicalEnergy float64        `json:"chemical_energy,omitempty"`
	SpecificHeat   *float64       `json:"specific_heat,omitempty"`
	HeatTransfer   *float64       `json:"heat_transfer,omitempty"`
	Color          string         `json:"color,omitempty"`
}

// RateConfig describes a temperature-window rate policy. Absent fields
// fall back to the stock policy: unit base, conventional low floor, no
// ceiling.
type RateConfig struct {
	Base           *float64 `json:"base,omitempty"`
	MinTemperature *float64 `json:"min_temperature,omitempty"`
	MaxTemperature *float64 `json:"max_temperature,omitempty"`
}

// ReactionConfig describes one reaction either by listing every
// participant for the balancer to solve, or by explicit left/right
// coefficient maps. Exactly one of the two forms must be used.
type ReactionConfig struct {
	Name    string             `json:"name"`
	Balance []string           `json:"balance,omitempty"`
	Left    map[string]float64 `json:"left,omitempty"`
	Right   map[string]float64 `json:"right,omitempty"`
	Rate    *RateConfig        `json:"rate,omitempty"`
}

// SeedConfig describes matter present before the first tick.
type SeedConfig struct {
	Substance   string   `json:"substance"`
	Amount      float64  `json:"amount"`
	Temperature *float64 `json:"temperature,omitempty"`
	SurfaceArea *float64 `json:"surface_area,omitempty"`
}

type CatalogConfig struct {
	Name       string            `json:"name"`
	Elements   []ElementConfig   `json:"elements"`
	Substances []SubstanceConfig `json:"substances"`
	Reactions  []ReactionConfig  `json:"reactions"`
	Seeds      []SeedConfig      `json:"seeds,omitempty"`
}

// LoadCatalogConfig reads and parses a catalog config from a JSON file.
func LoadCatalogConfig(path string) (CatalogConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CatalogConfig{}, fmt.Errorf("reading catalog file: %w", err)
	}
	return ParseCatalogConfig(data)
}

// ParseCatalogConfig parses and validates a catalog config from JSON.
func ParseCatalogConfig(data []byte) (CatalogConfig, error) {
	var cfg CatalogConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return CatalogConfig{}, fmt.Errorf("parsing catalog JSON: %w", err)
	}
	if err := ValidateCatalogConfig(cfg); err != nil {
		return CatalogConfig{}, err
	}
	return cfg, nil
}
