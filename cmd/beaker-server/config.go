package main

import (
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/beakerlab/beaker/internal/chem"
)

// ServerConfig holds the server configuration
type ServerConfig struct {
	Addr            string
	CatalogFile     string
	DefaultBeakerID string
	TickLength      float64
	EnvTemp         *float64
	LogLevel        string
}

// configResolver defines how to resolve a single configuration value
type configResolver struct {
	flagName    string
	envVarName  string
	defaultVal  string
	description string
	setter      func(*ServerConfig, string)
}

// loadServerConfig loads server configuration from CLI flags and environment
// variables. Uses a resolver pattern to make it easy to add new options.
func loadServerConfig() ServerConfig {
	cfg := ServerConfig{}

	resolvers := []configResolver{
		{
			flagName:    "addr",
			envVarName:  "BEAKER_ADDR",
			defaultVal:  ":8080",
			description: "HTTP listen address (e.g. :8080, 0.0.0.0:8080)",
			setter:      func(c *ServerConfig, v string) { c.Addr = v },
		},
		{
			flagName:    "catalog-file",
			envVarName:  "BEAKER_CATALOG_FILE",
			defaultVal:  "",
			description: "optional path to a JSON catalog config file to load at startup",
			setter:      func(c *ServerConfig, v string) { c.CatalogFile = v },
		},
		{
			flagName:    "beaker-id",
			envVarName:  "BEAKER_DEFAULT_ID",
			defaultVal:  "default",
			description: "beaker ID used for the startup catalog",
			setter:      func(c *ServerConfig, v string) { c.DefaultBeakerID = v },
		},
		{
			flagName:    "tick-length",
			envVarName:  "BEAKER_TICK_LENGTH",
			defaultVal:  "0.01",
			description: "simulated seconds advanced per tick",
			setter: func(c *ServerConfig, v string) {
				if val, err := strconv.ParseFloat(v, 64); err == nil && val > 0 {
					c.TickLength = val
				} else {
					log.Printf("Invalid value for tick-length: %s, using default 0.01", v)
					c.TickLength = chem.DefaultTickLength
				}
			},
		},
		{
			flagName:    "env-temp",
			envVarName:  "BEAKER_ENV_TEMP",
			defaultVal:  "20",
			description: "environment temperature in Celsius, or 'none' for isolated beakers",
			setter: func(c *ServerConfig, v string) {
				if v == "none" {
					c.EnvTemp = nil
					return
				}
				if val, err := strconv.ParseFloat(v, 64); err == nil {
					c.EnvTemp = &val
				} else {
					log.Printf("Invalid value for env-temp: %s, using default 20", v)
					ambient := chem.AmbientTemperature
					c.EnvTemp = &ambient
				}
			},
		},
		{
			flagName:    "log-level",
			envVarName:  "BEAKER_LOG_LEVEL",
			defaultVal:  "info",
			description: "Log level: debug, info, warn, error",
			setter:      func(c *ServerConfig, v string) { c.LogLevel = v },
		},
	}

	// Register string flags first
	flagVars := make(map[string]*string)
	for _, resolver := range resolvers {
		flagVars[resolver.flagName] = flag.String(resolver.flagName, "", resolver.description)
	}

	// Parse flags once
	flag.Parse()

	// Resolve values for each resolver: flag beats env beats default
	for _, resolver := range resolvers {
		var value string
		if *flagVars[resolver.flagName] != "" {
			value = *flagVars[resolver.flagName]
		} else if envValue := os.Getenv(resolver.envVarName); envValue != "" {
			value = envValue
		} else {
			value = resolver.defaultVal
		}
		resolver.setter(&cfg, value)
	}

	return cfg
}

// applyInitialCatalog loads a catalog config file and creates the startup
// beaker from it, seeding it with the config's starting matter.
func applyInitialCatalog(s *Server, path string, id chem.BeakerID) error {
	cfg, err := chem.LoadCatalogConfig(path)
	if err != nil {
		return err
	}

	catalog, seeds, err := chem.BuildCatalogFromConfig(cfg)
	if err != nil {
		return err
	}

	beaker, err := s.manager.CreateBeaker(id, catalog)
	if err != nil {
		// Beaker already exists, swap its catalog and keep its matter
		return s.manager.ReplaceCatalog(id, catalog)
	}
	s.setupBeaker(beaker, seeds)

	return nil
}
