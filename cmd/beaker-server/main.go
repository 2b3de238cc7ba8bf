package main

import (
	"net/http"

	"github.com/beakerlab/beaker/internal/chem"
)

func main() {
	cfg := loadServerConfig()
	logger := NewLogger(cfg.LogLevel)

	srv := NewServer(logger)
	srv.SetDefaultTickLength(cfg.TickLength)
	srv.SetDefaultEnvironment(cfg.EnvTemp)

	if cfg.CatalogFile != "" {
		if err := applyInitialCatalog(srv, cfg.CatalogFile, chem.BeakerID(cfg.DefaultBeakerID)); err != nil {
			logger.Fatalf("Failed to load startup catalog %s: %v", cfg.CatalogFile, err)
		}
		logger.Infof("Startup catalog loaded: file=%s beaker_id=%s", cfg.CatalogFile, cfg.DefaultBeakerID)
	}

	logger.Infof("beaker-server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, srv.routes()); err != nil {
		logger.Fatalf("server error: %v", err)
	}
}
