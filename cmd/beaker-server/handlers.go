package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/beakerlab/beaker/internal/chem"
	"github.com/beakerlab/beaker/internal/chem/notifiers"
)

// extractBeakerID extracts the beaker ID from a path like "/beakers/{id}/..."
// Returns the beaker ID and the remaining path, or empty strings if not found
func extractBeakerID(path string) (chem.BeakerID, string) {
	rest, ok := strings.CutPrefix(path, "/beakers/")
	if !ok {
		return "", ""
	}

	idx := strings.Index(rest, "/")
	if idx == -1 {
		// No more path segments, the whole thing is the beaker ID
		return chem.BeakerID(rest), ""
	}

	return chem.BeakerID(rest[:idx]), rest[idx:]
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleBeakersCollection serves the /beakers collection itself
func (s *Server) handleBeakersCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListBeakers(w, r)
	case http.MethodPost:
		s.handleCreateBeaker(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleBeakerRoutes routes requests to beaker-specific handlers
// Handles paths like /beakers/{id}/tick, /beakers/{id}/state, etc.
func (s *Server) handleBeakerRoutes(w http.ResponseWriter, r *http.Request) {
	id, remainingPath := extractBeakerID(r.URL.Path)
	if id == "" {
		http.Error(w, "beaker ID is required in path: /beakers/{id}/...", http.StatusBadRequest)
		return
	}

	switch {
	case remainingPath == "/catalog" && r.Method == http.MethodPost:
		s.handleReplaceCatalog(w, r, id)
	case remainingPath == "/matter" && r.Method == http.MethodPost:
		s.handleAddMatter(w, r, id)
	case remainingPath == "/tick" && r.Method == http.MethodPost:
		s.handleTick(w, r, id)
	case remainingPath == "/start" && r.Method == http.MethodPost:
		s.handleStart(w, r, id)
	case remainingPath == "/stop" && r.Method == http.MethodPost:
		s.handleStop(w, r, id)
	case remainingPath == "/environment" && r.Method == http.MethodPost:
		s.handleSetEnvironment(w, r, id)
	case remainingPath == "/state" && r.Method == http.MethodGet:
		s.handleState(w, r, id)
	case remainingPath == "/describe" && r.Method == http.MethodGet:
		s.handleDescribe(w, r, id)
	case remainingPath == "" && r.Method == http.MethodDelete:
		s.handleDeleteBeaker(w, r, id)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// GET /beakers
// List all beaker IDs
func (s *Server) handleListBeakers(w http.ResponseWriter, _ *http.Request) {
	beakerIDs := s.manager.ListBeakers()

	ids := make([]string, len(beakerIDs))
	for i, id := range beakerIDs {
		ids[i] = string(id)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string][]string{"beakers": ids}); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
	}
}

// POST /beakers
// Body: { "id": "optional-id", "catalog": CatalogConfig }
// Creates a beaker from the catalog and its seed matter. When no ID is
// given the server assigns one.
type createBeakerRequest struct {
	ID      string             `json:"id"`
	Catalog chem.CatalogConfig `json:"catalog"`
}

func (s *Server) handleCreateBeaker(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req createBeakerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	catalog, seeds, err := chem.BuildCatalogFromConfig(req.Catalog)
	if err != nil {
		http.Error(w, "cannot build catalog: "+err.Error(), http.StatusBadRequest)
		return
	}

	id := chem.BeakerID(req.ID)
	if id == "" {
		id = chem.BeakerID(uuid.NewString())
	}

	beaker, err := s.manager.CreateBeaker(id, catalog)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	s.setupBeaker(beaker, seeds)

	s.logger.Infof("Beaker created: beaker_id=%s catalog=%s", id, catalog.Name)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"id": string(id)})
}

// POST /beakers/{id}/catalog
// Body: CatalogConfig JSON
// Swaps the beaker's catalog while keeping its matter. Seeds in the new
// config are ignored; use the matter endpoint to add more.
func (s *Server) handleReplaceCatalog(w http.ResponseWriter, r *http.Request, id chem.BeakerID) {
	defer r.Body.Close()

	var cfg chem.CatalogConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "invalid catalog json: "+err.Error(), http.StatusBadRequest)
		return
	}

	catalog, _, err := chem.BuildCatalogFromConfig(cfg)
	if err != nil {
		http.Error(w, "cannot build catalog: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.manager.ReplaceCatalog(id, catalog); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	s.logger.Infof("Catalog replaced: beaker_id=%s catalog=%s", id, catalog.Name)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("catalog replaced"))
}

// POST /beakers/{id}/matter
// Body: { "substance": "...", "amount": 10, "temperature": 25, "surface_area": 1 }
type addMatterRequest struct {
	Substance   string   `json:"substance"`
	Amount      float64  `json:"amount"`
	Temperature *float64 `json:"temperature"`
	SurfaceArea *float64 `json:"surface_area"`
}

func (s *Server) handleAddMatter(w http.ResponseWriter, r *http.Request, id chem.BeakerID) {
	defer r.Body.Close()

	beaker, exists := s.manager.GetBeaker(id)
	if !exists {
		http.Error(w, "beaker not found", http.StatusNotFound)
		return
	}

	var req addMatterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	sub, ok := beaker.Catalog().Substance(req.Substance)
	if !ok {
		http.Error(w, "unknown substance: "+req.Substance, http.StatusBadRequest)
		return
	}
	if req.Amount <= 0 {
		http.Error(w, "amount must be positive", http.StatusBadRequest)
		return
	}

	m := chem.NewMatter(sub, req.Amount)
	if req.Temperature != nil {
		m = m.WithTemperature(*req.Temperature)
	}
	if req.SurfaceArea != nil {
		m = m.WithSurfaceArea(*req.SurfaceArea)
	}
	beaker.AddMatter(m)

	s.logger.Debugf("Matter added: beaker_id=%s substance=%s amount=%g", id, req.Substance, req.Amount)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// POST /beakers/{id}/tick
// Advance the beaker manually (useful when auto-running is off)
// Query param: n (number of ticks, default 1)
func (s *Server) handleTick(w http.ResponseWriter, r *http.Request, id chem.BeakerID) {
	beaker, exists := s.manager.GetBeaker(id)
	if !exists {
		http.Error(w, "beaker not found", http.StatusNotFound)
		return
	}

	n := 1
	if nStr := r.URL.Query().Get("n"); nStr != "" {
		parsed, err := strconv.Atoi(nStr)
		if err != nil || parsed <= 0 {
			http.Error(w, "invalid n: must be a positive integer", http.StatusBadRequest)
			return
		}
		n = parsed
	}

	var firings []chem.Firing
	for range n {
		firings = append(firings, beaker.Step()...)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"ticks": n, "firings": firings}); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
	}
}

// POST /beakers/{id}/start
// Start the beaker auto-running with the specified interval (in milliseconds)
// Query param: interval (default: 1000ms)
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request, id chem.BeakerID) {
	beaker, exists := s.manager.GetBeaker(id)
	if !exists {
		http.Error(w, "beaker not found", http.StatusNotFound)
		return
	}

	interval := 1000 * time.Millisecond
	if intervalStr := r.URL.Query().Get("interval"); intervalStr != "" {
		if ms, err := strconv.Atoi(intervalStr); err == nil && ms > 0 {
			interval = time.Duration(ms) * time.Millisecond
		} else {
			http.Error(w, "invalid interval: must be a positive integer (milliseconds)", http.StatusBadRequest)
			return
		}
	}

	beaker.Run(interval)
	s.logger.Infof("Beaker started: beaker_id=%s interval=%v", id, interval)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("beaker started"))
}

// POST /beakers/{id}/stop
// Stop the beaker auto-running
func (s *Server) handleStop(w http.ResponseWriter, r *http.Request, id chem.BeakerID) {
	beaker, exists := s.manager.GetBeaker(id)
	if !exists {
		http.Error(w, "beaker not found", http.StatusNotFound)
		return
	}

	beaker.Stop()
	s.logger.Infof("Beaker stopped: beaker_id=%s", id)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("beaker stopped"))
}

// POST /beakers/{id}/environment
// Body: { "temperature": 20 } or { "temperature": null } for an isolated beaker
type setEnvironmentRequest struct {
	Temperature *float64 `json:"temperature"`
}

func (s *Server) handleSetEnvironment(w http.ResponseWriter, r *http.Request, id chem.BeakerID) {
	defer r.Body.Close()

	beaker, exists := s.manager.GetBeaker(id)
	if !exists {
		http.Error(w, "beaker not found", http.StatusNotFound)
		return
	}

	var req setEnvironmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	beaker.SetEnvironment(req.Temperature)
	if req.Temperature != nil {
		s.logger.Infof("Environment set: beaker_id=%s temperature=%g", id, *req.Temperature)
	} else {
		s.logger.Infof("Environment set: beaker_id=%s temperature=none", id)
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("environment updated"))
}

// GET /beakers/{id}/state
func (s *Server) handleState(w http.ResponseWriter, _ *http.Request, id chem.BeakerID) {
	beaker, exists := s.manager.GetBeaker(id)
	if !exists {
		http.Error(w, "beaker not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(beaker.Snapshot()); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
	}
}

// GET /beakers/{id}/describe
// Plain-text observer summary of the beaker contents
func (s *Server) handleDescribe(w http.ResponseWriter, _ *http.Request, id chem.BeakerID) {
	beaker, exists := s.manager.GetBeaker(id)
	if !exists {
		http.Error(w, "beaker not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(beaker.Describe() + "\n"))
}

// DELETE /beakers/{id}
func (s *Server) handleDeleteBeaker(w http.ResponseWriter, _ *http.Request, id chem.BeakerID) {
	if err := s.manager.DeleteBeaker(id); err != nil {
		s.logger.Warnf("Failed to delete beaker: beaker_id=%s error=%v", id, err)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	s.logger.Infof("Beaker deleted: beaker_id=%s", id)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("beaker deleted"))
}

// handleNotifiersRoutes handles notifier management endpoints
func (s *Server) handleNotifiersRoutes(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/notifiers" && r.Method == http.MethodGet:
		s.handleListNotifiers(w, r)
	case r.URL.Path == "/notifiers" && r.Method == http.MethodPost:
		s.handleRegisterNotifier(w, r)
	case strings.HasPrefix(r.URL.Path, "/notifiers/") && r.Method == http.MethodDelete:
		s.handleUnregisterNotifier(w, r)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// GET /notifiers
// List all registered notifiers
func (s *Server) handleListNotifiers(w http.ResponseWriter, _ *http.Request) {
	notifierIDs := s.notifierMgr.ListNotifiers()

	list := make([]map[string]string, 0, len(notifierIDs))
	for _, id := range notifierIDs {
		notifier, exists := s.notifierMgr.GetNotifier(id)
		if exists {
			list = append(list, map[string]string{
				"id":   id,
				"type": notifier.Type(),
			})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"notifiers": list}); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
	}
}

// POST /notifiers
// Register a new notifier. The server assigns an ID when none is given.
// Body: { "type": "webhook", "id": "my-webhook", "config": { "url": "http://..." } }
// Body: { "type": "websocket", "id": "live" }
type registerNotifierRequest struct {
	Type   string         `json:"type"`
	ID     string         `json:"id"`
	Config map[string]any `json:"config"`
}

func (s *Server) handleRegisterNotifier(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req registerNotifierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.ID == "" {
		req.ID = chem.NewRandomID()
	}

	var notifier chem.Notifier

	switch req.Type {
	case "webhook":
		url, ok := req.Config["url"].(string)
		if !ok || url == "" {
			http.Error(w, "webhook URL is required", http.StatusBadRequest)
			return
		}
		wh := notifiers.NewWebhookNotifier(req.ID, url)

		// Set custom headers if provided
		if headers, ok := req.Config["headers"].(map[string]any); ok {
			for k, v := range headers {
				if vStr, ok := v.(string); ok {
					wh.SetHeader(k, vStr)
				}
			}
		}

		notifier = wh
	case "websocket":
		notifier = notifiers.NewWebSocketNotifier(req.ID)
	default:
		http.Error(w, "unknown notifier type: "+req.Type, http.StatusBadRequest)
		return
	}

	if err := s.notifierMgr.RegisterNotifier(notifier); err != nil {
		_ = notifier.Close()
		http.Error(w, "cannot register notifier: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.logger.Infof("Notifier registered: id=%s type=%s", req.ID, req.Type)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"id": req.ID, "type": req.Type})
}

// DELETE /notifiers/{id}
// Unregister a notifier
func (s *Server) handleUnregisterNotifier(w http.ResponseWriter, r *http.Request) {
	notifierID := strings.TrimPrefix(r.URL.Path, "/notifiers/")
	if notifierID == "" {
		http.Error(w, "notifier ID is required", http.StatusBadRequest)
		return
	}

	if err := s.notifierMgr.UnregisterNotifier(notifierID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	s.logger.Infof("Notifier unregistered: id=%s", notifierID)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("notifier unregistered"))
}

// GET /ws/{notifierID}
// Upgrades the connection and attaches it to the named websocket notifier
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	notifierID := strings.TrimPrefix(r.URL.Path, "/ws/")
	if notifierID == "" {
		http.Error(w, "notifier ID is required in path: /ws/{notifierID}", http.StatusBadRequest)
		return
	}

	notifier, exists := s.notifierMgr.GetNotifier(notifierID)
	if !exists {
		http.Error(w, "notifier not found", http.StatusNotFound)
		return
	}

	wsn, ok := notifier.(*notifiers.WebSocketNotifier)
	if !ok {
		http.Error(w, "notifier is not a websocket notifier", http.StatusBadRequest)
		return
	}

	upgrader := wsn.Upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		s.logger.Warnf("WebSocket upgrade failed: notifier=%s error=%v", notifierID, err)
		return
	}

	wsn.RegisterClient(conn)
	s.logger.Debugf("WebSocket client connected: notifier=%s remote=%s", notifierID, conn.RemoteAddr())

	// Read pump: discard inbound messages, detach on error or close
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				wsn.UnregisterClient(conn)
				return
			}
		}
	}()
}
