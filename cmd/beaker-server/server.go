package main

import (
	"net/http"

	"github.com/beakerlab/beaker/internal/chem"
)

// chemLoggerAdapter adapts the server's Logger to the chem.Logger interface
type chemLoggerAdapter struct {
	logger *Logger
}

func (a *chemLoggerAdapter) Debugf(format string, v ...any) {
	a.logger.Debugf(format, v...)
}

func (a *chemLoggerAdapter) Infof(format string, v ...any) {
	a.logger.Infof(format, v...)
}

func (a *chemLoggerAdapter) Warnf(format string, v ...any) {
	a.logger.Warnf(format, v...)
}

func (a *chemLoggerAdapter) Errorf(format string, v ...any) {
	a.logger.Errorf(format, v...)
}

// Server is the HTTP face of a set of beakers: a BeakerManager, a shared
// notification manager and the defaults applied to newly created beakers.
type Server struct {
	manager     *chem.BeakerManager
	notifierMgr *chem.NotificationManager
	logger      *Logger
	tickLength  float64
	envTemp     *float64
}

// NewServer creates a new server instance
func NewServer(logger *Logger) *Server {
	chemLogger := &chemLoggerAdapter{logger: logger}
	ambient := chem.AmbientTemperature
	return &Server{
		manager:     chem.NewBeakerManagerWithLogger(chemLogger),
		notifierMgr: chem.NewNotificationManagerWithLogger(chemLogger),
		logger:      logger,
		tickLength:  chem.DefaultTickLength,
		envTemp:     &ambient,
	}
}

// SetDefaultTickLength sets the simulated seconds per tick applied to
// beakers created through the API
func (s *Server) SetDefaultTickLength(t float64) {
	if t > 0 {
		s.tickLength = t
	}
}

// SetDefaultEnvironment sets the environment temperature applied to beakers
// created through the API; nil means isolated
func (s *Server) SetDefaultEnvironment(t *float64) {
	s.envTemp = t
}

// routes wires every handler onto a fresh mux
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/beakers", s.handleBeakersCollection)
	mux.HandleFunc("/beakers/", s.handleBeakerRoutes)
	mux.HandleFunc("/notifiers", s.handleNotifiersRoutes)
	mux.HandleFunc("/notifiers/", s.handleNotifiersRoutes)
	mux.HandleFunc("/ws/", s.handleWebSocket)
	return mux
}

// setupBeaker applies the server-wide defaults and shared notification
// manager to a beaker, then seeds it with starting matter.
func (s *Server) setupBeaker(b *chem.Beaker, seeds []*chem.Matter) {
	b.SetNotificationManager(s.notifierMgr)
	b.SetTickLength(s.tickLength)
	b.SetEnvironment(s.envTemp)
	for _, m := range seeds {
		b.AddMatter(m)
	}
}
