package chem

import "log"

// Logger interface for logging operations, injectable into the chem package.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

// NoOpLogger is a logger that does nothing (useful for testing or when logging is disabled)
type NoOpLogger struct{}

func (n *NoOpLogger) Debugf(format string, v ...any) {}
func (n *NoOpLogger) Infof(format string, v ...any)  {}
func (n *NoOpLogger) Warnf(format string, v ...any)  {}
func (n *NoOpLogger) Errorf(format string, v ...any) {}

// NewNoOpLogger creates a no-op logger
func NewNoOpLogger() Logger {
	return &NoOpLogger{}
}

// stdLogger writes leveled lines through the standard library logger.
type stdLogger struct{}

func (stdLogger) Debugf(format string, v ...any) { log.Printf("[DEBUG] "+format, v...) }
func (stdLogger) Infof(format string, v ...any)  { log.Printf("[INFO] "+format, v...) }
func (stdLogger) Warnf(format string, v ...any)  { log.Printf("[WARN] "+format, v...) }
func (stdLogger) Errorf(format string, v ...any) { log.Printf("[ERROR] "+format, v...) }

// NewStdLogger creates a logger backed by the standard library log package.
func NewStdLogger() Logger {
	return stdLogger{}
}
