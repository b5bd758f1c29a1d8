package oasclient

import "log/slog"

// Logger is the interface the client uses for structured logging. It is
// minimal yet compatible with popular logging libraries: attrs are
// alternating key-value pairs following the log/slog convention.
//
// Use [NewSlogAdapter] to wrap a standard library *slog.Logger:
//
//	logger := oasclient.NewSlogAdapter(slog.Default())
//	client, err := oasclient.NewFromFile("petstore.yaml", oasclient.WithLogger(logger))
type Logger interface {
	// Debug logs at debug level.
	Debug(msg string, attrs ...interface{})

	// Info logs at info level.
	Info(msg string, attrs ...interface{})

	// Warn logs at warn level.
	Warn(msg string, attrs ...interface{})

	// Error logs at error level.
	Error(msg string, attrs ...interface{})

	// With returns a Logger with the given attributes prepended to every log.
	With(attrs ...interface{}) Logger
}

// NopLogger discards all output. It is the default when no logger is
// configured.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(_ string, _ ...interface{}) {}

// Info implements Logger.
func (NopLogger) Info(_ string, _ ...interface{}) {}

// Warn implements Logger.
func (NopLogger) Warn(_ string, _ ...interface{}) {}

// Error implements Logger.
func (NopLogger) Error(_ string, _ ...interface{}) {}

// With implements Logger.
func (n NopLogger) With(_ ...interface{}) Logger { return n }

var _ Logger = NopLogger{}

// SlogAdapter wraps a *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter. A nil logger falls back to
// slog.Default().
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// Debug implements Logger.
func (s *SlogAdapter) Debug(msg string, attrs ...interface{}) {
	s.logger.Debug(msg, attrs...)
}

// Info implements Logger.
func (s *SlogAdapter) Info(msg string, attrs ...interface{}) {
	s.logger.Info(msg, attrs...)
}

// Warn implements Logger.
func (s *SlogAdapter) Warn(msg string, attrs ...interface{}) {
	s.logger.Warn(msg, attrs...)
}

// Error implements Logger.
func (s *SlogAdapter) Error(msg string, attrs ...interface{}) {
	s.logger.Error(msg, attrs...)
}

// With implements Logger.
func (s *SlogAdapter) With(attrs ...interface{}) Logger {
	return &SlogAdapter{logger: s.logger.With(attrs...)}
}

var _ Logger = (*SlogAdapter)(nil)
