package telemetry

import "fmt"

// LoggingConfig configures structured logging.
//
// Output defaults to stderr: stdout carries the tool protocol frames, so
// log lines must never be written there.
type LoggingConfig struct {
	// Level sets the minimum log level (trace, debug, info, warn, error, fatal).
	Level string

	// Format specifies the log format (console, json).
	Format string

	// Output specifies where logs are written (stderr or a file path).
	Output string

	// EnableCaller adds file:line caller information to logs.
	EnableCaller bool

	// TimeFormat specifies the timestamp format (unix, rfc3339).
	TimeFormat string
}

// MetricsConfig configures metrics collection.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	Enabled bool

	// ListenAddress is the address for the metrics HTTP endpoint.
	ListenAddress string

	// Path is the HTTP path for metrics (default: /metrics).
	Path string

	// Namespace is the metrics namespace prefix.
	Namespace string
}

// DefaultLoggingConfig returns the default logging configuration.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:      "info",
		Format:     "json",
		Output:     "stderr",
		TimeFormat: "rfc3339",
	}
}

// DefaultMetricsConfig returns the default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:       false,
		ListenAddress: ":9090",
		Path:          "/metrics",
		Namespace:     "ansibridge",
	}
}

// Validate checks if the logging configuration is valid.
func (c LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true,
	}
	if !validLevels[c.Level] {
		return fmt.Errorf("invalid log level: %s", c.Level)
	}
	if c.Format != "console" && c.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'console' or 'json')", c.Format)
	}
	if c.Output == "stdout" {
		return fmt.Errorf("stdout is reserved for protocol output, log to stderr or a file")
	}
	return nil
}
