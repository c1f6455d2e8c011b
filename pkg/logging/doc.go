// Package logging provides structured logging for snipskit apps and tools.
//
// This package wraps Go's standard log/slog package so that every component
// (MQTT transport, Hermes client, app lifecycle, CLI) logs the same way.
//
// # Features
//
//   - Text output for interactive use, JSON output for services
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Usage
//
//	logger := logging.New(logging.Config{Level: "debug", Format: "text"}, "0.7.0")
//	logger.Info("connected", "broker", "localhost:1883")
//
// The *Logger satisfies the small Logger interfaces accepted by the mqtt,
// hermes and component packages.
//
// Never log MQTT passwords or app secrets from config.ini.
package logging
