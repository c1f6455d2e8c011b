package config

import (
	"errors"
	"fmt"
	"io/fs"
)

// Domain-specific errors for configuration loading.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrSnipsConfigNotFound is returned when no snips.toml exists in the search path.
	ErrSnipsConfigNotFound = errors.New("config: snips.toml not found in search path")

	// ErrAssistantConfigNotFound is returned when no assistant.json exists in the search path.
	ErrAssistantConfigNotFound = errors.New("config: assistant configuration not found in search path")

	// ErrFileNotFound is returned when an explicitly named configuration file
	// (or one derived from a configured directory) does not exist.
	// It also matches fs.ErrNotExist.
	ErrFileNotFound = fmt.Errorf("config: file not found: %w", fs.ErrNotExist)

	// ErrMalformedConfig is returned when a parser rejects a configuration file.
	// The parser's own error is wrapped alongside it.
	ErrMalformedConfig = errors.New("config: malformed configuration")

	// ErrKeyNotFound is returned when a lookup names a key that is not present.
	ErrKeyNotFound = errors.New("config: key not found")

	// ErrTypeMismatch is returned when a key exists but holds a value of another type.
	ErrTypeMismatch = errors.New("config: unexpected value type")
)
