package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// AssistantFile is the name of the assistant configuration inside an
// assistant directory.
const AssistantFile = "assistant.json"

// AssistantSearchPath lists the locations searched for assistant.json, in order.
var AssistantSearchPath = []string{
	"/usr/share/snips/assistant/assistant.json",
	"/usr/local/share/snips/assistant/assistant.json",
}

// AssistantConfig gives read-only access to the configuration of the
// installed Snips assistant (language, name, intents, ...).
type AssistantConfig struct {
	filename string
	values   tree
}

// LoadAssistantConfig reads an assistant configuration.
//
// If path is empty, AssistantSearchPath is searched. If path is given it
// must exist; no search is attempted.
//
// Returns:
//   - *AssistantConfig: Loaded configuration
//   - error: ErrFileNotFound, ErrAssistantConfigNotFound or ErrMalformedConfig
func LoadAssistantConfig(path string) (*AssistantConfig, error) {
	if path == "" {
		found, ok := FindPath(AssistantSearchPath)
		if !ok {
			return nil, ErrAssistantConfigNotFound
		}
		path = found
	} else if info, err := os.Stat(path); err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("reading assistant config: %w", err)
	}

	values := tree{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedConfig, path, err)
	}

	return &AssistantConfig{filename: path, values: values}, nil
}

// LoadAssistantConfigFor reads the assistant configuration of a Snips
// installation.
//
// The location is resolved in layers:
//  1. If snips-common.assistant is set in snips, it names the assistant
//     directory and <dir>/assistant.json must exist (ErrFileNotFound otherwise).
//  2. Only if that key is absent or empty is AssistantSearchPath searched.
//
// A nil snips skips straight to the search path.
func LoadAssistantConfigFor(snips *SnipsConfig) (*AssistantConfig, error) {
	if snips == nil {
		return LoadAssistantConfig("")
	}

	dir, err := snips.String(SectionCommon, keyAssistant)
	switch {
	case errors.Is(err, ErrKeyNotFound), err == nil && dir == "":
		return LoadAssistantConfig("")
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrMalformedConfig, err)
	}

	return LoadAssistantConfig(filepath.Join(dir, AssistantFile))
}

// Filename returns the path the configuration was loaded from.
func (a *AssistantConfig) Filename() string {
	return a.filename
}

// Lookup returns the value at the given key path.
func (a *AssistantConfig) Lookup(keys ...string) (any, error) {
	return a.values.lookup(keys...)
}

// String returns the string value at the given key path.
func (a *AssistantConfig) String(keys ...string) (string, error) {
	return a.values.lookupString(keys...)
}

// Language returns the assistant's language code, e.g. "en".
func (a *AssistantConfig) Language() (string, error) {
	return a.values.lookupString("language")
}

// Values returns the whole parsed document.
// The returned map must not be modified.
func (a *AssistantConfig) Values() map[string]any {
	return a.values
}
