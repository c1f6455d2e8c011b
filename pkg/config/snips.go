package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// SectionCommon is the snips.toml section holding settings shared by all
// Snips services, including the MQTT connection and the assistant directory.
const SectionCommon = "snips-common"

// SnipsSearchPath lists the locations searched for snips.toml, in order.
var SnipsSearchPath = []string{
	"/etc/snips.toml",
	"/usr/local/etc/snips.toml",
}

// SnipsConfig gives read-only access to a snips.toml platform configuration.
//
// Top-level keys are section names (e.g. "snips-common", "snips-hotword")
// and their values are the section's settings. The MQTT connection settings
// are derived once at load time and available through MQTT.
type SnipsConfig struct {
	filename string
	values   tree
	mqtt     MQTTOptions
}

// LoadSnipsConfig reads a platform configuration.
//
// If path is empty, SnipsSearchPath is searched and the first existing file
// is used. If path is given it must exist; no search is attempted.
//
// Parameters:
//   - path: Path to snips.toml, or "" to search the default locations
//
// Returns:
//   - *SnipsConfig: Loaded configuration with derived MQTT settings
//   - error: ErrFileNotFound, ErrSnipsConfigNotFound or ErrMalformedConfig
func LoadSnipsConfig(path string) (*SnipsConfig, error) {
	if path == "" {
		found, ok := FindPath(SnipsSearchPath)
		if !ok {
			return nil, ErrSnipsConfigNotFound
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
		return nil, fmt.Errorf("reading snips config: %w", err)
	}

	values := tree{}
	if _, err := toml.Decode(string(data), &values); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedConfig, path, err)
	}

	return &SnipsConfig{
		filename: path,
		values:   values,
		mqtt:     mqttOptionsFrom(values),
	}, nil
}

// NewSnipsConfig builds a platform configuration from already parsed values.
// Filename returns "" for such a configuration.
func NewSnipsConfig(values map[string]any) *SnipsConfig {
	if values == nil {
		values = map[string]any{}
	}
	return &SnipsConfig{
		values: values,
		mqtt:   mqttOptionsFrom(values),
	}
}

// Filename returns the path the configuration was loaded from.
func (c *SnipsConfig) Filename() string {
	return c.filename
}

// MQTT returns the MQTT connection settings derived from the configuration.
func (c *SnipsConfig) MQTT() MQTTOptions {
	return c.mqtt
}

// Lookup returns the value at the given key path.
//
// Example:
//
//	audio, err := snips.Lookup("snips-hotword", "audio")
//	if errors.Is(err, config.ErrKeyNotFound) {
//	    // not configured
//	}
func (c *SnipsConfig) Lookup(keys ...string) (any, error) {
	return c.values.lookup(keys...)
}

// String returns the string value at the given key path.
func (c *SnipsConfig) String(keys ...string) (string, error) {
	return c.values.lookupString(keys...)
}

// Section returns the settings of a named section.
func (c *SnipsConfig) Section(name string) (map[string]any, error) {
	return c.values.lookupSection(name)
}

// Values returns the whole parsed document.
// The returned map must not be modified.
func (c *SnipsConfig) Values() map[string]any {
	return c.values
}
