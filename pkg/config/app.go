package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/ini.v1"
)

// DefaultAppConfigFile is the app configuration used when no path is given.
// It is resolved against the working directory; no other location is searched.
var DefaultAppConfigFile = "config.ini"

// AppConfig gives read-write access to an app's INI configuration.
//
// Values can be changed in memory with Set and persisted with Write.
//
// Thread Safety:
//   - Not safe for concurrent use. A single writer is assumed, both within
//     the process and across processes sharing the file.
type AppConfig struct {
	filename string
	file     *ini.File
}

// LoadAppConfig reads an app configuration from path, or from
// DefaultAppConfigFile if path is empty.
//
// Returns:
//   - *AppConfig: Loaded configuration
//   - error: ErrFileNotFound or ErrMalformedConfig
func LoadAppConfig(path string) (*AppConfig, error) {
	if path == "" {
		path = DefaultAppConfigFile
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("reading app config: %w", err)
	}

	// Key names are case-insensitive, section names are not.
	file, err := ini.LoadSources(ini.LoadOptions{InsensitiveKeys: true}, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedConfig, path, err)
	}

	return &AppConfig{filename: path, file: file}, nil
}

// Filename returns the path the configuration was loaded from and is
// written back to by Write.
func (c *AppConfig) Filename() string {
	return c.filename
}

// Get returns the value of key in section.
func (c *AppConfig) Get(section, key string) (string, error) {
	sec, err := c.file.GetSection(section)
	if err != nil {
		return "", fmt.Errorf("%w: [%s]", ErrKeyNotFound, section)
	}

	k, err := sec.GetKey(key)
	if err != nil {
		return "", fmt.Errorf("%w: [%s] %s", ErrKeyNotFound, section, key)
	}
	return k.String(), nil
}

// Set changes key in section, creating both if needed.
// The change is in memory only until Write is called.
func (c *AppConfig) Set(section, key, value string) {
	c.file.Section(section).Key(key).SetValue(value)
}

// Delete removes key from section. Removing an absent key is not an error.
func (c *AppConfig) Delete(section, key string) {
	if sec, err := c.file.GetSection(section); err == nil {
		sec.DeleteKey(key)
	}
}

// Sections returns the names of all sections except the implicit default one.
func (c *AppConfig) Sections() []string {
	var names []string
	for _, name := range c.file.SectionStrings() {
		if name == ini.DefaultSection {
			continue
		}
		names = append(names, name)
	}
	return names
}

// Section returns all key/value pairs of a section.
func (c *AppConfig) Section(name string) (map[string]string, error) {
	sec, err := c.file.GetSection(name)
	if err != nil {
		return nil, fmt.Errorf("%w: [%s]", ErrKeyNotFound, name)
	}
	return sec.KeysHash(), nil
}

// Write saves the configuration to the file it was loaded from,
// replacing its contents.
func (c *AppConfig) Write() error {
	return c.WriteFile(c.filename)
}

// WriteFile saves the configuration to path, replacing its contents.
// Filename is not changed.
func (c *AppConfig) WriteFile(path string) error {
	if err := c.file.SaveTo(path); err != nil {
		return fmt.Errorf("writing app config: %w", err)
	}
	return nil
}

// WriteTo writes the configuration in INI format to w.
func (c *AppConfig) WriteTo(w io.Writer) (int64, error) {
	return c.file.WriteTo(w)
}
