package config

import (
	"fmt"
	"strings"
)

// tree is a parsed configuration document: nested string-keyed maps as
// produced by the TOML and JSON decoders.
type tree map[string]any

// lookup walks keys through nested maps.
// With no keys it returns the whole document.
func (t tree) lookup(keys ...string) (any, error) {
	var current any = map[string]any(t)

	for i, key := range keys {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, strings.Join(keys[:i+1], "."))
		}

		value, ok := node[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, strings.Join(keys[:i+1], "."))
		}
		current = value
	}

	return current, nil
}

// lookupString is lookup for values that must be strings.
func (t tree) lookupString(keys ...string) (string, error) {
	value, err := t.lookup(keys...)
	if err != nil {
		return "", err
	}

	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %T, want string", ErrTypeMismatch, strings.Join(keys, "."), value)
	}
	return s, nil
}

// lookupSection is lookup for values that must be tables.
func (t tree) lookupSection(name string) (map[string]any, error) {
	value, err := t.lookup(name)
	if err != nil {
		return nil, err
	}

	section, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T, want table", ErrTypeMismatch, name, value)
	}
	return section, nil
}
