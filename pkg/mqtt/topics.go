package mqtt

import (
	"fmt"
	"strings"
)

// ValidateFilter checks a subscription pattern.
//
// Rules (MQTT 3.1.1 §4.7):
//   - not empty
//   - "#" only as the last level, on its own
//   - "+" only as a whole level
func ValidateFilter(filter string) error {
	if filter == "" {
		return fmt.Errorf("%w: topic cannot be empty", ErrInvalidTopic)
	}

	levels := strings.Split(filter, "/")
	for i, level := range levels {
		switch {
		case level == "#":
			if i != len(levels)-1 {
				return fmt.Errorf("%w: %q: # must be the last level", ErrInvalidTopic, filter)
			}
		case strings.Contains(level, "#"):
			return fmt.Errorf("%w: %q: # must occupy a whole level", ErrInvalidTopic, filter)
		case level != "+" && strings.Contains(level, "+"):
			return fmt.Errorf("%w: %q: + must occupy a whole level", ErrInvalidTopic, filter)
		}
	}
	return nil
}

// ValidateTopic checks a topic name used for publishing: not empty and
// without wildcards.
func ValidateTopic(topic string) error {
	if topic == "" {
		return fmt.Errorf("%w: topic cannot be empty", ErrInvalidTopic)
	}
	if strings.ContainsAny(topic, "+#") {
		return fmt.Errorf("%w: %q: wildcards are not allowed when publishing", ErrInvalidTopic, topic)
	}
	return nil
}

// MatchTopic reports whether topic matches the subscription pattern filter.
//
// Example:
//
//	mqtt.MatchTopic("hermes/intent/#", "hermes/intent/koan:getWeather") // true
func MatchTopic(filter, topic string) bool {
	fl := strings.Split(filter, "/")
	tl := strings.Split(topic, "/")

	for i, f := range fl {
		switch {
		case f == "#":
			return true
		case i >= len(tl):
			return false
		case f == "+":
			continue
		case f != tl[i]:
			return false
		}
	}
	return len(fl) == len(tl)
}
