package handler

import "fmt"

// Kind is the routing kind of a handler.
type Kind int

// Routing kinds.
const (
	// KindTopic routes raw MQTT messages by topic pattern.
	KindTopic Kind = iota + 1
	// KindIntent routes one named intent.
	KindIntent
	// KindIntentNotRecognized routes intentNotRecognized events.
	KindIntentNotRecognized
	// KindIntents routes every recognised intent.
	KindIntents
	// KindSessionEnded routes sessionEnded events.
	KindSessionEnded
	// KindSessionQueued routes sessionQueued events.
	KindSessionQueued
	// KindSessionStarted routes sessionStarted events.
	KindSessionStarted
)

var kindNames = map[Kind]string{
	KindTopic:               "topic",
	KindIntent:              "intent",
	KindIntentNotRecognized: "intent_not_recognized",
	KindIntents:             "intents",
	KindSessionEnded:        "session_ended",
	KindSessionQueued:       "session_queued",
	KindSessionStarted:      "session_started",
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Keyed reports whether descriptors of this kind carry a routing key.
func (k Kind) Keyed() bool {
	return k == KindTopic || k == KindIntent
}
