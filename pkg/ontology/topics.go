package ontology

import "fmt"

// TopicPrefix is the base of every Hermes topic.
const TopicPrefix = "hermes"

// Dialogue manager topics.
const (
	TopicIntentNotRecognized = "hermes/dialogueManager/intentNotRecognized"
	TopicSessionStarted      = "hermes/dialogueManager/sessionStarted"
	TopicSessionQueued       = "hermes/dialogueManager/sessionQueued"
	TopicSessionEnded        = "hermes/dialogueManager/sessionEnded"
	TopicStartSession        = "hermes/dialogueManager/startSession"
	TopicContinueSession     = "hermes/dialogueManager/continueSession"
	TopicEndSession          = "hermes/dialogueManager/endSession"
)

// Hotword topics.
const (
	TopicHotwordToggleOn  = "hermes/hotword/toggleOn"
	TopicHotwordToggleOff = "hermes/hotword/toggleOff"
)

// Topics provides builders for Hermes topics that carry a name.
//
//	topics := ontology.Topics{}
//	topics.Intent("koan:getWeather")
//	// Returns: "hermes/intent/koan:getWeather"
type Topics struct{}

// Intent returns the topic on which a recognised intent is published.
//
// Example: hermes/intent/koan:getWeather
func (Topics) Intent(name string) string {
	return fmt.Sprintf("%s/intent/%s", TopicPrefix, name)
}

// AllIntents returns a pattern matching every recognised intent.
//
// Pattern: hermes/intent/#
func (Topics) AllIntents() string {
	return fmt.Sprintf("%s/intent/#", TopicPrefix)
}

// HotwordDetected returns the topic published when a hotword model fires.
//
// Example: hermes/hotword/default/detected
func (Topics) HotwordDetected(hotwordID string) string {
	return fmt.Sprintf("%s/hotword/%s/detected", TopicPrefix, hotwordID)
}

// AllHotwordsDetected returns a pattern matching every hotword detection.
//
// Pattern: hermes/hotword/+/detected
func (Topics) AllHotwordsDetected() string {
	return fmt.Sprintf("%s/hotword/+/detected", TopicPrefix)
}

// AllTopics returns a pattern matching all Hermes traffic.
//
// Pattern: hermes/#
func (Topics) AllTopics() string {
	return TopicPrefix + "/#"
}
