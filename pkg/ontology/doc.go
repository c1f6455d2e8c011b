// Package ontology defines the Hermes protocol messages and MQTT topics used
// between a Snips platform and the apps built on it.
//
// Hermes is a set of MQTT topics under "hermes/" with JSON payloads. The
// dialogue manager publishes recognised intents and session lifecycle
// events; apps answer by publishing dialogue commands such as endSession.
//
//	topic, payload := ontology.EndSession(msg.SessionID, "It's 21 degrees")
//	client.Publish(topic, payload)
//
// See https://docs.snips.ai/reference/dialogue for the message reference.
package ontology
