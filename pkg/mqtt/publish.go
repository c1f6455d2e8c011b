package mqtt

import (
	"encoding/json"
	"fmt"
)

// Maximum payload size for MQTT messages (1MB).
const maxPayloadSize = 1 << 20 // 1MB

// Publish sends payload, encoded as JSON, to the specified MQTT topic.
//
// It pairs with the dialogue helpers of the ontology package:
//
//	err := client.Publish(ontology.EndSession(msg.SessionID, "Done"))
//
// Returns:
//   - error: ErrPublishFailed if payload cannot be encoded, or the errors of PublishRaw
func (c *Client) Publish(topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: encoding payload: %w", ErrPublishFailed, err)
	}
	return c.PublishRaw(topic, data, false)
}

// PublishRaw sends payload bytes unchanged to the specified MQTT topic with
// the client's QoS.
//
// Parameters:
//   - topic: The topic to publish to (e.g., "hermes/dialogueManager/endSession")
//   - payload: The message payload (max 1MB)
//   - retained: Whether the broker should retain the message for new subscribers
//
// Returns:
//   - error: nil on success, or wrapped error describing the failure
func (c *Client) PublishRaw(topic string, payload []byte, retained bool) error {
	if err := ValidateTopic(topic); err != nil {
		return err
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, c.settings.qos, retained, payload)
	if !token.WaitTimeout(c.settings.operationTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, c.settings.operationTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}
