package hermes

import "github.com/nerrad567/snipskit-go/pkg/ontology"

// EndSession ends sessionID, saying text first unless it is empty.
func (c *Client) EndSession(sessionID, text string) error {
	return c.conn.Publish(ontology.EndSession(sessionID, text))
}

// ContinueSession says text and keeps sessionID open for another turn.
func (c *Client) ContinueSession(sessionID, text string) error {
	return c.conn.Publish(ontology.ContinueSession(sessionID, text))
}

// ContinueSessionWith publishes a continueSession message with all options.
func (c *Client) ContinueSessionWith(msg ontology.ContinueSessionMessage) error {
	return c.conn.Publish(ontology.TopicContinueSession, msg)
}

// StartSession asks the dialogue manager to start a session.
func (c *Client) StartSession(msg ontology.StartSessionMessage) error {
	return c.conn.Publish(ontology.TopicStartSession, msg)
}

// Notify says text on siteID without waiting for an answer.
func (c *Client) Notify(siteID, text string) error {
	return c.conn.Publish(ontology.Notify(siteID, text))
}

// ToggleHotword switches hotword detection on siteID on or off.
func (c *Client) ToggleHotword(siteID string, on bool) error {
	return c.conn.Publish(ontology.ToggleHotword(siteID, on))
}

// Publish sends payload as JSON on an arbitrary topic.
func (c *Client) Publish(topic string, payload any) error {
	return c.conn.Publish(topic, payload)
}
