package ontology

// EndSessionMessage asks the dialogue manager to end a session, optionally
// saying Text first.
type EndSessionMessage struct {
	SessionID string `json:"sessionId"`
	Text      string `json:"text,omitempty"`
}

// ContinueSessionMessage asks the dialogue manager to say Text and keep the
// session open for another user turn.
type ContinueSessionMessage struct {
	SessionID               string   `json:"sessionId"`
	Text                    string   `json:"text"`
	IntentFilter            []string `json:"intentFilter,omitempty"`
	CustomData              string   `json:"customData,omitempty"`
	SendIntentNotRecognized bool     `json:"sendIntentNotRecognized,omitempty"`
	Slot                    string   `json:"slot,omitempty"`
}

// StartSessionMessage asks the dialogue manager to start a session on a site.
type StartSessionMessage struct {
	SiteID     string      `json:"siteId,omitempty"`
	Init       SessionInit `json:"init"`
	CustomData string      `json:"customData,omitempty"`
}

// SessionInitType selects how a started session behaves.
type SessionInitType string

// Session init types.
const (
	// SessionInitAction starts a session that listens for an intent.
	SessionInitAction SessionInitType = "action"
	// SessionInitNotification says Text and ends the session.
	SessionInitNotification SessionInitType = "notification"
)

// SessionInit is the init part of a startSession message.
type SessionInit struct {
	Type                    SessionInitType `json:"type"`
	Text                    string          `json:"text,omitempty"`
	CanBeEnqueued           bool            `json:"canBeEnqueued,omitempty"`
	IntentFilter            []string        `json:"intentFilter,omitempty"`
	SendIntentNotRecognized bool            `json:"sendIntentNotRecognized,omitempty"`
}

// ContinueSession returns the topic and payload of a continueSession message
// for sessionID that says text.
//
//	client.Publish(ontology.ContinueSession(msg.SessionID, "Which room?"))
func ContinueSession(sessionID, text string) (string, ContinueSessionMessage) {
	return TopicContinueSession, ContinueSessionMessage{SessionID: sessionID, Text: text}
}

// EndSession returns the topic and payload of an endSession message for
// sessionID. An empty text ends the session without speaking and is left
// out of the payload.
func EndSession(sessionID, text string) (string, EndSessionMessage) {
	return TopicEndSession, EndSessionMessage{SessionID: sessionID, Text: text}
}

// Notify returns the topic and payload of a startSession message that says
// text on siteID and ends immediately.
func Notify(siteID, text string) (string, StartSessionMessage) {
	return TopicStartSession, StartSessionMessage{
		SiteID: siteID,
		Init:   SessionInit{Type: SessionInitNotification, Text: text},
	}
}

// HotwordToggleMessage turns hotword detection on or off for a site.
type HotwordToggleMessage struct {
	SiteID    string `json:"siteId"`
	SessionID string `json:"sessionId,omitempty"`
}

// ToggleHotword returns the topic and payload that switch hotword detection
// on siteID on or off.
func ToggleHotword(siteID string, on bool) (string, HotwordToggleMessage) {
	topic := TopicHotwordToggleOff
	if on {
		topic = TopicHotwordToggleOn
	}
	return topic, HotwordToggleMessage{SiteID: siteID}
}
