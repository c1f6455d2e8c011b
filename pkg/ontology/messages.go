package ontology

// IntentMessage is published by the dialogue manager when an intent is
// recognised.
type IntentMessage struct {
	SessionID     string                 `json:"sessionId"`
	CustomData    string                 `json:"customData,omitempty"`
	SiteID        string                 `json:"siteId"`
	Input         string                 `json:"input"`
	Intent        IntentClassifierResult `json:"intent"`
	Slots         []Slot                 `json:"slots"`
	ASRConfidence float64                `json:"asrConfidence,omitempty"`
}

// IntentClassifierResult names the recognised intent.
type IntentClassifierResult struct {
	IntentName      string  `json:"intentName"`
	ConfidenceScore float64 `json:"confidenceScore"`
}

// Slot is a parsed parameter of an intent.
type Slot struct {
	SlotName        string         `json:"slotName"`
	Entity          string         `json:"entity"`
	RawValue        string         `json:"rawValue"`
	Value           map[string]any `json:"value"`
	Range           *SlotRange     `json:"range,omitempty"`
	ConfidenceScore float64        `json:"confidenceScore,omitempty"`
}

// SlotRange is the character range of a slot in the input.
type SlotRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// SlotValue returns the value of the first slot called name.
// The second result is false if there is no such slot.
func (m *IntentMessage) SlotValue(name string) (any, bool) {
	for _, slot := range m.Slots {
		if slot.SlotName == name {
			v, ok := slot.Value["value"]
			return v, ok
		}
	}
	return nil, false
}

// IntentNotRecognizedMessage is published when the dialogue manager could not
// match the input to an intent (only if the session asked for it).
type IntentNotRecognizedMessage struct {
	SessionID       string  `json:"sessionId"`
	CustomData      string  `json:"customData,omitempty"`
	SiteID          string  `json:"siteId"`
	Input           string  `json:"input,omitempty"`
	ConfidenceScore float64 `json:"confidenceScore,omitempty"`
}

// SessionStartedMessage is published when a dialogue session starts.
type SessionStartedMessage struct {
	SessionID                string `json:"sessionId"`
	CustomData               string `json:"customData,omitempty"`
	SiteID                   string `json:"siteId"`
	ReactivatedFromSessionID string `json:"reactivatedFromSessionId,omitempty"`
}

// SessionQueuedMessage is published when a session is queued behind a
// running one.
type SessionQueuedMessage struct {
	SessionID  string `json:"sessionId"`
	CustomData string `json:"customData,omitempty"`
	SiteID     string `json:"siteId"`
}

// SessionEndedMessage is published when a dialogue session ends.
type SessionEndedMessage struct {
	SessionID   string             `json:"sessionId"`
	CustomData  string             `json:"customData,omitempty"`
	SiteID      string             `json:"siteId"`
	Termination SessionTermination `json:"termination"`
}

// SessionTermination describes why a session ended.
type SessionTermination struct {
	Reason TerminationReason `json:"reason"`
	Error  string            `json:"error,omitempty"`
}

// TerminationReason is the reason a session ended.
type TerminationReason string

// Session termination reasons.
const (
	TerminationNominal             TerminationReason = "nominal"
	TerminationSiteUnavailable     TerminationReason = "siteUnavailable"
	TerminationAbortedByUser       TerminationReason = "abortedByUser"
	TerminationIntentNotRecognized TerminationReason = "intentNotRecognized"
	TerminationTimeout             TerminationReason = "timeout"
	TerminationError               TerminationReason = "error"
)
