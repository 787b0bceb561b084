package models

// Speaker labels for conversation turns.
const (
	SpeakerUser = "user"
	SpeakerBot  = "bot"
)

// Turn is one (speaker, text) pair in the transcript.
type Turn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// ProductRef identifies a previously resolved catalog item.
type ProductRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OrderLine is one cart entry accumulated before email capture.
type OrderLine struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// ConversationState is the session-scoped context the orchestrator
// carries across turns. The zero value is the documented default for a
// fresh session.
type ConversationState struct {
	LastProduct       *ProductRef `json:"lastProduct,omitempty"`
	LastCategory      string      `json:"lastCategory,omitempty"`
	AwaitingEmail     bool        `json:"awaitingEmail"`
	PendingOrderItems []OrderLine `json:"pendingOrderItems,omitempty"`
}

// ResetOrder clears the order-capture sub-flow.
func (s *ConversationState) ResetOrder() {
	s.AwaitingEmail = false
	s.PendingOrderItems = nil
}
