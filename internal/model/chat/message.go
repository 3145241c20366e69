package chat

import "time"

// Sender identifies who authored a turn.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Turn is one entry of a conversation transcript.
type Turn struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Tier      string    `json:"tier,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
