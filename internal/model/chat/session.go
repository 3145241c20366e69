package chat

import "time"

// State is the visible state of the assistant widget.
type State string

const (
	StateClosed              State = "closed"
	StateOpenEmpty           State = "open-empty"
	StateOpenWithSuggestions State = "open-with-suggestions"
	StateOpenConversing      State = "open-conversing"
)

// Session captures a transient anonymous conversation.
type Session struct {
	ID                 string    `json:"id"`
	Open               bool      `json:"open"`
	SuggestionsVisible bool      `json:"suggestionsVisible"`
	CreatedAt          time.Time `json:"createdAt"`
}

// State derives the widget state from the session flags and transcript size.
func (s Session) State(turns int) State {
	switch {
	case !s.Open:
		return StateClosed
	case turns == 0:
		return StateOpenEmpty
	case s.SuggestionsVisible:
		return StateOpenWithSuggestions
	default:
		return StateOpenConversing
	}
}

// View is what a client needs to render the conversation.
type View struct {
	Session     Session  `json:"session"`
	State       State    `json:"state"`
	Suggestions []string `json:"suggestions,omitempty"`
	Turns       []Turn   `json:"turns"`
}
