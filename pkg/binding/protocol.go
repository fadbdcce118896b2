package binding

import (
	"encoding/json"
	"errors"

	fberrors "github.com/vango-dev/formbind/internal/errors"
)

// Client message types.
const (
	TypeSet    = "set"
	TypeSubmit = "submit"
)

// Form fields accepted by a set message.
const (
	FieldEmail             = "email"
	FieldEmailConfirmation = "emailConfirmation"
	FieldTermsAccepted     = "termsAccepted"
)

// Server message types.
const (
	TypeReasons   = "reasons"
	TypeState     = "state"
	TypeCompleted = "completed"
	TypeFailed    = "failed"
	TypeRejected  = "rejected"
)

// ClientMessage is a message sent by the form.
type ClientMessage struct {
	Type  string          `json:"type"`
	Field string          `json:"field,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// ServerMessage is a message sent to the form.
//
//   - reasons: Reasons holds the label text.
//   - state: State and Enabled describe the submit button.
//   - completed: the last submission succeeded.
//   - failed: Code and Reason describe the submission failure.
//   - rejected: Code and Reason describe a message that was not applied.
type ServerMessage struct {
	Type    string  `json:"type"`
	Reasons *string `json:"reasons,omitempty"`
	State   string  `json:"state,omitempty"`
	Enabled *bool   `json:"enabled,omitempty"`
	Code    string  `json:"code,omitempty"`
	Reason  string  `json:"reason,omitempty"`
}

func reasonsMessage(text string) ServerMessage {
	return ServerMessage{Type: TypeReasons, Reasons: &text}
}

func stateMessage(state string, enabled bool) ServerMessage {
	return ServerMessage{Type: TypeState, State: state, Enabled: &enabled}
}

// errorMessage describes err for the form. Coded errors report their
// code and fixed reason.
func errorMessage(typ string, err error) ServerMessage {
	msg := ServerMessage{Type: typ, Reason: err.Error()}
	var fe *fberrors.Error
	if errors.As(err, &fe) {
		msg.Code = fe.Code
		msg.Reason = fe.Reason()
	}
	return msg
}
