package wire

import (
	"encoding/json"
	"errors"
	"strings"
)

// Inbound frame types sent by the Orlem backend.
const (
	TypeStatus     = "status"
	TypeInfo       = "info"
	TypeWarn       = "warn"
	TypeAnswer     = "answer"
	TypeSummary    = "summary"
	TypeDiarize    = "diarize"
	TypeEndSummary = "end_summary"
)

// Outbound command actions understood by the backend.
const (
	ActionSummarize = "summarize"
	ActionDiarize   = "diarize"
	ActionEnd       = "end"
	ActionSave      = "save"
)

// Outbound is one client frame. A frame carries either free text or one
// command action, never both; a hello frame carries only the session id.
type Outbound struct {
	Text      string `json:"text,omitempty"`
	Action    string `json:"action,omitempty"`
	SessionID string `json:"session_id"`
}

// Inbound is one server frame. Answer and SessionID are optional depending
// on the frame type.
type Inbound struct {
	Type      string `json:"type"`
	Answer    string `json:"answer,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// TextMessage builds an outbound user utterance frame.
func TextMessage(text string, sessionID string) Outbound {
	return Outbound{Text: text, SessionID: sessionID}
}

// Command builds an outbound action frame.
func Command(action string, sessionID string) Outbound {
	return Outbound{Action: action, SessionID: sessionID}
}

// Hello builds the session announcement sent as the first frame after a
// connection opens.
func Hello(sessionID string) Outbound {
	return Outbound{SessionID: sessionID}
}

// Encode serializes an outbound frame, rejecting the ambiguous shape that
// carries both text and an action.
func (o Outbound) Encode() ([]byte, error) {
	if o.Text != "" && o.Action != "" {
		return nil, errors.New("outbound frame cannot carry both text and action")
	}
	if o.Action != "" && !KnownAction(o.Action) {
		return nil, errors.New("unknown outbound action " + o.Action)
	}

	return json.Marshal(o)
}

// Decode parses a raw inbound frame. The second return value is false when
// the payload is not a structured frame; callers fall back to treating the
// raw bytes as plain assistant text.
func Decode(raw []byte) (Inbound, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "{") {
		return Inbound{}, false
	}

	var frame Inbound
	if err := json.Unmarshal([]byte(trimmed), &frame); err != nil {
		return Inbound{}, false
	}

	return frame, true
}

// KnownType reports whether an inbound frame type is part of the protocol.
// Unknown types are tolerated and dropped by the classifier.
func KnownType(frameType string) bool {
	switch frameType {
	case TypeStatus, TypeInfo, TypeWarn, TypeAnswer, TypeSummary, TypeDiarize, TypeEndSummary:
		return true
	default:
		return false
	}
}

// KnownAction reports whether an outbound action is part of the protocol.
func KnownAction(action string) bool {
	switch action {
	case ActionSummarize, ActionDiarize, ActionEnd, ActionSave:
		return true
	default:
		return false
	}
}
