package client

import (
	"time"

	"orlem/pkg/channel"
	"orlem/pkg/panels"
)

// EventType discriminates UI events published on the client feed.
type EventType string

const (
	// EventChatLine is one line appended to the chat timeline.
	EventChatLine EventType = "chat_line"
	// EventPanelEntry is one fragment appended to a side panel.
	EventPanelEntry EventType = "panel_entry"
	// EventConnState reports a realtime channel transition.
	EventConnState EventType = "conn_state"
	// EventSessionID reports the adopted session identifier.
	EventSessionID EventType = "session_id"
	// EventMicState reports capture start/stop.
	EventMicState EventType = "mic_state"
)

// Role attributes a chat line.
type Role string

const (
	RoleUser   Role = "user"
	RoleOrlem  Role = "orlem"
	RoleSystem Role = "system"
)

// Event is one UI-facing occurrence. Fields beyond Type/At are populated
// per event type.
type Event struct {
	Type EventType
	At   time.Time

	// EventChatLine
	Role Role
	Text string

	// EventPanelEntry
	List       panels.List
	CountLabel string

	// EventConnState
	ChannelState channel.State
	Connected    bool

	// EventSessionID
	SessionID string

	// EventMicState
	Recording bool
}
