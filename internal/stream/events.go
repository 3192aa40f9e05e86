package stream

import (
	"github.com/ItaloOlivier/ayonne-sub004/pkg/models"
)

// EventType discriminates the typed progress messages pushed to the client.
type EventType string

const (
	EventStatus    EventType = "status"
	EventPartial   EventType = "partial"
	EventCondition EventType = "condition"
	EventComplete  EventType = "complete"
	EventError     EventType = "error"
)

// Event is one progress message for a single analysis stream. Exactly one
// terminal event (complete or error) is emitted per stream, at most once.
type Event struct {
	Type       EventType             `json:"type"`
	Message    string                `json:"message,omitempty"`
	Field      string                `json:"field,omitempty"`
	Value      string                `json:"value,omitempty"`
	Condition  *models.SkinCondition `json:"condition,omitempty"`
	Analysis   *models.SkinAnalysis  `json:"analysis,omitempty"`
	AnalysisID string                `json:"analysis_id,omitempty"`
}

// Terminal reports whether the event ends its stream.
func (e Event) Terminal() bool {
	return e.Type == EventComplete || e.Type == EventError
}

// EmitFunc delivers one event to the push channel. A returned error stops
// further emission (the client is gone).
type EmitFunc func(Event) error
