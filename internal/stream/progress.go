package stream

import (
	"github.com/ItaloOlivier/ayonne-sub004/pkg/models"
)

// ProgressState accumulates the event sequence of one analysis stream on the
// consumer side. Conditions are append-only and deduplicated by id; the
// state is terminal once complete or an error is set, and later events are
// ignored.
type ProgressState struct {
	Status     string                 `json:"status"`
	SkinType   string                 `json:"skin_type,omitempty"`
	Conditions []models.SkinCondition `json:"conditions"`
	Complete   bool                   `json:"complete"`
	Error      string                 `json:"error,omitempty"`
	AnalysisID string                 `json:"analysis_id,omitempty"`
	Analysis   *models.SkinAnalysis   `json:"analysis,omitempty"`

	seen map[string]struct{}
}

// NewProgressState returns an empty, non-terminal state.
func NewProgressState() *ProgressState {
	return &ProgressState{seen: make(map[string]struct{})}
}

// Terminal reports whether the stream has ended.
func (s *ProgressState) Terminal() bool {
	return s.Complete || s.Error != ""
}

// Apply folds one event into the state.
func (s *ProgressState) Apply(ev Event) {
	if s.Terminal() {
		return
	}
	switch ev.Type {
	case EventStatus:
		s.Status = ev.Message
	case EventPartial:
		if ev.Field == "skinType" && s.SkinType == "" {
			s.SkinType = ev.Value
		}
	case EventCondition:
		if ev.Condition == nil {
			return
		}
		if _, dup := s.seen[ev.Condition.ID]; dup {
			return
		}
		s.seen[ev.Condition.ID] = struct{}{}
		s.Conditions = append(s.Conditions, *ev.Condition)
	case EventComplete:
		s.Complete = true
		s.Analysis = ev.Analysis
		s.AnalysisID = ev.AnalysisID
		if ev.Analysis != nil && s.SkinType == "" {
			s.SkinType = ev.Analysis.SkinType
		}
	case EventError:
		s.Error = ev.Message
	}
}
