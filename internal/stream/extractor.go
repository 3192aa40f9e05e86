package stream

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ItaloOlivier/ayonne-sub004/pkg/models"
)

// Token streams split structured content unpredictably across chunks, so the
// extractor re-scans the entire accumulated buffer on every chunk and
// deduplicates emissions instead of assuming any chunk boundary aligns with
// a field boundary.
var (
	skinTypePattern  = regexp.MustCompile(`"skinType"\s*:\s*"([^"]+)"`)
	conditionPattern = regexp.MustCompile(`\{[^{}]*?"id"\s*:\s*"([^"]+)"[^{}]*?"name"\s*:\s*"([^"]+)"[^{}]*?"confidence"\s*:\s*([0-9]*\.?[0-9]+)[^{}]*?\}`)
	fencePattern     = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
)

// Extractor incrementally turns a classifier token stream into typed
// progress events. State is per-stream: an accumulating buffer, the set of
// already-emitted condition ids, and whether the skin type has been emitted.
// It guarantees exactly one terminal event and none after it.
type Extractor struct {
	emit     EmitFunc
	fallback models.SkinAnalysis

	buf          strings.Builder
	emittedIDs   map[string]struct{}
	skinTypeSent bool
	terminal     bool
}

// NewExtractor creates an extractor that delivers events through emit and
// uses fallback when the stream cannot be parsed into a usable result.
func NewExtractor(emit EmitFunc, fallback models.SkinAnalysis) *Extractor {
	return &Extractor{
		emit:       emit,
		fallback:   fallback,
		emittedIDs: make(map[string]struct{}),
	}
}

// Feed appends one decoded chunk and emits any newly-visible structured
// fields: the skin type the first time the full field is present, and each
// condition object the first time its id appears. Conditions are emitted in
// first-appearance order and never re-emitted.
func (e *Extractor) Feed(chunk string) error {
	if e.terminal {
		return nil
	}
	e.buf.WriteString(chunk)
	accumulated := e.buf.String()

	if !e.skinTypeSent {
		if m := skinTypePattern.FindStringSubmatch(accumulated); m != nil {
			e.skinTypeSent = true
			if err := e.emit(Event{Type: EventPartial, Field: "skinType", Value: m[1]}); err != nil {
				return err
			}
		}
	}

	for _, m := range conditionPattern.FindAllStringSubmatch(accumulated, -1) {
		id := m[1]
		if _, seen := e.emittedIDs[id]; seen {
			continue
		}
		e.emittedIDs[id] = struct{}{}

		confidence, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			continue
		}
		cond := &models.SkinCondition{ID: id, Name: m[2], Confidence: confidence}
		if err := e.emit(Event{Type: EventCondition, Condition: cond}); err != nil {
			return err
		}
	}
	return nil
}

// Finish terminates the stream. When the upstream call succeeded and the
// accumulated buffer parses as a complete analysis, that analysis is
// emitted; otherwise the configured fallback is emitted, marked as such.
// Either way the stream ends with exactly one complete event. The returned
// flag reports whether the fallback was used.
func (e *Extractor) Finish(upstreamOK bool) (usedFallback bool, err error) {
	if e.terminal {
		return false, nil
	}
	e.terminal = true

	var analysis *models.SkinAnalysis
	if upstreamOK {
		if parsed, parseErr := ParseAnalysis(e.buf.String()); parseErr == nil {
			analysis = parsed
		}
	}
	if analysis == nil {
		usedFallback = true
		fb := e.fallback
		fb.Fallback = true
		analysis = &fb
	}

	return usedFallback, e.emit(Event{
		Type:       EventComplete,
		Analysis:   analysis,
		AnalysisID: uuid.NewString(),
	})
}

// Fail terminates the stream with an error event. Used only when even the
// fallback path cannot run (e.g. the push channel itself broke mid-way).
func (e *Extractor) Fail(message string) error {
	if e.terminal {
		return nil
	}
	e.terminal = true
	return e.emit(Event{Type: EventError, Message: message})
}

// Terminated reports whether a terminal event has been emitted.
func (e *Extractor) Terminated() bool { return e.terminal }

// ParseAnalysis strictly parses a full accumulated buffer as one analysis
// payload. Models wrap the JSON in a markdown fence more often than not, so
// the fence is stripped first; anything before the first brace or after the
// last is discarded.
func ParseAnalysis(raw string) (*models.SkinAnalysis, error) {
	body := raw
	if m := fencePattern.FindStringSubmatch(raw); m != nil {
		body = m[1]
	}

	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in buffer")
	}
	body = body[start : end+1]

	var analysis models.SkinAnalysis
	if err := json.Unmarshal([]byte(body), &analysis); err != nil {
		return nil, fmt.Errorf("parse analysis: %w", err)
	}
	if analysis.SkinType == "" {
		return nil, fmt.Errorf("analysis missing skin type")
	}
	return &analysis, nil
}
