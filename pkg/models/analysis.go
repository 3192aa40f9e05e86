package models

// SkinCondition is one detected condition from the classifier stream.
// JSON keys mirror the classifier's wire format (camelCase).
type SkinCondition struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description,omitempty"`
}

// SkinAnalysis is the final classification payload, either parsed from the
// upstream stream or produced by the deterministic fallback. Fallback is the
// marker that distinguishes degraded-mode results.
type SkinAnalysis struct {
	SkinType   string          `json:"skinType"`
	Conditions []SkinCondition `json:"conditions"`
	Summary    string          `json:"summary,omitempty"`
	Fallback   bool            `json:"fallback,omitempty"`
}
