package models

// FactorStatus is the qualitative tier of a single quality factor or of a
// whole assessment.
type FactorStatus string

const (
	StatusExcellent  FactorStatus = "excellent"
	StatusGood       FactorStatus = "good"
	StatusAcceptable FactorStatus = "acceptable"
	StatusPoor       FactorStatus = "poor"
)

// QualityFactor is the score of one quality dimension. Poor factors carry a
// directional corrective message ("Too dark", not just "bad brightness").
type QualityFactor struct {
	Score   float64      `json:"score"`
	Status  FactorStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// QualityFactors groups the five scored dimensions of an assessment.
type QualityFactors struct {
	Resolution   QualityFactor `json:"resolution"`
	Brightness   QualityFactor `json:"brightness"`
	Contrast     QualityFactor `json:"contrast"`
	Sharpness    QualityFactor `json:"sharpness"`
	ColorBalance QualityFactor `json:"color_balance"`
}

// ImageQualityAssessment is the full five-factor result computed once per
// still-frame submission. Score is the rounded weighted sum of the factor
// scores; PassesMinimum mirrors score >= 40.
type ImageQualityAssessment struct {
	Overall         FactorStatus   `json:"overall"`
	Score           int            `json:"score"`
	PassesMinimum   bool           `json:"passes_minimum"`
	Factors         QualityFactors `json:"factors"`
	Recommendations []string       `json:"recommendations,omitempty"`
}

// QuickQualityResult is the cheap per-frame approximation used for live
// feedback. It evaluates brightness and resolution only and is never used
// for the final accept/reject gate.
type QuickQualityResult struct {
	IsAcceptable bool    `json:"is_acceptable"`
	MainIssue    string  `json:"main_issue,omitempty"`
	Score        float64 `json:"score"`
}

// QualityTier is the presentation mapping of a score for UI display.
type QualityTier struct {
	Tier        FactorStatus `json:"tier"`
	Color       string       `json:"color"`
	Description string       `json:"description"`
}

// BoundingBox is a face bounding box in frame pixel coordinates.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FaceDetectionResult is transient per-tick UI guidance. Confidence is a
// monotonic ordering signal, not a calibrated probability.
type FaceDetectionResult struct {
	Detected         bool         `json:"detected"`
	Confidence       float64      `json:"confidence"`
	BoundingBox      *BoundingBox `json:"bounding_box,omitempty"`
	IsWellPositioned bool         `json:"is_well_positioned"`
	PositionFeedback string       `json:"position_feedback,omitempty"`
}
