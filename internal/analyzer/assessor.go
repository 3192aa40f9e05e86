package analyzer

import (
	"image"
	"math"

	"github.com/ItaloOlivier/ayonne-sub004/pkg/models"
)

// Factor weights for the overall score. They sum to 1.0; sharpness carries
// the most weight because blur is the defect the downstream classifier
// tolerates worst.
const (
	WeightResolution   = 0.15
	WeightBrightness   = 0.25
	WeightContrast     = 0.15
	WeightSharpness    = 0.30
	WeightColorBalance = 0.15
)

// MinPassingScore is the submission gate. Live feedback and final gating use
// the same cutoff so they never disagree about the pass/fail boundary.
const MinPassingScore = 40

// maxQuickSamples bounds the pixel count scanned by QuickQualityCheck so it
// stays cheap at interactive frame rates.
const maxQuickSamples = 10000

// AssessImageQuality runs all five scorers over the full pixel buffer and
// combines them into a weighted assessment. Pure and deterministic: identical
// buffers always produce identical assessments.
func AssessImageQuality(img *image.RGBA) models.ImageQualityAssessment {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	lumMean, lumStd := LuminanceStats(img)
	rMean, gMean, bMean := ChannelMeans(img)
	overallMean := (rMean + gMean + bMean) / 3
	deviation := math.Max(math.Abs(rMean-overallMean),
		math.Max(math.Abs(gMean-overallMean), math.Abs(bMean-overallMean)))

	factors := models.QualityFactors{
		Resolution:   ScoreResolution(width, height),
		Brightness:   ScoreBrightness(lumMean),
		Contrast:     ScoreContrast(lumStd),
		Sharpness:    ScoreSharpness(LaplacianVariance(img)),
		ColorBalance: ScoreColorBalance(deviation),
	}

	weighted := WeightResolution*factors.Resolution.Score +
		WeightBrightness*factors.Brightness.Score +
		WeightContrast*factors.Contrast.Score +
		WeightSharpness*factors.Sharpness.Score +
		WeightColorBalance*factors.ColorBalance.Score
	score := int(math.Round(weighted))

	overall := tierForScore(score)
	recommendations := collectRecommendations(factors)
	if overall == models.StatusPoor && len(recommendations) == 0 {
		// Defensive branch: a poor overall should always come with guidance.
		recommendations = append(recommendations, "Photo quality is too low to analyze. Please retake the photo.")
	}

	return models.ImageQualityAssessment{
		Overall:         overall,
		Score:           score,
		PassesMinimum:   score >= MinPassingScore,
		Factors:         factors,
		Recommendations: recommendations,
	}
}

// collectRecommendations surfaces one corrective message per poor factor.
// The poor messages are directional by construction, so they double as
// actionable recommendations.
func collectRecommendations(factors models.QualityFactors) []string {
	var out []string
	for _, f := range []models.QualityFactor{
		factors.Resolution,
		factors.Brightness,
		factors.Contrast,
		factors.Sharpness,
		factors.ColorBalance,
	} {
		if f.Status == models.StatusPoor && f.Message != "" {
			out = append(out, f.Message)
		}
	}
	return out
}

// QuickQualityCheck is the cheap per-frame sibling of AssessImageQuality.
// It samples at most maxQuickSamples pixels at a fixed stride and evaluates
// brightness and resolution only. IsAcceptable uses the same 40 cutoff as
// the full assessor.
func QuickQualityCheck(img *image.RGBA) models.QuickQualityResult {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	total := width * height
	if total == 0 {
		return models.QuickQualityResult{IsAcceptable: false, MainIssue: "No image data", Score: 0}
	}

	step := total / maxQuickSamples
	if step < 1 {
		step = 1
	}

	var sum float64
	var count int
	for i := 0; i < total; i += step {
		x, y := i%width, i/width
		off := y*img.Stride + x*4
		sum += Luminance(float64(img.Pix[off]), float64(img.Pix[off+1]), float64(img.Pix[off+2]))
		count++
	}
	mean := sum / float64(count)

	brightness := ScoreBrightness(mean)
	resolution := ScoreResolution(width, height)

	// Same relative weights as the full assessor, renormalized to the two
	// factors evaluated here.
	score := (WeightBrightness*brightness.Score + WeightResolution*resolution.Score) /
		(WeightBrightness + WeightResolution)

	mainIssue := ""
	switch {
	case brightness.Status == models.StatusPoor && resolution.Status == models.StatusPoor:
		mainIssue = brightness.Message
		if resolution.Score < brightness.Score {
			mainIssue = resolution.Message
		}
	case brightness.Status == models.StatusPoor:
		mainIssue = brightness.Message
	case resolution.Status == models.StatusPoor:
		mainIssue = resolution.Message
	}

	return models.QuickQualityResult{
		IsAcceptable: score >= MinPassingScore,
		MainIssue:    mainIssue,
		Score:        score,
	}
}

func tierForScore(score int) models.FactorStatus {
	switch {
	case score >= 85:
		return models.StatusExcellent
	case score >= 70:
		return models.StatusGood
	case score >= MinPassingScore:
		return models.StatusAcceptable
	default:
		return models.StatusPoor
	}
}

// QualityTierFor maps a score to its presentation tier. The boundaries match
// AssessImageQuality's overall field exactly so live and final feedback stay
// visually consistent.
func QualityTierFor(score int) models.QualityTier {
	switch tierForScore(score) {
	case models.StatusExcellent:
		return models.QualityTier{Tier: models.StatusExcellent, Color: "#22c55e", Description: "Excellent photo quality"}
	case models.StatusGood:
		return models.QualityTier{Tier: models.StatusGood, Color: "#84cc16", Description: "Good photo quality"}
	case models.StatusAcceptable:
		return models.QualityTier{Tier: models.StatusAcceptable, Color: "#eab308", Description: "Acceptable photo quality"}
	default:
		return models.QualityTier{Tier: models.StatusPoor, Color: "#ef4444", Description: "Poor photo quality - retake recommended"}
	}
}
