package analyzer

import (
	"github.com/ItaloOlivier/ayonne-sub004/pkg/models"
)

// Scoring thresholds. Each scorer maps its raw statistic to a 0..100 score
// with the same policy: inside the ideal band scores 100, inside the wider
// acceptable band scores linearly between 60 and 100, outside the acceptable
// band scores linearly toward 0 and is tagged poor with a directional
// corrective message.
const (
	MinWidth    = 640
	MinHeight   = 640
	IdealWidth  = 1280
	IdealHeight = 1280

	MinBrightness      = 60.0
	MaxBrightness      = 200.0
	IdealBrightnessMin = 100.0
	IdealBrightnessMax = 160.0

	MinContrastStd   = 30.0
	IdealContrastStd = 50.0

	MinSharpness   = 100.0
	IdealSharpness = 500.0

	IdealColorDeviation = 15.0
	MaxColorDeviation   = 30.0
)

// statusForScore tags a non-poor score: the acceptable band splits into
// "good" and "acceptable" at 70, and only a full 100 is "excellent".
func statusForScore(score float64) models.FactorStatus {
	switch {
	case score >= 100:
		return models.StatusExcellent
	case score >= 70:
		return models.StatusGood
	default:
		return models.StatusAcceptable
	}
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ScoreResolution scores frame dimensions. The smaller dimension drives the
// interpolation inside the acceptable band.
func ScoreResolution(width, height int) models.QualityFactor {
	minDim := float64(width)
	if height < width {
		minDim = float64(height)
	}

	switch {
	case width >= IdealWidth && height >= IdealHeight:
		return models.QualityFactor{Score: 100, Status: models.StatusExcellent, Message: "Resolution is excellent"}
	case width >= MinWidth && height >= MinHeight:
		score := 60 + 40*(minDim-MinWidth)/(IdealWidth-MinWidth)
		score = clampScore(score)
		return models.QualityFactor{Score: score, Status: statusForScore(score), Message: "Resolution is adequate"}
	default:
		score := clampScore(60 * minDim / MinWidth)
		return models.QualityFactor{
			Score:   score,
			Status:  models.StatusPoor,
			Message: "Resolution too low - move closer or use a higher-resolution camera",
		}
	}
}

// ScoreBrightness scores mean luminance. Direction matters: too dark and
// overexposed produce different corrective messages.
func ScoreBrightness(mean float64) models.QualityFactor {
	switch {
	case mean >= IdealBrightnessMin && mean <= IdealBrightnessMax:
		return models.QualityFactor{Score: 100, Status: models.StatusExcellent, Message: "Lighting looks great"}
	case mean >= MinBrightness && mean < IdealBrightnessMin:
		score := 60 + 40*(mean-MinBrightness)/(IdealBrightnessMin-MinBrightness)
		return models.QualityFactor{Score: score, Status: statusForScore(score), Message: "Slightly dim lighting"}
	case mean > IdealBrightnessMax && mean <= MaxBrightness:
		score := 60 + 40*(MaxBrightness-mean)/(MaxBrightness-IdealBrightnessMax)
		return models.QualityFactor{Score: score, Status: statusForScore(score), Message: "Slightly bright lighting"}
	case mean < MinBrightness:
		score := clampScore(60 * mean / MinBrightness)
		return models.QualityFactor{Score: score, Status: models.StatusPoor, Message: "Too dark - add more light"}
	default:
		score := clampScore(60 * (255 - mean) / (255 - MaxBrightness))
		return models.QualityFactor{Score: score, Status: models.StatusPoor, Message: "Overexposed - reduce lighting or step away from direct light"}
	}
}

// ScoreContrast scores the luminance standard deviation.
func ScoreContrast(stddev float64) models.QualityFactor {
	switch {
	case stddev >= IdealContrastStd:
		return models.QualityFactor{Score: 100, Status: models.StatusExcellent, Message: "Contrast is excellent"}
	case stddev >= MinContrastStd:
		score := 60 + 40*(stddev-MinContrastStd)/(IdealContrastStd-MinContrastStd)
		return models.QualityFactor{Score: score, Status: statusForScore(score), Message: "Contrast is adequate"}
	default:
		score := clampScore(60 * stddev / MinContrastStd)
		return models.QualityFactor{Score: score, Status: models.StatusPoor, Message: "Low contrast - improve the lighting"}
	}
}

// ScoreSharpness scores the Laplacian response variance.
func ScoreSharpness(variance float64) models.QualityFactor {
	switch {
	case variance >= IdealSharpness:
		return models.QualityFactor{Score: 100, Status: models.StatusExcellent, Message: "Image is sharp"}
	case variance >= MinSharpness:
		score := 60 + 40*(variance-MinSharpness)/(IdealSharpness-MinSharpness)
		return models.QualityFactor{Score: score, Status: statusForScore(score), Message: "Sharpness is adequate"}
	default:
		score := clampScore(60 * variance / MinSharpness)
		return models.QualityFactor{Score: score, Status: models.StatusPoor, Message: "Image looks blurry - hold the camera steady and refocus"}
	}
}

// ScoreColorBalance scores the maximum deviation of any channel mean from
// the overall mean.
func ScoreColorBalance(deviation float64) models.QualityFactor {
	switch {
	case deviation <= IdealColorDeviation:
		return models.QualityFactor{Score: 100, Status: models.StatusExcellent, Message: "Color balance is natural"}
	case deviation <= MaxColorDeviation:
		score := 60 + 40*(MaxColorDeviation-deviation)/(MaxColorDeviation-IdealColorDeviation)
		return models.QualityFactor{Score: score, Status: statusForScore(score), Message: "Slight color cast"}
	default:
		score := clampScore(60 * (1 - (deviation-MaxColorDeviation)/MaxColorDeviation))
		return models.QualityFactor{Score: score, Status: models.StatusPoor, Message: "Strong color cast - use neutral, natural lighting"}
	}
}
