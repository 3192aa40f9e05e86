package face

import (
	"context"
	"image"
	"image/color"

	"github.com/ItaloOlivier/ayonne-sub004/pkg/models"
)

// Heuristic tuning. The rules below are a coarse presence heuristic tuned
// for webcam lighting, not identity or landmark detection.
const (
	sampleSize         = 160
	windowStartFrac    = 0.30
	windowEndFrac      = 0.70
	detectSkinRatio    = 0.30
	positionedRatio    = 0.40
	confidenceRatioMul = 2.0
)

// SkinRule classifies a single pixel as skin-like. The default rule set is a
// replaceable policy: callers with different capture conditions can supply
// their own rules.
type SkinRule func(r, g, b uint8) bool

// DefaultSkinRules returns the three stock rules, combined by logical OR:
// a general RGB rule, an RGB rule tuned for darker skin tones, and a
// YCbCr-space rule.
func DefaultSkinRules() []SkinRule {
	return []SkinRule{
		func(r, g, b uint8) bool {
			return r > 95 && g > 40 && b > 20 &&
				r > g && r > b && int(r)-int(g) > 15
		},
		func(r, g, b uint8) bool {
			return r > 60 && g > 30 && b > 15 &&
				r > g && r > b && int(r)-int(g) > 5 && int(r)-int(b) > 10
		},
		func(r, g, b uint8) bool {
			y, cb, cr := color.RGBToYCbCr(r, g, b)
			return y > 80 && cb > 77 && cb < 127 && cr > 133 && cr < 173
		},
	}
}

// HeuristicLocator estimates face presence from the fraction of skin-like
// pixels in the central region of a downsampled frame.
type HeuristicLocator struct {
	rules []SkinRule
}

// NewHeuristicLocator creates the fallback locator. Passing nil rules uses
// the default rule set.
func NewHeuristicLocator(rules []SkinRule) *HeuristicLocator {
	if len(rules) == 0 {
		rules = DefaultSkinRules()
	}
	return &HeuristicLocator{rules: rules}
}

func (l *HeuristicLocator) Name() string { return "heuristic" }

// Detect samples the central 40%x40% window of a 160x160 downsample and
// classifies each pixel with the rule set. A skin ratio above 0.30 counts as
// detected with confidence min(1, ratio*2); above 0.40 the face is also
// considered well positioned.
func (l *HeuristicLocator) Detect(_ context.Context, frame *image.RGBA) (models.FaceDetectionResult, error) {
	bounds := frame.Bounds()
	frameW, frameH := bounds.Dx(), bounds.Dy()
	if frameW == 0 || frameH == 0 {
		return models.FaceDetectionResult{}, nil
	}

	// Central 40%x40% window of the downsample, in integer sample
	// coordinates.
	start := sampleSize * 3 / 10
	end := sampleSize * 7 / 10

	var skin, total int
	for sy := start; sy < end; sy++ {
		// Nearest-neighbor downsample: map sample coordinates back into the
		// full-resolution frame.
		y := sy * frameH / sampleSize
		for sx := start; sx < end; sx++ {
			x := sx * frameW / sampleSize
			off := y*frame.Stride + x*4
			r, g, b := frame.Pix[off], frame.Pix[off+1], frame.Pix[off+2]
			total++
			if l.isSkin(r, g, b) {
				skin++
			}
		}
	}

	if total == 0 {
		return models.FaceDetectionResult{}, nil
	}

	ratio := float64(skin) / float64(total)
	if ratio <= detectSkinRatio {
		return models.FaceDetectionResult{}, nil
	}

	confidence := ratio * confidenceRatioMul
	if confidence > 1 {
		confidence = 1
	}

	// Estimated box: the sampled central window mapped to frame coordinates.
	box := &models.BoundingBox{
		X:      windowStartFrac * float64(frameW),
		Y:      windowStartFrac * float64(frameH),
		Width:  (windowEndFrac - windowStartFrac) * float64(frameW),
		Height: (windowEndFrac - windowStartFrac) * float64(frameH),
	}

	result := models.FaceDetectionResult{
		Detected:    true,
		Confidence:  confidence,
		BoundingBox: box,
	}
	if ratio > positionedRatio {
		result.IsWellPositioned = true
	} else {
		result.PositionFeedback = "Move closer"
	}
	return result, nil
}

func (l *HeuristicLocator) isSkin(r, g, b uint8) bool {
	for _, rule := range l.rules {
		if rule(r, g, b) {
			return true
		}
	}
	return false
}
