package face

import (
	"github.com/ItaloOlivier/ayonne-sub004/pkg/models"
)

// Position policy thresholds, expressed as fractions of the frame.
const (
	maxCenterDeviation = 0.15
	minFaceAreaRatio   = 0.15
	maxFaceAreaRatio   = 0.50
)

// EvaluatePosition classifies whether a bounding box is centered and
// correctly sized within the frame. Checks run in a fixed order and the
// first failing check wins, so the caller gets exactly one piece of
// feedback at a time: horizontal offset, vertical offset, too small,
// too large.
func EvaluatePosition(box models.BoundingBox, frameWidth, frameHeight float64) (wellPositioned bool, feedback string) {
	if frameWidth <= 0 || frameHeight <= 0 {
		return false, ""
	}

	centerX := box.X + box.Width/2
	centerY := box.Y + box.Height/2
	xDeviation := (centerX - frameWidth/2) / frameWidth
	yDeviation := (centerY - frameHeight/2) / frameHeight
	areaRatio := (box.Width * box.Height) / (frameWidth * frameHeight)

	switch {
	case xDeviation > maxCenterDeviation:
		return false, "Move left"
	case xDeviation < -maxCenterDeviation:
		return false, "Move right"
	case yDeviation > maxCenterDeviation:
		return false, "Move up"
	case yDeviation < -maxCenterDeviation:
		return false, "Move down"
	case areaRatio < minFaceAreaRatio:
		return false, "Move closer"
	case areaRatio > maxFaceAreaRatio:
		return false, "Move back"
	}
	return true, ""
}
