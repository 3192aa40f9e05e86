package face

import (
	"testing"

	"github.com/ItaloOlivier/ayonne-sub004/pkg/models"
)

func TestEvaluatePosition(t *testing.T) {
	const frameW, frameH = 1000.0, 1000.0

	testCases := []struct {
		name             string
		box              models.BoundingBox
		expectPositioned bool
		expectFeedback   string
	}{
		{
			name:             "Centered and well sized",
			box:              models.BoundingBox{X: 300, Y: 300, Width: 400, Height: 400},
			expectPositioned: true,
		},
		{
			name:           "Face too far right of center",
			box:            models.BoundingBox{X: 600, Y: 300, Width: 300, Height: 400},
			expectFeedback: "Move left",
		},
		{
			name:           "Face too far left of center",
			box:            models.BoundingBox{X: 100, Y: 300, Width: 300, Height: 400},
			expectFeedback: "Move right",
		},
		{
			name:           "Face too low",
			box:            models.BoundingBox{X: 300, Y: 600, Width: 400, Height: 300},
			expectFeedback: "Move up",
		},
		{
			name:           "Face too high",
			box:            models.BoundingBox{X: 300, Y: 100, Width: 400, Height: 300},
			expectFeedback: "Move down",
		},
		{
			name:           "Face too small",
			box:            models.BoundingBox{X: 450, Y: 450, Width: 100, Height: 100},
			expectFeedback: "Move closer",
		},
		{
			name:           "Face too large",
			box:            models.BoundingBox{X: 100, Y: 100, Width: 800, Height: 800},
			expectFeedback: "Move back",
		},
		{
			// Deviation of exactly 0.15 is still acceptable; the checks
			// are strict inequalities.
			name:             "Deviation at the boundary",
			box:              models.BoundingBox{X: 450, Y: 300, Width: 400, Height: 400},
			expectPositioned: true,
		},
		{
			// Area ratio of exactly 0.15 is acceptable.
			name:             "Area at the lower boundary",
			box:              models.BoundingBox{X: 250, Y: 350, Width: 500, Height: 300},
			expectPositioned: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			positioned, feedback := EvaluatePosition(tc.box, frameW, frameH)
			if positioned != tc.expectPositioned {
				t.Errorf("Expected positioned=%v, got %v (feedback %q)", tc.expectPositioned, positioned, feedback)
			}
			if feedback != tc.expectFeedback {
				t.Errorf("Expected feedback %q, got %q", tc.expectFeedback, feedback)
			}
		})
	}
}

// The checks run in a fixed order and only the first failure is reported.
// A face that is both off-center and too small gets the horizontal
// correction first.
func TestEvaluatePosition_FirstFailureWins(t *testing.T) {
	box := models.BoundingBox{X: 700, Y: 700, Width: 100, Height: 100}

	positioned, feedback := EvaluatePosition(box, 1000, 1000)

	if positioned {
		t.Fatal("Expected box to fail position checks")
	}
	if feedback != "Move left" {
		t.Errorf("Expected horizontal feedback to win, got %q", feedback)
	}
}

func TestEvaluatePosition_InvalidFrame(t *testing.T) {
	box := models.BoundingBox{X: 10, Y: 10, Width: 50, Height: 50}

	positioned, feedback := EvaluatePosition(box, 0, 0)

	if positioned || feedback != "" {
		t.Errorf("Expected silent rejection for zero frame, got %v %q", positioned, feedback)
	}
}
