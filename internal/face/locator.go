package face

import (
	"context"
	"image"

	"github.com/ItaloOlivier/ayonne-sub004/internal/logger"
	"github.com/ItaloOlivier/ayonne-sub004/pkg/models"
)

// Locator finds a face in a frame and judges its position. Implementations
// are best-effort: a frame with no detectable face is a normal result, not
// an error.
type Locator interface {
	Detect(ctx context.Context, frame *image.RGBA) (models.FaceDetectionResult, error)
	Name() string
}

// Select probes the remote detector once at startup and falls back to the
// skin-tone heuristic when the capability is absent or unhealthy. The choice
// is made once, not per call.
func Select(ctx context.Context, remote *RemoteLocator) Locator {
	if remote != nil {
		if err := remote.Probe(ctx); err == nil {
			logger.WithField("locator", remote.Name()).Info("Face detector capability available")
			return remote
		} else {
			logger.WithError(err).Warn("Face detector probe failed, using heuristic locator")
		}
	}
	return NewHeuristicLocator(nil)
}
