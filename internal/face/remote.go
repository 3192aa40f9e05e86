package face

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"time"

	"github.com/ItaloOlivier/ayonne-sub004/pkg/models"
)

// RemoteLocator calls an external face-detection sidecar. It is the
// "platform capability" path: preferred when the sidecar is configured and
// healthy, otherwise the heuristic locator takes over.
type RemoteLocator struct {
	baseURL string
	client  *http.Client
}

type remoteDetection struct {
	Detected    bool    `json:"detected"`
	Confidence  float64 `json:"confidence"`
	BoundingBox *struct {
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	} `json:"bounding_box"`
}

// NewRemoteLocator creates a locator for the given sidecar base URL.
func NewRemoteLocator(baseURL string) *RemoteLocator {
	transport := &http.Transport{
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 5 * time.Second,
	}
	return &RemoteLocator{
		baseURL: baseURL,
		client: &http.Client{
			Transport: transport,
			Timeout:   10 * time.Second,
		},
	}
}

func (l *RemoteLocator) Name() string { return "remote" }

// Probe checks the sidecar health endpoint. Used once at startup to decide
// whether the capability exists.
func (l *RemoteLocator) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("face detector unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("face detector unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// Detect sends the frame as JPEG and maps the sidecar's bounding box through
// the shared position policy.
func (l *RemoteLocator) Detect(ctx context.Context, frame *image.RGBA) (models.FaceDetectionResult, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: 80}); err != nil {
		return models.FaceDetectionResult{}, fmt.Errorf("encode frame: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/detect", &buf)
	if err != nil {
		return models.FaceDetectionResult{}, err
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := l.client.Do(req)
	if err != nil {
		return models.FaceDetectionResult{}, fmt.Errorf("face detector request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return models.FaceDetectionResult{}, fmt.Errorf("face detector: status %d", resp.StatusCode)
	}

	var det remoteDetection
	if err := json.NewDecoder(resp.Body).Decode(&det); err != nil {
		return models.FaceDetectionResult{}, fmt.Errorf("decode detection: %w", err)
	}

	if !det.Detected || det.BoundingBox == nil {
		return models.FaceDetectionResult{}, nil
	}

	box := models.BoundingBox{
		X:      det.BoundingBox.X,
		Y:      det.BoundingBox.Y,
		Width:  det.BoundingBox.Width,
		Height: det.BoundingBox.Height,
	}
	bounds := frame.Bounds()
	well, feedback := EvaluatePosition(box, float64(bounds.Dx()), float64(bounds.Dy()))

	return models.FaceDetectionResult{
		Detected:         true,
		Confidence:       det.Confidence,
		BoundingBox:      &box,
		IsWellPositioned: well,
		PositionFeedback: feedback,
	}, nil
}
