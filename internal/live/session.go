package live

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ItaloOlivier/ayonne-sub004/internal/analyzer"
	"github.com/ItaloOlivier/ayonne-sub004/internal/face"
	"github.com/ItaloOlivier/ayonne-sub004/internal/logger"
	"github.com/ItaloOlivier/ayonne-sub004/internal/observability"
	"github.com/ItaloOlivier/ayonne-sub004/pkg/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  64 * 1024,
	WriteBufferSize: 4 * 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// feedbackMessage is one live-feedback push to the capture UI.
type feedbackMessage struct {
	Type    string                      `json:"type"`
	Face    *models.FaceDetectionResult `json:"face,omitempty"`
	Quality *models.QuickQualityResult  `json:"quality,omitempty"`
}

// Session is one live capture session over a WebSocket. The client pushes
// binary frames; two independent detection loops sample the latest frame
// (face position and quick quality, at their own cadences) and push
// feedback messages back. The loops never mutate shared state beyond the
// read-only latest frame.
type Session struct {
	conn    *websocket.Conn
	locator face.Locator

	frameMu sync.RWMutex
	frame   *image.RGBA

	writeMu sync.Mutex
}

// ServeSession upgrades the request and runs the session until the client
// disconnects.
func ServeSession(c *gin.Context, locator face.Locator, faceInterval, qualityInterval time.Duration) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithError(err).Error("Live session upgrade failed")
		return
	}

	observability.LiveSessions.Inc()
	defer observability.LiveSessions.Dec()

	s := &Session{conn: conn, locator: locator}

	faceLoop := NewDetectionLoop(s, faceInterval, s.faceTick)
	qualityLoop := NewDetectionLoop(s, qualityInterval, s.qualityTick)
	faceLoop.Start()
	qualityLoop.Start()

	// Read pump: decode incoming frames, detect disconnect.
	s.readFrames()

	faceLoop.Stop()
	qualityLoop.Stop()
	conn.Close()
}

// Frame implements FrameSource. Ready only once the first frame has decoded.
func (s *Session) Frame() (*image.RGBA, bool) {
	s.frameMu.RLock()
	defer s.frameMu.RUnlock()
	return s.frame, s.frame != nil
}

func (s *Session) readFrames() {
	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			// A partial or malformed frame is skipped, not fatal.
			logger.WithError(err).Debug("Dropping undecodable frame")
			continue
		}
		rgba := analyzer.ToRGBA(img)
		s.frameMu.Lock()
		s.frame = rgba
		s.frameMu.Unlock()
	}
}

func (s *Session) faceTick(frame *image.RGBA) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultFaceInterval)
	defer cancel()

	result, err := s.locator.Detect(ctx, frame)
	if err != nil {
		// Best-effort: a failed detection tick produces no feedback.
		logger.WithError(err).Debug("Face detection tick failed")
		return
	}
	observability.FaceDetections.WithLabelValues(s.locator.Name(), boolLabel(result.Detected)).Inc()
	s.send(feedbackMessage{Type: "face", Face: &result})
}

func (s *Session) qualityTick(frame *image.RGBA) {
	result := analyzer.QuickQualityCheck(frame)
	observability.QuickChecksTotal.Inc()
	s.send(feedbackMessage{Type: "quality", Quality: &result})
}

func (s *Session) send(msg feedbackMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(msg); err != nil {
		logger.WithError(err).Debug("Live feedback write failed")
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
