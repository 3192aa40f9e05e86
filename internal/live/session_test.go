package live

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ItaloOlivier/ayonne-sub004/internal/face"
	"github.com/ItaloOlivier/ayonne-sub004/pkg/models"
)

func liveTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	locator := face.NewHeuristicLocator(nil)
	r.GET("/live", func(c *gin.Context) {
		ServeSession(c, locator, 10*time.Millisecond, 10*time.Millisecond)
	})
	return httptest.NewServer(r)
}

func pngFrame(t *testing.T, width, height int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Encode frame: %v", err)
	}
	return buf.Bytes()
}

func TestServeSession_PushesFeedback(t *testing.T) {
	server := liveTestServer(t)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	// A malformed frame must be skipped without killing the session.
	if err := conn.WriteMessage(websocket.BinaryMessage, []byte("not an image")); err != nil {
		t.Fatalf("Write malformed frame: %v", err)
	}

	frame := pngFrame(t, 160, 160, color.RGBA{10, 10, 10, 255})
	if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		t.Fatalf("Write frame: %v", err)
	}

	var sawFace, sawQuality bool
	deadline := time.Now().Add(3 * time.Second)
	for (!sawFace || !sawQuality) && time.Now().Before(deadline) {
		conn.SetReadDeadline(deadline)

		var msg struct {
			Type    string                      `json:"type"`
			Face    *models.FaceDetectionResult `json:"face"`
			Quality *models.QuickQualityResult  `json:"quality"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("Read feedback: %v", err)
		}

		switch msg.Type {
		case "face":
			sawFace = true
			if msg.Face == nil {
				t.Error("Face message missing payload")
			}
		case "quality":
			sawQuality = true
			if msg.Quality == nil {
				t.Error("Quality message missing payload")
			} else if msg.Quality.IsAcceptable {
				// A dark 160x160 frame fails on both brightness and
				// resolution.
				t.Errorf("Dark tiny frame should not be acceptable: %+v", msg.Quality)
			}
		default:
			t.Errorf("Unknown feedback type %q", msg.Type)
		}
	}

	if !sawFace || !sawQuality {
		t.Errorf("Expected both feedback kinds, got face=%v quality=%v", sawFace, sawQuality)
	}
}

func TestServeSession_NoFeedbackBeforeFirstFrame(t *testing.T) {
	server := liveTestServer(t)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	// No frame sent: the loops skip every tick and nothing is pushed.
	conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected no feedback before the first frame")
	}
}
