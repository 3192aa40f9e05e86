package transport

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/ItaloOlivier/ayonne-sub004/internal/analyzer"
	"github.com/ItaloOlivier/ayonne-sub004/internal/config"
	apperrors "github.com/ItaloOlivier/ayonne-sub004/internal/errors"
	"github.com/ItaloOlivier/ayonne-sub004/internal/face"
	"github.com/ItaloOlivier/ayonne-sub004/internal/live"
	"github.com/ItaloOlivier/ayonne-sub004/internal/logger"
	"github.com/ItaloOlivier/ayonne-sub004/internal/observability"
	"github.com/ItaloOlivier/ayonne-sub004/internal/stream"
	"github.com/ItaloOlivier/ayonne-sub004/internal/upstream"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewHandler wires the HTTP surface: quality gating, the streaming analyze
// relay, the live WebSocket session, health and metrics.
func NewHandler(cfg *config.Config, locator face.Locator, classifier upstream.Classifier) http.Handler {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		cors.Default(),
		metricsMiddleware(),
		requestSizeLimiter(cfg.Server.MaxRequestBodySize),
	)

	r.GET("/healthz", healthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	v1.POST("/quality", assessQuality())
	v1.POST("/analyze", analyzeImage(cfg, classifier))
	v1.GET("/live", func(c *gin.Context) {
		live.ServeSession(c, locator, time.Duration(cfg.Live.FaceInterval), time.Duration(cfg.Live.QualityInterval))
	})

	return r
}

// assessQuality runs the full five-factor assessment over a submitted still
// frame. Callers block submission when passes_minimum is false.
func assessQuality() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, img, err := readImage(c)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "invalid image upload", err)
			return
		}

		assessment := analyzer.AssessImageQuality(analyzer.ToRGBA(img))
		observability.AssessmentsTotal.WithLabelValues(string(assessment.Overall)).Inc()

		c.JSON(http.StatusOK, gin.H{
			"assessment": assessment,
			"tier":       analyzer.QualityTierFor(assessment.Score),
		})
	}
}

// analyzeImage gates the submitted frame on quality, then relays the
// classifier token stream as typed SSE events. Every stream ends with
// exactly one complete or error event; upstream failures resolve through
// the fallback, never as a hard failure.
func analyzeImage(cfg *config.Config, classifier upstream.Classifier) gin.HandlerFunc {
	fallback := cfg.FallbackAnalysis()

	return func(c *gin.Context) {
		start := time.Now()

		raw, img, err := readImage(c)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "invalid image upload", err)
			return
		}

		assessment := analyzer.AssessImageQuality(analyzer.ToRGBA(img))
		observability.AssessmentsTotal.WithLabelValues(string(assessment.Overall)).Inc()
		if !assessment.PassesMinimum {
			logger.WithFields(logrus.Fields{
				"score": assessment.Score,
				"ip":    c.ClientIP(),
			}).Info("Submission rejected by quality gate")
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":      "image quality below minimum",
				"assessment": assessment,
			})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(cfg.Classifier.Timeout))
		defer cancel()

		header := c.Writer.Header()
		header.Set("Content-Type", "text/event-stream")
		header.Set("Cache-Control", "no-cache")
		header.Set("Connection", "keep-alive")
		header.Set("X-Accel-Buffering", "no")
		c.Writer.WriteHeader(http.StatusOK)

		emit := func(ev stream.Event) error {
			if err := c.Request.Context().Err(); err != nil {
				return err
			}
			if err := sse.Encode(c.Writer, sse.Event{Event: string(ev.Type), Data: ev}); err != nil {
				return err
			}
			c.Writer.Flush()
			observability.StreamEventsTotal.WithLabelValues(string(ev.Type)).Inc()
			return nil
		}

		extractor := stream.NewExtractor(emit, fallback)
		if err := emit(stream.Event{Type: stream.EventStatus, Message: "Analyzing your photo"}); err != nil {
			return
		}

		streamErr := classifier.StreamClassification(ctx, raw, extractor.Feed)

		if c.Request.Context().Err() != nil {
			// Client disconnected: the upstream read has been released and
			// no further events are attempted.
			logger.WithField("ip", c.ClientIP()).Info("Client disconnected during analysis")
			return
		}

		upstreamOK := streamErr == nil
		if !upstreamOK {
			logger.WithError(streamErr).Warn("Classification stream failed, resolving via fallback")
		}
		usedFallback, err := extractor.Finish(upstreamOK)
		if err != nil {
			logger.WithError(err).Debug("Terminal event write failed")
			return
		}
		if usedFallback {
			observability.FallbacksTotal.Inc()
		}
		observability.AnalysisDuration.Observe(time.Since(start).Seconds())
	}
}

// readImage pulls the multipart "image" part and decodes it. The raw bytes
// are kept for the upstream call so the image is not re-encoded.
func readImage(c *gin.Context) ([]byte, image.Image, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, nil, apperrors.NewValidationError("missing image file", err)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, nil, apperrors.NewValidationError("unreadable image file", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, apperrors.NewValidationError("unreadable image file", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, apperrors.NewValidationError("unsupported image format", err)
	}
	return raw, img, nil
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "available",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		observability.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
