package upstream

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ItaloOlivier/ayonne-sub004/internal/logger"
)

// ErrUpstreamStatus marks a classification call that failed before any
// streaming began. Callers route it to the fallback path instead of
// propagating a hard failure.
var ErrUpstreamStatus = errors.New("upstream returned non-success status")

// ChunkFunc receives each decoded text chunk in stream order.
type ChunkFunc func(text string) error

// Classifier is the boundary to the external classification stream.
type Classifier interface {
	StreamClassification(ctx context.Context, imageData []byte, onChunk ChunkFunc) error
}

// Client streams a classification call over the provider's SSE framing.
// The wire format is external: JSON envelopes with a type discriminator
// ("delta" carrying text, "done" ending the stream). The client parses it
// defensively; unknown envelope types are ignored and undecodable payloads
// are forwarded as plain text.
type Client struct {
	endpoint string
	model    string
	apiKey   string
	http     *http.Client
}

type streamRequest struct {
	Model  string `json:"model"`
	Image  string `json:"image"`
	Stream bool   `json:"stream"`
}

type streamEnvelope struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// NewClient creates a streaming classifier client. The http.Client carries
// no overall timeout because the response is long-lived; callers bound the
// call with their context.
func NewClient(endpoint, model, apiKey string) *Client {
	transport := &http.Transport{
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
	}
	return &Client{
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		http:     &http.Client{Transport: transport},
	}
}

// StreamClassification opens the call and forwards decoded text chunks to
// onChunk until the stream ends, the context is canceled, or onChunk
// returns an error. Context cancellation stops the read and releases the
// response body.
func (c *Client) StreamClassification(ctx context.Context, imageData []byte, onChunk ChunkFunc) error {
	payload, err := json.Marshal(streamRequest{
		Model:  c.model,
		Image:  base64.StdEncoding.EncodeToString(imageData),
		Stream: true,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("classification call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}
		if payload == "[DONE]" {
			return nil
		}

		var env streamEnvelope
		if err := json.Unmarshal([]byte(payload), &env); err != nil {
			// Not an envelope we know; forward the raw payload as text.
			if err := onChunk(payload); err != nil {
				return err
			}
			continue
		}

		switch env.Type {
		case "delta":
			if env.Text == "" {
				continue
			}
			if err := onChunk(env.Text); err != nil {
				return err
			}
		case "done":
			return nil
		default:
			logger.WithField("event_type", env.Type).Debug("Ignoring unknown stream envelope")
		}
	}
	return scanner.Err()
}
