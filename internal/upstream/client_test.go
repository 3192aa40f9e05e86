package upstream

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func sseServer(t *testing.T, lines []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, line := range lines {
			fmt.Fprintf(w, "%s\n", line)
			flusher.Flush()
		}
	}))
}

func collectChunks(t *testing.T, server *httptest.Server, image []byte) ([]string, error) {
	t.Helper()
	client := NewClient(server.URL, "skin-classifier-v2", "test-key")

	var chunks []string
	err := client.StreamClassification(context.Background(), image, func(text string) error {
		chunks = append(chunks, text)
		return nil
	})
	return chunks, err
}

func TestStreamClassification_DeltaChunks(t *testing.T) {
	server := sseServer(t, []string{
		`data: {"type":"delta","text":"{\"skinType\":"}`,
		``,
		`data: {"type":"delta","text":"\"oily\"}"}`,
		`data: {"type":"done"}`,
	})
	defer server.Close()

	chunks, err := collectChunks(t, server, []byte("fake-jpeg"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d: %v", len(chunks), chunks)
	}
	if joined := strings.Join(chunks, ""); joined != `{"skinType":"oily"}` {
		t.Errorf("Unexpected reassembled payload: %q", joined)
	}
}

func TestStreamClassification_DoneSentinel(t *testing.T) {
	server := sseServer(t, []string{
		`data: {"type":"delta","text":"hello"}`,
		`data: [DONE]`,
		`data: {"type":"delta","text":"after done"}`,
	})
	defer server.Close()

	chunks, err := collectChunks(t, server, []byte("x"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(chunks) != 1 || chunks[0] != "hello" {
		t.Errorf("Expected stream to stop at [DONE], got %v", chunks)
	}
}

func TestStreamClassification_UnknownEnvelopesIgnored(t *testing.T) {
	server := sseServer(t, []string{
		`data: {"type":"ping"}`,
		`data: {"type":"delta","text":"kept"}`,
		`data: {"type":"usage","tokens":12}`,
		`data: {"type":"done"}`,
	})
	defer server.Close()

	chunks, err := collectChunks(t, server, []byte("x"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(chunks) != 1 || chunks[0] != "kept" {
		t.Errorf("Expected unknown envelopes to be dropped, got %v", chunks)
	}
}

func TestStreamClassification_MalformedPayloadForwardedAsText(t *testing.T) {
	server := sseServer(t, []string{
		`data: this is not json`,
		`data: {"type":"done"}`,
	})
	defer server.Close()

	chunks, err := collectChunks(t, server, []byte("x"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(chunks) != 1 || chunks[0] != "this is not json" {
		t.Errorf("Expected raw payload forwarded as text, got %v", chunks)
	}
}

func TestStreamClassification_NonDataLinesSkipped(t *testing.T) {
	server := sseServer(t, []string{
		`: heartbeat comment`,
		`event: message`,
		`data: {"type":"delta","text":"only this"}`,
		`data: {"type":"done"}`,
	})
	defer server.Close()

	chunks, err := collectChunks(t, server, []byte("x"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(chunks) != 1 || chunks[0] != "only this" {
		t.Errorf("Expected non-data lines ignored, got %v", chunks)
	}
}

func TestStreamClassification_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "skin-classifier-v2", "")
	err := client.StreamClassification(context.Background(), []byte("x"), func(string) error {
		t.Error("No chunks expected on a failed call")
		return nil
	})

	if !errors.Is(err, ErrUpstreamStatus) {
		t.Errorf("Expected ErrUpstreamStatus, got %v", err)
	}
}

func TestStreamClassification_RequestShape(t *testing.T) {
	var got streamRequest
	var auth, accept string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		accept = r.Header.Get("Accept")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Decode request: %v", err)
		}
		fmt.Fprintln(w, `data: {"type":"done"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "skin-classifier-v2", "secret")
	imageData := []byte{0xff, 0xd8, 0xff, 0xe0}
	if err := client.StreamClassification(context.Background(), imageData, func(string) error { return nil }); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got.Model != "skin-classifier-v2" {
		t.Errorf("Expected model in request, got %q", got.Model)
	}
	if !got.Stream {
		t.Error("Expected stream flag set")
	}
	if got.Image != base64.StdEncoding.EncodeToString(imageData) {
		t.Error("Expected base64-encoded image payload")
	}
	if auth != "Bearer secret" {
		t.Errorf("Expected bearer auth header, got %q", auth)
	}
	if accept != "text/event-stream" {
		t.Errorf("Expected SSE accept header, got %q", accept)
	}
}

func TestStreamClassification_ChunkErrorStopsStream(t *testing.T) {
	server := sseServer(t, []string{
		`data: {"type":"delta","text":"one"}`,
		`data: {"type":"delta","text":"two"}`,
		`data: {"type":"done"}`,
	})
	defer server.Close()

	client := NewClient(server.URL, "m", "")
	stop := errors.New("consumer gone")

	var calls int
	err := client.StreamClassification(context.Background(), []byte("x"), func(string) error {
		calls++
		return stop
	})

	if !errors.Is(err, stop) {
		t.Errorf("Expected the consumer error back, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected the stream to stop after the first chunk error, got %d calls", calls)
	}
}

func TestStreamClassification_ContextCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		fmt.Fprintln(w, `data: {"type":"delta","text":"first"}`)
		flusher.Flush()
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClient(server.URL, "m", "")

	errCh := make(chan error, 1)
	go func() {
		errCh <- client.StreamClassification(ctx, []byte("x"), func(string) error {
			cancel()
			return nil
		})
	}()

	select {
	case err := <-errCh:
		if err == nil {
			t.Error("Expected an error after context cancellation")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("StreamClassification did not return after cancellation")
	}
}
