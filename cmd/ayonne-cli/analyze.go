package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ItaloOlivier/ayonne-sub004/internal/stream"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <image>",
	Short: "Submit a photo and stream the analysis progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Ctrl-C aborts the in-flight stream; the server stops reading
		// from its upstream once we disconnect.
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return runAnalyze(ctx, args[0])
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(ctx context.Context, path string) error {
	body, contentType, err := multipartImage(path)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverURL+"/v1/analyze", body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("analyze request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnprocessableEntity {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		return fmt.Errorf("photo rejected by quality gate: %s", msg)
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, msg)
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("analyzing"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWriter(os.Stderr),
	)

	state := stream.NewProgressState()
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() && !state.Terminal() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}

		var ev stream.Event
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			continue
		}
		state.Apply(ev)
		bar.Add(1)

		switch ev.Type {
		case stream.EventPartial:
			bar.Describe(fmt.Sprintf("detected skin type: %s", ev.Value))
		case stream.EventCondition:
			bar.Describe(fmt.Sprintf("found condition: %s", ev.Condition.Name))
		}
	}
	bar.Finish()
	fmt.Fprintln(os.Stderr)

	if err := scanner.Err(); err != nil && !state.Terminal() {
		return fmt.Errorf("stream interrupted: %w", err)
	}

	if state.Error != "" {
		return fmt.Errorf("analysis failed: %s", state.Error)
	}
	if !state.Complete {
		return fmt.Errorf("stream ended without a terminal event")
	}

	fmt.Printf("Analysis %s\n", state.AnalysisID)
	if state.Analysis != nil {
		if state.Analysis.Fallback {
			fmt.Println("(fallback result - the classifier stream could not be parsed)")
		}
		fmt.Printf("Skin type: %s\n", state.Analysis.SkinType)
		for _, cond := range state.Analysis.Conditions {
			fmt.Printf("  - %s (%.0f%%)\n", cond.Name, cond.Confidence*100)
		}
		if state.Analysis.Summary != "" {
			fmt.Println(state.Analysis.Summary)
		}
	}
	return nil
}
