package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ItaloOlivier/ayonne-sub004/pkg/models"
)

var qualityCmd = &cobra.Command{
	Use:   "quality <image>",
	Short: "Assess photo quality and print the factor breakdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuality(args[0])
	},
}

func init() {
	rootCmd.AddCommand(qualityCmd)
}

type qualityResponse struct {
	Assessment models.ImageQualityAssessment `json:"assessment"`
	Tier       models.QualityTier            `json:"tier"`
}

func runQuality(path string) error {
	body, contentType, err := multipartImage(path)
	if err != nil {
		return err
	}

	resp, err := http.Post(serverURL+"/v1/quality", contentType, body)
	if err != nil {
		return fmt.Errorf("quality request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, msg)
	}

	var result qualityResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	a := result.Assessment
	fmt.Printf("Overall: %s (%d/100) %s\n", a.Overall, a.Score, result.Tier.Description)
	printFactor("resolution", a.Factors.Resolution)
	printFactor("brightness", a.Factors.Brightness)
	printFactor("contrast", a.Factors.Contrast)
	printFactor("sharpness", a.Factors.Sharpness)
	printFactor("color balance", a.Factors.ColorBalance)
	if !a.PassesMinimum {
		fmt.Println("\nThis photo would be rejected:")
		for _, rec := range a.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
	}
	return nil
}

func printFactor(name string, f models.QualityFactor) {
	fmt.Printf("  %-14s %5.1f  %-10s %s\n", name, f.Score, f.Status, f.Message)
}

// multipartImage builds the multipart body for an image upload.
func multipartImage(path string) (*bytes.Buffer, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filepath.Base(path))
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}
