package analyzer

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func createTestImage(width, height int, fill color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, fill)
		}
	}
	return img
}

// createCheckerboard alternates two values per pixel, producing maximal
// high-frequency detail.
func createCheckerboard(width, height int, a, b uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := a
			if (x+y)%2 == 1 {
				v = b
			}
			img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

func TestLuminance(t *testing.T) {
	testCases := []struct {
		name     string
		r, g, b  float64
		expected float64
	}{
		{"Black", 0, 0, 0, 0},
		{"White", 255, 255, 255, 255},
		{"Gray", 128, 128, 128, 128},
		{"Pure red", 255, 0, 0, 0.299 * 255},
		{"Pure green", 0, 255, 0, 0.587 * 255},
		{"Pure blue", 0, 0, 255, 0.114 * 255},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Luminance(tc.r, tc.g, tc.b)
			if math.Abs(got-tc.expected) > 0.001 {
				t.Errorf("Expected luminance %f, got %f", tc.expected, got)
			}
		})
	}
}

func TestLuminanceStats_Uniform(t *testing.T) {
	img := createTestImage(100, 100, color.RGBA{128, 128, 128, 255})

	mean, stddev := LuminanceStats(img)

	if math.Abs(mean-128) > 0.01 {
		t.Errorf("Expected mean ~128, got %f", mean)
	}
	if stddev > 0.01 {
		t.Errorf("Expected zero stddev for uniform image, got %f", stddev)
	}
}

func TestLuminanceStats_HighContrast(t *testing.T) {
	img := createCheckerboard(100, 100, 0, 255)

	mean, stddev := LuminanceStats(img)

	if math.Abs(mean-127.5) > 0.5 {
		t.Errorf("Expected mean ~127.5, got %f", mean)
	}
	if stddev < 100 {
		t.Errorf("Expected high stddev for checkerboard, got %f", stddev)
	}
}

func TestLuminanceStats_Empty(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 0, 0))

	mean, stddev := LuminanceStats(img)
	if mean != 0 || stddev != 0 {
		t.Errorf("Expected zero stats for empty image, got mean=%f stddev=%f", mean, stddev)
	}
}

func TestChannelMeans(t *testing.T) {
	img := createTestImage(50, 50, color.RGBA{200, 100, 50, 255})

	r, g, b := ChannelMeans(img)

	if math.Abs(r-200) > 0.01 || math.Abs(g-100) > 0.01 || math.Abs(b-50) > 0.01 {
		t.Errorf("Expected means (200,100,50), got (%f,%f,%f)", r, g, b)
	}
}

func TestLaplacianVariance_Uniform(t *testing.T) {
	img := createTestImage(100, 100, color.RGBA{128, 128, 128, 255})

	variance := LaplacianVariance(img)

	if variance > 0.01 {
		t.Errorf("Expected zero variance for uniform image, got %f", variance)
	}
}

func TestLaplacianVariance_Checkerboard(t *testing.T) {
	img := createCheckerboard(100, 100, 0, 255)

	variance := LaplacianVariance(img)

	if variance < IdealSharpness {
		t.Errorf("Expected high variance for checkerboard, got %f", variance)
	}
}

func TestLaplacianVariance_TooSmall(t *testing.T) {
	img := createTestImage(2, 2, color.RGBA{128, 128, 128, 255})

	if v := LaplacianVariance(img); v != 0 {
		t.Errorf("Expected zero variance for sub-kernel image, got %f", v)
	}
}

func TestToRGBA(t *testing.T) {
	rgba := createTestImage(10, 10, color.RGBA{1, 2, 3, 255})
	if ToRGBA(rgba) != rgba {
		t.Error("Expected RGBA input to be returned as-is")
	}

	gray := image.NewGray(image.Rect(0, 0, 10, 10))
	converted := ToRGBA(gray)
	if converted.Bounds().Dx() != 10 || converted.Bounds().Dy() != 10 {
		t.Errorf("Unexpected converted bounds: %v", converted.Bounds())
	}
}
