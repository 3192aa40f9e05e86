package analyzer

import (
	"image"
	"image/draw"

	"gonum.org/v1/gonum/stat"
)

// Luminance converts an RGB triple to perceptual brightness using the
// ITU-R BT.601 weights. Every brightness/contrast/sharpness computation in
// this package goes through this single mapping so the scorers agree on the
// color-to-gray conversion.
func Luminance(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}

// Luminances returns the per-pixel luminance of img in row-major order,
// on the 0..255 scale.
func Luminances(img *image.RGBA) []float64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := make([]float64, 0, w*h)

	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < len(row); x += 4 {
			out = append(out, Luminance(float64(row[x]), float64(row[x+1]), float64(row[x+2])))
		}
	}
	return out
}

// LuminanceStats computes the mean and standard deviation of the luminance
// distribution over all pixels. The deviation is the contrast proxy.
func LuminanceStats(img *image.RGBA) (mean, stddev float64) {
	lum := Luminances(img)
	if len(lum) == 0 {
		return 0, 0
	}
	if len(lum) == 1 {
		return lum[0], 0
	}
	return stat.MeanStdDev(lum, nil)
}

// ChannelMeans computes the average R, G and B values over all pixels,
// on the 0..255 scale.
func ChannelMeans(img *image.RGBA) (r, g, b float64) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return 0, 0, 0
	}

	var sumR, sumG, sumB float64
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < len(row); x += 4 {
			sumR += float64(row[x])
			sumG += float64(row[x+1])
			sumB += float64(row[x+2])
		}
	}

	n := float64(w * h)
	return sumR / n, sumG / n, sumB / n
}

// LaplacianVariance applies the discrete Laplacian kernel
// [0,-1,0; -1,4,-1; 0,-1,0] to the grayscale image and returns the variance
// of the response. Higher variance means more high-frequency detail, which
// is the sharpness proxy used by the sharpness scorer.
func LaplacianVariance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < 3 || h < 3 {
		return 0
	}

	lum := Luminances(img)
	resp := make([]float64, 0, (w-2)*(h-2))
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			resp = append(resp, 4*lum[i]-lum[i-1]-lum[i+1]-lum[i-w]-lum[i+w])
		}
	}

	if len(resp) < 2 {
		return 0
	}
	return stat.Variance(resp, nil)
}

// ToRGBA converts any decoded image to the packed RGBA layout the analyzer
// operates on. Images already in that layout are returned as-is.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}
