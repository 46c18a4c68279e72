// Package ocr reads flyer text so zones can be named after the panel they
// outline.
package ocr

import (
	"fmt"
	"image"
	"runtime"
	"sync"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"

	"flyer-studio/internal/logging"
	"flyer-studio/pkg/geometry"
)

// Engine wraps a Tesseract client configured for flyer copy. Flyer panels
// carry natural-language headlines, so no character whitelist is applied;
// the system dictionaries stay enabled for the same reason.
type Engine struct {
	client *gosseract.Client
}

// NewEngine creates an OCR engine for the given Tesseract language, "eng"
// when empty. The caller must Close it.
func NewEngine(language string) (*Engine, error) {
	if language == "" {
		language = "eng"
	}
	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language %q: %w", language, err)
	}
	return &Engine{client: client}, nil
}

// Close releases the Tesseract client.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// ReadRegion runs OCR over a rectangle of the flyer, given in natural
// pixels, and returns the raw recognized text. The rectangle is clamped to
// the image bounds.
func (e *Engine) ReadRegion(img image.Image, region geometry.RectInt) (string, error) {
	mat, err := imageToMat(img)
	if err != nil {
		return "", err
	}
	defer mat.Close()

	x0 := maxInt(0, region.X)
	y0 := maxInt(0, region.Y)
	x1 := minInt(mat.Cols(), region.X+region.Width)
	y1 := minInt(mat.Rows(), region.Y+region.Height)
	if x1-x0 < 8 || y1-y0 < 8 {
		return "", fmt.Errorf("region too small for OCR: %dx%d", x1-x0, y1-y0)
	}

	roi := mat.Region(image.Rect(x0, y0, x1, y1))
	defer roi.Close()

	prepped := prepareRegion(roi)
	defer prepped.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, prepped)
	if err != nil {
		return "", fmt.Errorf("failed to encode region: %w", err)
	}
	defer buf.Close()

	e.client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK)
	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return "", fmt.Errorf("failed to set OCR image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	logging.Log.WithField("chars", len(text)).Debug("OCR region read")
	return text, nil
}

// prepareRegion normalizes a flyer crop for Tesseract: upscale tiny
// regions, grayscale, then Otsu binarization. Flyer headlines are usually
// dark on a light panel; when the binary comes out mostly dark the region
// is inverted so Tesseract always sees dark text on light ground.
func prepareRegion(src gocv.Mat) gocv.Mat {
	work := gocv.NewMat()

	minDim := minInt(src.Cols(), src.Rows())
	if minDim > 0 && minDim < 150 {
		scale := 150.0 / float64(minDim)
		gocv.Resize(src, &work, image.Point{}, scale, scale, gocv.InterpolationCubic)
	} else {
		src.CopyTo(&work)
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if work.Channels() > 1 {
		gocv.CvtColor(work, &gray, gocv.ColorBGRToGray)
	} else {
		work.CopyTo(&gray)
	}
	work.Close()

	binary := gocv.NewMat()
	gocv.Threshold(gray, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	white := gocv.CountNonZero(binary)
	total := binary.Rows() * binary.Cols()
	if total > 0 && float64(white)/float64(total) < 0.5 {
		inverted := gocv.NewMat()
		gocv.BitwiseNot(binary, &inverted)
		binary.Close()
		return inverted
	}
	return binary
}

// imageToMat converts an image.Image to a BGR Mat, splitting rows across
// CPUs since flyer scans run large.
func imageToMat(img image.Image) (gocv.Mat, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return gocv.NewMat(), fmt.Errorf("empty image")
	}

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)

	workers := runtime.NumCPU()
	if workers > h {
		workers = h
	}
	rowsPer := (h + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < h; start += rowsPer {
		end := start + rowsPer
		if end > h {
			end = h
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			for y := y0; y < y1; y++ {
				for x := 0; x < w; x++ {
					r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
					mat.SetUCharAt(y, x*3+0, uint8(b>>8))
					mat.SetUCharAt(y, x*3+1, uint8(g>>8))
					mat.SetUCharAt(y, x*3+2, uint8(r>>8))
				}
			}
		}(start, end)
	}
	wg.Wait()

	return mat, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
