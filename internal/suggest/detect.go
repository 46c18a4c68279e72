// Package suggest proposes zone outlines by finding panel-shaped regions on
// a flyer image.
package suggest

import (
	"fmt"
	"image"
	"runtime"
	"sync"

	"gocv.io/x/gocv"

	"flyer-studio/internal/logging"
	"flyer-studio/pkg/geometry"
)

// Candidate is one proposed zone outline. Points are normalized against the
// flyer's natural size so they can be handed straight to the editor.
type Candidate struct {
	Points []geometry.Point2D `json:"points"`
	Area   float64            `json:"area"` // fraction of the flyer covered
}

const (
	minAreaFraction = 0.005
	maxAreaFraction = 0.6
	maxVertices     = 16
	// MaxCandidates caps how many outlines a single detection pass returns.
	MaxCandidates = 12
)

// DetectZones finds closed panel outlines on the flyer. Grocery flyers
// separate offers with printed borders and color blocks, which survive as
// strong edges: blur, Canny, then a dilate pass to close the small gaps
// where headlines overlap the frame, and finally external contours
// simplified down to polygons.
func DetectZones(img image.Image) ([]Candidate, error) {
	mat, err := imageToMat(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: 5, Y: 5}, 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blurred, &edges, 50, 150)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{X: 3, Y: 3})
	defer kernel.Close()
	dilated := gocv.NewMat()
	defer dilated.Close()
	gocv.Dilate(edges, &dilated, kernel)

	contours := gocv.FindContours(dilated, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	w := float64(mat.Cols())
	h := float64(mat.Rows())
	imgArea := w * h

	var candidates []Candidate
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)

		area := gocv.ContourArea(contour)
		if area < imgArea*minAreaFraction || area > imgArea*maxAreaFraction {
			continue
		}

		epsilon := 0.02 * gocv.ArcLength(contour, true)
		approx := gocv.ApproxPolyDP(contour, epsilon, true)
		points := make([]geometry.Point2D, 0, approx.Size())
		for j := 0; j < approx.Size(); j++ {
			p := approx.At(j)
			points = append(points, geometry.Point2D{
				X: float64(p.X) / w,
				Y: float64(p.Y) / h,
			})
		}
		approx.Close()

		// Panel borders are convex in practice; the hull squares off notches
		// left where a headline or price tag interrupts the frame.
		points = geometry.ConvexHull(points)
		if len(points) < 3 || len(points) > maxVertices {
			continue
		}
		candidates = append(candidates, Candidate{Points: points, Area: geometry.PolygonArea(points)})
	}

	kept := FilterCandidates(candidates, MaxCandidates)
	logging.Log.WithField("contours", contours.Size()).
		WithField("kept", len(kept)).Debug("zone detection complete")
	return kept, nil
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
