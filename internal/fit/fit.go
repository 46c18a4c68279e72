// Package fit estimates placement orientation from zone geometry.
package fit

import (
	"math"

	"flyer-studio/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// DominantAngle returns the angle of a point set's principal axis in
// degrees. Points use screen convention (y down), so a positive angle means
// the axis slopes down to the right, matching the rotation stored on
// placements. The result is folded into (-90, 90]; an axis has no
// direction, only an orientation.
//
// The angle comes from the first right singular vector of the centered
// point matrix. Callers should pass points in a space with square pixels
// (flyer natural pixels or stage pixels); normalized coordinates skew the
// angle whenever the flyer is not square.
//
// Degenerate input (fewer than two points, or all points coincident)
// returns 0.
func DominantAngle(points []geometry.Point2D) float64 {
	if len(points) < 2 {
		return 0
	}

	var cx, cy float64
	for _, p := range points {
		cx += p.X
		cy += p.Y
	}
	n := float64(len(points))
	cx /= n
	cy /= n

	data := make([]float64, 0, len(points)*2)
	var spread float64
	for _, p := range points {
		dx, dy := p.X-cx, p.Y-cy
		data = append(data, dx, dy)
		spread += dx*dx + dy*dy
	}
	if spread < 1e-12 {
		return 0
	}

	var svd mat.SVD
	if !svd.Factorize(mat.NewDense(len(points), 2, data), mat.SVDThinV) {
		return 0
	}
	var v mat.Dense
	svd.VTo(&v)

	angle := math.Atan2(v.At(1, 0), v.At(0, 0)) * 180 / math.Pi
	for angle > 90 {
		angle -= 180
	}
	for angle <= -90 {
		angle += 180
	}
	return angle
}
