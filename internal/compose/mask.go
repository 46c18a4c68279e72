package compose

import (
	"image"
	"sort"

	"flyer-studio/pkg/geometry"
)

// PolygonMask rasterizes a normalized polygon into an alpha mask at the
// given output size. Pixels inside the polygon are opaque. Scanlines are
// sampled at pixel centers with even-odd crossing counting, so shared
// edges between adjacent zones never double-fill.
func PolygonMask(points []geometry.Point2D, stageW, stageH, ratio float64, outW, outH int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, outW, outH))
	if len(points) < 3 {
		return mask
	}

	px := make([]float64, len(points))
	py := make([]float64, len(points))
	for i, p := range points {
		px[i] = p.X * stageW * ratio
		py[i] = p.Y * stageH * ratio
	}

	xs := make([]float64, 0, len(points))
	for y := 0; y < outH; y++ {
		yc := float64(y) + 0.5
		xs = xs[:0]
		for i := range px {
			j := (i + 1) % len(px)
			y1, y2 := py[i], py[j]
			if (y1 <= yc) == (y2 <= yc) {
				continue
			}
			t := (yc - y1) / (y2 - y1)
			xs = append(xs, px[i]+t*(px[j]-px[i]))
		}
		sort.Float64s(xs)

		for k := 0; k+1 < len(xs); k += 2 {
			x0 := int(xs[k] + 0.5)
			x1 := int(xs[k+1] + 0.5)
			if x0 < 0 {
				x0 = 0
			}
			if x1 > outW {
				x1 = outW
			}
			row := mask.PixOffset(0, y)
			for x := x0; x < x1; x++ {
				mask.Pix[row+x] = 0xff
			}
		}
	}
	return mask
}
