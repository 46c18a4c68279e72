package compose

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"flyer-studio/pkg/geometry"
)

var (
	zoneStroke     = color.NRGBA{R: 59, G: 130, B: 246, A: 255}
	zoneFill       = color.NRGBA{R: 59, G: 130, B: 246, A: 46}
	selectedStroke = color.NRGBA{R: 249, G: 115, B: 22, A: 255}
	selectedFill   = color.NRGBA{R: 249, G: 115, B: 22, A: 64}
	traceStroke    = color.NRGBA{R: 34, G: 197, B: 94, A: 255}
)

// Render rasterizes the scene at the given pixel ratio. A ratio of 1 is
// screen resolution; the export path passes the larger native-resolution
// ratio. Layer order is background, guides, then placements clipped to
// their zone polygons.
func Render(s *Scene, ratio float64) *image.RGBA {
	outW := int(math.Round(s.StageW * ratio))
	outH := int(math.Round(s.StageH * ratio))
	if outW < 1 || outH < 1 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	out := image.NewRGBA(image.Rect(0, 0, outW, outH))

	if s.Background != nil {
		xdraw.CatmullRom.Scale(out, out.Bounds(), s.Background, s.Background.Bounds(), xdraw.Src, nil)
	}

	if s.ShowGuides {
		for _, z := range s.Zones {
			drawGuide(out, s, z, ratio)
		}
		drawTrace(out, s, ratio)
	}

	for _, z := range s.Zones {
		if z.Photo == nil {
			continue
		}
		drawPlacement(out, s, z, ratio)
	}

	return out
}

// drawPlacement draws a zone's photo with its stored transform, clipped to
// the zone's polygon. The transform is translate, rotate, scale applied to
// photo pixel coordinates, with rotation about the photo's top-left corner.
func drawPlacement(out *image.RGBA, s *Scene, z SceneZone, ratio float64) {
	b := out.Bounds()
	mask := PolygonMask(z.Points, s.StageW, s.StageH, ratio, b.Dx(), b.Dy())

	tx := z.Position.X * s.StageW * ratio
	ty := z.Position.Y * s.StageH * ratio
	scale := z.Scale * s.StageScale * ratio
	theta := z.Rotation * math.Pi / 180
	cos, sin := math.Cos(theta), math.Sin(theta)

	m := f64.Aff3{
		scale * cos, -scale * sin, tx,
		scale * sin, scale * cos, ty,
	}
	xdraw.CatmullRom.Transform(out, m, z.Photo, z.Photo.Bounds(), xdraw.Over, &xdraw.Options{
		DstMask:  mask,
		DstMaskP: image.Point{},
	})
}

func drawGuide(out *image.RGBA, s *Scene, z SceneZone, ratio float64) {
	stroke, fill := zoneStroke, zoneFill
	if z.ID == s.Selected {
		stroke, fill = selectedStroke, selectedFill
	}

	b := out.Bounds()
	mask := PolygonMask(z.Points, s.StageW, s.StageH, ratio, b.Dx(), b.Dy())
	draw.DrawMask(out, b, &image.Uniform{fill}, image.Point{}, mask, image.Point{}, draw.Over)

	strokePolyline(out, z.Points, s, ratio, stroke, true)
}

func drawTrace(out *image.RGBA, s *Scene, ratio float64) {
	if len(s.TracePoints) < 2 {
		return
	}
	strokePolyline(out, s.TracePoints, s, ratio, traceStroke, false)
}

func strokePolyline(out *image.RGBA, points []geometry.Point2D, s *Scene, ratio float64, c color.NRGBA, closed bool) {
	if len(points) < 2 {
		return
	}
	radius := int(math.Round(ratio))
	if radius < 1 {
		radius = 1
	}

	n := len(points)
	last := n - 1
	if closed {
		last = n
	}
	for i := 0; i < last; i++ {
		a := stagePoint(points[i], s, ratio)
		b := stagePoint(points[(i+1)%n], s, ratio)
		stampLine(out, a, b, radius, c)
	}
}

func stagePoint(p geometry.Point2D, s *Scene, ratio float64) geometry.Point2D {
	return geometry.Point2D{X: p.X * s.StageW * ratio, Y: p.Y * s.StageH * ratio}
}

// stampLine walks the segment one pixel at a time and stamps a square
// brush. Crude next to a real stroker, but guide lines are short and this
// keeps the renderer free of a vector-graphics dependency.
func stampLine(out *image.RGBA, a, b geometry.Point2D, radius int, c color.NRGBA) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	steps := int(math.Max(math.Abs(dx), math.Abs(dy))) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		stampDot(out, int(a.X+dx*t+0.5), int(a.Y+dy*t+0.5), radius, c)
	}
}

func stampDot(out *image.RGBA, cx, cy, radius int, c color.NRGBA) {
	b := out.Bounds()
	for y := cy - radius; y <= cy+radius; y++ {
		if y < b.Min.Y || y >= b.Max.Y {
			continue
		}
		for x := cx - radius; x <= cx+radius; x++ {
			if x < b.Min.X || x >= b.Max.X {
				continue
			}
			out.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A})
		}
	}
}
