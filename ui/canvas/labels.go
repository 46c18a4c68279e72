package canvas

import (
	"image"
	"image/color"
	"math"

	"flyer-studio/internal/compose"
	"flyer-studio/pkg/geometry"
)

var (
	labelColor    = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	selectedLabel = color.NRGBA{R: 0xF9, G: 0x73, B: 0x16, A: 0xFF}
	handleStroke  = color.NRGBA{R: 0x3B, G: 0x82, B: 0xF6, A: 0xFF}
	handleFill    = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

const (
	handleHalf = 5
	gripRadius = 6
)

// digitPatterns contains 3x5 pixel patterns for digits 0-9, 5 rows of 3
// bits each.
var digitPatterns = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b010, 0b110, 0b010, 0b010, 0b111}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b001, 0b001, 0b001}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

// letterPatterns contains 3x5 pixel patterns for letters and the symbols
// that show up in zone names.
var letterPatterns = map[rune][5]uint8{
	'A': {0b010, 0b101, 0b111, 0b101, 0b101},
	'B': {0b110, 0b101, 0b110, 0b101, 0b110},
	'C': {0b011, 0b100, 0b100, 0b100, 0b011},
	'D': {0b110, 0b101, 0b101, 0b101, 0b110},
	'E': {0b111, 0b100, 0b110, 0b100, 0b111},
	'F': {0b111, 0b100, 0b110, 0b100, 0b100},
	'G': {0b011, 0b100, 0b101, 0b101, 0b011},
	'H': {0b101, 0b101, 0b111, 0b101, 0b101},
	'I': {0b111, 0b010, 0b010, 0b010, 0b111},
	'J': {0b001, 0b001, 0b001, 0b101, 0b010},
	'K': {0b101, 0b101, 0b110, 0b101, 0b101},
	'L': {0b100, 0b100, 0b100, 0b100, 0b111},
	'M': {0b101, 0b111, 0b101, 0b101, 0b101},
	'N': {0b101, 0b111, 0b111, 0b101, 0b101},
	'O': {0b010, 0b101, 0b101, 0b101, 0b010},
	'P': {0b110, 0b101, 0b110, 0b100, 0b100},
	'Q': {0b010, 0b101, 0b101, 0b111, 0b011},
	'R': {0b110, 0b101, 0b110, 0b101, 0b101},
	'S': {0b011, 0b100, 0b010, 0b001, 0b110},
	'T': {0b111, 0b010, 0b010, 0b010, 0b010},
	'U': {0b101, 0b101, 0b101, 0b101, 0b111},
	'V': {0b101, 0b101, 0b101, 0b101, 0b010},
	'W': {0b101, 0b101, 0b101, 0b111, 0b101},
	'X': {0b101, 0b101, 0b010, 0b101, 0b101},
	'Y': {0b101, 0b101, 0b010, 0b010, 0b010},
	'Z': {0b111, 0b001, 0b010, 0b100, 0b111},
	'+': {0b000, 0b010, 0b111, 0b010, 0b000},
	'-': {0b000, 0b000, 0b111, 0b000, 0b000},
	'&': {0b010, 0b100, 0b011, 0b101, 0b011},
	'.': {0b000, 0b000, 0b000, 0b000, 0b010},
	'$': {0b011, 0b110, 0b010, 0b011, 0b110},
	'%': {0b101, 0b001, 0b010, 0b100, 0b101},
	'\'': {0b010, 0b010, 0b000, 0b000, 0b000},
	' ': {0b000, 0b000, 0b000, 0b000, 0b000},
}

// charPattern returns the 3x5 pattern for a character; lowercase maps to
// uppercase and unsupported characters come back empty.
func charPattern(ch rune) [5]uint8 {
	if ch >= '0' && ch <= '9' {
		return digitPatterns[ch-'0']
	}
	if ch >= 'a' && ch <= 'z' {
		ch = ch - 'a' + 'A'
	}
	if pattern, ok := letterPatterns[ch]; ok {
		return pattern
	}
	return [5]uint8{}
}

// drawLabel draws text centered on (centerX, centerY) with the bitmap
// font, scale pixels per font pixel.
func drawLabel(out *image.RGBA, label string, centerX, centerY int, col color.Color, scale int) {
	if scale < 1 {
		scale = 1
	}
	if scale > 6 {
		scale = 6
	}

	runes := []rune(label)
	charWidth := 3 * scale
	charHeight := 5 * scale
	spacing := scale
	labelWidth := len(runes)*charWidth + (len(runes)-1)*spacing

	startX := centerX - labelWidth/2
	startY := centerY - charHeight/2

	for i, ch := range runes {
		pattern := charPattern(ch)
		charX := startX + i*(charWidth+spacing)
		for row := 0; row < 5; row++ {
			for c := 0; c < 3; c++ {
				if pattern[row]&(1<<(2-c)) == 0 {
					continue
				}
				for dy := 0; dy < scale; dy++ {
					for dx := 0; dx < scale; dx++ {
						setPx(out, charX+c*scale+dx, startY+row*scale+dy, col)
					}
				}
			}
		}
	}
}

// drawZoneLabels writes each zone's name at its label anchor.
func drawZoneLabels(out *image.RGBA, scene *compose.Scene) {
	for _, z := range scene.Zones {
		anchor := geometry.LabelAnchor(z.Points)
		col := color.Color(labelColor)
		if z.ID == scene.Selected {
			col = selectedLabel
		}
		drawLabel(out, z.Name, int(anchor.X*scene.StageW), int(anchor.Y*scene.StageH), col, 2)
	}
}

// drawSelectedHandles draws the transform chrome for the selected
// placement: corner squares, the rotation grip, and the stem connecting
// the grip to the top edge.
func (sc *StageCanvas) drawSelectedHandles(out *image.RGBA) {
	id := sc.ed.SelectedZone()
	if id == "" {
		return
	}
	pl, ok := sc.ed.Placement(id)
	if !ok {
		return
	}

	hs := placementHandles(sc.ed, *pl)
	mid := geometry.Point2D{
		X: (hs.corners[0].X + hs.corners[1].X) / 2,
		Y: (hs.corners[0].Y + hs.corners[1].Y) / 2,
	}
	drawSegment(out, mid, hs.grip, handleStroke)
	for _, c := range hs.corners {
		fillSquare(out, c, handleHalf, handleFill, handleStroke)
	}
	fillCircle(out, hs.grip, gripRadius, handleFill, handleStroke)
}

func setPx(out *image.RGBA, x, y int, col color.Color) {
	b := out.Bounds()
	if x >= b.Min.X && x < b.Max.X && y >= b.Min.Y && y < b.Max.Y {
		out.Set(x, y, col)
	}
}

// drawSegment draws a 2px line between two stage points.
func drawSegment(out *image.RGBA, a, b geometry.Point2D, col color.Color) {
	steps := int(math.Max(math.Abs(b.X-a.X), math.Abs(b.Y-a.Y)))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(a.X + (b.X-a.X)*t)
		y := int(a.Y + (b.Y-a.Y)*t)
		setPx(out, x, y, col)
		setPx(out, x+1, y, col)
		setPx(out, x, y+1, col)
	}
}

// fillSquare draws a filled square with a 1px border, centered on p.
func fillSquare(out *image.RGBA, p geometry.Point2D, half int, fill, stroke color.Color) {
	cx, cy := int(p.X), int(p.Y)
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			col := fill
			if dx == -half || dx == half || dy == -half || dy == half {
				col = stroke
			}
			setPx(out, cx+dx, cy+dy, col)
		}
	}
}

// fillCircle draws a filled circle with a 1px rim, centered on p.
func fillCircle(out *image.RGBA, p geometry.Point2D, radius int, fill, stroke color.Color) {
	cx, cy := int(p.X), int(p.Y)
	r2 := radius * radius
	rim := (radius - 1) * (radius - 1)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d := dx*dx + dy*dy
			if d > r2 {
				continue
			}
			col := fill
			if d > rim {
				col = stroke
			}
			setPx(out, cx+dx, cy+dy, col)
		}
	}
}
