package fit

import (
	"math"
	"testing"

	"flyer-studio/pkg/geometry"
)

func TestDominantAngle(t *testing.T) {
	tests := []struct {
		name   string
		points []geometry.Point2D
		want   float64
	}{
		{
			name: "wide rectangle is level",
			points: []geometry.Point2D{
				{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 2}, {X: 0, Y: 2},
			},
			want: 0,
		},
		{
			name: "tall rectangle is vertical",
			points: []geometry.Point2D{
				{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 10}, {X: 0, Y: 10},
			},
			want: 90,
		},
		{
			name: "rectangle tilted 45 degrees",
			points: []geometry.Point2D{
				{X: 10.707106781186548, Y: 12.121320343559643},
				{X: 12.121320343559643, Y: 10.707106781186548},
				{X: 9.292893218813452, Y: 7.878679656440357},
				{X: 7.878679656440357, Y: 9.292893218813452},
			},
			want: 45,
		},
		{
			name: "rectangle tilted minus 30 degrees",
			points: []geometry.Point2D{
				{X: 3.9641016151377544, Y: -1.1339745962155613},
				{X: 2.9641016151377544, Y: -2.8660254037844387},
				{X: -3.9641016151377544, Y: 1.1339745962155613},
				{X: -2.9641016151377544, Y: 2.8660254037844387},
			},
			want: -30,
		},
		{
			name: "collinear points follow the line",
			points: []geometry.Point2D{
				{X: 1, Y: 5}, {X: 2, Y: 5}, {X: 3, Y: 5}, {X: 7, Y: 5},
			},
			want: 0,
		},
		{
			name:   "single point is degenerate",
			points: []geometry.Point2D{{X: 4, Y: 4}},
			want:   0,
		},
		{
			name: "coincident points are degenerate",
			points: []geometry.Point2D{
				{X: 4, Y: 4}, {X: 4, Y: 4}, {X: 4, Y: 4},
			},
			want: 0,
		},
		{
			name:   "empty input",
			points: nil,
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DominantAngle(tt.points)
			if math.Abs(got-tt.want) > 1e-7 {
				t.Errorf("DominantAngle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDominantAngleRangeFolding(t *testing.T) {
	// A rectangle tilted 120 degrees is the same orientation as one tilted
	// -60; the reported angle must land in (-90, 90].
	c, s := math.Cos(120*math.Pi/180), math.Sin(120*math.Pi/180)
	base := []geometry.Point2D{
		{X: -5, Y: -1}, {X: 5, Y: -1}, {X: 5, Y: 1}, {X: -5, Y: 1},
	}
	rotated := make([]geometry.Point2D, len(base))
	for i, p := range base {
		rotated[i] = geometry.Point2D{X: c*p.X - s*p.Y, Y: s*p.X + c*p.Y}
	}

	got := DominantAngle(rotated)
	if math.Abs(got-(-60)) > 1e-7 {
		t.Errorf("DominantAngle() = %v, want -60", got)
	}
	if got <= -90 || got > 90 {
		t.Errorf("DominantAngle() = %v, outside (-90, 90]", got)
	}
}
