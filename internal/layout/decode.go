package layout

import (
	"errors"
	"math"
	"time"

	"github.com/tidwall/gjson"

	"flyer-studio/internal/editor"
	"flyer-studio/internal/logging"
	"flyer-studio/pkg/geometry"
)

// ErrInvalidDocument is returned when the bytes are not a layout document
// at all. Individually malformed zone or placement records are not an
// error; they are dropped so one bad record cannot take a layout hostage.
var ErrInvalidDocument = errors.New("layout: invalid document")

// Decode parses a persisted layout document. Zone records missing an id or
// name, with fewer than three points, or with non-numeric or non-finite
// coordinates are dropped, as are placements whose zone did not survive.
func Decode(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidDocument
	}
	root := gjson.ParseBytes(data)

	id := root.Get("id").String()
	if id == "" {
		return nil, ErrInvalidDocument
	}

	doc := &Document{
		Version: int(root.Get("version").Int()),
		ID:      id,
		Name:    root.Get("name").String(),
		Flyer: FlyerInfo{
			FileName: root.Get("flyer.fileName").String(),
			Width:    int(root.Get("flyer.width").Int()),
			Height:   int(root.Get("flyer.height").Int()),
		},
	}
	doc.CreatedAt = parseTime(root.Get("createdAt"))
	doc.UpdatedAt = parseTime(root.Get("updatedAt"))

	kept := make(map[string]bool)
	root.Get("zones").ForEach(func(_, z gjson.Result) bool {
		zone, ok := decodeZone(z)
		if !ok {
			logging.Log.WithField("record", z.Get("id").String()).Warn("dropping malformed zone record")
			return true
		}
		doc.Zones = append(doc.Zones, zone)
		kept[zone.ID] = true
		return true
	})

	root.Get("placements").ForEach(func(_, p gjson.Result) bool {
		placement, ok := decodePlacement(p)
		if !ok || !kept[placement.ZoneID] {
			logging.Log.WithField("record", p.Get("zoneId").String()).Warn("dropping malformed or orphaned placement record")
			return true
		}
		doc.Placements = append(doc.Placements, placement)
		return true
	})

	return doc, nil
}

func decodeZone(z gjson.Result) (*editor.Zone, bool) {
	id := z.Get("id").String()
	name := z.Get("name").String()
	if id == "" || name == "" {
		return nil, false
	}

	var points []geometry.Point2D
	valid := true
	z.Get("points").ForEach(func(_, p gjson.Result) bool {
		x, okX := finiteNumber(p.Get("x"))
		y, okY := finiteNumber(p.Get("y"))
		if !okX || !okY {
			valid = false
			return false
		}
		points = append(points, geometry.Point2D{X: x, Y: y})
		return true
	})
	if !valid || len(points) < 3 {
		return nil, false
	}

	return &editor.Zone{ID: id, Name: name, Points: points}, true
}

func decodePlacement(p gjson.Result) (*editor.Placement, bool) {
	zoneID := p.Get("zoneId").String()
	if zoneID == "" {
		return nil, false
	}
	x, okX := finiteNumber(p.Get("position.x"))
	y, okY := finiteNumber(p.Get("position.y"))
	scale, okS := finiteNumber(p.Get("scale"))
	rotation, okR := finiteNumber(p.Get("rotation"))
	if !okX || !okY || !okS || !okR {
		return nil, false
	}

	return &editor.Placement{
		ZoneID:      zoneID,
		Path:        p.Get("path").String(),
		FileName:    p.Get("fileName").String(),
		ImageWidth:  int(p.Get("imageWidth").Int()),
		ImageHeight: int(p.Get("imageHeight").Int()),
		Position:    geometry.Point2D{X: x, Y: y},
		Scale:       scale,
		Rotation:    rotation,
	}, true
}

func finiteNumber(r gjson.Result) (float64, bool) {
	if r.Type != gjson.Number {
		return 0, false
	}
	v := r.Float()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parseTime(r gjson.Result) time.Time {
	t, err := time.Parse(time.RFC3339Nano, r.String())
	if err != nil {
		return time.Time{}
	}
	return t
}
