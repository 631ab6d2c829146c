package device

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kienmai98/Life/internal/core"
)

// StaticSource reports a fixed position. Used when no positioning
// hardware is present, e.g. in a simulator or on a desktop build.
type StaticSource struct {
	Point core.GeoPoint
}

func (s StaticSource) Current(context.Context) (core.GeoPoint, error) {
	return s.Point, nil
}

// ParseStaticSource parses a "lat,lon" pair into a StaticSource.
func ParseStaticSource(raw string) (StaticSource, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return StaticSource{}, fmt.Errorf("invalid location %q: want \"lat,lon\"", raw)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return StaticSource{}, fmt.Errorf("invalid latitude %q", parts[0])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return StaticSource{}, fmt.Errorf("invalid longitude %q", parts[1])
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return StaticSource{}, fmt.Errorf("location %q out of range", raw)
	}
	return StaticSource{Point: core.GeoPoint{Latitude: lat, Longitude: lon}}, nil
}
