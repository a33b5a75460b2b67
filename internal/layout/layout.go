// Package layout builds the target points drawings are placed on.
package layout

import (
	"errors"
	"fmt"

	"honnef.co/go/curve"

	"quickdraw-pipeline/internal/config"
	"quickdraw-pipeline/internal/geometry"
)

// ErrNoLocations is returned when the configuration defines no target point.
var ErrNoLocations = errors.New("no draw locations configured")

// Grid lays out columns*rows points row by row, starting at origin and
// stepping spacing along +x then +y.
func Grid(columns, rows int, spacing float64, origin geometry.Point) []geometry.Point {
	if columns <= 0 || rows <= 0 {
		return nil
	}
	pts := make([]geometry.Point, 0, columns*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < columns; c++ {
			step := curve.Vec(float64(c)*spacing, float64(r)*spacing)
			pts = append(pts, geometry.FromXY(origin.XY().Translate(step), origin.Z))
		}
	}
	return pts
}

// FromCoords converts [x, y] or [x, y, z] tuples into points.
func FromCoords(coords [][]float64) ([]geometry.Point, error) {
	pts := make([]geometry.Point, 0, len(coords))
	for i, c := range coords {
		p, err := point(c)
		if err != nil {
			return nil, fmt.Errorf("location %d: %w", i, err)
		}
		pts = append(pts, p)
	}
	return pts, nil
}

// Locations returns the explicit locations of cfg followed by its grid.
func Locations(cfg config.DrawConfig) ([]geometry.Point, error) {
	pts, err := FromCoords(cfg.Locations)
	if err != nil {
		return nil, err
	}
	if g := cfg.Grid; g != nil {
		var origin geometry.Point
		if len(g.Origin) > 0 {
			if origin, err = point(g.Origin); err != nil {
				return nil, fmt.Errorf("grid origin: %w", err)
			}
		}
		pts = append(pts, Grid(g.Columns, g.Rows, g.Spacing, origin)...)
	}
	if len(pts) == 0 {
		return nil, ErrNoLocations
	}
	return pts, nil
}

func point(c []float64) (geometry.Point, error) {
	switch len(c) {
	case 2:
		return geometry.Point{X: c[0], Y: c[1]}, nil
	case 3:
		return geometry.Point{X: c[0], Y: c[1], Z: c[2]}, nil
	default:
		return geometry.Point{}, fmt.Errorf("expected 2 or 3 coordinates, got %d", len(c))
	}
}
