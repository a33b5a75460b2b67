// Package geometry holds the small amount of planar geometry the placer
// needs: points, polylines, bounding boxes and affine transforms in the XY
// plane.
package geometry

import (
	"math"

	"honnef.co/go/curve"
)

// Point is a location in model space. Drawings live in the XY plane; Z is
// only changed by translations.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// FromXY lifts a planar point to height z.
func FromXY(p curve.Point, z float64) Point { return Point{X: p.X, Y: p.Y, Z: z} }

// XY drops z.
func (p Point) XY() curve.Point { return curve.Pt(p.X, p.Y) }

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y, p.Z - q.Z} }

// DistanceTo returns the euclidean distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(p.XY().Distance(q.XY()), p.Z-q.Z)
}

// Polyline is an ordered list of vertices joined by straight segments.
type Polyline []Point

// Length is the sum of the segment lengths.
func (pl Polyline) Length() float64 {
	var l float64
	for i := 1; i < len(pl); i++ {
		l += pl[i-1].DistanceTo(pl[i])
	}
	return l
}

// Valid reports whether pl has at least two distinct vertices.
func (pl Polyline) Valid() bool {
	for i := 1; i < len(pl); i++ {
		if pl[i] != pl[0] {
			return true
		}
	}
	return false
}

// WithoutLast returns a copy of pl with its final vertex removed.
func (pl Polyline) WithoutLast() Polyline {
	if len(pl) == 0 {
		return nil
	}
	out := make(Polyline, len(pl)-1)
	copy(out, pl)
	return out
}

// Transform applies t to every vertex in place.
func (pl Polyline) Transform(t Affine) {
	for i := range pl {
		pl[i] = t.Apply(pl[i])
	}
}

// Bounds returns the XY bounding box of every vertex of every polyline. ok
// is false when there is no vertex at all.
func Bounds(lines []Polyline) (box curve.Rect, ok bool) {
	for _, pl := range lines {
		for _, p := range pl {
			if !ok {
				box = curve.NewRectFromPoints(p.XY(), p.XY())
				ok = true
				continue
			}
			box = box.UnionPoint(p.XY())
		}
	}
	return box, ok
}

// Square returns the side and center of the smallest axis-aligned square
// covering box.
func Square(box curve.Rect) (side float64, center curve.Point) {
	box = box.Abs()
	return max(box.Width(), box.Height()), box.Center()
}
