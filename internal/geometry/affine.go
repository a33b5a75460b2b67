package geometry

import (
	"math"

	"honnef.co/go/curve"
)

// Affine is a planar affine transform plus a z offset. Only translations
// change z.
type Affine struct {
	XY curve.Affine
	TZ float64
}

// Identity leaves every point unchanged.
func Identity() Affine { return Affine{XY: curve.Identity} }

// Translation moves points by v.
func Translation(v Point) Affine {
	return Affine{XY: curve.Translate(curve.Vec(v.X, v.Y)), TZ: v.Z}
}

// Rotation turns points counter-clockwise by angle radians about center.
func Rotation(angle float64, center Point) Affine {
	r := curve.Rotate(angle)
	// Snap the quarter turns so a half turn is an exact point reflection.
	r.N0, r.N1, r.N2, r.N3 = snap(r.N0), snap(r.N1), snap(r.N2), snap(r.N3)
	c := curve.Vec2(center.XY())
	return Affine{XY: r.Mul(curve.Translate(c.Negate())).ThenTranslate(c)}
}

// MirrorX reflects points across the vertical line x = x0.
func MirrorX(x0 float64) Affine {
	return Affine{XY: curve.Reflect(curve.Pt(x0, 0), curve.Vec(0, 1))}
}

// Scale scales points uniformly by factor about center.
func Scale(center Point, factor float64) Affine {
	c := curve.Vec2(center.XY())
	return Affine{XY: curve.Scale(factor, factor).Mul(curve.Translate(c.Negate())).ThenTranslate(c)}
}

// Then returns the transform that applies t first and u second.
func (t Affine) Then(u Affine) Affine {
	return Affine{XY: u.XY.Mul(t.XY), TZ: t.TZ + u.TZ}
}

// Apply maps p.
func (t Affine) Apply(p Point) Point {
	return FromXY(p.XY().Transform(t.XY), p.Z+t.TZ)
}

func snap(v float64) float64 {
	const eps = 1e-15
	switch {
	case math.Abs(v) < eps:
		return 0
	case math.Abs(v-1) < eps:
		return 1
	case math.Abs(v+1) < eps:
		return -1
	}
	return v
}
