// Package placer selects drawings with a seeded shuffle, normalizes each one
// into the unit square and moves it onto its target point.
package placer

import (
	"errors"
	"fmt"
	"math"

	"quickdraw-pipeline/internal/geometry"
	"quickdraw-pipeline/internal/parser"
	"quickdraw-pipeline/internal/rng"
)

// ErrNotEnoughDrawings is returned when there are fewer drawings than
// locations.
var ErrNotEnoughDrawings = errors.New("supplied drawings must be equal or greater in number to the number of supplied locations")

var unitCenter = geometry.Point{X: 0.5, Y: 0.5}

type Options struct {
	Parser parser.Options
}

// Group is the drawing placed on one location.
type Group struct {
	Index    int                 `json:"index"`
	Location geometry.Point      `json:"location"`
	Source   int                 `json:"source"`
	Strokes  []geometry.Polyline `json:"strokes"`
}

type Result struct {
	Groups    []Group  `json:"groups"`
	Placed    int      `json:"placed"`
	Available int      `json:"available"`
	Warnings  []string `json:"warnings,omitempty"`
	// Fallbacks counts coordinate tokens that were coerced to 0.
	Fallbacks int `json:"fallbacks"`
}

func (r *Result) Status() string {
	return fmt.Sprintf("Drew %d/%d", r.Placed, r.Available)
}

// Shuffle returns a permutation of [0, n): for each i a position r is drawn
// from [0, n) and idx[i], idx[r] are swapped.
func Shuffle(n int, src rng.Source) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := range idx {
		r := src.Intn(n)
		idx[i], idx[r] = idx[r], idx[i]
	}
	return idx
}

// Place picks len(locations) distinct drawings and places drawing i's
// normalized strokes centered on locations[i]. It produces no output unless
// there are at least as many drawings as locations.
func Place(drawings []string, locations []geometry.Point, src rng.Source, opts Options) (*Result, error) {
	if len(drawings) < len(locations) {
		return nil, fmt.Errorf("%w: %d drawings, %d locations", ErrNotEnoughDrawings, len(drawings), len(locations))
	}

	order := Shuffle(len(drawings), src)[:len(locations)]
	res := &Result{
		Groups:    make([]Group, len(locations)),
		Available: len(drawings),
	}
	for i, loc := range locations {
		g := Group{Index: i, Location: loc, Source: order[i]}
		strokes, st, err := parser.ParseRecord(drawings[order[i]], opts.Parser)
		res.Fallbacks += st.Fallbacks
		switch {
		case err != nil:
			res.Warnings = append(res.Warnings, fmt.Sprintf("location %d: drawing %d: %v", i, order[i], err))
		case len(strokes) == 0:
			res.Warnings = append(res.Warnings, fmt.Sprintf("location %d: drawing %d has no usable strokes", i, order[i]))
		case !Normalize(strokes):
			res.Warnings = append(res.Warnings, fmt.Sprintf("location %d: drawing %d has no extent", i, order[i]))
		default:
			Move(strokes, loc)
			g.Strokes = strokes
			res.Placed++
		}
		res.Groups[i] = g
	}
	return res, nil
}

// Normalize maps the bounding square of strokes onto [0,1]x[0,1] in place,
// turning the source's y-down coordinates upright. It reports false when
// the strokes have no extent.
func Normalize(strokes []geometry.Polyline) bool {
	box, ok := geometry.Bounds(strokes)
	if !ok {
		return false
	}
	side, center := geometry.Square(box)
	if side <= 0 || math.IsNaN(side) || math.IsInf(side, 0) {
		return false
	}

	steps := []geometry.Affine{
		geometry.Translation(unitCenter.Sub(geometry.FromXY(center, 0))),
		geometry.Rotation(math.Pi, unitCenter),
		geometry.MirrorX(unitCenter.X),
		geometry.Scale(unitCenter, 1/side),
	}
	for _, step := range steps {
		for _, pl := range strokes {
			pl.Transform(step)
		}
	}
	return true
}

// Move translates normalized strokes so (0.5, 0.5) lands on target.
func Move(strokes []geometry.Polyline, target geometry.Point) {
	t := geometry.Translation(target.Sub(unitCenter))
	for _, pl := range strokes {
		pl.Transform(t)
	}
}
