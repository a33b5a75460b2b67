package parser

import (
	"errors"
	"strconv"
	"strings"

	"quickdraw-pipeline/internal/geometry"
	"quickdraw-pipeline/internal/models"
)

// ErrNoPayload is returned for records without a coordinate payload.
var ErrNoPayload = errors.New("record has no stroke payload")

// TerminalTrim selects when the final vertex of a record's last stroke is
// removed.
type TerminalTrim int

const (
	// TrimArtifact removes the final vertex only when it is spurious: its
	// y token did not parse, or it repeats the vertex before it.
	TrimArtifact TerminalTrim = iota
	// TrimAlways always tries to remove it, like the legacy plugin did.
	TrimAlways
)

// ParseTerminalTrim maps a config value onto a TerminalTrim.
func ParseTerminalTrim(s string) (TerminalTrim, error) {
	switch s {
	case "", "artifact":
		return TrimArtifact, nil
	case "always":
		return TrimAlways, nil
	default:
		return TrimArtifact, errors.New("unknown terminal trim policy " + strconv.Quote(s))
	}
}

type Options struct {
	Trim TerminalTrim
}

// Stats describes how leniently a stroke or record was decoded.
type Stats struct {
	// Fallbacks counts coordinate tokens that failed to parse and became 0.
	Fallbacks int
	// Dropped counts strokes discarded for being degenerate.
	Dropped int
	// Trimmed is set when the last stroke lost its final vertex.
	Trimmed bool
	// lastYFallback is set when the final y token of a stroke fell back.
	lastYFallback bool
}

// Payload extracts the coordinate payload of a record: everything from the
// first "[[[" up to the first "}" after it. Trailing fields are discarded.
func Payload(record string) (string, error) {
	start := strings.Index(record, models.PayloadOpen)
	if start < 0 {
		return "", ErrNoPayload
	}
	payload := record[start:]
	if end := strings.Index(payload, models.PayloadTerminator); end >= 0 {
		payload = payload[:end]
	}
	return payload, nil
}

// Segments splits a payload into rough stroke segments of the form
// "x0,x1,...],[y0,y1,...".
func Segments(payload string) []string {
	payload = strings.TrimSpace(payload)
	payload = strings.TrimPrefix(payload, models.PayloadOpen)
	payload = strings.TrimSuffix(payload, models.PayloadClose)
	return strings.Split(payload, models.StrokeSeparator)
}

// ParseStroke decodes one rough segment into a polyline. Tokens that are not
// integers become 0; x and y lists are zipped to the shorter one.
func ParseStroke(segment string) (geometry.Polyline, Stats) {
	var st Stats
	xsRaw, ysRaw, ok := strings.Cut(segment, models.PairSeparator)
	if !ok {
		return nil, st
	}
	xs := strings.Split(xsRaw, models.CoordSeparator)
	ys := strings.Split(ysRaw, models.CoordSeparator)
	n := min(len(xs), len(ys))

	pl := make(geometry.Polyline, n)
	for i := 0; i < n; i++ {
		x, okX := parseCoord(xs[i])
		y, okY := parseCoord(ys[i])
		if !okX {
			st.Fallbacks++
		}
		if !okY {
			st.Fallbacks++
			if i == n-1 {
				st.lastYFallback = true
			}
		}
		pl[i] = geometry.Point{X: float64(x), Y: float64(y)}
	}
	return pl, st
}

func parseCoord(tok string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(tok))
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseRecord decodes a raw record into its strokes in source order.
// Strokes not longer than models.MinStrokeLength are dropped.
func ParseRecord(record string, opts Options) ([]geometry.Polyline, Stats, error) {
	var total Stats
	payload, err := Payload(record)
	if err != nil {
		return nil, total, err
	}

	segments := Segments(payload)
	strokes := make([]geometry.Polyline, 0, len(segments))
	for i, seg := range segments {
		pl, st := ParseStroke(seg)
		total.Fallbacks += st.Fallbacks

		if i == len(segments)-1 && shouldTrim(pl, st, opts.Trim) {
			short := pl.WithoutLast()
			if short.Valid() && pl.Length() > models.MinStrokeLength {
				strokes = append(strokes, short)
				total.Trimmed = true
				continue
			}
		}
		if pl.Length() > models.MinStrokeLength {
			strokes = append(strokes, pl)
		} else {
			total.Dropped++
		}
	}
	return strokes, total, nil
}

func shouldTrim(pl geometry.Polyline, st Stats, trim TerminalTrim) bool {
	if len(pl) == 0 {
		return false
	}
	if trim == TrimAlways {
		return true
	}
	n := len(pl)
	return st.lastYFallback || (n >= 2 && pl[n-1] == pl[n-2])
}
