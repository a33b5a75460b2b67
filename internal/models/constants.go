package models

const (
	// AcceptMarker is the substring that marks a recognized QuickDraw record.
	AcceptMarker = "true"
	// ChunkSize is the maximum number of records in one partition file.
	ChunkSize = 10000
	// PartitionExt is the extension shared by partition files and selections.
	PartitionExt = ".ndjson"

	// PayloadOpen starts the coordinate payload of a record.
	PayloadOpen = "[[["
	// PayloadClose ends the coordinate payload of a record.
	PayloadClose = "]]]"
	// PayloadTerminator is the first character after the payload.
	PayloadTerminator = "}"
	// StrokeSeparator separates two strokes inside the payload.
	StrokeSeparator = "]],[["
	// PairSeparator separates the x list from the y list of one stroke.
	PairSeparator = "],["
	// CoordSeparator separates coordinates inside one list.
	CoordSeparator = ","

	// MinStrokeLength is the length at or below which a stroke is dropped.
	MinStrokeLength = 1e-4
)
