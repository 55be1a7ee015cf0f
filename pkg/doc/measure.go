package doc

// Measure is the externally computed size data for one Block at one candidate
// width. Like Block it is a tagged union keyed by Kind. A paragraph may be
// measured more than once at different widths during a layout pass (float
// narrowing, marker indent); only the last accepted measurement is used for
// final placement.
type Measure struct {
	Kind BlockKind `json:"kind"`

	Paragraph *ParagraphMeasure `json:"paragraph,omitempty"`
	Box       *BoxMeasure       `json:"box,omitempty"`
	Table     *TableMeasure     `json:"table,omitempty"`
}

// ParagraphMeasure holds the line-break result for a paragraph at one width.
type ParagraphMeasure struct {
	Lines  []Line         `json:"lines"`
	Marker *MarkerMetrics `json:"marker,omitempty"`
}

// Line is one measured line of a paragraph. From/To offsets address runs and
// characters within the source ParagraphBlock. MaxWidth records the width the
// line was broken against (for a first line, the measure width minus any
// inline marker indent); the engine compares it to the float-carved
// available width to decide whether a re-measure is needed.
type Line struct {
	FromRun    int     `json:"fromRun"`
	FromChar   int     `json:"fromChar"`
	ToRun      int     `json:"toRun"`
	ToChar     int     `json:"toChar"`
	Width      float64 `json:"width"`
	Ascent     float64 `json:"ascent"`
	Descent    float64 `json:"descent"`
	LineHeight float64 `json:"lineHeight"`
	MaxWidth   float64 `json:"maxWidth"`
}

// MarkerMetrics is the measured geometry of a list marker. Pointer fields
// distinguish "not measured" from an explicit zero; the engine's fallback
// chain (marker width, marker box width, 0) depends on that distinction.
type MarkerMetrics struct {
	MarkerWidth    *float64 `json:"markerWidth,omitempty"`
	MarkerBoxWidth *float64 `json:"markerBoxWidth,omitempty"`
	GutterWidth    *float64 `json:"gutterWidth,omitempty"`
	IndentLeft     float64  `json:"indentLeft,omitempty"`
}

// BoxMeasure is the placed size of an image or drawing.
type BoxMeasure struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TableMeasure holds per-row heights for a table at one width.
type TableMeasure struct {
	Width      float64   `json:"width"`
	RowHeights []float64 `json:"rowHeights"`
}

// Height returns the total height of all measured rows.
func (tm *TableMeasure) Height() float64 {
	var h float64
	for _, rh := range tm.RowHeights {
		h += rh
	}
	return h
}
