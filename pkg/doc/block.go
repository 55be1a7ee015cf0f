package doc

// Block is the unit of content fed into layout. Blocks are produced by an
// external block producer and are read-only to the engine: the engine never
// mutates a Block, it only consumes it together with its Measure.
//
// Block is a tagged union: Kind selects which payload pointer is set. Exactly
// one payload must be non-nil for the matching kind; anything else is an
// input contract violation surfaced as an error by the engine.
type Block struct {
	ID   string    `json:"id"`
	Kind BlockKind `json:"kind"`

	Paragraph    *ParagraphBlock    `json:"paragraph,omitempty"`
	Image        *ImageBlock        `json:"image,omitempty"`
	Drawing      *DrawingBlock      `json:"drawing,omitempty"`
	Table        *TableBlock        `json:"table,omitempty"`
	SectionBreak *SectionBreakBlock `json:"sectionBreak,omitempty"`
}

// BlockKind identifies the payload carried by a Block.
type BlockKind int

const (
	KindParagraph BlockKind = iota
	KindImage
	KindDrawing
	KindTable
	KindSectionBreak
	KindPageBreak
)

func (k BlockKind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindImage:
		return "image"
	case KindDrawing:
		return "drawing"
	case KindTable:
		return "table"
	case KindSectionBreak:
		return "sectionBreak"
	case KindPageBreak:
		return "pageBreak"
	}
	return "unknown"
}

// ParagraphBlock carries the inline runs and paragraph-level attributes of a
// single paragraph.
type ParagraphBlock struct {
	Runs  []Run          `json:"runs"`
	Attrs ParagraphAttrs `json:"attrs"`
}

// Run is one inline span of uniformly formatted text. A run may carry a
// dynamic token (page number, total page count) in place of literal text; the
// Text field then holds the most recently resolved display form.
type Run struct {
	Text     string    `json:"text"`
	Token    TokenKind `json:"token,omitempty"`
	Bold     bool      `json:"bold,omitempty"`
	Italic   bool      `json:"italic,omitempty"`
	FontSize float64   `json:"fontSize,omitempty"`
}

// TokenKind marks a run whose display text is derived from page context
// rather than authored content.
type TokenKind int

const (
	TokenNone TokenKind = iota
	TokenPageNumber
	TokenTotalPageCount
)

// ParagraphAttrs holds the paragraph-level formatting the engine interprets.
// Spacing values are in the same units as all layout geometry (device-
// independent pixels). Values can arrive non-finite or negative from hostile
// or buggy producers; the engine sanitizes them at the point of use.
type ParagraphAttrs struct {
	Align             Alignment     `json:"align,omitempty"`
	SpacingBefore     float64       `json:"spacingBefore,omitempty"`
	SpacingAfter      float64       `json:"spacingAfter,omitempty"`
	IndentLeft        float64       `json:"indentLeft,omitempty"`
	IndentRight       float64       `json:"indentRight,omitempty"`
	ContextualSpacing bool          `json:"contextualSpacing,omitempty"`
	StyleID           string        `json:"styleId,omitempty"`
	Marker            *MarkerLayout `json:"marker,omitempty"`
}

// Alignment is the horizontal alignment of lines within the available width.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

// MarkerLayout describes a list marker attached to a paragraph.
//
// Two indentation modes exist. In the default hanging mode the marker is
// drawn in the margin and the text box is unaffected. When FirstLineIndentMode
// is set the marker flows inline before the first line, and the first line of
// text is indented by the marker width plus the gutter. The optional width
// fields use pointers because absence and an explicit zero mean different
// things to the fallback chain (marker width, then marker box width, then 0).
type MarkerLayout struct {
	Text                string   `json:"text"`
	FirstLineIndentMode bool     `json:"firstLineIndentMode,omitempty"`
	MarkerWidth         *float64 `json:"markerWidth,omitempty"`
	MarkerBoxWidth      *float64 `json:"markerBoxWidth,omitempty"`
	GutterWidth         *float64 `json:"gutterWidth,omitempty"`
	IndentLeft          float64  `json:"indentLeft,omitempty"`
}

// ImageBlock is an inline image. Inline images never create float exclusion
// zones; they flow like an oversized glyph on their own.
type ImageBlock struct {
	Source string  `json:"source"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DrawingBlock is an image or vector drawing that may be anchored and
// floated, carving text around itself.
type DrawingBlock struct {
	Source string  `json:"source"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Anchor *Anchor `json:"anchor,omitempty"`
	Wrap   Wrap    `json:"wrap"`
}

// Anchor positions a drawing relative to a horizontal reference frame.
type Anchor struct {
	IsAnchored bool    `json:"isAnchored"`
	HAlign     HAlign  `json:"hAlign"`
	HRef       HRef    `json:"hRef"`
	OffsetX    float64 `json:"offsetX,omitempty"`
	OffsetY    float64 `json:"offsetY,omitempty"`
}

// HAlign is the horizontal alignment of an anchored drawing.
type HAlign int

const (
	HAlignLeft HAlign = iota
	HAlignCenter
	HAlignRight
)

// HRef selects the frame HAlign is resolved against.
type HRef int

const (
	HRefColumn HRef = iota
	HRefMargin
	HRefPage
)

// Wrap describes how text flows around an anchored drawing.
type Wrap struct {
	Type     WrapType  `json:"type"`
	Text     WrapText  `json:"text,omitempty"`
	Distance Distances `json:"distance"`
}

// WrapType is the closed set of wrap behaviors.
type WrapType int

const (
	WrapNone WrapType = iota
	WrapInline
	WrapSquare
	WrapTight
	WrapThrough
	WrapTopAndBottom
)

// WrapText selects which side(s) of the drawing text may occupy.
type WrapText int

const (
	WrapTextBothSides WrapText = iota
	WrapTextLeft
	WrapTextRight
	WrapTextLargest
)

// Distances are the clearances kept between a float and surrounding text.
type Distances struct {
	Top    float64 `json:"top,omitempty"`
	Right  float64 `json:"right,omitempty"`
	Bottom float64 `json:"bottom,omitempty"`
	Left   float64 `json:"left,omitempty"`
}

// TableBlock is a simplified table: the measurer supplies per-row heights,
// and pagination may slice the table across column/page boundaries between
// rows.
type TableBlock struct {
	Rows []TableRow `json:"rows"`
}

// TableRow holds the cells of one table row.
type TableRow struct {
	IsHeader bool        `json:"isHeader,omitempty"`
	Cells    []TableCell `json:"cells"`
}

// TableCell holds cell content as a nested paragraph plus its border state.
type TableCell struct {
	Paragraph *ParagraphBlock `json:"paragraph,omitempty"`
	Borders   CellBorders     `json:"borders"`
}

// CellBorders carries the tri-state border on each cell edge.
type CellBorders struct {
	Top    Border `json:"top"`
	Right  Border `json:"right"`
	Bottom Border `json:"bottom"`
	Left   Border `json:"left"`
}

// SectionBreakBlock changes page geometry from this point forward. Geometry
// may be nil to inherit the previous section's geometry unchanged.
type SectionBreakBlock struct {
	Type     SectionBreakType `json:"type"`
	Geometry *SectionGeometry `json:"geometry,omitempty"`
}

// SectionBreakType is the closed set of section break behaviors.
type SectionBreakType int

const (
	SectionNextPage SectionBreakType = iota
	SectionContinuous
	SectionEvenPage
	SectionOddPage
)

func (t SectionBreakType) String() string {
	switch t {
	case SectionNextPage:
		return "nextPage"
	case SectionContinuous:
		return "continuous"
	case SectionEvenPage:
		return "evenPage"
	case SectionOddPage:
		return "oddPage"
	}
	return "unknown"
}

// SectionGeometry is the page geometry a section establishes. Every field is
// optional: a zero page size, a zero column count, or a nil orientation
// inherits the previous section's value.
type SectionGeometry struct {
	Orientation *Orientation `json:"orientation,omitempty"`
	PageSize    Size         `json:"pageSize"`
	Columns     Columns      `json:"columns"`
}

// Orientation of a page.
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Columns describes the column grid of a section.
type Columns struct {
	Count int     `json:"count"`
	Gap   float64 `json:"gap"`
}

// Normalized returns the column config with Count clamped to at least 1.
func (c Columns) Normalized() Columns {
	if c.Count < 1 {
		c.Count = 1
	}
	if c.Gap < 0 {
		c.Gap = 0
	}
	return c
}
