package layout

import (
	"log/slog"

	"pageflow/pkg/doc"
	"pageflow/pkg/safety"
)

// Rect is a rectangular region in page or column coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FragmentKind identifies what a placed fragment renders as.
type FragmentKind int

const (
	FragmentLine   FragmentKind = iota // one laid-out paragraph line
	FragmentMarker                     // list marker drawn in the margin
	FragmentImage                      // inline image
	FragmentFloat                      // floating drawing
	FragmentTable                      // contiguous slice of table rows
)

// Fragment is a placed slice of a block's content on one page. Fragments are
// immutable once emitted: position is correct at creation and never adjusted
// afterwards, which is what keeps pagination free of repositioning passes.
type Fragment struct {
	Kind    FragmentKind `json:"kind"`
	BlockID string       `json:"blockId"`
	Column  int          `json:"column"`
	Bounds  Rect         `json:"bounds"`

	// Line fragments: which slice of the paragraph this line covers, and the
	// baseline offset from the top of Bounds.
	LineIndex int     `json:"lineIndex,omitempty"`
	FromRun   int     `json:"fromRun,omitempty"`
	FromChar  int     `json:"fromChar,omitempty"`
	ToRun     int     `json:"toRun,omitempty"`
	ToChar    int     `json:"toChar,omitempty"`
	Ascent    float64 `json:"ascent,omitempty"`

	// Marker fragments: the marker text.
	Text string `json:"text,omitempty"`

	// Table fragments: the half-open row range placed here.
	RowFrom int `json:"rowFrom,omitempty"`
	RowTo   int `json:"rowTo,omitempty"`
}

// Page is one physical page of the resulting layout. Number is 1-indexed and
// monotonic. SectionIndex and SectionRefs are stamped during pagination so a
// painter can resolve the page's header/footer without re-walking section
// metadata.
type Page struct {
	Number       int              `json:"number"`
	Width        float64          `json:"width"`
	Height       float64          `json:"height"`
	Orientation  doc.Orientation  `json:"orientation"`
	SectionIndex int              `json:"sectionIndex"`
	Fragments    []Fragment       `json:"fragments"`
	SectionRefs  *doc.SectionRefs `json:"sectionRefs,omitempty"`
}

// TrackKey identifies one header/footer track in a Layout.
type TrackKey struct {
	Kind    doc.HFKind
	Variant doc.Variant
}

// HeaderFooterTrack is the laid-out content of one header/footer variant.
// The track is measured once and shared by every page that selects its
// variant; per-page token resolution therefore works on clones, never on the
// track itself (see ResolveTokens).
type HeaderFooterTrack struct {
	ContentID string       `json:"contentId"`
	Blocks    []*doc.Block `json:"blocks,omitempty"`
	Height    float64      `json:"height"`
	Pages     []*Page      `json:"pages,omitempty"`
}

// Layout is the engine's sole output: the page list plus the header/footer
// tracks referenced by the pages' stamped refs.
type Layout struct {
	Pages        []*Page                         `json:"pages"`
	HeaderFooter map[TrackKey]*HeaderFooterTrack `json:"-"`
}

// pageState is the per-column cursor mutated in place while a column fills.
// One instance is live per (page, column); it is discarded when the column is
// full. trailingSpacing and lastStyleID implement Word's contextual spacing
// collapse and reset on every column/page advance.
type pageState struct {
	page            *Page
	columnIndex     int
	cursorY         float64
	topMargin       float64
	contentBottom   float64
	trailingSpacing float64
	lastStyleID     string
}

// Margins are page margins.
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// RemeasureFunc asks the external measurer for a fresh paragraph measure at a
// narrower width. It must be idempotent and side-effect free; the engine may
// call it several times for one paragraph while resolving float carving.
type RemeasureFunc func(block *doc.Block, maxWidth, firstLineIndent float64) (*doc.Measure, error)

// Options configures one Engine. Zero-value fields fall back to the defaults
// applied by withDefaults.
type Options struct {
	PageSize    doc.Size
	Orientation doc.Orientation
	Margins     Margins
	Columns     doc.Columns

	// Remeasure is required whenever float-carved widths can differ from the
	// widths paragraphs were measured at. When nil, the engine keeps the
	// original measure and logs that carving was skipped.
	Remeasure RemeasureFunc

	// HeaderFooter drives per-page variant selection and page stamping.
	HeaderFooter *doc.MultiSectionHeaderFooterIdentifier

	// Tracks are the pre-measured header/footer tracks, keyed by kind and
	// variant. They are copied into the resulting Layout.
	Tracks map[TrackKey]*HeaderFooterTrack

	// Net, when set, observes errors and layout latency for the whole pass.
	Net *safety.Net

	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.PageSize.Width <= 0 || o.PageSize.Height <= 0 {
		o.PageSize = doc.Size{Width: 816, Height: 1056} // US Letter at 96dpi
	}
	if o.Margins == (Margins{}) {
		o.Margins = Margins{Top: 96, Right: 96, Bottom: 96, Left: 96}
	}
	o.Columns = o.Columns.Normalized()
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
