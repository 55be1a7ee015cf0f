package layout

import (
	"pageflow/pkg/doc"
)

// WrapSide is the side of the column a float occupies. Text flows on the
// opposite side.
type WrapSide int

const (
	SideLeft WrapSide = iota
	SideRight
)

// FloatZone is the exclusion zone one registered floating drawing carves out
// of a (page, column). Bounds are column-local. Zones live for exactly one
// layout pass: Clear discards them between passes.
type FloatZone struct {
	BlockID     string
	PageNumber  int
	ColumnIndex int
	Bounds      Rect
	Distances   doc.Distances
	Side        WrapSide
	// Carves is false for wrap modes that reserve vertical space only
	// (top-and-bottom); those zones never narrow a line horizontally.
	Carves bool
}

// FloatSpace is the registry of float exclusion zones plus the line-width
// carving used by paragraph flow. RegisterDrawing resolves anchor geometry in
// the coordinate frame set by SetLayoutContext; section breaks that change
// column geometry update the frame without discarding existing zones.
type FloatSpace struct {
	zones     []FloatZone
	columns   doc.Columns
	margins   Margins
	pageWidth float64
}

// NewFloatSpace creates an empty float registry for one layout pass.
func NewFloatSpace() *FloatSpace {
	return &FloatSpace{}
}

// SetLayoutContext updates the coordinate frame used by subsequent
// RegisterDrawing calls. Previously registered zones are kept as-is: a float
// registered under an earlier frame is not re-sided or re-positioned when the
// frame changes mid-document.
func (fs *FloatSpace) SetLayoutContext(columns doc.Columns, margins Margins, pageWidth float64) {
	fs.columns = columns.Normalized()
	fs.margins = margins
	fs.pageWidth = pageWidth
}

// Clear discards all zones. Call between independent layout passes.
func (fs *FloatSpace) Clear() {
	fs.zones = fs.zones[:0]
}

// columnWidth returns the width of a single column under the current frame.
func (fs *FloatSpace) columnWidth() float64 {
	cols := fs.columns.Normalized()
	content := fs.pageWidth - fs.margins.Left - fs.margins.Right
	w := (content - fs.columns.Gap*float64(cols.Count-1)) / float64(cols.Count)
	if w < 0 {
		w = 0
	}
	return w
}

// columnX returns the page-coordinate left edge of the given column.
func (fs *FloatSpace) columnX(columnIndex int) float64 {
	return fs.margins.Left + float64(columnIndex)*(fs.columnWidth()+fs.columns.Gap)
}

// RegisterDrawing registers the exclusion zone for one floating drawing and
// returns it. It is a no-op (returning nil) unless the block is anchored and
// its wrap type actually wraps: an explicit none or inline wrap, or a missing
// anchor, registers nothing.
//
// The zone's side is taken from the wrap's text setting: text-on-right means
// the image occupies the left side and vice versa. Both-sides and largest
// are resolved by comparing the zone's horizontal center to the column
// midpoint at registration time; the side is not re-evaluated if the layout
// context changes later.
func (fs *FloatSpace) RegisterDrawing(block *doc.Block, measure *doc.Measure, anchorY float64, columnIndex, pageNumber int) *FloatZone {
	if block == nil || block.Drawing == nil {
		return nil
	}
	d := block.Drawing
	if d.Anchor == nil || !d.Anchor.IsAnchored {
		return nil
	}
	switch d.Wrap.Type {
	case doc.WrapSquare, doc.WrapTight, doc.WrapThrough, doc.WrapTopAndBottom:
	default:
		return nil
	}

	w, h := d.Width, d.Height
	if measure != nil && measure.Box != nil {
		w, h = measure.Box.Width, measure.Box.Height
	}

	colW := fs.columnWidth()
	x := fs.anchorX(d.Anchor, w, columnIndex, colW)
	zone := FloatZone{
		BlockID:     block.ID,
		PageNumber:  pageNumber,
		ColumnIndex: columnIndex,
		Bounds:      Rect{X: x, Y: anchorY + d.Anchor.OffsetY, Width: w, Height: h},
		Distances:   d.Wrap.Distance,
		Carves:      d.Wrap.Type != doc.WrapTopAndBottom,
	}

	switch d.Wrap.Text {
	case doc.WrapTextRight:
		// Text on the right: the image holds the left side.
		zone.Side = SideLeft
	case doc.WrapTextLeft:
		zone.Side = SideRight
	default: // both sides / largest
		center := zone.Bounds.X + zone.Bounds.Width/2
		if center <= colW/2 {
			zone.Side = SideLeft
		} else {
			zone.Side = SideRight
		}
	}

	fs.zones = append(fs.zones, zone)
	return &fs.zones[len(fs.zones)-1]
}

// anchorX resolves the column-local X of an anchored drawing from its
// alignment and horizontal reference frame.
func (fs *FloatSpace) anchorX(a *doc.Anchor, width float64, columnIndex int, colW float64) float64 {
	// Frame extent and origin, both expressed relative to the column origin.
	var origin, extent float64
	switch a.HRef {
	case doc.HRefMargin:
		origin = fs.margins.Left - fs.columnX(columnIndex)
		extent = fs.pageWidth - fs.margins.Left - fs.margins.Right
	case doc.HRefPage:
		origin = -fs.columnX(columnIndex)
		extent = fs.pageWidth
	default: // column
		origin = 0
		extent = colW
	}
	var x float64
	switch a.HAlign {
	case doc.HAlignRight:
		x = origin + extent - width
	case doc.HAlignCenter:
		x = origin + (extent-width)/2
	default:
		x = origin
	}
	return x + a.OffsetX
}

// AllFloatsForPage returns every zone registered for the page, any column,
// in registration order.
func (fs *FloatSpace) AllFloatsForPage(pageNumber int) []FloatZone {
	var out []FloatZone
	for _, z := range fs.zones {
		if z.PageNumber == pageNumber {
			out = append(out, z)
		}
	}
	return out
}

// overlapsLine reports whether the zone's vertical extent, padded by its top
// and bottom clearances, intersects the half-open line band
// [lineY, lineY+lineHeight).
func (z *FloatZone) overlapsLine(lineY, lineHeight float64) bool {
	top := z.Bounds.Y - z.Distances.Top
	bottom := z.Bounds.Y + z.Bounds.Height + z.Distances.Bottom
	return top < lineY+lineHeight && bottom > lineY
}

// ExclusionsForLine returns the wrapping zones of the given page and column
// whose padded vertical extent overlaps the line band. Zones with a
// non-wrapping mode are excluded from horizontal carving.
func (fs *FloatSpace) ExclusionsForLine(lineY, lineHeight float64, columnIndex, pageNumber int) []FloatZone {
	var out []FloatZone
	for _, z := range fs.zones {
		if z.PageNumber != pageNumber || z.ColumnIndex != columnIndex {
			continue
		}
		if !z.Carves {
			continue
		}
		if z.overlapsLine(lineY, lineHeight) {
			out = append(out, z)
		}
	}
	return out
}

// CarvedWidth is the result of carving one line band around the floats that
// overlap it: the usable width and its offset from the column's left edge.
type CarvedWidth struct {
	Width   float64
	OffsetX float64
}

// AvailableWidth carves the line band [lineY, lineY+lineHeight) around the
// overlapping wrapping zones. The left boundary is pushed right by left-side
// zones (including their right clearance); the right boundary is pulled left
// by right-side zones (including their left clearance). Width is clamped to
// a minimum of 1 so line breaking always makes forward progress, even when
// floats fully overlap the line.
func (fs *FloatSpace) AvailableWidth(lineY, lineHeight, baseWidth float64, columnIndex, pageNumber int) CarvedWidth {
	left := 0.0
	right := baseWidth
	for _, z := range fs.ExclusionsForLine(lineY, lineHeight, columnIndex, pageNumber) {
		switch z.Side {
		case SideLeft:
			edge := z.Bounds.X + z.Bounds.Width + z.Distances.Right
			if edge > left {
				left = edge
			}
		case SideRight:
			edge := z.Bounds.X - z.Distances.Left
			if edge < right {
				right = edge
			}
		}
	}
	width := right - left
	if width < 1 {
		width = 1
	}
	return CarvedWidth{Width: width, OffsetX: left}
}
