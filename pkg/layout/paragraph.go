package layout

import (
	"fmt"

	"pageflow/pkg/doc"
)

// maxRemeasure bounds the measure/carve negotiation per paragraph. Each
// accepted measure narrows to the carved width, so the loop converges in one
// step in practice; the bound only guards against a measurer that never
// settles.
const maxRemeasure = 4

// placeParagraph lays out one paragraph's lines and advances the cursor.
//
// Spacing follows Word's model: spacingBefore stacks on top of whatever
// trailing space the previous paragraph already left in the cursor, except
// under contextual spacing, where two adjacent paragraphs of the same named
// style behave as if unseparated. In that case the current paragraph's
// spacingBefore is suppressed and the previous paragraph's trailing space is
// undone before any content height is added. Its own spacingAfter still
// applies at the end.
func (e *Engine) placeParagraph(b *doc.Block, pm *doc.ParagraphMeasure) error {
	p := b.Paragraph
	attrs := p.Attrs
	st := e.ensurePage()

	contextual := attrs.ContextualSpacing && attrs.StyleID != "" && attrs.StyleID == st.lastStyleID
	before := sanitize(attrs.SpacingBefore)
	if contextual {
		st.cursorY -= st.trailingSpacing
		before = 0
	}
	st.cursorY += before

	indentLeft := sanitize(attrs.IndentLeft)
	if pm.Marker != nil {
		indentLeft += sanitize(pm.Marker.IndentLeft)
	} else if attrs.Marker != nil {
		indentLeft += sanitize(attrs.Marker.IndentLeft)
	}
	indentRight := sanitize(attrs.IndentRight)

	firstLineIndent := markerFirstLineIndent(p, pm)

	// Float-aware re-measure: the paragraph was measured at some width; if
	// carving around floats leaves a different width where the paragraph
	// starts, ask the measurer again at the carved width. Only the last
	// accepted measurement is used for placement.
	for attempt := 0; attempt < maxRemeasure && len(pm.Lines) > 0; attempt++ {
		first := pm.Lines[0]
		ext := e.lineExtent(st, lineHeightOf(first), indentLeft, indentRight)
		// The first line was broken against the measure width minus the
		// inline marker indent; undo that before comparing.
		want := ext.Width - firstLineIndent
		if want < 1 {
			want = 1
		}
		if want == first.MaxWidth {
			break
		}
		if e.opts.Remeasure == nil {
			e.opts.Logger.Debug("float carving changed width but no remeasure hook is set",
				"block", b.ID, "measured", first.MaxWidth, "carved", ext.Width)
			break
		}
		nm, err := e.opts.Remeasure(b, ext.Width, firstLineIndent)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRemeasureFailed, err)
		}
		if nm == nil || nm.Paragraph == nil {
			return ErrRemeasureFailed
		}
		pm = nm.Paragraph
	}

	for i, line := range pm.Lines {
		lh := lineHeightOf(line)
		if st.cursorY+lh > st.contentBottom && st.cursorY > st.topMargin {
			st = e.advanceColumn()
		}
		carved := e.lineExtent(st, lh, indentLeft, indentRight)
		x := e.columnX(st.columnIndex) + carved.OffsetX

		if i == 0 && attrs.Marker != nil {
			e.emitMarker(st, b, pm, attrs.Marker, x, lh)
		}
		if i == 0 {
			x += firstLineIndent
		}

		switch attrs.Align {
		case doc.AlignCenter:
			x += (carved.Width - line.Width) / 2
		case doc.AlignRight:
			x += carved.Width - line.Width
		}

		st.page.Fragments = append(st.page.Fragments, Fragment{
			Kind:      FragmentLine,
			BlockID:   b.ID,
			Column:    st.columnIndex,
			Bounds:    Rect{X: x, Y: st.cursorY, Width: line.Width, Height: lh},
			LineIndex: i,
			FromRun:   line.FromRun,
			FromChar:  line.FromChar,
			ToRun:     line.ToRun,
			ToChar:    line.ToChar,
			Ascent:    line.Ascent,
		})
		st.cursorY += lh
	}

	after := positiveFinite(attrs.SpacingAfter)
	st.cursorY += after
	st.trailingSpacing = after
	st.lastStyleID = attrs.StyleID
	return nil
}

// lineExtent computes the usable horizontal extent of one line band in
// column-local coordinates. Floats are carved in the column frame first, then
// the result is intersected with the paragraph's indent box: the line starts
// at whichever of the carve boundary and the left indent lies further right,
// and ends at whichever of the carve boundary and the right indent lies
// further left. Width is clamped to a minimum of 1 so line breaking always
// makes forward progress.
func (e *Engine) lineExtent(st *pageState, lineHeight, indentLeft, indentRight float64) CarvedWidth {
	colW := e.columnWidth()
	carved := e.floats.AvailableWidth(st.cursorY, lineHeight, colW, st.columnIndex, st.page.Number)
	left := carved.OffsetX
	if indentLeft > left {
		left = indentLeft
	}
	right := carved.OffsetX + carved.Width
	if edge := colW - indentRight; edge < right {
		right = edge
	}
	width := right - left
	if width < 1 {
		width = 1
	}
	return CarvedWidth{Width: width, OffsetX: left}
}

// lineHeightOf returns the usable height of a measured line, falling back to
// ascent+descent when the measurer left LineHeight unset.
func lineHeightOf(l doc.Line) float64 {
	lh := sanitize(l.LineHeight)
	if lh == 0 {
		lh = sanitize(l.Ascent) + sanitize(l.Descent)
	}
	return lh
}

// markerFirstLineIndent computes the extra indent the first line carries when
// the paragraph's marker flows inline before the text. Outside first-line-
// indent mode, or without a marker, the hanging box model applies and the
// result is 0.
//
// The marker width falls back from the measured marker width to the marker
// box width to 0; the gutter is added on top. Both components are sanitized
// before summing so a hostile NaN never reaches the measurer or the cursor.
func markerFirstLineIndent(p *doc.ParagraphBlock, pm *doc.ParagraphMeasure) float64 {
	mk := p.Attrs.Marker
	if mk == nil || !mk.FirstLineIndentMode {
		return 0
	}
	if pm != nil && pm.Marker != nil {
		m := pm.Marker
		return sanitizeOpt(m.MarkerWidth, m.MarkerBoxWidth) + sanitizeOpt(m.GutterWidth)
	}
	return sanitizeOpt(mk.MarkerWidth, mk.MarkerBoxWidth) + sanitizeOpt(mk.GutterWidth)
}

// emitMarker places the list marker fragment for the paragraph's first line.
// In hanging mode the marker sits in the margin to the left of the text box;
// in first-line-indent mode it occupies the indent the first line was
// measured with.
func (e *Engine) emitMarker(st *pageState, b *doc.Block, pm *doc.ParagraphMeasure, mk *doc.MarkerLayout, textX, lineHeight float64) {
	var markerW, gutter float64
	if pm.Marker != nil {
		markerW = sanitizeOpt(pm.Marker.MarkerWidth, pm.Marker.MarkerBoxWidth)
		gutter = sanitizeOpt(pm.Marker.GutterWidth)
	} else {
		markerW = sanitizeOpt(mk.MarkerWidth, mk.MarkerBoxWidth)
		gutter = sanitizeOpt(mk.GutterWidth)
	}
	x := textX
	if !mk.FirstLineIndentMode {
		x = textX - gutter - markerW
	}
	st.page.Fragments = append(st.page.Fragments, Fragment{
		Kind:    FragmentMarker,
		BlockID: b.ID,
		Column:  st.columnIndex,
		Bounds:  Rect{X: x, Y: st.cursorY, Width: markerW, Height: lineHeight},
		Text:    mk.Text,
	})
}
