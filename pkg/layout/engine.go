package layout

import (
	"fmt"
	"time"

	"pageflow/pkg/doc"
	"pageflow/pkg/safety"
)

// geometry is the page geometry in effect for newly created pages. Section
// breaks mutate it as the block loop advances.
type geometry struct {
	pageSize    doc.Size
	orientation doc.Orientation
	margins     Margins
	columns     doc.Columns
}

// Engine paginates a flat block sequence into a Layout. An Engine is cheap
// to create and is not safe for concurrent use; run one pass at a time.
type Engine struct {
	opts   Options
	floats *FloatSpace

	// per-pass state
	pages        []*Page
	state        *pageState
	geom         geometry
	sectionIndex int
}

// New creates an Engine with the given options. The options' geometry is in
// effect immediately, so cursor and width queries work before the first pass.
func New(opts Options) *Engine {
	e := &Engine{
		opts:   opts.withDefaults(),
		floats: NewFloatSpace(),
	}
	e.geom = geometry{
		pageSize:    e.opts.PageSize,
		orientation: e.opts.Orientation,
		margins:     e.opts.Margins,
		columns:     e.opts.Columns,
	}
	e.floats.SetLayoutContext(e.geom.columns, e.geom.margins, e.geom.pageSize.Width)
	return e
}

// Floats exposes the engine's float registry, mainly for callers that need
// AllFloatsForPage when painting.
func (e *Engine) Floats() *FloatSpace {
	return e.floats
}

// LayoutDocument turns blocks plus their measures into a Layout. The measures
// slice is parallel to blocks; break blocks carry no size and may have a nil
// entry, every other kind must have a measure of the matching kind.
//
// The pass is observed by the configured safety net: an error feeds its
// error counter, a clean pass resets it, and wall-clock duration is reported
// against the layout latency budget either way.
func (e *Engine) LayoutDocument(blocks []*doc.Block, measures []*doc.Measure) (*Layout, error) {
	start := time.Now()
	out, err := e.layoutDocument(blocks, measures)
	if net := e.opts.Net; net != nil {
		if err != nil {
			net.RecordError()
		} else {
			net.Reset()
		}
		net.RecordLatency(safety.MetricLayout, time.Since(start))
	}
	return out, err
}

func (e *Engine) layoutDocument(blocks []*doc.Block, measures []*doc.Measure) (*Layout, error) {
	if len(blocks) != len(measures) {
		return nil, fmt.Errorf("%w: %d blocks, %d measures", ErrMissingMeasure, len(blocks), len(measures))
	}

	// Pass-scoped state: zones and cursors never survive across passes.
	e.floats.Clear()
	e.pages = nil
	e.state = nil
	e.sectionIndex = 0
	e.geom = geometry{
		pageSize:    e.opts.PageSize,
		orientation: e.opts.Orientation,
		margins:     e.opts.Margins,
		columns:     e.opts.Columns,
	}
	e.floats.SetLayoutContext(e.geom.columns, e.geom.margins, e.geom.pageSize.Width)

	for i, b := range blocks {
		if b == nil {
			return nil, fmt.Errorf("%w: block %d is nil", ErrUnknownBlockKind, i)
		}
		m := measures[i]
		if err := e.placeBlock(b, m); err != nil {
			return nil, fmt.Errorf("block %d (%s, kind %s): %w", i, b.ID, b.Kind, err)
		}
	}

	// An empty document still yields one page.
	e.ensurePage()

	e.stampHeaderFooters()

	tracks := make(map[TrackKey]*HeaderFooterTrack, len(e.opts.Tracks))
	for k, t := range e.opts.Tracks {
		tracks[k] = t
	}
	return &Layout{Pages: e.pages, HeaderFooter: tracks}, nil
}

// placeBlock dispatches one block by kind. Unknown kinds are contract
// violations, not skippable noise.
func (e *Engine) placeBlock(b *doc.Block, m *doc.Measure) error {
	switch b.Kind {
	case doc.KindParagraph:
		pm, err := paragraphMeasure(b, m)
		if err != nil {
			return err
		}
		return e.placeParagraph(b, pm)
	case doc.KindImage:
		bm, err := boxMeasure(b, m)
		if err != nil {
			return err
		}
		e.placeInlineBox(b.ID, FragmentImage, bm.Width, bm.Height)
		return nil
	case doc.KindDrawing:
		return e.placeDrawing(b, m)
	case doc.KindTable:
		tm, err := tableMeasure(b, m)
		if err != nil {
			return err
		}
		e.placeTable(b, tm)
		return nil
	case doc.KindSectionBreak:
		return e.applySectionBreak(b.SectionBreak)
	case doc.KindPageBreak:
		e.advancePage()
		return nil
	}
	return fmt.Errorf("%w: %d", ErrUnknownBlockKind, int(b.Kind))
}

func paragraphMeasure(b *doc.Block, m *doc.Measure) (*doc.ParagraphMeasure, error) {
	if b.Paragraph == nil {
		return nil, fmt.Errorf("%w: paragraph payload missing", ErrUnknownBlockKind)
	}
	if m == nil {
		return nil, ErrMissingMeasure
	}
	if m.Paragraph == nil {
		return nil, ErrMeasureKindMismatch
	}
	return m.Paragraph, nil
}

func boxMeasure(b *doc.Block, m *doc.Measure) (*doc.BoxMeasure, error) {
	if m == nil {
		return nil, ErrMissingMeasure
	}
	if m.Box == nil {
		return nil, ErrMeasureKindMismatch
	}
	return m.Box, nil
}

func tableMeasure(b *doc.Block, m *doc.Measure) (*doc.TableMeasure, error) {
	if b.Table == nil {
		return nil, fmt.Errorf("%w: table payload missing", ErrUnknownBlockKind)
	}
	if m == nil {
		return nil, ErrMissingMeasure
	}
	if m.Table == nil {
		return nil, ErrMeasureKindMismatch
	}
	return m.Table, nil
}

// contentWidth is the page width minus horizontal margins.
func (e *Engine) contentWidth() float64 {
	return e.geom.pageSize.Width - e.geom.margins.Left - e.geom.margins.Right
}

// columnWidth is the width of one column under the current geometry.
func (e *Engine) columnWidth() float64 {
	cols := e.geom.columns.Normalized()
	w := (e.contentWidth() - cols.Gap*float64(cols.Count-1)) / float64(cols.Count)
	if w < 0 {
		w = 0
	}
	return w
}

// columnX is the page-coordinate left edge of the given column.
func (e *Engine) columnX(columnIndex int) float64 {
	return e.geom.margins.Left + float64(columnIndex)*(e.columnWidth()+e.geom.columns.Gap)
}

// ensurePage returns the live cursor, creating the first page on demand.
func (e *Engine) ensurePage() *pageState {
	if e.state == nil {
		e.newPage()
	}
	return e.state
}

// newPage opens a fresh page under the current geometry and resets the
// cursor to its first column.
func (e *Engine) newPage() *pageState {
	pg := &Page{
		Number:       len(e.pages) + 1,
		Width:        e.geom.pageSize.Width,
		Height:       e.geom.pageSize.Height,
		Orientation:  e.geom.orientation,
		SectionIndex: e.sectionIndex,
	}
	e.pages = append(e.pages, pg)
	e.floats.SetLayoutContext(e.geom.columns, e.geom.margins, e.geom.pageSize.Width)
	e.state = &pageState{
		page:          pg,
		columnIndex:   0,
		cursorY:       e.geom.margins.Top,
		topMargin:     e.geom.margins.Top,
		contentBottom: e.geom.pageSize.Height - e.geom.margins.Bottom,
	}
	return e.state
}

// advanceColumn moves the cursor to the next column, rolling over to a new
// page after the last one. Pending space-after never carries across a break,
// and contextual spacing never applies across one either.
func (e *Engine) advanceColumn() *pageState {
	if e.state == nil {
		return e.newPage()
	}
	st := e.state
	if st.columnIndex+1 < e.geom.columns.Normalized().Count {
		st.columnIndex++
		st.cursorY = st.topMargin
		st.trailingSpacing = 0
		st.lastStyleID = ""
		return st
	}
	return e.newPage()
}

// advancePage forces a new page regardless of remaining space or column.
func (e *Engine) advancePage() *pageState {
	return e.newPage()
}

// applySectionBreak updates the geometry in effect and performs the break's
// structural transition.
func (e *Engine) applySectionBreak(sb *doc.SectionBreakBlock) error {
	if sb == nil {
		return fmt.Errorf("%w: section break payload missing", ErrBadSectionGeometry)
	}
	prevColumns := e.geom.columns.Normalized()
	if sb.Geometry != nil {
		if err := e.mergeGeometry(sb.Geometry); err != nil {
			return err
		}
	}
	switch sb.Type {
	case doc.SectionNextPage:
		e.sectionIndex++
		e.state = nil
	case doc.SectionEvenPage, doc.SectionOddPage:
		e.state = nil
		wantEven := sb.Type == doc.SectionEvenPage
		next := len(e.pages) + 1
		if (next%2 == 0) != wantEven {
			// Parity mismatch: pad with a blank page so the section's first
			// content page lands on the requested side. The blank page still
			// belongs to the outgoing section.
			e.newPage()
			e.state = nil
		}
		e.sectionIndex++
	case doc.SectionContinuous:
		e.sectionIndex++
		if e.state == nil {
			break
		}
		st := e.state
		newColumns := e.geom.columns.Normalized()
		if newColumns != prevColumns && st.cursorY < st.contentBottom {
			// The new column grid starts as a band at the current cursor;
			// page size and orientation changes wait for the next page.
			st.topMargin = st.cursorY
			st.columnIndex = 0
			st.trailingSpacing = 0
			st.lastStyleID = ""
			e.floats.SetLayoutContext(newColumns, e.geom.margins, e.geom.pageSize.Width)
		}
		// Otherwise the geometry simply takes effect at the next natural
		// page boundary.
	default:
		return fmt.Errorf("%w: unknown section break type %d", ErrBadSectionGeometry, int(sb.Type))
	}
	return nil
}

// mergeGeometry folds a section's geometry into the one in effect. Omitted
// pieces inherit; a half-specified page size is a contract violation.
func (e *Engine) mergeGeometry(g *doc.SectionGeometry) error {
	hasW, hasH := g.PageSize.Width > 0, g.PageSize.Height > 0
	if g.PageSize.Width < 0 || g.PageSize.Height < 0 || hasW != hasH {
		return fmt.Errorf("%w: page size %gx%g", ErrBadSectionGeometry, g.PageSize.Width, g.PageSize.Height)
	}
	if hasW {
		e.geom.pageSize = g.PageSize
	}
	if g.Columns.Count < 0 || g.Columns.Gap < 0 {
		return fmt.Errorf("%w: columns count=%d gap=%g", ErrBadSectionGeometry, g.Columns.Count, g.Columns.Gap)
	}
	if g.Columns.Count > 0 {
		e.geom.columns = g.Columns.Normalized()
	}
	if g.Orientation != nil && *g.Orientation != e.geom.orientation {
		e.geom.orientation = *g.Orientation
		// Swap page dimensions so the longer edge follows the orientation.
		w, h := e.geom.pageSize.Width, e.geom.pageSize.Height
		if (*g.Orientation == doc.Landscape && h > w) || (*g.Orientation == doc.Portrait && w > h) {
			e.geom.pageSize = doc.Size{Width: h, Height: w}
		}
	}
	return nil
}

// placeInlineBox places a non-floating box (inline image or drawing) like a
// single oversized line: break to the next column when it does not fit,
// unless the column is already fresh.
func (e *Engine) placeInlineBox(blockID string, kind FragmentKind, w, h float64) {
	st := e.ensurePage()
	h = sanitize(h)
	if st.cursorY+h > st.contentBottom && st.cursorY > st.topMargin {
		st = e.advanceColumn()
	}
	st.page.Fragments = append(st.page.Fragments, Fragment{
		Kind:    kind,
		BlockID: blockID,
		Column:  st.columnIndex,
		Bounds:  Rect{X: e.columnX(st.columnIndex), Y: st.cursorY, Width: sanitize(w), Height: h},
	})
	st.cursorY += h
	st.trailingSpacing = 0
	st.lastStyleID = ""
}

// placeDrawing either registers a float (anchored, wrapping) or falls back
// to inline placement. A registered float does not advance the cursor; the
// carved width seen by subsequent paragraph lines is its only effect on flow.
func (e *Engine) placeDrawing(b *doc.Block, m *doc.Measure) error {
	if b.Drawing == nil {
		return fmt.Errorf("%w: drawing payload missing", ErrUnknownBlockKind)
	}
	bm, err := boxMeasure(b, m)
	if err != nil {
		return err
	}
	st := e.ensurePage()
	zone := e.floats.RegisterDrawing(b, m, st.cursorY, st.columnIndex, st.page.Number)
	if zone == nil {
		e.placeInlineBox(b.ID, FragmentImage, bm.Width, bm.Height)
		return nil
	}
	st.page.Fragments = append(st.page.Fragments, Fragment{
		Kind:    FragmentFloat,
		BlockID: b.ID,
		Column:  st.columnIndex,
		Bounds: Rect{
			X:      e.columnX(st.columnIndex) + zone.Bounds.X,
			Y:      zone.Bounds.Y,
			Width:  zone.Bounds.Width,
			Height: zone.Bounds.Height,
		},
	})
	return nil
}

// placeTable slices a table between rows, filling each column with as many
// whole rows as fit. At least one row is placed per fragment so a row taller
// than a column still makes progress.
func (e *Engine) placeTable(b *doc.Block, tm *doc.TableMeasure) {
	st := e.ensurePage()
	st.trailingSpacing = 0
	st.lastStyleID = ""
	row := 0
	for row < len(tm.RowHeights) {
		remaining := st.contentBottom - st.cursorY
		from := row
		var sliceH float64
		for row < len(tm.RowHeights) {
			rh := sanitize(tm.RowHeights[row])
			if row > from && sliceH+rh > remaining {
				break
			}
			if row == from && rh > remaining && st.cursorY > st.topMargin {
				// Fresh column gives the row its best chance.
				break
			}
			sliceH += rh
			row++
		}
		if row == from {
			st = e.advanceColumn()
			continue
		}
		st.page.Fragments = append(st.page.Fragments, Fragment{
			Kind:    FragmentTable,
			BlockID: b.ID,
			Column:  st.columnIndex,
			Bounds:  Rect{X: e.columnX(st.columnIndex), Y: st.cursorY, Width: tm.Width, Height: sliceH},
			RowFrom: from,
			RowTo:   row,
		})
		st.cursorY += sliceH
		if row < len(tm.RowHeights) {
			st = e.advanceColumn()
		}
	}
}
