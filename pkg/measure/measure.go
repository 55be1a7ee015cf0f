// Package measure is a reference implementation of the engine's external
// measurer contract: it turns a block plus an available width into a Measure,
// and can be called repeatedly for the same block at different widths.
//
// Text is measured against a real font face (TrueType via freetype, metrics
// via x/image/font, string advances via a gg drawing context), the same
// tooling the rest of the ecosystem measures with. Construction from a
// WidthFunc is also supported so tests and embedders can supply synthetic
// widths without any font on disk.
package measure

import (
	"fmt"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"

	"pageflow/pkg/doc"
)

// defaultGutter separates a list marker from its paragraph text when the
// producer did not specify a gutter.
const defaultGutter = 6.0

// cellPadding is the vertical padding applied per table row.
const cellPadding = 4.0

// Measurer measures blocks for the layout engine.
type Measurer struct {
	width   WidthFunc
	metrics Metrics
}

// New creates a Measurer from a width function and fixed vertical metrics.
func New(width WidthFunc, metrics Metrics) *Measurer {
	return &Measurer{width: width, metrics: metrics}
}

// NewFontMeasurer creates a Measurer backed by a TrueType font at the given
// point size.
func NewFontMeasurer(fontPath string, points float64) (*Measurer, error) {
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("measure: read font: %w", err)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("measure: parse font: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{Size: points})
	dc := gg.NewContext(1, 1)
	dc.SetFontFace(face)

	fm := face.Metrics()
	metrics := Metrics{
		Ascent:  fixedToFloat(fm.Ascent),
		Descent: fixedToFloat(fm.Descent),
	}
	width := func(s string) float64 {
		w, _ := dc.MeasureString(norm.NFC.String(s))
		return w
	}
	return &Measurer{width: width, metrics: metrics}, nil
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// MeasureBlock implements the measurer contract for every sized block kind.
// Break blocks carry no size and return a nil measure.
func (ms *Measurer) MeasureBlock(b *doc.Block, maxWidth float64) (*doc.Measure, error) {
	switch b.Kind {
	case doc.KindParagraph:
		return ms.MeasureParagraph(b, maxWidth, 0)
	case doc.KindImage:
		if b.Image == nil {
			return nil, fmt.Errorf("measure: image payload missing on %q", b.ID)
		}
		return &doc.Measure{Kind: b.Kind, Box: fitBox(b.Image.Width, b.Image.Height, maxWidth)}, nil
	case doc.KindDrawing:
		if b.Drawing == nil {
			return nil, fmt.Errorf("measure: drawing payload missing on %q", b.ID)
		}
		return &doc.Measure{Kind: b.Kind, Box: fitBox(b.Drawing.Width, b.Drawing.Height, maxWidth)}, nil
	case doc.KindTable:
		return ms.measureTable(b, maxWidth)
	case doc.KindSectionBreak, doc.KindPageBreak:
		return nil, nil
	}
	return nil, fmt.Errorf("measure: unknown block kind %d", int(b.Kind))
}

// MeasureParagraph breaks a paragraph's runs at the given width. The first
// line is narrowed by firstLineIndent, matching the engine's inline-marker
// indent rule.
func (ms *Measurer) MeasureParagraph(b *doc.Block, maxWidth, firstLineIndent float64) (*doc.Measure, error) {
	if b.Paragraph == nil {
		return nil, fmt.Errorf("measure: paragraph payload missing on %q", b.ID)
	}
	p := b.Paragraph
	pm := &doc.ParagraphMeasure{
		Lines: breakRuns(p.Runs, maxWidth, firstLineIndent, ms.width, ms.metrics),
	}
	if mk := p.Attrs.Marker; mk != nil {
		w := ms.width(mk.Text)
		gutter := defaultGutter
		if mk.GutterWidth != nil {
			gutter = *mk.GutterWidth
		}
		pm.Marker = &doc.MarkerMetrics{
			MarkerWidth: &w,
			GutterWidth: &gutter,
			IndentLeft:  mk.IndentLeft,
		}
	}
	return &doc.Measure{Kind: doc.KindParagraph, Paragraph: pm}, nil
}

// Remeasure adapts the Measurer to the engine's RemeasureFunc.
func (ms *Measurer) Remeasure(b *doc.Block, maxWidth, firstLineIndent float64) (*doc.Measure, error) {
	return ms.MeasureParagraph(b, maxWidth, firstLineIndent)
}

// fitBox clamps intrinsic dimensions to the available width, preserving
// aspect ratio.
func fitBox(w, h, maxWidth float64) *doc.BoxMeasure {
	if w > maxWidth && w > 0 {
		scale := maxWidth / w
		w = maxWidth
		h *= scale
	}
	return &doc.BoxMeasure{Width: w, Height: h}
}

// measureTable measures each cell paragraph at an equal column split and
// takes the tallest cell per row.
func (ms *Measurer) measureTable(b *doc.Block, maxWidth float64) (*doc.Measure, error) {
	if b.Table == nil {
		return nil, fmt.Errorf("measure: table payload missing on %q", b.ID)
	}
	tm := &doc.TableMeasure{Width: maxWidth}
	lh := ms.metrics.LineHeight()
	for _, row := range b.Table.Rows {
		cells := len(row.Cells)
		if cells == 0 {
			tm.RowHeights = append(tm.RowHeights, lh+2*cellPadding)
			continue
		}
		cellWidth := maxWidth / float64(cells)
		tallest := 1
		for _, cell := range row.Cells {
			if cell.Paragraph == nil {
				continue
			}
			lines := breakRuns(cell.Paragraph.Runs, cellWidth, 0, ms.width, ms.metrics)
			if len(lines) > tallest {
				tallest = len(lines)
			}
		}
		tm.RowHeights = append(tm.RowHeights, float64(tallest)*lh+2*cellPadding)
	}
	return &doc.Measure{Kind: doc.KindTable, Table: tm}, nil
}
