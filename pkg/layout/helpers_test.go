package layout

import (
	"pageflow/pkg/doc"
)

// testOptions gives round numbers: 600-wide single column, content from
// y=50 down to y=950.
func testOptions() Options {
	return Options{
		PageSize: doc.Size{Width: 700, Height: 1000},
		Margins:  Margins{Top: 50, Right: 50, Bottom: 50, Left: 50},
		Columns:  doc.Columns{Count: 1},
	}
}

func para(id string, attrs doc.ParagraphAttrs, runs ...doc.Run) *doc.Block {
	if len(runs) == 0 {
		runs = []doc.Run{{Text: id}}
	}
	return &doc.Block{
		ID:        id,
		Kind:      doc.KindParagraph,
		Paragraph: &doc.ParagraphBlock{Runs: runs, Attrs: attrs},
	}
}

// paraMeasure builds a measure whose lines were all broken at maxWidth with
// the given heights.
func paraMeasure(maxWidth float64, lineHeights ...float64) *doc.Measure {
	pm := &doc.ParagraphMeasure{}
	for i, lh := range lineHeights {
		pm.Lines = append(pm.Lines, doc.Line{
			FromRun:    0,
			FromChar:   i,
			ToRun:      0,
			ToChar:     i + 1,
			Width:      maxWidth / 2,
			Ascent:     lh * 0.8,
			Descent:    lh * 0.2,
			LineHeight: lh,
			MaxWidth:   maxWidth,
		})
	}
	return &doc.Measure{Kind: doc.KindParagraph, Paragraph: pm}
}

func boxBlock(id string, kind doc.BlockKind, w, h float64) (*doc.Block, *doc.Measure) {
	b := &doc.Block{ID: id, Kind: kind}
	switch kind {
	case doc.KindImage:
		b.Image = &doc.ImageBlock{Width: w, Height: h}
	case doc.KindDrawing:
		b.Drawing = &doc.DrawingBlock{Width: w, Height: h}
	}
	return b, &doc.Measure{Kind: kind, Box: &doc.BoxMeasure{Width: w, Height: h}}
}

func sectionBreak(t doc.SectionBreakType, g *doc.SectionGeometry) *doc.Block {
	return &doc.Block{
		ID:           "sb",
		Kind:         doc.KindSectionBreak,
		SectionBreak: &doc.SectionBreakBlock{Type: t, Geometry: g},
	}
}

func pageBreak() *doc.Block {
	return &doc.Block{ID: "pb", Kind: doc.KindPageBreak}
}

// fragmentsOf collects the fragments for one block id across all pages.
func fragmentsOf(l *Layout, blockID string) []Fragment {
	var out []Fragment
	for _, pg := range l.Pages {
		for _, f := range pg.Fragments {
			if f.BlockID == blockID {
				out = append(out, f)
			}
		}
	}
	return out
}

func ptr(v float64) *float64 { return &v }
