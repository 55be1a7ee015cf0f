package layout

import (
	"testing"

	"pageflow/pkg/doc"
)

// floatFrame configures a single 600-wide column with no margins, so column
// coordinates and page coordinates coincide.
func floatFrame() *FloatSpace {
	fs := NewFloatSpace()
	fs.SetLayoutContext(doc.Columns{Count: 1}, Margins{}, 600)
	return fs
}

func floatDrawing(id string, w, h float64, align doc.HAlign, text doc.WrapText, dist doc.Distances) *doc.Block {
	return &doc.Block{
		ID:   id,
		Kind: doc.KindDrawing,
		Drawing: &doc.DrawingBlock{
			Width:  w,
			Height: h,
			Anchor: &doc.Anchor{IsAnchored: true, HAlign: align},
			Wrap:   doc.Wrap{Type: doc.WrapSquare, Text: text, Distance: dist},
		},
	}
}

func TestRegisterDrawing_GatesOnAnchorAndWrap(t *testing.T) {
	fs := floatFrame()

	unanchored := floatDrawing("d1", 100, 50, doc.HAlignLeft, doc.WrapTextRight, doc.Distances{})
	unanchored.Drawing.Anchor.IsAnchored = false
	if z := fs.RegisterDrawing(unanchored, nil, 0, 0, 1); z != nil {
		t.Error("unanchored drawing must not register a zone")
	}

	inline := floatDrawing("d2", 100, 50, doc.HAlignLeft, doc.WrapTextRight, doc.Distances{})
	inline.Drawing.Wrap.Type = doc.WrapInline
	if z := fs.RegisterDrawing(inline, nil, 0, 0, 1); z != nil {
		t.Error("inline wrap must not register a zone")
	}

	none := floatDrawing("d3", 100, 50, doc.HAlignLeft, doc.WrapTextRight, doc.Distances{})
	none.Drawing.Wrap.Type = doc.WrapNone
	if z := fs.RegisterDrawing(none, nil, 0, 0, 1); z != nil {
		t.Error("wrap none must not register a zone")
	}

	if got := fs.AllFloatsForPage(1); len(got) != 0 {
		t.Errorf("expected no zones on page 1, got %d", len(got))
	}
}

func TestRegisterDrawing_SideFromWrapText(t *testing.T) {
	fs := floatFrame()

	// Text wraps on the right: the image holds the left side.
	left := fs.RegisterDrawing(floatDrawing("l", 100, 50, doc.HAlignLeft, doc.WrapTextRight, doc.Distances{}), nil, 0, 0, 1)
	if left == nil || left.Side != SideLeft {
		t.Fatalf("wrapText=right should yield a left-side zone, got %+v", left)
	}

	right := fs.RegisterDrawing(floatDrawing("r", 100, 50, doc.HAlignRight, doc.WrapTextLeft, doc.Distances{}), nil, 0, 0, 1)
	if right == nil || right.Side != SideRight {
		t.Fatalf("wrapText=left should yield a right-side zone, got %+v", right)
	}
	if right.Bounds.X != 500 {
		t.Errorf("right-aligned 100-wide drawing in 600 column: X = %g, want 500", right.Bounds.X)
	}
}

func TestRegisterDrawing_BothSidesUsesColumnMidpoint(t *testing.T) {
	fs := floatFrame()

	// Centered-left drawing: center 50 < 300, so the left side.
	z := fs.RegisterDrawing(floatDrawing("a", 100, 50, doc.HAlignLeft, doc.WrapTextBothSides, doc.Distances{}), nil, 0, 0, 1)
	if z == nil || z.Side != SideLeft {
		t.Errorf("left-of-midpoint bothSides zone should side left, got %+v", z)
	}

	z = fs.RegisterDrawing(floatDrawing("b", 100, 50, doc.HAlignRight, doc.WrapTextLargest, doc.Distances{}), nil, 0, 0, 1)
	if z == nil || z.Side != SideRight {
		t.Errorf("right-of-midpoint largest zone should side right, got %+v", z)
	}
}

func TestAvailableWidth_MultiFloatCarving(t *testing.T) {
	fs := floatFrame()

	// Left float 100 wide with 10 clearance on its right, right float 150
	// wide with 10 clearance on its left, both spanning the line band.
	fs.RegisterDrawing(floatDrawing("left", 100, 80, doc.HAlignLeft, doc.WrapTextRight, doc.Distances{Right: 10}), nil, 0, 0, 1)
	fs.RegisterDrawing(floatDrawing("right", 150, 80, doc.HAlignRight, doc.WrapTextLeft, doc.Distances{Left: 10}), nil, 0, 0, 1)

	got := fs.AvailableWidth(0, 20, 600, 0, 1)
	if got.OffsetX != 110 {
		t.Errorf("OffsetX = %g, want 110", got.OffsetX)
	}
	if got.Width != 330 {
		t.Errorf("Width = %g, want 330", got.Width)
	}
}

func TestAvailableWidth_NeverBelowOne(t *testing.T) {
	fs := floatFrame()

	// A float covering the whole column leaves no room; width still clamps
	// to 1 so line breaking keeps making progress.
	fs.RegisterDrawing(floatDrawing("full", 600, 100, doc.HAlignLeft, doc.WrapTextRight, doc.Distances{}), nil, 0, 0, 1)

	got := fs.AvailableWidth(10, 20, 600, 0, 1)
	if got.Width < 1 {
		t.Errorf("Width = %g, must be >= 1", got.Width)
	}
}

func TestAvailableWidth_VerticalClearances(t *testing.T) {
	fs := floatFrame()
	fs.RegisterDrawing(floatDrawing("f", 100, 50, doc.HAlignLeft, doc.WrapTextRight, doc.Distances{Top: 5, Bottom: 5}), nil, 100, 0, 1)

	// Band just above the padded top: no carving.
	if got := fs.AvailableWidth(0, 95, 600, 0, 1); got.Width != 600 {
		t.Errorf("band above float carved to %g, want 600", got.Width)
	}
	// Band overlapping only the bottom clearance: carved.
	if got := fs.AvailableWidth(152, 10, 600, 0, 1); got.Width != 500 {
		t.Errorf("band in bottom clearance carved to %g, want 500", got.Width)
	}
	// Band below the padded extent: no carving.
	if got := fs.AvailableWidth(160, 10, 600, 0, 1); got.Width != 600 {
		t.Errorf("band below float carved to %g, want 600", got.Width)
	}
}

func TestAvailableWidth_FiltersPageColumnAndNonCarvingZones(t *testing.T) {
	fs := floatFrame()
	fs.RegisterDrawing(floatDrawing("p2", 100, 50, doc.HAlignLeft, doc.WrapTextRight, doc.Distances{}), nil, 0, 0, 2)
	fs.RegisterDrawing(floatDrawing("c1", 100, 50, doc.HAlignLeft, doc.WrapTextRight, doc.Distances{}), nil, 0, 1, 1)

	tab := floatDrawing("tab", 100, 50, doc.HAlignLeft, doc.WrapTextRight, doc.Distances{})
	tab.Drawing.Wrap.Type = doc.WrapTopAndBottom
	fs.RegisterDrawing(tab, nil, 0, 0, 1)

	if got := fs.AvailableWidth(0, 20, 600, 0, 1); got.Width != 600 {
		t.Errorf("zones from other pages/columns and top-and-bottom zones must not carve; got %g", got.Width)
	}
	if got := len(fs.AllFloatsForPage(1)); got != 2 {
		t.Errorf("AllFloatsForPage(1) = %d zones, want 2 (other column + top-and-bottom)", got)
	}
	if got := len(fs.ExclusionsForLine(0, 20, 0, 1)); got != 0 {
		t.Errorf("ExclusionsForLine returned %d zones, want 0", got)
	}
}

func TestSetLayoutContext_KeepsRegisteredZones(t *testing.T) {
	fs := floatFrame()
	fs.RegisterDrawing(floatDrawing("keep", 100, 50, doc.HAlignLeft, doc.WrapTextRight, doc.Distances{}), nil, 0, 0, 1)

	// A section break narrows the frame; the existing zone survives as-is.
	fs.SetLayoutContext(doc.Columns{Count: 2, Gap: 20}, Margins{Left: 40, Right: 40}, 600)
	if got := len(fs.AllFloatsForPage(1)); got != 1 {
		t.Fatalf("zone count after SetLayoutContext = %d, want 1", got)
	}
	if got := fs.AvailableWidth(0, 20, 600, 0, 1); got.OffsetX != 100 {
		t.Errorf("zone geometry changed after SetLayoutContext: OffsetX = %g, want 100", got.OffsetX)
	}

	fs.Clear()
	if got := len(fs.AllFloatsForPage(1)); got != 0 {
		t.Errorf("Clear left %d zones", got)
	}
}
