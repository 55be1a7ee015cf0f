package layout

import (
	"strconv"

	"pageflow/pkg/doc"
)

// The resolver family is pure: identical arguments always select identical
// variants, which is what makes header/footer selection cacheable per page.

// HeaderFooterType selects the variant for a physical page against a
// single-section (legacy) identifier. Precedence:
//
//  1. first — physical page 1, title-page flag set, and a first variant exists
//  2. even/odd — when alternation is on, by physical page parity, falling
//     back to default when the parity variant is missing
//  3. default — when present
//
// VariantNone means no header/footer applies.
func HeaderFooterType(pageNumber int, id *doc.HeaderFooterIdentifier, kind doc.HFKind) doc.Variant {
	if id == nil {
		return doc.VariantNone
	}
	return selectVariant(pageNumber, pageNumber, id.TitlePg, id.AlternateHeaders, id.Refs(kind))
}

// HeaderFooterTypeForSection selects the variant for a page within a
// section. The title-page check uses the section-relative page number (1 for
// the section's first physical page), while even/odd alternation stays
// global, keyed by the physical page number. A section without refs of its
// own falls back to the legacy/global map; a title-page flag set on such a
// section still applies against the fallback refs.
func HeaderFooterTypeForSection(pageNumber, sectionIndex int, id *doc.MultiSectionHeaderFooterIdentifier, kind doc.HFKind, sectionPageNumber int) doc.Variant {
	if id == nil {
		return doc.VariantNone
	}
	if s := id.Section(sectionIndex); s != nil {
		refs := s.Refs(kind)
		titlePg := s.TitlePg
		if len(refs) == 0 {
			refs = id.Refs(kind)
			titlePg = titlePg || id.TitlePg
		}
		return selectVariant(sectionPageNumber, pageNumber, titlePg, id.AlternateHeaders, refs)
	}
	return selectVariant(sectionPageNumber, pageNumber, id.TitlePg, id.AlternateHeaders, id.Refs(kind))
}

// selectVariant applies the shared precedence. firstPageNumber decides the
// title-page check; parityPageNumber decides even/odd alternation.
func selectVariant(firstPageNumber, parityPageNumber int, titlePg, alternate bool, refs map[doc.Variant]string) doc.Variant {
	if len(refs) == 0 {
		return doc.VariantNone
	}
	if firstPageNumber == 1 && titlePg {
		if _, ok := refs[doc.VariantFirst]; ok {
			return doc.VariantFirst
		}
	}
	if alternate {
		want := doc.VariantOdd
		if parityPageNumber%2 == 0 {
			want = doc.VariantEven
		}
		if _, ok := refs[want]; ok {
			return want
		}
	}
	if _, ok := refs[doc.VariantDefault]; ok {
		return doc.VariantDefault
	}
	return doc.VariantNone
}

// HeaderFooterIDForPage resolves the content id for a page, most specific
// source first: the refs stamped on the page during pagination, then the
// page's section map, then the legacy/global map.
func HeaderFooterIDForPage(page *Page, id *doc.MultiSectionHeaderFooterIdentifier, kind doc.HFKind, sectionPageNumber int) string {
	if page == nil {
		return ""
	}
	if stamped := page.SectionRefs.ID(kind); stamped != "" {
		return stamped
	}
	if id == nil {
		return ""
	}
	variant := HeaderFooterTypeForSection(page.Number, page.SectionIndex, id, kind, sectionPageNumber)
	if variant == doc.VariantNone {
		return ""
	}
	if s := id.Section(page.SectionIndex); s != nil {
		if cid, ok := s.Refs(kind)[variant]; ok {
			return cid
		}
	}
	return id.Refs(kind)[variant]
}

// HeaderFooterResolution is what a painter needs to draw one page's header
// or footer.
type HeaderFooterResolution struct {
	Type         doc.Variant
	Track        *HeaderFooterTrack
	Page         *Page
	SectionIndex int
	ContentID    string
}

// ResolveHeaderFooterForPage is the top-level per-page entry: it derives the
// page's section-relative number from the layout, selects the variant, and
// returns the matching track plus the track page to paint (the track page
// with the same physical number, or the track's first page as fallback).
// Returns nil when no variant applies.
func ResolveHeaderFooterForPage(layout *Layout, pageIndex int, id *doc.MultiSectionHeaderFooterIdentifier, kind doc.HFKind) *HeaderFooterResolution {
	if layout == nil || pageIndex < 0 || pageIndex >= len(layout.Pages) {
		return nil
	}
	page := layout.Pages[pageIndex]
	spn := SectionPageNumber(layout, pageIndex)

	variant := HeaderFooterTypeForSection(page.Number, page.SectionIndex, id, kind, spn)
	if variant == doc.VariantNone {
		return nil
	}
	res := &HeaderFooterResolution{
		Type:         variant,
		SectionIndex: page.SectionIndex,
		ContentID:    HeaderFooterIDForPage(page, id, kind, spn),
	}
	if track, ok := layout.HeaderFooter[TrackKey{Kind: kind, Variant: variant}]; ok {
		res.Track = track
		for _, tp := range track.Pages {
			if tp.Number == page.Number {
				res.Page = tp
				break
			}
		}
		if res.Page == nil && len(track.Pages) > 0 {
			res.Page = track.Pages[0]
		}
	}
	return res
}

// SectionPageNumber returns the 1-based page number of the given page within
// its section: 1 for the first physical page carrying that section index.
func SectionPageNumber(layout *Layout, pageIndex int) int {
	page := layout.Pages[pageIndex]
	first := pageIndex
	for first > 0 && layout.Pages[first-1].SectionIndex == page.SectionIndex {
		first--
	}
	return pageIndex - first + 1
}

// stampHeaderFooters runs the per-page resolver consultation at the end of
// pagination and stamps each page with its resolved content ids.
func (e *Engine) stampHeaderFooters() {
	id := e.opts.HeaderFooter
	if id == nil {
		return
	}
	layout := &Layout{Pages: e.pages}
	for i, pg := range e.pages {
		spn := SectionPageNumber(layout, i)
		refs := &doc.SectionRefs{}
		for _, kind := range []doc.HFKind{doc.Header, doc.Footer} {
			variant := HeaderFooterTypeForSection(pg.Number, pg.SectionIndex, id, kind, spn)
			if variant == doc.VariantNone {
				continue
			}
			var cid string
			if s := id.Section(pg.SectionIndex); s != nil {
				cid = s.Refs(kind)[variant]
			}
			if cid == "" {
				cid = id.Refs(kind)[variant]
			}
			if kind == doc.Header {
				refs.HeaderID = cid
			} else {
				refs.FooterID = cid
			}
		}
		if refs.HeaderID != "" || refs.FooterID != "" {
			pg.SectionRefs = refs
		}
	}
}

// ResolveTokens returns a copy of a header/footer block batch with every
// page-number and total-page-count token's display text replaced by digits
// for the given page. The input batch is shared across every page that uses
// the variant, so resolution never mutates it: paragraphs and runs are
// shallow-cloned into the result, and the token tags themselves are kept so
// a later pass can re-resolve under a different page context.
func ResolveTokens(batch []*doc.Block, pageNumber, totalPages int) []*doc.Block {
	out := make([]*doc.Block, len(batch))
	for i, b := range batch {
		if b == nil || b.Paragraph == nil {
			out[i] = b
			continue
		}
		nb := *b
		np := *b.Paragraph
		np.Runs = make([]doc.Run, len(b.Paragraph.Runs))
		for j, r := range b.Paragraph.Runs {
			switch r.Token {
			case doc.TokenPageNumber:
				r.Text = strconv.Itoa(pageNumber)
			case doc.TokenTotalPageCount:
				r.Text = strconv.Itoa(totalPages)
			}
			np.Runs[j] = r
		}
		nb.Paragraph = &np
		out[i] = &nb
	}
	return out
}
