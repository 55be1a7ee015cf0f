package doc

// HFKind distinguishes headers from footers in resolver queries.
type HFKind int

const (
	Header HFKind = iota
	Footer
)

func (k HFKind) String() string {
	if k == Footer {
		return "footer"
	}
	return "header"
}

// Variant is the closed set of header/footer variants a page can select.
// VariantNone means "no header/footer applies to this page".
type Variant int

const (
	VariantNone Variant = iota
	VariantDefault
	VariantFirst
	VariantEven
	VariantOdd
)

func (v Variant) String() string {
	switch v {
	case VariantDefault:
		return "default"
	case VariantFirst:
		return "first"
	case VariantEven:
		return "even"
	case VariantOdd:
		return "odd"
	}
	return "none"
}

// HeaderFooterIdentifier maps variants to content ids for a single-section
// document. TitlePg enables the "first page" variant on page 1;
// AlternateHeaders enables even/odd alternation by physical page parity.
type HeaderFooterIdentifier struct {
	TitlePg          bool               `json:"titlePg,omitempty"`
	AlternateHeaders bool               `json:"alternateHeaders,omitempty"`
	Headers          map[Variant]string `json:"headers,omitempty"`
	Footers          map[Variant]string `json:"footers,omitempty"`
}

// Refs returns the header or footer id map for the given kind.
func (id *HeaderFooterIdentifier) Refs(kind HFKind) map[Variant]string {
	if id == nil {
		return nil
	}
	if kind == Footer {
		return id.Footers
	}
	return id.Headers
}

// SectionHeaderFooterRefs is one section's variant maps. TitlePg is
// evaluated per section against the section-relative page number.
type SectionHeaderFooterRefs struct {
	TitlePg bool               `json:"titlePg,omitempty"`
	Headers map[Variant]string `json:"headers,omitempty"`
	Footers map[Variant]string `json:"footers,omitempty"`
}

// Refs returns the header or footer id map for the given kind.
func (s *SectionHeaderFooterRefs) Refs(kind HFKind) map[Variant]string {
	if s == nil {
		return nil
	}
	if kind == Footer {
		return s.Footers
	}
	return s.Headers
}

// MultiSectionHeaderFooterIdentifier extends the legacy identifier with
// per-section variant maps. AlternateHeaders stays document-global. The
// embedded legacy fields must always mirror section 0's map so callers that
// predate multi-section support keep working; SyncLegacy maintains that
// invariant after Sections is modified.
type MultiSectionHeaderFooterIdentifier struct {
	HeaderFooterIdentifier
	Sections []SectionHeaderFooterRefs `json:"sections,omitempty"`
}

// Section returns the refs for sectionIndex, or nil when the section has no
// entry of its own (callers then fall back to the legacy/global map).
func (m *MultiSectionHeaderFooterIdentifier) Section(sectionIndex int) *SectionHeaderFooterRefs {
	if m == nil || sectionIndex < 0 || sectionIndex >= len(m.Sections) {
		return nil
	}
	return &m.Sections[sectionIndex]
}

// SyncLegacy copies section 0's maps and title-page flag into the embedded
// legacy identifier. No-op when there are no sections.
func (m *MultiSectionHeaderFooterIdentifier) SyncLegacy() {
	if m == nil || len(m.Sections) == 0 {
		return
	}
	s := m.Sections[0]
	m.TitlePg = s.TitlePg
	m.Headers = s.Headers
	m.Footers = s.Footers
}

// SectionRefs is the resolved header/footer content stamped onto a page
// during pagination, so paint-time lookup needs no section metadata walk.
type SectionRefs struct {
	HeaderID string `json:"headerId,omitempty"`
	FooterID string `json:"footerId,omitempty"`
}

// ID returns the stamped content id for the given kind.
func (r *SectionRefs) ID(kind HFKind) string {
	if r == nil {
		return ""
	}
	if kind == Footer {
		return r.FooterID
	}
	return r.HeaderID
}
