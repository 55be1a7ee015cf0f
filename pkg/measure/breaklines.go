package measure

import (
	"unicode"
	"unicode/utf8"

	"pageflow/pkg/doc"
)

// WidthFunc measures the advance width of a string under the measurer's
// font. It must be pure: the breaker calls it repeatedly for overlapping
// prefixes of the same text.
type WidthFunc func(s string) float64

// Metrics are the vertical font metrics applied to every line.
type Metrics struct {
	Ascent  float64
	Descent float64
}

// LineHeight is the vertical advance per line.
func (m Metrics) LineHeight() float64 {
	return m.Ascent + m.Descent
}

// word is one breaking unit within a run: a maximal sequence of non-space
// characters, or a single space sequence.
type word struct {
	run        int
	start, end int // byte offsets within the run's text
	text       string
	space      bool
}

// splitWords flattens runs into breaking units, preserving run and byte
// offsets so lines can address their slice of the paragraph. Iteration is by
// rune: word boundaries never fall inside a multi-byte sequence.
func splitWords(runs []doc.Run) []word {
	var words []word
	for ri, r := range runs {
		text := r.Text
		i := 0
		for i < len(text) {
			first, size := utf8.DecodeRuneInString(text[i:])
			isSpace := unicode.IsSpace(first)
			j := i + size
			for j < len(text) {
				nr, ns := utf8.DecodeRuneInString(text[j:])
				if unicode.IsSpace(nr) != isSpace {
					break
				}
				j += ns
			}
			words = append(words, word{run: ri, start: i, end: j, text: text[i:j], space: isSpace})
			i = j
		}
	}
	return words
}

// breakRuns greedily wraps the runs at word boundaries. The first line is
// narrowed by firstLineIndent (inline list markers); later lines use the
// full maxWidth. A word wider than the whole line is placed anyway rather
// than broken mid-word, so every word makes forward progress.
func breakRuns(runs []doc.Run, maxWidth, firstLineIndent float64, width WidthFunc, m Metrics) []doc.Line {
	words := splitWords(runs)
	lh := m.LineHeight()

	newLine := func(availIdx int) doc.Line {
		avail := maxWidth
		if availIdx == 0 {
			avail = maxWidth - firstLineIndent
			if avail < 1 {
				avail = 1
			}
		}
		return doc.Line{
			Ascent:     m.Ascent,
			Descent:    m.Descent,
			LineHeight: lh,
			MaxWidth:   avail,
		}
	}

	var lines []doc.Line
	cur := newLine(0)
	started := false

	flush := func() {
		lines = append(lines, cur)
		cur = newLine(len(lines))
		started = false
	}

	for _, w := range words {
		ww := width(w.text)
		if started && !w.space && cur.Width+ww > cur.MaxWidth {
			flush()
		}
		if !started {
			if w.space {
				// Leading spaces collapse at a line start.
				continue
			}
			cur.FromRun = w.run
			cur.FromChar = w.start
			started = true
		}
		cur.Width += ww
		cur.ToRun = w.run
		cur.ToChar = w.end
	}
	if started {
		lines = append(lines, cur)
	}
	if len(lines) == 0 {
		// An empty paragraph still occupies one line of height.
		lines = append(lines, newLine(0))
	}
	return lines
}
