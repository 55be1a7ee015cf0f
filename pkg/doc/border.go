package doc

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// Border is the tri-state a table cell border attribute can be in. Producers
// distinguish "attribute absent" from "attribute present but explicitly
// cleared" from "attribute carries a spec", and adjacent-border resolution
// caches key off all three states, so the distinction must survive hashing.
type Border struct {
	State BorderState `json:"state"`
	Spec  *BorderSpec `json:"spec,omitempty"`
}

// BorderState tags the three border states.
type BorderState int

const (
	// BorderUnset: the attribute was never present.
	BorderUnset BorderState = iota
	// BorderCleared: the attribute was present but explicitly empty.
	BorderCleared
	// BorderSet: the attribute carries a BorderSpec (which may itself be
	// the explicit "none" border).
	BorderSet
)

// BorderSpec describes one drawn (or explicitly suppressed) border edge.
type BorderSpec struct {
	None  bool    `json:"none,omitempty"`
	Style string  `json:"style,omitempty"`
	Width float64 `json:"width,omitempty"`
	Color string  `json:"color,omitempty"`
}

// CacheKey hashes a border for use in adjacent-border resolution caches.
// The three sentinel states (unset, cleared, set-to-none) all hash
// differently from each other and from any drawn spec, and equal specs hash
// identically because fields are folded in a fixed canonical order.
func (b Border) CacheKey() uint64 {
	h := fnv.New64a()
	switch b.State {
	case BorderUnset:
		h.Write([]byte{0x00})
	case BorderCleared:
		h.Write([]byte{0x01})
	case BorderSet:
		h.Write([]byte{0x02})
		b.Spec.fold(h)
	}
	return h.Sum64()
}

func (s *BorderSpec) fold(h interface{ Write([]byte) (int, error) }) {
	if s == nil {
		h.Write([]byte{0x00})
		return
	}
	if s.None {
		h.Write([]byte{0x01})
		return
	}
	h.Write([]byte{0x02})
	h.Write([]byte(s.Style))
	h.Write([]byte{0x00})
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(s.Width))
	h.Write(buf[:])
	h.Write([]byte(s.Color))
}
