package layout

import "errors"

// Input contract violations fail fast: pagination correctness depends on a
// strict 1:1 block-measure correspondence, so a bad input is surfaced to the
// caller instead of being silently skipped.
var (
	ErrMissingMeasure      = errors.New("layout: block has no measure")
	ErrMeasureKindMismatch = errors.New("layout: measure kind does not match block kind")
	ErrUnknownBlockKind    = errors.New("layout: unknown block kind")
	ErrBadSectionGeometry  = errors.New("layout: malformed section geometry")
	ErrRemeasureFailed     = errors.New("layout: paragraph remeasure failed")
)
