package solver

import "errors"

// ErrScanlineConstraint is the documented solver pathology on certain HA
// topologies: the engine catches it, disables post-layout
// compaction on every container, and retries exactly once. It must never
// be surfaced past the layout engine.
var ErrScanlineConstraint = errors.New("solver: scanline constraint violation")
