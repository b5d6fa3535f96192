package backdrop

import "math"

// TileScroller computes seamless horizontal tiling for background art that
// is narrower than the viewport, and accumulates a bounded scroll offset for
// infinite wraparound scrolling.
//
// The offset is kept inside (-step, 0] by modular wrap, so precision never
// degrades over long uptime: the accumulator is bounded, not monotonic.
type TileScroller struct {
	step   float64
	count  int
	offset float64
}

// Configure derives the tile step and tile count from a tile's rendered
// width, the configured overlap, and the viewport width. Overlap is clamped
// so the step stays at least 2 px, guaranteeing progress. The count includes
// two tiles beyond the minimum cover so a tile leaving one edge always has a
// positioned successor entering the other before it is needed.
//
// Reconfiguring (resize, texture swap) preserves the current scroll offset,
// re-wrapped into the new step, so re-tiling never visually pops.
func (s *TileScroller) Configure(tileRenderedWidth, overlapPx, viewportWidth float64) {
	if tileRenderedWidth < 2 {
		tileRenderedWidth = 2
	}
	overlap := overlapPx
	if overlap < 0 {
		overlap = 0
	}
	if max := tileRenderedWidth - 2; overlap > max {
		overlap = max
	}
	step := tileRenderedWidth - overlap
	if step < 2 {
		step = 2
	}
	s.step = step

	count := int(math.Ceil(viewportWidth/step)) + 2
	if count < 2 {
		count = 2
	}
	s.count = count

	s.wrap()
}

// Advance accumulates scroll by speed * dt and wraps the offset back into
// (-step, 0]. Positive speed scrolls tiles leftward.
func (s *TileScroller) Advance(dt, speedPxPerSec float64) {
	if s.step <= 0 {
		return
	}
	s.offset -= speedPxPerSec * dt
	s.wrap()
}

// wrap folds the offset into (-step, 0].
func (s *TileScroller) wrap() {
	if s.step <= 0 {
		return
	}
	for s.offset <= -s.step {
		s.offset += s.step
	}
	for s.offset > 0 {
		s.offset -= s.step
	}
}

// Step returns the horizontal distance between consecutive tile origins.
func (s *TileScroller) Step() float64 {
	return s.step
}

// Count returns the number of tiles needed for continuous coverage.
func (s *TileScroller) Count() int {
	return s.count
}

// Offset returns the current scroll offset in (-step, 0].
func (s *TileScroller) Offset() float64 {
	return s.offset
}

// TileX returns the x position of tile i relative to the viewport origin:
// originX + offset + i*step.
func (s *TileScroller) TileX(originX float64, i int) float64 {
	return originX + s.offset + float64(i)*s.step
}
