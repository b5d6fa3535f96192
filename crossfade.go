package backdrop

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Crossfade drives a timed alpha transition between two render slots.
// Exactly one slot is authoritative at rest (its alpha is 1, the other 0);
// during a transition both slots render simultaneously with complementary
// opacity. What occupies each slot is the owning layer's business: the same
// mechanism serves a pair of static images and a pair of entire nested
// renderers (the profile-level cloud fade).
type Crossfade struct {
	alpha  [2]float64
	active int
	tween  *gween.Tween
}

// NewCrossfade creates a crossfade at rest with slot 0 active.
func NewCrossfade() *Crossfade {
	c := &Crossfade{}
	c.alpha[0] = 1
	return c
}

// Begin starts a transition toward the currently inactive slot and returns
// that slot's index so the caller can bind new content to it. From rest the
// incoming slot starts at alpha 0. A non-positive duration swaps instantly.
//
// Beginning a new transition while one is in flight retargets immediately;
// there is no queue. The new tween resumes from the current opacity split,
// so neither slot's alpha jumps on a retarget.
func (c *Crossfade) Begin(durationSec float64, fn ease.TweenFunc) int {
	incoming := 1 - c.active
	if durationSec <= 0 {
		c.alpha[incoming] = 1
		c.alpha[c.active] = 0
		c.active = incoming
		c.tween = nil
		return c.active
	}
	start := c.alpha[incoming] // 0 at rest, mid-fade value on a retarget
	c.alpha[c.active] = 1 - start
	c.tween = gween.New(float32(start), 1, float32(durationSec), fn)
	return incoming
}

// Advance moves an in-flight transition forward by dt seconds and reports
// whether the slot swap completed on this call. Once complete, opacities are
// snapped to {1, 0} and further calls are no-ops; the swap never re-triggers.
func (c *Crossfade) Advance(dt float64) (swapped bool) {
	if c.tween == nil {
		return false
	}
	v, done := c.tween.Update(float32(dt))
	incoming := 1 - c.active
	c.alpha[incoming] = float64(v)
	c.alpha[c.active] = 1 - float64(v)
	if done {
		c.alpha[incoming] = 1
		c.alpha[c.active] = 0
		c.active = incoming
		c.tween = nil
		return true
	}
	return false
}

// Alpha returns the opacity of the given slot (0 or 1).
func (c *Crossfade) Alpha(slot int) float64 {
	return c.alpha[slot]
}

// Active returns the authoritative slot index. During a transition this is
// still the outgoing slot; it flips when the transition completes.
func (c *Crossfade) Active() int {
	return c.active
}

// Transitioning reports whether a transition is in flight.
func (c *Crossfade) Transitioning() bool {
	return c.tween != nil
}

// Toggle is the narrow crossfade flavor for binary attributes such as a room
// light: the same two-slot mechanics, but triggered by a state change rather
// than by time, over a short fixed duration with linear progress.
//
// States: Stable(value) -> Set(other) -> Fading(from, to) -> Stable(to).
// A Set while fading retargets immediately: the old target becomes the new
// "from" and progress restarts at 0. Toggles are never queued.
type Toggle struct {
	current  string // fade target, authoritative at rest
	from     string
	progress float64
	duration float64
	fading   bool
}

// NewToggle creates a toggle at rest on the given value.
func NewToggle(value string, durationSec float64) *Toggle {
	return &Toggle{current: value, duration: durationSec}
}

// Set requests a fade toward value. Setting the current target (stable or
// mid-fade) is a no-op.
func (t *Toggle) Set(value string) {
	if value == t.current {
		return
	}
	t.from = t.current
	t.current = value
	t.progress = 0
	t.fading = t.duration > 0
	if !t.fading {
		t.progress = 1
	}
}

// Advance moves an in-flight fade forward by dt seconds.
func (t *Toggle) Advance(dt float64) {
	if !t.fading {
		return
	}
	t.progress += dt / t.duration
	if t.progress >= 1 {
		t.progress = 1
		t.fading = false
	}
}

// Alpha returns the render-group opacity for the given value: 1 for the
// stable value at rest, a linear split between from and to while fading, and
// 0 for anything else. A fully faded-out group is completely hidden.
func (t *Toggle) Alpha(value string) float64 {
	if !t.fading {
		if value == t.current {
			return 1
		}
		return 0
	}
	switch value {
	case t.current:
		return t.progress
	case t.from:
		return 1 - t.progress
	}
	return 0
}

// Value returns the current target value.
func (t *Toggle) Value() string {
	return t.current
}

// From returns the value fading out, or "" at rest.
func (t *Toggle) From() string {
	if t.fading {
		return t.from
	}
	return ""
}

// Fading reports whether a fade is in flight.
func (t *Toggle) Fading() bool {
	return t.fading
}
