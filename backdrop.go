package backdrop

import (
	"image/color"
	"log"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

// Rect is an axis-aligned rectangle in pixels. The coordinate system has its
// origin at the top-left, with Y increasing downward. Layers receive a Rect
// on every resize and fill it entirely ("cover" fit, cropping overflow).
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Range is a general-purpose min/max range. Used for random scheduling
// intervals (ambient effects, lightning) and anywhere a bounded random
// value is drawn.
type Range struct {
	Min, Max float64
}

// Random returns a random float64 in [Min, Max].
func (r Range) Random() float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rand.Float64()*(r.Max-r.Min)
}

// Debug enables stderr logging of asset resolution failures, dropped config
// entries, and other recoverable conditions. Off by default; the library is
// silent in production.
var Debug bool

func debugf(format string, args ...any) {
	if Debug {
		log.Printf("backdrop: "+format, args...)
	}
}

// --- Interpolation helpers ---

// clamp01 clamps v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// smoothstep is the cubic ease t*t*(3-2t), mapping [0,1] onto [0,1] with
// zero slope at both ends.
func smoothstep(t float64) float64 {
	t = clamp01(t)
	return t * t * (3 - 2*t)
}

// SmoothStep is smoothstep packaged as a gween easing function. It is the
// ease used for slow profile-to-profile crossfades; fast per-keyframe blends
// stay linear, which reads better at sub-minute cadence.
func SmoothStep(t, b, c, d float32) float32 {
	p := t / d
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return b + c*p*p*(3-2*p)
}

var _ ease.TweenFunc = SmoothStep

// white pixel singleton for solid overlays such as lightning flashes
// (no sync.Once; backdrop's frame path is single-threaded).
var whitePixel *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(color.White)
	}
	return whitePixel
}
