package backdrop

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// flashOverlayAlpha scales the white lightning overlay so a flash brightens
// the scene without blowing it out entirely.
const flashOverlayAlpha = 0.6

// flashGap is the pause between flashes within one burst.
var flashGap = Range{Min: 0.06, Max: 0.18}

// lightningState is the flash scheduler's explicit phase.
type lightningState uint8

const (
	lightningIdle     lightningState = iota // not eligible
	lightningWaiting                        // counting down to the next burst
	lightningFlashing                       // burst in progress
)

// lightning schedules randomized multi-flash bursts. It is gated by an
// enable flag and only eligible once rain opacity passes the visibility
// threshold; losing eligibility mid-burst lets the current flash decay but
// schedules nothing further.
type lightning struct {
	cfg LightningConfig

	state       lightningState
	timer       float64
	flashesLeft int
	flashAlpha  float64
	gap         float64

	onStrike func()
}

func (l *lightning) interval() Range {
	r := Range{Min: l.cfg.MinIntervalSec, Max: l.cfg.MaxIntervalSec}
	if r.Min <= 0 {
		r.Min = 8
	}
	if r.Max < r.Min {
		r.Max = 20
	}
	return r
}

func (l *lightning) flashDecay() float64 {
	if l.cfg.FlashSec > 0 {
		return l.cfg.FlashSec
	}
	return 0.12
}

func (l *lightning) maxFlashes() int {
	if l.cfg.MaxFlashes > 0 {
		return l.cfg.MaxFlashes
	}
	return 3
}

func (l *lightning) strike() {
	l.flashAlpha = 1
	l.flashesLeft--
	l.gap = flashGap.Random()
	if l.onStrike != nil {
		l.onStrike()
	}
}

func (l *lightning) update(dt float64, eligible bool) {
	// Flash decay runs regardless of state so a burst interrupted by lost
	// eligibility still fades out.
	if l.flashAlpha > 0 {
		l.flashAlpha -= dt / l.flashDecay()
		if l.flashAlpha < 0 {
			l.flashAlpha = 0
		}
	}

	if !eligible {
		l.state = lightningIdle
		return
	}

	switch l.state {
	case lightningIdle:
		l.timer = l.interval().Random()
		l.state = lightningWaiting

	case lightningWaiting:
		l.timer -= dt
		if l.timer <= 0 {
			l.flashesLeft = 1 + rand.IntN(l.maxFlashes())
			l.strike()
			l.state = lightningFlashing
		}

	case lightningFlashing:
		l.gap -= dt
		if l.flashAlpha > 0 || l.gap > 0 {
			return
		}
		if l.flashesLeft > 0 {
			l.strike()
			return
		}
		l.timer = l.interval().Random()
		l.state = lightningWaiting
	}
}

// RainLayer renders weather: a fading rain visibility level, a frame-cycling
// rain sprite tiled across the scene, and a lightning flash scheduler.
//
// Rain visibility follows the story's rain attribute when present, else the
// active cloud profile's configured default (wired by the host through
// SetProfileRain). Lightning strikes are reported through OnLightning so the
// host can sync thunder without any global event bus.
type RainLayer struct {
	cfg   *RainConfig
	load  assetLoad
	cache *Cache
	rect  Rect

	sprite *Clip
	scroll TileScroller

	alpha   float64
	raining bool
	fade    *gween.Tween

	flash lightning

	defaults rainDefaults

	// OnLightning, when set, is called once per lightning strike.
	OnLightning func()
}

// NewRainLayer creates an empty rain layer.
func NewRainLayer() *RainLayer {
	return &RainLayer{}
}

// Load (re)configures the layer and preloads the rain sprite frames.
func (r *RainLayer) Load(ctx context.Context, cfg *RainConfig, loader Loader) {
	r.cfg = cfg
	r.cache = nil
	r.sprite = nil
	r.alpha = 0
	r.raining = false
	r.fade = nil
	r.flash = lightning{}
	if cfg == nil {
		return
	}
	r.flash.cfg = cfg.Lightning
	r.flash.onStrike = func() {
		if r.OnLightning != nil {
			r.OnLightning()
		}
	}
	urls := make([]string, 0, len(cfg.Sprite.Frames))
	for _, frame := range cfg.Sprite.Frames {
		urls = append(urls, r.resolve(frame))
	}
	r.load.start(ctx, loader, urls)
}

// SetProfileRain supplies the per-cloud-profile rain defaults used when the
// story carries no explicit rain attribute.
func (r *RainLayer) SetProfileRain(defaults map[string]bool, defaultProfile string) {
	r.defaults = rainDefaults{profiles: defaults, fallback: defaultProfile}
}

func (r *RainLayer) resolve(frame string) string {
	return ResolvePath(r.cfg.BasePath, frame, nil)
}

// maxAlpha is the fully visible rain opacity.
func (r *RainLayer) maxAlpha() float64 {
	if r.cfg != nil && r.cfg.Alpha > 0 {
		return r.cfg.Alpha
	}
	return 0.85
}

func (r *RainLayer) fadeSec() float64 {
	if r.cfg != nil && r.cfg.FadeSec > 0 {
		return r.cfg.FadeSec
	}
	return 2
}

// Resize replaces the layer's scene rectangle.
func (r *RainLayer) Resize(rect Rect) {
	r.rect = rect
}

// Visible returns the current rain opacity in [0, maxAlpha].
func (r *RainLayer) Visible() float64 {
	return r.alpha
}

// Update advances the visibility fade, the sprite animation, and the
// lightning scheduler.
func (r *RainLayer) Update(now time.Time, dt float64, story StoryState) {
	if cache := r.load.take(); cache != nil {
		r.cache = cache
		r.sprite = newClip(cache, r.cfg.Sprite, r.resolve)
		if r.sprite != nil {
			// The rain sprite loops for as long as the layer lives; frames
			// only composite while the fade is visible.
			r.sprite.loop = true
			r.sprite.Play()
		}
	}
	if r.cache == nil {
		return
	}

	if want := r.defaults.condition(story); want != r.raining {
		r.raining = want
		target := 0.0
		if want {
			target = r.maxAlpha()
		}
		r.fade = gween.New(float32(r.alpha), float32(target), float32(r.fadeSec()), ease.Linear)
	}
	if r.fade != nil {
		v, done := r.fade.Update(float32(dt))
		r.alpha = float64(v)
		if done {
			r.fade = nil
		}
	}

	r.sprite.Advance(dt)

	// Static tiling: the sprite does not scroll, but frames narrower than
	// the viewport must still cover it seamlessly.
	if frame := r.sprite.Frame(); frame != nil && r.rect.Height > 0 {
		h := float64(frame.Bounds().Dy())
		w := float64(frame.Bounds().Dx())
		if h > 0 && w > 0 {
			scale := r.rect.Height / h
			r.scroll.Configure(w*scale, 0, r.rect.Width)
		}
	}

	eligible := story.Lightning() && r.alpha >= r.visibilityThreshold()
	r.flash.update(dt, eligible)
}

func (r *RainLayer) visibilityThreshold() float64 {
	t := 0.5
	if r.cfg != nil && r.cfg.Lightning.VisibilityThreshold > 0 {
		t = r.cfg.Lightning.VisibilityThreshold
	}
	return t * r.maxAlpha()
}

// Draw composites the tiled rain sprite at the current visibility, then any
// active lightning flash as a white overlay.
func (r *RainLayer) Draw(dst *ebiten.Image) {
	if r.cache == nil {
		return
	}
	if frame := r.sprite.Frame(); frame != nil && r.alpha > 0 {
		h := float64(frame.Bounds().Dy())
		if h > 0 {
			scale := r.rect.Height / h
			for i := 0; i < r.scroll.Count(); i++ {
				x := r.scroll.TileX(r.rect.X, i)
				drawAt(dst, frame, r.rect, x, r.rect.Y, scale, r.alpha)
			}
		}
	}
	fillRect(dst, r.rect, r.flash.flashAlpha*flashOverlayAlpha)
}
