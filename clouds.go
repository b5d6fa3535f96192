package backdrop

import (
	"context"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// cloudBand is one horizontally scrolling band of cloud art ("far" or
// "near"): its own time track, tiling scroller, speed, and baseline alpha.
type cloudBand struct {
	cfg     *CloudBandConfig
	track   *TimeTrack
	scroll  TileScroller
	cache   *Cache
	resolve func(string) string

	sample TrackSample
	scale  float64 // tile scale: rect height / art height
}

func newCloudBand(cfg *CloudBandConfig, cache *Cache, resolve func(string) string) *cloudBand {
	if cfg == nil {
		return nil
	}
	return &cloudBand{
		cfg:     cfg,
		track:   NewTimeTrack(keyframesFromConfig(cfg.Keyframes)),
		cache:   cache,
		resolve: resolve,
	}
}

func (b *cloudBand) update(minute, dt float64, rect Rect) {
	if b == nil || b.track.Len() == 0 {
		return
	}
	b.sample = b.track.Query(minute)

	// Retile against the current lower art every frame: resize and keyframe
	// texture swaps both land here, and Configure preserves the scroll
	// offset so nothing pops.
	img := b.cache.Image(b.resolve(b.sample.Lower))
	if img == nil || rect.Height <= 0 {
		b.scale = 0
		return
	}
	h := float64(img.Bounds().Dy())
	w := float64(img.Bounds().Dx())
	if h == 0 || w == 0 {
		b.scale = 0
		return
	}
	b.scale = rect.Height / h
	b.scroll.Configure(w*b.scale, b.cfg.Overlap, rect.Width)
	b.scroll.Advance(dt, b.cfg.Speed)
}

func (b *cloudBand) alpha() float64 {
	if b.cfg.Alpha > 0 {
		return b.cfg.Alpha
	}
	return 1
}

func (b *cloudBand) draw(dst *ebiten.Image, rect Rect, outerAlpha float64) {
	if b == nil || b.track.Len() == 0 || b.scale <= 0 || outerAlpha <= 0 {
		return
	}
	lower := b.cache.Image(b.resolve(b.sample.Lower))
	var upper *ebiten.Image
	if b.sample.Upper != b.sample.Lower {
		upper = b.cache.Image(b.resolve(b.sample.Upper))
	}
	base := b.alpha() * outerAlpha
	for i := 0; i < b.scroll.Count(); i++ {
		x := b.scroll.TileX(rect.X, i)
		drawAt(dst, lower, rect, x, rect.Y, b.scale, base)
		drawAt(dst, upper, rect, x, rect.Y, b.scale, base*b.sample.T)
	}
}

// cloudRenderer is one complete rendering of a named cloud profile: up to
// two parallel bands. Two instances at a time live inside CloudLayer's
// profile crossfade, each fully self-contained so the inner keyframe blends
// keep running while the outer fade is in flight.
type cloudRenderer struct {
	far  *cloudBand
	near *cloudBand
}

func newCloudRenderer(profile CloudProfileConfig, cache *Cache, resolve func(string) string) *cloudRenderer {
	return &cloudRenderer{
		far:  newCloudBand(profile.Far, cache, resolve),
		near: newCloudBand(profile.Near, cache, resolve),
	}
}

func (r *cloudRenderer) update(minute, dt float64, rect Rect) {
	if r == nil {
		return
	}
	r.far.update(minute, dt, rect)
	r.near.update(minute, dt, rect)
}

func (r *cloudRenderer) draw(dst *ebiten.Image, rect Rect, alpha float64) {
	if r == nil || alpha <= 0 {
		return
	}
	r.far.draw(dst, rect, alpha)
	r.near.draw(dst, rect, alpha)
}

// CloudLayer renders scrolling cloud bands and transitions between named
// weather profiles with a slow smoothstep crossfade: two complete
// cloudRenderer instances occupy the crossfade's slots, and the story's
// cloudProfile attribute retargets the fade.
type CloudLayer struct {
	cfg   *CloudConfig
	load  assetLoad
	cache *Cache
	rect  Rect

	fade    *Crossfade
	slots   [2]*cloudRenderer
	target  string // profile bound to the fade's destination slot
	started bool
}

// NewCloudLayer creates an empty cloud layer.
func NewCloudLayer() *CloudLayer {
	return &CloudLayer{fade: NewCrossfade()}
}

// Load (re)configures the layer and starts an asynchronous preload of every
// profile's art, so profile swaps later never wait on the network.
func (c *CloudLayer) Load(ctx context.Context, cfg *CloudConfig, loader Loader) {
	c.cfg = cfg
	c.cache = nil
	c.slots = [2]*cloudRenderer{}
	c.fade = NewCrossfade()
	c.target = ""
	c.started = false
	if cfg == nil {
		return
	}
	var urls []string
	for _, profile := range cfg.Profiles {
		for _, band := range []*CloudBandConfig{profile.Far, profile.Near} {
			if band == nil {
				continue
			}
			for _, kf := range band.Keyframes {
				urls = append(urls, c.resolve(kf.Src))
			}
		}
	}
	c.load.start(ctx, loader, urls)
}

func (c *CloudLayer) resolve(key string) string {
	pattern := c.cfg.Pattern
	if pattern == "" {
		pattern = "{key}"
	}
	return ResolvePath(c.cfg.BasePath, pattern, map[string]string{"key": key})
}

// Resize replaces the layer's scene rectangle.
func (c *CloudLayer) Resize(rect Rect) {
	c.rect = rect
}

// Profile returns the profile the layer is showing or fading toward.
func (c *CloudLayer) Profile() string {
	return c.target
}

// Update advances both nested renderers and the outer profile fade.
func (c *CloudLayer) Update(now time.Time, dt float64, story StoryState) {
	if cache := c.load.take(); cache != nil {
		c.cache = cache
		c.started = false
	}
	if c.cache == nil {
		return
	}

	want, ok := story.CloudProfile()
	if !ok {
		want = c.cfg.DefaultProfile
	}
	if profile, exists := c.cfg.Profiles[want]; exists && want != c.target {
		renderer := newCloudRenderer(profile, c.cache, c.resolve)
		if !c.started {
			// First profile after (re)load: appear without a transition.
			c.slots[c.fade.Active()] = renderer
		} else {
			incoming := c.fade.Begin(c.cfg.transition(), SmoothStep)
			c.slots[incoming] = renderer
		}
		c.target = want
		c.started = true
	}

	minute := MinuteOfDay(now)
	c.slots[0].update(minute, dt, c.rect)
	c.slots[1].update(minute, dt, c.rect)

	if c.fade.Advance(dt) {
		// Outgoing renderer fully faded; release it.
		c.slots[1-c.fade.Active()] = nil
	}
}

// Draw composites both crossfade slots with their complementary opacities.
func (c *CloudLayer) Draw(dst *ebiten.Image) {
	if c.cache == nil {
		return
	}
	c.slots[0].draw(dst, c.rect, c.fade.Alpha(0))
	c.slots[1].draw(dst, c.rect, c.fade.Alpha(1))
}
