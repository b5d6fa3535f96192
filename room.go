package backdrop

import (
	"context"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// roomLights are the two light variants every room slot is authored in.
var roomLights = [2]string{"off", "on"}

// RoomLayer renders the room interior: a time track over named art slots for
// continuous time-of-day blending, crossed with a fast light on/off toggle.
// The two blends are independent: the slot blend and the toggle fade can
// both be mid-transition simultaneously. Each light variant is a full render
// group carrying the keyframe-blended content for that light; the toggle
// splits opacity between the groups.
//
// Art is resolved through the config pattern with {key} and {light}
// placeholders, e.g. "{key}_{light}.png" -> "dawn_on.png".
type RoomLayer struct {
	cfg   *RoomConfig
	load  assetLoad
	cache *Cache
	track *TimeTrack
	rect  Rect

	light  *Toggle
	sample TrackSample
}

// NewRoomLayer creates an empty room layer.
func NewRoomLayer() *RoomLayer {
	return &RoomLayer{light: NewToggle("off", 0.5)}
}

// Load (re)configures the layer and preloads every slot in both light
// variants, so toggling the light never waits on the network.
func (r *RoomLayer) Load(ctx context.Context, cfg *RoomConfig, loader Loader) {
	r.cfg = cfg
	r.cache = nil
	r.track = nil
	if cfg == nil {
		return
	}
	r.light = NewToggle(r.light.Value(), cfg.lightFade())
	urls := make([]string, 0, len(cfg.Slots)*2)
	for _, slot := range cfg.Slots {
		for _, light := range roomLights {
			urls = append(urls, r.resolve(slot.Src, light))
		}
	}
	r.load.start(ctx, loader, urls)
}

func (r *RoomLayer) resolve(key, light string) string {
	pattern := r.cfg.Pattern
	if pattern == "" {
		pattern = "{key}_{light}.png"
	}
	return ResolvePath(r.cfg.BasePath, pattern, map[string]string{
		"key":   key,
		"light": light,
	})
}

// Resize replaces the layer's scene rectangle.
func (r *RoomLayer) Resize(rect Rect) {
	r.rect = rect
}

// Update samples the slot track and advances the light toggle toward the
// story's roomLight attribute.
func (r *RoomLayer) Update(now time.Time, dt float64, story StoryState) {
	if cache := r.load.take(); cache != nil {
		r.cache = cache
		r.track = NewTimeTrack(keyframesFromConfig(r.cfg.Slots))
	}
	if r.track.Len() == 0 {
		return
	}
	r.sample = r.track.Query(MinuteOfDay(now))
	r.light.Set(story.RoomLight())
	r.light.Advance(dt)
}

// Draw composites the light render groups, fading-out group first. A group
// whose opacity is 0 is skipped entirely; the hidden light variant costs
// nothing and never updates.
func (r *RoomLayer) Draw(dst *ebiten.Image) {
	if r.cache == nil || r.track.Len() == 0 {
		return
	}
	if from := r.light.From(); from != "" {
		r.drawGroup(dst, from, r.light.Alpha(from))
	}
	current := r.light.Value()
	r.drawGroup(dst, current, r.light.Alpha(current))
}

// drawGroup draws the full keyframe-blended room content for one light
// variant at the given group opacity.
func (r *RoomLayer) drawGroup(dst *ebiten.Image, light string, alpha float64) {
	if alpha <= 0 {
		return
	}
	lower := r.cache.Image(r.resolve(r.sample.Lower, light))
	drawCover(dst, lower, r.rect, alpha)
	if r.sample.Upper != r.sample.Lower {
		upper := r.cache.Image(r.resolve(r.sample.Upper, light))
		drawCover(dst, upper, r.rect, alpha*r.sample.T)
	}
}
