package backdrop

import (
	"context"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// fxLayer is one independently controlled room-effect clip layer, either
// story-driven by name or self-scheduling ("random ambient").
type fxLayer struct {
	cfg  FXLayerConfig
	clip *Clip

	// Story-driven one-shots trigger on the rising edge of their attribute.
	wasActive bool

	// Random ambient scheduling.
	window   Window
	windowOK bool
	interval Range
	nextIn   float64 // seconds until the next self-play; < 0 = unscheduled
}

func newFXLayer(cfg FXLayerConfig, cache *Cache, resolve func(string) string) *fxLayer {
	l := &fxLayer{
		cfg:    cfg,
		clip:   newClip(cache, cfg.Clip, resolve),
		nextIn: -1,
	}
	if r := cfg.Random; r != nil {
		l.window, l.windowOK = parseWindow(r.WindowStart, r.WindowEnd)
		l.interval = Range{Min: r.MinIntervalSec, Max: r.MaxIntervalSec}
		if l.interval.Max < l.interval.Min {
			l.interval.Max = l.interval.Min
		}
	}
	return l
}

func (l *fxLayer) update(minute, dt float64, story StoryState, rainActive bool) {
	if l.clip == nil {
		// Unavailable clip: the layer stays invisible, never plays.
		return
	}
	if l.cfg.Random != nil {
		l.updateRandom(minute, dt, rainActive)
	} else {
		l.updateStory(story)
	}
	l.clip.Advance(dt)
}

// updateStory follows the story's roomFx attribute. Looping clips run while
// the attribute is set; one-shots fire on its rising edge.
func (l *fxLayer) updateStory(story StoryState) {
	active := story.FXActive(l.cfg.Name)
	if l.cfg.Clip.Loop {
		if active && !l.clip.Playing() {
			l.clip.Play()
		}
		if !active && l.clip.Playing() {
			l.clip.Stop()
		}
	} else if active && !l.wasActive {
		l.clip.Play()
	}
	l.wasActive = active
}

// updateRandom self-schedules one-shot plays inside the daily window with a
// random interval. Rain suppresses scheduling; a play already in flight runs
// out.
func (l *fxLayer) updateRandom(minute, dt float64, rainActive bool) {
	if rainActive || !l.windowOK || !l.window.Contains(minute) {
		l.nextIn = -1
		return
	}
	if l.clip.Playing() {
		return
	}
	if l.nextIn < 0 {
		l.nextIn = l.interval.Random()
		return
	}
	l.nextIn -= dt
	if l.nextIn <= 0 {
		l.clip.Play()
		l.nextIn = -1 // reschedule after this play finishes
	}
}

func (l *fxLayer) draw(dst *ebiten.Image, rect Rect) {
	drawCover(dst, l.clip.Frame(), rect, 1)
}

// RoomFXLayer renders N independently controlled looping or one-shot effect
// clips over the room (flicker, steam, dust motes), driven by the story's
// roomFx attribute, plus optional random ambient layers that self-schedule
// inside a daily time window and go quiet while the rain condition is
// active. The rain condition is the story's explicit rain attribute when
// present, else the active cloud profile's default (wired by the host
// through SetProfileRain), matching the rain layer exactly.
type RoomFXLayer struct {
	cfg   *RoomFXConfig
	load  assetLoad
	cache *Cache
	rect  Rect

	layers   []*fxLayer
	defaults rainDefaults
}

// NewRoomFXLayer creates an empty room-effects layer.
func NewRoomFXLayer() *RoomFXLayer {
	return &RoomFXLayer{}
}

// Load (re)configures the layer and preloads every clip frame.
func (r *RoomFXLayer) Load(ctx context.Context, cfg *RoomFXConfig, loader Loader) {
	r.cfg = cfg
	r.cache = nil
	r.layers = nil
	if cfg == nil {
		return
	}
	var urls []string
	for _, layer := range cfg.Layers {
		for _, frame := range layer.Clip.Frames {
			urls = append(urls, r.resolve(frame))
		}
	}
	r.load.start(ctx, loader, urls)
}

func (r *RoomFXLayer) resolve(frame string) string {
	return ResolvePath(r.cfg.BasePath, frame, nil)
}

// SetProfileRain supplies the per-cloud-profile rain defaults used when the
// story carries no explicit rain attribute.
func (r *RoomFXLayer) SetProfileRain(defaults map[string]bool, defaultProfile string) {
	r.defaults = rainDefaults{profiles: defaults, fallback: defaultProfile}
}

// Resize replaces the layer's scene rectangle.
func (r *RoomFXLayer) Resize(rect Rect) {
	r.rect = rect
}

// Update drives every effect layer. Random ambient layers are suppressed
// while the rain condition is active.
func (r *RoomFXLayer) Update(now time.Time, dt float64, story StoryState) {
	if cache := r.load.take(); cache != nil {
		r.cache = cache
		r.layers = r.layers[:0]
		for _, cfg := range r.cfg.Layers {
			r.layers = append(r.layers, newFXLayer(cfg, cache, r.resolve))
		}
	}
	if r.cache == nil {
		return
	}
	rainActive := r.defaults.condition(story)
	minute := MinuteOfDay(now)
	for _, layer := range r.layers {
		layer.update(minute, dt, story, rainActive)
	}
}

// Draw composites every playing clip's current frame in config order.
func (r *RoomFXLayer) Draw(dst *ebiten.Image) {
	for _, layer := range r.layers {
		layer.draw(dst, r.rect)
	}
}
