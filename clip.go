package backdrop

import "github.com/hajimehoshi/ebiten/v2"

// defaultFrameDurationMs is used for clip frames whose configured duration
// is missing or non-positive.
const defaultFrameDurationMs = 100

// ClipConfig defines a frame-cycling animation in layer configuration.
// DurationsMs is parallel to Frames; missing or non-positive entries default
// to defaultFrameDurationMs.
type ClipConfig struct {
	Frames      []string `json:"frames" yaml:"frames"`
	DurationsMs []int    `json:"durationsMs" yaml:"durationsMs"`
	Loop        bool     `json:"loop" yaml:"loop"`
}

// Clip is a resolved frame-cycling animation. Frames that failed to load are
// filtered out at resolve time; a clip with zero resolved frames is
// "unavailable" and newClip returns nil for it. A nil *Clip is safe to call:
// it never plays and renders nothing.
type Clip struct {
	frames    []*ebiten.Image
	durations []float64 // per-frame duration in seconds
	loop      bool

	playing bool
	frame   int
	elapsed float64
}

// newClip resolves a clip definition against the cache. The resolve func maps
// a frame reference to a cache URL. Unresolved frames are dropped along with
// their durations; if nothing resolves, the clip is unavailable (nil).
func newClip(cache *Cache, cfg ClipConfig, resolve func(frame string) string) *Clip {
	c := &Clip{loop: cfg.Loop}
	for i, ref := range cfg.Frames {
		img := cache.Image(resolve(ref))
		if img == nil {
			debugf("clip frame %q unresolved, dropping", ref)
			continue
		}
		ms := defaultFrameDurationMs
		if i < len(cfg.DurationsMs) && cfg.DurationsMs[i] > 0 {
			ms = cfg.DurationsMs[i]
		}
		c.frames = append(c.frames, img)
		c.durations = append(c.durations, float64(ms)/1000)
	}
	if len(c.frames) == 0 {
		return nil
	}
	return c
}

// Play restarts the clip from its first frame.
func (c *Clip) Play() {
	if c == nil {
		return
	}
	c.playing = true
	c.frame = 0
	c.elapsed = 0
}

// Stop halts playback. The clip renders nothing until played again.
func (c *Clip) Stop() {
	if c == nil {
		return
	}
	c.playing = false
}

// Playing reports whether the clip is currently cycling frames.
func (c *Clip) Playing() bool {
	return c != nil && c.playing
}

// Advance moves playback forward by dt seconds. Looping clips wrap; one-shot
// clips stop after their final frame.
func (c *Clip) Advance(dt float64) {
	if c == nil || !c.playing {
		return
	}
	c.elapsed += dt
	for c.elapsed >= c.durations[c.frame] {
		c.elapsed -= c.durations[c.frame]
		c.frame++
		if c.frame < len(c.frames) {
			continue
		}
		if c.loop {
			c.frame = 0
			continue
		}
		c.frame = len(c.frames) - 1
		c.playing = false
		return
	}
}

// Frame returns the current frame image, or nil when the clip is not playing.
func (c *Clip) Frame() *ebiten.Image {
	if c == nil || !c.playing {
		return nil
	}
	return c.frames[c.frame]
}
