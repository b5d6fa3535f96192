package backdrop

import (
	"context"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// SkyLayer renders cover-fit sky images blended along the clock: one time
// track, one fast per-keyframe blend. The lower keyframe draws opaque with
// the upper layered on top at linear T; per-second keyframe blends read
// better linear than eased.
type SkyLayer struct {
	cfg   *SkyConfig
	load  assetLoad
	cache *Cache
	track *TimeTrack
	rect  Rect

	sample TrackSample
}

// NewSkyLayer creates an empty sky layer. It renders nothing until Load's
// preload completes.
func NewSkyLayer() *SkyLayer {
	return &SkyLayer{}
}

// Load (re)configures the layer and starts an asynchronous asset preload.
// A reload invalidates any in-flight preload from the previous config.
func (s *SkyLayer) Load(ctx context.Context, cfg *SkyConfig, loader Loader) {
	s.cfg = cfg
	s.cache = nil
	s.track = nil
	if cfg == nil {
		return
	}
	urls := make([]string, 0, len(cfg.Keyframes))
	for _, kf := range cfg.Keyframes {
		urls = append(urls, s.resolve(kf.Src))
	}
	s.load.start(ctx, loader, urls)
}

func (s *SkyLayer) resolve(key string) string {
	pattern := s.cfg.Pattern
	if pattern == "" {
		pattern = "{key}"
	}
	return ResolvePath(s.cfg.BasePath, pattern, map[string]string{"key": key})
}

// Resize replaces the layer's scene rectangle.
func (s *SkyLayer) Resize(rect Rect) {
	s.rect = rect
}

// Update samples the time track for the current wall-clock minute.
func (s *SkyLayer) Update(now time.Time, dt float64, story StoryState) {
	if cache := s.load.take(); cache != nil {
		s.cache = cache
		s.track = NewTimeTrack(keyframesFromConfig(s.cfg.Keyframes))
	}
	if s.track.Len() == 0 {
		return
	}
	s.sample = s.track.Query(MinuteOfDay(now))
}

// Draw composites the bracketing keyframe pair into the scene rectangle.
func (s *SkyLayer) Draw(dst *ebiten.Image) {
	if s.cache == nil || s.track.Len() == 0 {
		return
	}
	lower := s.cache.Image(s.resolve(s.sample.Lower))
	upper := s.cache.Image(s.resolve(s.sample.Upper))
	drawCover(dst, lower, s.rect, 1)
	if s.sample.Upper != s.sample.Lower {
		drawCover(dst, upper, s.rect, s.sample.T)
	}
}
