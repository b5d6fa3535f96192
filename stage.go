package backdrop

import (
	"context"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Stage owns the five visual layers in back-to-front order and fans out the
// host's load/resize/update/draw calls. It is a convenience: every layer is
// also usable on its own.
type Stage struct {
	Sky    *SkyLayer
	Clouds *CloudLayer
	Room   *RoomLayer
	RoomFX *RoomFXLayer
	Rain   *RainLayer

	layers []Layer
	rect   Rect
}

// NewStage creates a stage with all five layers, empty until Load.
func NewStage() *Stage {
	s := &Stage{
		Sky:    NewSkyLayer(),
		Clouds: NewCloudLayer(),
		Room:   NewRoomLayer(),
		RoomFX: NewRoomFXLayer(),
		Rain:   NewRainLayer(),
	}
	s.layers = []Layer{s.Sky, s.Clouds, s.Room, s.RoomFX, s.Rain}
	return s
}

// Load (re)configures every layer and starts their asset preloads. Layers
// render nothing until their own preload completes; a reload discards any
// in-flight preload from the previous configuration.
func (s *Stage) Load(ctx context.Context, cfg *SceneConfig, loader Loader) {
	if cfg == nil {
		cfg = &SceneConfig{}
	}
	s.Sky.Load(ctx, cfg.Sky, loader)
	s.Clouds.Load(ctx, cfg.Clouds, loader)
	s.Room.Load(ctx, cfg.Room, loader)
	s.RoomFX.Load(ctx, cfg.RoomFX, loader)
	s.Rain.Load(ctx, cfg.Rain, loader)

	// Wire the profile-derived rain default from the cloud config into the
	// layers that react to the rain condition.
	if cfg.Clouds != nil {
		defaults := make(map[string]bool, len(cfg.Clouds.Profiles))
		for name, profile := range cfg.Clouds.Profiles {
			defaults[name] = profile.Rain
		}
		s.Rain.SetProfileRain(defaults, cfg.Clouds.DefaultProfile)
		s.RoomFX.SetProfileRain(defaults, cfg.Clouds.DefaultProfile)
	} else {
		s.Rain.SetProfileRain(nil, "")
		s.RoomFX.SetProfileRain(nil, "")
	}
}

// Resize replaces the scene rectangle on every layer.
func (s *Stage) Resize(rect Rect) {
	s.rect = rect
	for _, layer := range s.layers {
		layer.Resize(rect)
	}
}

// Rect returns the current scene rectangle.
func (s *Stage) Rect() Rect {
	return s.rect
}

// Update advances every layer. dt is clamped to maxDeltaSec so a stalled
// process does not fast-forward the scene when frames resume.
func (s *Stage) Update(now time.Time, dt float64, story StoryState) {
	if dt < 0 {
		dt = 0
	}
	if dt > maxDeltaSec {
		dt = maxDeltaSec
	}
	for _, layer := range s.layers {
		layer.Update(now, dt, story)
	}
}

// Draw composites every layer back to front.
func (s *Stage) Draw(dst *ebiten.Image) {
	for _, layer := range s.layers {
		layer.Draw(dst)
	}
}
