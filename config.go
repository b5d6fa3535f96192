package backdrop

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// KeyframeConfig is one clock-keyed art entry in a layer configuration.
// Time is "HH:MM"; Src is the art key substituted into the layer's file-name
// pattern (or a full path/URL, which bypasses the pattern and base path).
type KeyframeConfig struct {
	Time string `json:"time" yaml:"time"`
	Src  string `json:"src" yaml:"src"`
}

// SkyConfig configures the sky layer: cover-fit static images blended along
// the clock.
type SkyConfig struct {
	BasePath  string           `json:"basePath" yaml:"basePath"`
	Pattern   string           `json:"pattern" yaml:"pattern"`
	Keyframes []KeyframeConfig `json:"keyframes" yaml:"keyframes"`
}

// CloudBandConfig configures one scrolling cloud band ("far" or "near").
type CloudBandConfig struct {
	Keyframes []KeyframeConfig `json:"keyframes" yaml:"keyframes"`
	// Speed is the horizontal scroll speed in px/s (positive = leftward).
	Speed float64 `json:"speed" yaml:"speed"`
	// Alpha is the band's baseline opacity. Zero means 1 (fully opaque).
	Alpha float64 `json:"alpha" yaml:"alpha"`
	// Overlap is the horizontal tile overlap in px (hides hard seams).
	Overlap float64 `json:"overlap" yaml:"overlap"`
}

// CloudProfileConfig is a named weather preset: up to two parallel bands and
// the profile's default rain state.
type CloudProfileConfig struct {
	Far  *CloudBandConfig `json:"far" yaml:"far"`
	Near *CloudBandConfig `json:"near" yaml:"near"`
	Rain bool             `json:"rain" yaml:"rain"`
}

// CloudConfig configures the cloud layer and its profile crossfade.
type CloudConfig struct {
	BasePath string                        `json:"basePath" yaml:"basePath"`
	Pattern  string                        `json:"pattern" yaml:"pattern"`
	Profiles map[string]CloudProfileConfig `json:"profiles" yaml:"profiles"`
	// DefaultProfile names the profile shown before the story asks for one.
	DefaultProfile string `json:"defaultProfile" yaml:"defaultProfile"`
	// TransitionSec is the profile crossfade duration. Zero means 30 s.
	TransitionSec float64 `json:"transitionSec" yaml:"transitionSec"`
}

// transition returns the profile crossfade duration with its default.
func (c *CloudConfig) transition() float64 {
	if c.TransitionSec > 0 {
		return c.TransitionSec
	}
	return 30
}

// RoomConfig configures the room layer: clock-blended art slots crossed with
// a light on/off toggle. Art per slot and light is resolved through Pattern,
// which sees {key} and {light} placeholders.
type RoomConfig struct {
	BasePath string           `json:"basePath" yaml:"basePath"`
	Pattern  string           `json:"pattern" yaml:"pattern"`
	Slots    []KeyframeConfig `json:"slots" yaml:"slots"`
	// LightFadeSec is the toggle fade duration. Zero means 0.5 s.
	LightFadeSec float64 `json:"lightFadeSec" yaml:"lightFadeSec"`
}

// lightFade returns the toggle duration with its default.
func (c *RoomConfig) lightFade() float64 {
	if c.LightFadeSec > 0 {
		return c.LightFadeSec
	}
	return 0.5
}

// RandomFXConfig schedules self-playing one-shots inside a daily window.
type RandomFXConfig struct {
	// WindowStart/WindowEnd are "HH:MM"; the window may wrap past midnight.
	WindowStart string `json:"windowStart" yaml:"windowStart"`
	WindowEnd   string `json:"windowEnd" yaml:"windowEnd"`
	// MinIntervalSec/MaxIntervalSec bound the random delay between plays.
	MinIntervalSec float64 `json:"minIntervalSec" yaml:"minIntervalSec"`
	MaxIntervalSec float64 `json:"maxIntervalSec" yaml:"maxIntervalSec"`
}

// FXLayerConfig is one independently controlled room-effect clip layer.
// A layer with Random set schedules itself; otherwise it follows the story's
// roomFx attribute by Name.
type FXLayerConfig struct {
	Name   string          `json:"name" yaml:"name"`
	Clip   ClipConfig      `json:"clip" yaml:"clip"`
	Random *RandomFXConfig `json:"random" yaml:"random"`
}

// RoomFXConfig configures the room-effects layer.
type RoomFXConfig struct {
	BasePath string          `json:"basePath" yaml:"basePath"`
	Layers   []FXLayerConfig `json:"layers" yaml:"layers"`
}

// LightningConfig configures the rain layer's flash scheduler.
type LightningConfig struct {
	// MinIntervalSec/MaxIntervalSec bound the random delay between bursts.
	// Zeros mean 8-20 s.
	MinIntervalSec float64 `json:"minIntervalSec" yaml:"minIntervalSec"`
	MaxIntervalSec float64 `json:"maxIntervalSec" yaml:"maxIntervalSec"`
	// FlashSec is a single flash's decay time. Zero means 0.12 s.
	FlashSec float64 `json:"flashSec" yaml:"flashSec"`
	// MaxFlashes caps the flash count of one burst. Zero means 3.
	MaxFlashes int `json:"maxFlashes" yaml:"maxFlashes"`
	// VisibilityThreshold is the rain opacity above which lightning becomes
	// eligible. Zero means 0.5.
	VisibilityThreshold float64 `json:"visibilityThreshold" yaml:"visibilityThreshold"`
}

// RainConfig configures the rain layer.
type RainConfig struct {
	BasePath string     `json:"basePath" yaml:"basePath"`
	Sprite   ClipConfig `json:"sprite" yaml:"sprite"`
	// FadeSec is the rain visibility fade duration. Zero means 2 s.
	FadeSec float64 `json:"fadeSec" yaml:"fadeSec"`
	// Alpha is the fully visible rain opacity. Zero means 0.85.
	Alpha     float64         `json:"alpha" yaml:"alpha"`
	Lightning LightningConfig `json:"lightning" yaml:"lightning"`
}

// SceneConfig aggregates all layer configurations. Nil layers are skipped.
type SceneConfig struct {
	Sky    *SkyConfig    `json:"sky" yaml:"sky"`
	Clouds *CloudConfig  `json:"clouds" yaml:"clouds"`
	Room   *RoomConfig   `json:"room" yaml:"room"`
	RoomFX *RoomFXConfig `json:"roomFx" yaml:"roomFx"`
	Rain   *RainConfig   `json:"rain" yaml:"rain"`
}

// LoadSceneConfig reads and parses a scene configuration file. The format is
// chosen by extension: .yaml/.yml parse as YAML, everything else as JSON.
func LoadSceneConfig(path string) (*SceneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("backdrop: read config %q: %w", path, err)
	}
	format := "json"
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		format = "yaml"
	}
	return ParseSceneConfig(data, format)
}

// ParseSceneConfig parses scene configuration data in "json" or "yaml" form.
func ParseSceneConfig(data []byte, format string) (*SceneConfig, error) {
	var cfg SceneConfig
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("backdrop: parse yaml config: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("backdrop: parse json config: %w", err)
		}
	default:
		return nil, fmt.Errorf("backdrop: unknown config format %q", format)
	}
	return &cfg, nil
}

// keyframesFromConfig converts config keyframes to track keyframes, dropping
// entries with malformed times. Key carries the Src reference.
func keyframesFromConfig(kfs []KeyframeConfig) []Keyframe {
	out := make([]Keyframe, 0, len(kfs))
	for _, kf := range kfs {
		minute, err := ParseClock(kf.Time)
		if err != nil {
			debugf("dropping keyframe with bad time %q", kf.Time)
			continue
		}
		out = append(out, Keyframe{Minute: minute, Key: kf.Src})
	}
	return out
}

// parseWindow converts "HH:MM" window bounds, returning ok=false when either
// bound is malformed.
func parseWindow(start, end string) (Window, bool) {
	s, err := ParseClock(start)
	if err != nil {
		debugf("dropping window with bad start %q", start)
		return Window{}, false
	}
	e, err := ParseClock(end)
	if err != nil {
		debugf("dropping window with bad end %q", end)
		return Window{}, false
	}
	return Window{Start: s, End: e}, true
}
