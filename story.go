package backdrop

// StoryState is the loosely-typed attribute bag supplied by the host each
// frame. Layers read it defensively through the accessors below; missing or
// mistyped fields fall back to safe defaults. Recognized keys:
//
//	cloudProfile  string            named cloud profile to show
//	roomLight     "on" | "off"      room light state
//	rain          bool              rain override (absent = profile default)
//	lightning     bool              lightning enable
//	roomFx        []name or map     active room effect layers
type StoryState map[string]any

// CloudProfile returns the requested cloud profile name, if present.
func (s StoryState) CloudProfile() (string, bool) {
	v, ok := s["cloudProfile"].(string)
	return v, ok && v != ""
}

// RoomLight returns "on" or "off", defaulting to "off" for anything else.
func (s StoryState) RoomLight() string {
	if v, ok := s["roomLight"].(string); ok && v == "on" {
		return "on"
	}
	return "off"
}

// Rain returns the rain override and whether one was supplied. An absent or
// mistyped value means the active cloud profile's default applies.
func (s StoryState) Rain() (value, ok bool) {
	v, ok := s["rain"].(bool)
	return v, ok
}

// Lightning reports whether lightning is enabled. Default false.
func (s StoryState) Lightning() bool {
	v, _ := s["lightning"].(bool)
	return v
}

// rainDefaults resolves the scene's rain condition: the story's explicit
// rain attribute when present, else the active cloud profile's configured
// default. The rain and room-effect layers share one instance's semantics so
// "is it raining" has a single answer across the scene.
type rainDefaults struct {
	profiles map[string]bool
	fallback string
}

func (d rainDefaults) condition(story StoryState) bool {
	if v, ok := story.Rain(); ok {
		return v
	}
	profile, ok := story.CloudProfile()
	if !ok {
		profile = d.fallback
	}
	return d.profiles[profile]
}

// FXActive reports whether the named room-effect layer is requested. The
// roomFx value may be an array of layer names or a name->bool object; both
// JSON-decoded shapes ([]any, map[string]any) and their typed forms are
// accepted.
func (s StoryState) FXActive(name string) bool {
	switch v := s["roomFx"].(type) {
	case []any:
		for _, e := range v {
			if n, ok := e.(string); ok && n == name {
				return true
			}
		}
	case []string:
		for _, n := range v {
			if n == name {
				return true
			}
		}
	case map[string]any:
		b, _ := v[name].(bool)
		return b
	case map[string]bool:
		return v[name]
	}
	return false
}
