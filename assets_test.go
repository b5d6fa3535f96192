package backdrop

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// fakeLoader resolves any URL not listed in missing, counting Load calls.
type fakeLoader struct {
	missing map[string]bool
	calls   atomic.Int64
}

func (l *fakeLoader) Load(_ context.Context, url string) (*ebiten.Image, error) {
	l.calls.Add(1)
	if l.missing[url] {
		return nil, errors.New("not found")
	}
	return ebiten.NewImage(4, 4), nil
}

func TestPreloadToleratesFailures(t *testing.T) {
	loader := &fakeLoader{missing: map[string]bool{"bad.png": true}}
	cache := NewCache(loader)

	urls := []string{"a.png", "b.png", "bad.png", "c.png", "d.png", "e.png"}
	cache.Preload(context.Background(), urls)

	if cache.Len() != 5 {
		t.Errorf("resolved %d textures, want 5", cache.Len())
	}
	for _, u := range []string{"a.png", "b.png", "c.png", "d.png", "e.png"} {
		if cache.Image(u) == nil {
			t.Errorf("valid URL %q missing from cache", u)
		}
	}
	if cache.Image("bad.png") != nil {
		t.Error("failed URL should be absent, not a placeholder")
	}
}

func TestPreloadDeduplicatesURLs(t *testing.T) {
	loader := &fakeLoader{}
	cache := NewCache(loader)

	cache.Preload(context.Background(), []string{"x.png", "x.png", "", "x.png", "y.png"})

	if got := loader.calls.Load(); got != 2 {
		t.Errorf("loader called %d times, want 2", got)
	}
}

func TestImageUnknownURL(t *testing.T) {
	cache := NewCache(&fakeLoader{})
	if cache.Image("never-loaded.png") != nil {
		t.Error("unknown URL should resolve to nil")
	}
}

func TestResolvePath(t *testing.T) {
	cases := []struct {
		base, pattern string
		subs          map[string]string
		want          string
	}{
		{
			"art/room", "{key}_{light}.png",
			map[string]string{"key": "dawn", "light": "on"},
			"art/room/dawn_on.png",
		},
		{
			"art/sky/", "{key}.png",
			map[string]string{"key": "noon"},
			"art/sky/noon.png",
		},
		// Scheme-prefixed URLs bypass the base path.
		{
			"art", "https://cdn.example/sky/{key}.png",
			map[string]string{"key": "dusk"},
			"https://cdn.example/sky/dusk.png",
		},
		// Rooted paths bypass the base path.
		{"art", "/abs/cloud.png", nil, "/abs/cloud.png"},
		// No base.
		{"", "plain.png", nil, "plain.png"},
		// Unreferenced substitutions are harmless.
		{"a", "b.png", map[string]string{"key": "zzz"}, "a/b.png"},
	}
	for _, c := range cases {
		got := ResolvePath(c.base, c.pattern, c.subs)
		if got != c.want {
			t.Errorf("ResolvePath(%q, %q, %v) = %q, want %q",
				c.base, c.pattern, c.subs, got, c.want)
		}
	}
}
