package backdrop

import (
	"context"
	"fmt"
	"image"
	"io/fs"
	"net/http"
	"strings"
	"sync"

	// Registered decoders for Loader implementations.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/sync/errgroup"
)

// Loader fetches and decodes a single image by URL or path.
// Implementations must be safe for concurrent use: Cache.Preload calls Load
// from multiple goroutines.
type Loader interface {
	Load(ctx context.Context, url string) (*ebiten.Image, error)
}

// FSLoader loads images from any fs.FS (embed.FS, os.DirFS, fstest.MapFS).
// Leading slashes are stripped so rooted paths resolve within the FS.
type FSLoader struct {
	FS fs.FS
}

// Load opens and decodes the image at the given path.
func (l FSLoader) Load(_ context.Context, url string) (*ebiten.Image, error) {
	f, err := l.FS.Open(strings.TrimPrefix(url, "/"))
	if err != nil {
		return nil, fmt.Errorf("backdrop: open %q: %w", url, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("backdrop: decode %q: %w", url, err)
	}
	return ebiten.NewImageFromImage(img), nil
}

// HTTPLoader loads images over HTTP(S). A nil Client uses http.DefaultClient.
type HTTPLoader struct {
	Client *http.Client
}

// Load fetches and decodes the image at the given URL.
func (l HTTPLoader) Load(ctx context.Context, url string) (*ebiten.Image, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("backdrop: request %q: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backdrop: fetch %q: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backdrop: fetch %q: status %s", url, resp.Status)
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("backdrop: decode %q: %w", url, err)
	}
	return ebiten.NewImageFromImage(img), nil
}

// preloadConcurrency bounds the number of parallel Load calls during Preload.
const preloadConcurrency = 4

// Cache holds decoded textures keyed by URL. Individual load failures are
// swallowed: a failed URL is simply absent from the cache, and the visual
// element referencing it hides instead of crashing.
type Cache struct {
	loader Loader

	mu     sync.Mutex
	images map[string]*ebiten.Image
}

// NewCache creates an empty cache backed by the given loader.
func NewCache(loader Loader) *Cache {
	return &Cache{
		loader: loader,
		images: make(map[string]*ebiten.Image),
	}
}

// Preload fetches and decodes every URL in the set, tolerating individual
// failures. It blocks until all fetches complete or ctx is cancelled, and
// never reports an error: failed URLs are logged under Debug and left
// unresolved. Duplicate URLs are fetched once.
func (c *Cache) Preload(ctx context.Context, urls []string) {
	seen := make(map[string]bool, len(urls))
	var g errgroup.Group
	g.SetLimit(preloadConcurrency)
	for _, url := range urls {
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		g.Go(func() error {
			img, err := c.loader.Load(ctx, url)
			if err != nil {
				debugf("preload %q failed: %v", url, err)
				return nil
			}
			c.mu.Lock()
			c.images[url] = img
			c.mu.Unlock()
			return nil
		})
	}
	// Workers never return errors; Wait is only a join point.
	_ = g.Wait()
}

// Image returns the decoded texture for a URL, or nil if it failed to load
// or was never preloaded.
func (c *Cache) Image(url string) *ebiten.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.images[url]
}

// Len returns the number of resolved textures.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.images)
}

// ResolvePath expands a file-name pattern against a base path. Placeholders
// of the form {name} are substituted from subs; a pattern that resolves to a
// scheme-prefixed URL or a rooted path bypasses the base entirely.
//
//	ResolvePath("art/room", "{key}_{light}.png",
//		map[string]string{"key": "dawn", "light": "on"})
//	// -> "art/room/dawn_on.png"
func ResolvePath(base, pattern string, subs map[string]string) string {
	name := pattern
	for k, v := range subs {
		name = strings.ReplaceAll(name, "{"+k+"}", v)
	}
	if base == "" || strings.Contains(name, "://") || strings.HasPrefix(name, "/") {
		return name
	}
	return strings.TrimSuffix(base, "/") + "/" + name
}
