package backdrop

import (
	"context"
	"image"
	"math"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// maxDeltaSec clamps per-frame delta time so a stalled process does not
// trigger runaway catch-up when frames resume.
const maxDeltaSec = 0.25

// Layer is the per-frame surface shared by every visual layer. Layers are
// side-effect-free with respect to each other: the only shared inputs are
// the scene rectangle and the story state. Update never blocks and never
// panics in steady state; a layer whose assets are missing draws nothing.
type Layer interface {
	Resize(Rect)
	Update(now time.Time, dt float64, story StoryState)
	Draw(dst *ebiten.Image)
}

// --- Generation-stamped asset loading ---

// assetLoad manages background preloads for one layer. Each call to start
// bumps a generation counter; a preload that completes after a newer reload
// began is discarded, so a stale fetch can never install outdated textures.
//
// The generation counter is touched only from the layer's single update
// path; the mutex guards only the completion slot written by the loader
// goroutine.
type assetLoad struct {
	gen int

	mu   sync.Mutex
	done *preloadResult
}

type preloadResult struct {
	gen   int
	cache *Cache
}

// start launches a background preload of urls under a fresh generation.
func (a *assetLoad) start(ctx context.Context, loader Loader, urls []string) {
	a.gen++
	gen := a.gen
	cache := NewCache(loader)
	go func() {
		cache.Preload(ctx, urls)
		a.mu.Lock()
		if a.done == nil || gen > a.done.gen {
			a.done = &preloadResult{gen: gen, cache: cache}
		}
		a.mu.Unlock()
	}()
}

// take returns the completed cache for the current generation, once, or nil.
// Completions from superseded generations are dropped on sight.
func (a *assetLoad) take() *Cache {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.done == nil {
		return nil
	}
	if a.done.gen != a.gen {
		debugf("discarding stale preload (gen %d, current %d)", a.done.gen, a.gen)
		a.done = nil
		return nil
	}
	cache := a.done.cache
	a.done = nil
	return cache
}

// --- Draw helpers ---

// clipTo returns dst clipped to r. Ebitengine sub-images share the parent's
// coordinate space, so callers keep drawing in absolute coordinates and
// overflow is cropped.
func clipTo(dst *ebiten.Image, r Rect) *ebiten.Image {
	return dst.SubImage(image.Rect(
		int(r.X), int(r.Y),
		int(r.X+r.Width), int(r.Y+r.Height),
	)).(*ebiten.Image)
}

// drawCover draws img scaled uniformly to fully cover rect, centered, with
// overflow cropped. No-op for nil images or invisible alpha.
func drawCover(dst, img *ebiten.Image, rect Rect, alpha float64) {
	if img == nil || alpha <= 0 || rect.Width <= 0 || rect.Height <= 0 {
		return
	}
	w := float64(img.Bounds().Dx())
	h := float64(img.Bounds().Dy())
	if w == 0 || h == 0 {
		return
	}
	scale := math.Max(rect.Width/w, rect.Height/h)

	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(
		rect.X+(rect.Width-w*scale)/2,
		rect.Y+(rect.Height-h*scale)/2,
	)
	op.ColorScale.ScaleAlpha(float32(alpha))
	clipTo(dst, rect).DrawImage(img, op)
}

// drawAt draws img at (x, y) with a uniform scale and alpha, clipped to rect.
func drawAt(dst, img *ebiten.Image, rect Rect, x, y, scale, alpha float64) {
	if img == nil || alpha <= 0 || scale <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleAlpha(float32(alpha))
	clipTo(dst, rect).DrawImage(img, op)
}

// fillRect fills rect with white at the given alpha (lightning flashes).
func fillRect(dst *ebiten.Image, rect Rect, alpha float64) {
	if alpha <= 0 || rect.Width <= 0 || rect.Height <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(rect.Width, rect.Height)
	op.GeoM.Translate(rect.X, rect.Y)
	op.ColorScale.ScaleAlpha(float32(alpha))
	dst.DrawImage(ensureWhitePixel(), op)
}
