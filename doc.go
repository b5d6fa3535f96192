// Package backdrop renders a continuously time-animated background scene
// (sky, clouds, room interior, room effects, and weather) for [Ebitengine].
//
// Every visual layer is driven by the wall clock and a small externally
// supplied story state. The package's core is a temporal interpolation and
// cross-fade compositor: keyframes placed on the 24-hour clock select pairs
// of art variants that are blended per frame, with midnight wraparound,
// nested profile-level crossfades, seamless horizontal tiling, and graceful
// degradation when art assets are missing.
//
// # Quick start
//
// Build a [Stage] from a [SceneConfig], then drive it from your game loop:
//
//	cfg, _ := backdrop.LoadSceneConfig("scene.json")
//	stage := backdrop.NewStage()
//	stage.Load(ctx, cfg, backdrop.FSLoader{FS: assets})
//	stage.Resize(backdrop.Rect{Width: 640, Height: 480})
//
//	func (g *Game) Update() error {
//		g.stage.Update(time.Now(), 1.0/float64(ebiten.TPS()), g.story)
//		return nil
//	}
//	func (g *Game) Draw(screen *ebiten.Image) {
//		g.stage.Draw(screen)
//	}
//
// Layers ([SkyLayer], [CloudLayer], [RoomLayer], [RoomFXLayer], [RainLayer])
// are also usable individually; none depends on another layer's state.
//
// # Asset safety
//
// Missing or undecodable images never produce an error or panic from the
// frame path. A clip or keyframe whose art failed to load simply renders
// nothing. Set [Debug] to log resolution failures to stderr.
//
// [Ebitengine]: https://ebitengine.org
package backdrop
