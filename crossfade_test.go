package backdrop

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestCrossfadeRestState(t *testing.T) {
	c := NewCrossfade()
	if c.Active() != 0 {
		t.Errorf("Active = %d, want 0", c.Active())
	}
	if c.Alpha(0) != 1 || c.Alpha(1) != 0 {
		t.Errorf("rest alphas = %f/%f, want 1/0", c.Alpha(0), c.Alpha(1))
	}
	if c.Transitioning() {
		t.Error("new crossfade should not be transitioning")
	}
	if c.Advance(1.0) {
		t.Error("Advance at rest reported a swap")
	}
}

func TestCrossfadeLinearMidpoint(t *testing.T) {
	c := NewCrossfade()
	incoming := c.Begin(1.0, ease.Linear)
	if incoming != 1 {
		t.Fatalf("incoming slot = %d, want 1", incoming)
	}

	c.Advance(0.5)
	if math.Abs(c.Alpha(1)-0.5) > 0.01 {
		t.Errorf("incoming alpha = %f at midpoint, want ~0.5", c.Alpha(1))
	}
	if math.Abs(c.Alpha(0)-0.5) > 0.01 {
		t.Errorf("outgoing alpha = %f at midpoint, want ~0.5", c.Alpha(0))
	}
	// Outgoing slot stays authoritative until the swap.
	if c.Active() != 0 {
		t.Errorf("Active flipped mid-transition")
	}
}

func TestCrossfadeSwapIsIdempotent(t *testing.T) {
	c := NewCrossfade()
	c.Begin(0.5, ease.Linear)

	swapped := false
	for i := 0; i < 10; i++ {
		if c.Advance(0.1) {
			if swapped {
				t.Fatal("slot swap re-triggered after completion")
			}
			swapped = true
		}
	}
	if !swapped {
		t.Fatal("transition never completed")
	}
	if c.Active() != 1 {
		t.Errorf("Active = %d after swap, want 1", c.Active())
	}
	if c.Alpha(1) != 1 || c.Alpha(0) != 0 {
		t.Errorf("post-swap alphas = %f/%f, want 1/0", c.Alpha(1), c.Alpha(0))
	}

	// Repeated Advance after completion keeps opacities snapped.
	c.Advance(1.0)
	if c.Alpha(1) != 1 || c.Alpha(0) != 0 {
		t.Error("alphas drifted after completed transition")
	}
}

func TestCrossfadeInstantSwap(t *testing.T) {
	c := NewCrossfade()
	c.Begin(0, ease.Linear)
	if c.Active() != 1 || c.Alpha(1) != 1 || c.Alpha(0) != 0 {
		t.Error("non-positive duration should swap instantly")
	}
	if c.Transitioning() {
		t.Error("instant swap left a transition in flight")
	}
}

func TestCrossfadeSmoothstepEase(t *testing.T) {
	c := NewCrossfade()
	c.Begin(1.0, SmoothStep)

	c.Advance(0.25)
	want := 0.25 * 0.25 * (3 - 2*0.25) // ≈ 0.156
	if math.Abs(c.Alpha(1)-want) > 0.01 {
		t.Errorf("smoothstep alpha at t=0.25 is %f, want ~%f", c.Alpha(1), want)
	}
}

func TestCrossfadeRetargetKeepsSplit(t *testing.T) {
	c := NewCrossfade()
	c.Begin(1.0, ease.Linear)
	c.Advance(0.5)

	// Retargeting mid-flight resumes from the current opacity split; neither
	// slot snaps back to 0 or 1.
	c.Begin(1.0, ease.Linear)
	if math.Abs(c.Alpha(1)-0.5) > 0.01 || math.Abs(c.Alpha(0)-0.5) > 0.01 {
		t.Fatalf("retarget alphas = %f/%f, want ~0.5/0.5", c.Alpha(0), c.Alpha(1))
	}
	c.Advance(0.25)
	if c.Alpha(1) <= 0.5 {
		t.Errorf("incoming alpha = %f after retarget, want > 0.5", c.Alpha(1))
	}

	// The retargeted fade still completes and swaps.
	if !c.Advance(1.0) {
		t.Fatal("retargeted transition never completed")
	}
	if c.Alpha(1) != 1 || c.Alpha(0) != 0 {
		t.Errorf("post-swap alphas = %f/%f, want 1/0", c.Alpha(1), c.Alpha(0))
	}
}

func TestCrossfadeRoundTrip(t *testing.T) {
	c := NewCrossfade()
	c.Begin(0.2, ease.Linear)
	c.Advance(0.2)
	incoming := c.Begin(0.2, ease.Linear)
	if incoming != 0 {
		t.Fatalf("second transition incoming slot = %d, want 0", incoming)
	}
	c.Advance(0.2)
	if c.Active() != 0 {
		t.Errorf("Active = %d after round trip, want 0", c.Active())
	}
}

func TestToggleFadeLinear(t *testing.T) {
	// Light toggle: off -> on over 0.5s; at 0.25s the split is 0.5/0.5.
	tg := NewToggle("off", 0.5)
	if tg.Alpha("off") != 1 || tg.Alpha("on") != 0 {
		t.Fatal("initial alphas wrong")
	}

	tg.Set("on")
	if !tg.Fading() {
		t.Fatal("Set should start a fade")
	}
	tg.Advance(0.25)
	if math.Abs(tg.Alpha("on")-0.5) > 0.01 || math.Abs(tg.Alpha("off")-0.5) > 0.01 {
		t.Errorf("mid-fade alphas = %f/%f, want 0.5/0.5",
			tg.Alpha("on"), tg.Alpha("off"))
	}

	tg.Advance(0.25)
	if tg.Fading() {
		t.Error("fade still in flight after full duration")
	}
	if tg.Alpha("on") != 1 || tg.Alpha("off") != 0 {
		t.Errorf("final alphas = %f/%f, want 1/0", tg.Alpha("on"), tg.Alpha("off"))
	}
}

func TestToggleSetSameValueIsNoop(t *testing.T) {
	tg := NewToggle("off", 0.5)
	tg.Set("off")
	if tg.Fading() {
		t.Error("setting the current value started a fade")
	}

	tg.Set("on")
	tg.Advance(0.1)
	p := tg.Alpha("on")
	tg.Set("on") // already the target; must not restart
	if tg.Alpha("on") != p {
		t.Error("re-setting the fade target restarted progress")
	}
}

func TestToggleRetargetRestartsProgress(t *testing.T) {
	tg := NewToggle("off", 0.5)
	tg.Set("on")
	tg.Advance(0.4) // nearly there

	// Toggle back mid-fade: retarget, restart at 0, no queuing.
	tg.Set("off")
	if !tg.Fading() {
		t.Fatal("retarget should keep fading")
	}
	if tg.Alpha("off") != 0 || tg.Alpha("on") != 1 {
		t.Errorf("retarget alphas = %f/%f, want 0/1 (progress restarted)",
			tg.Alpha("off"), tg.Alpha("on"))
	}
	tg.Advance(0.5)
	if tg.Value() != "off" || tg.Alpha("off") != 1 {
		t.Error("retargeted fade did not settle on new value")
	}
}

func TestToggleZeroDurationIsInstant(t *testing.T) {
	tg := NewToggle("off", 0)
	tg.Set("on")
	if tg.Fading() {
		t.Error("zero-duration toggle should snap")
	}
	if tg.Alpha("on") != 1 || tg.Alpha("off") != 0 {
		t.Error("zero-duration toggle alphas wrong")
	}
}
