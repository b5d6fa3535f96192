package backdrop

import (
	"math"
	"testing"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"00:00", 0, true},
		{"05:30", 330, true},
		{"22:00", 1320, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"noon", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, err := ParseClock(c.in)
		if c.ok && err != nil {
			t.Errorf("ParseClock(%q) error: %v", c.in, err)
			continue
		}
		if !c.ok {
			if err == nil {
				t.Errorf("ParseClock(%q) = %f, want error", c.in, got)
			}
			continue
		}
		if got != c.want {
			t.Errorf("ParseClock(%q) = %f, want %f", c.in, got, c.want)
		}
	}
}

func TestQueryAtExactKeyframeMinute(t *testing.T) {
	tr := NewTimeTrack([]Keyframe{
		{Minute: 360, Key: "morning"},
		{Minute: 720, Key: "noon"},
		{Minute: 1200, Key: "night"},
	})

	for _, kf := range []struct {
		minute float64
		key    string
	}{{360, "morning"}, {720, "noon"}, {1200, "night"}} {
		s := tr.Query(kf.minute)
		if s.Lower != kf.key {
			t.Errorf("Query(%f).Lower = %q, want %q", kf.minute, s.Lower, kf.key)
		}
		if s.T != 0 {
			t.Errorf("Query(%f).T = %f, want 0", kf.minute, s.T)
		}
	}
}

func TestQueryContinuityAtBoundary(t *testing.T) {
	tr := NewTimeTrack([]Keyframe{
		{Minute: 360, Key: "a"},
		{Minute: 720, Key: "b"},
	})

	// Just before the upper keyframe T approaches 1.
	s := tr.Query(719.99)
	if s.Lower != "a" || s.Upper != "b" {
		t.Fatalf("pair = %q/%q, want a/b", s.Lower, s.Upper)
	}
	if s.T < 0.999 {
		t.Errorf("T = %f just before boundary, want ~1", s.T)
	}

	// Immediately after crossing, the pair advances and T resets near 0.
	s = tr.Query(720.01)
	if s.Lower != "b" || s.Upper != "a" {
		t.Fatalf("pair after crossing = %q/%q, want b/a", s.Lower, s.Upper)
	}
	if s.T > 0.001 {
		t.Errorf("T = %f just after boundary, want ~0", s.T)
	}
}

func TestQueryMidnightWraparound(t *testing.T) {
	// Keyframes at 22:00 and 05:30, queried at 23:00:
	// span = (1440-1320)+330 = 450, elapsed = 60, t = 60/450.
	tr := NewTimeTrack([]Keyframe{
		{Minute: 1320, Key: "dusk"},
		{Minute: 330, Key: "dawn"},
	})

	s := tr.Query(1380)
	if s.Lower != "dusk" || s.Upper != "dawn" {
		t.Fatalf("pair = %q/%q, want dusk/dawn", s.Lower, s.Upper)
	}
	want := 60.0 / 450.0
	if math.Abs(s.T-want) > 1e-9 {
		t.Errorf("T = %f, want %f", s.T, want)
	}
}

func TestQueryBeforeFirstKeyframe(t *testing.T) {
	// Room scenario: slots night@20:00 and dawn@05:00, queried at 02:00.
	// span = (1440-1200)+300 = 540, elapsed = (120-1200)+1440 = 360.
	tr := NewTimeTrack([]Keyframe{
		{Minute: 1200, Key: "night"},
		{Minute: 300, Key: "dawn"},
	})

	s := tr.Query(120)
	if s.Lower != "night" || s.Upper != "dawn" {
		t.Fatalf("pair = %q/%q, want night/dawn", s.Lower, s.Upper)
	}
	want := 360.0 / 540.0
	if math.Abs(s.T-want) > 1e-9 {
		t.Errorf("T = %f, want %f (≈0.667)", s.T, want)
	}
}

func TestQuerySingleKeyframe(t *testing.T) {
	tr := NewTimeTrack([]Keyframe{{Minute: 600, Key: "only"}})

	for _, m := range []float64{0, 599, 600, 601, 1439.5} {
		s := tr.Query(m)
		if s.Lower != "only" || s.Upper != "only" {
			t.Errorf("Query(%f) pair = %q/%q, want only/only", m, s.Lower, s.Upper)
		}
		if s.T != 0 {
			t.Errorf("Query(%f).T = %f, want 0", m, s.T)
		}
	}
}

func TestQueryEmptyTrack(t *testing.T) {
	var tr *TimeTrack
	s := tr.Query(720)
	if s != (TrackSample{}) {
		t.Errorf("nil track Query = %+v, want zero sample", s)
	}
	if NewTimeTrack(nil) != nil {
		t.Error("NewTimeTrack(nil) should return nil")
	}
}

func TestDuplicateMinuteLastWins(t *testing.T) {
	tr := NewTimeTrack([]Keyframe{
		{Minute: 0, Key: "base"},
		{Minute: 600, Key: "first"},
		{Minute: 600, Key: "second"},
	})

	if tr.Len() != 2 {
		t.Fatalf("Len = %d, want 2 after collapsing duplicates", tr.Len())
	}
	s := tr.Query(600)
	if s.Lower != "second" {
		t.Errorf("duplicate minute resolved to %q, want last-specified %q", s.Lower, "second")
	}
}

func TestQueryEasedIsSmoothstep(t *testing.T) {
	tr := NewTimeTrack([]Keyframe{
		{Minute: 0, Key: "a"},
		{Minute: 1000, Key: "b"},
	})

	s := tr.Query(250) // T = 0.25
	wantEased := 0.25 * 0.25 * (3 - 2*0.25)
	if math.Abs(s.Eased-wantEased) > 1e-9 {
		t.Errorf("Eased = %f, want smoothstep(0.25) = %f", s.Eased, wantEased)
	}
	// Midpoint: smoothstep(0.5) == 0.5.
	s = tr.Query(500)
	if math.Abs(s.Eased-0.5) > 1e-9 {
		t.Errorf("Eased at midpoint = %f, want 0.5", s.Eased)
	}
}

func TestWindowContains(t *testing.T) {
	// 22:00 - 05:30 wraps past midnight.
	w := Window{Start: 1320, End: 330}
	if !w.Contains(1380) {
		t.Error("23:00 should be inside 22:00-05:30")
	}
	if !w.Contains(120) {
		t.Error("02:00 should be inside 22:00-05:30")
	}
	if w.Contains(720) {
		t.Error("12:00 should be outside 22:00-05:30")
	}

	day := Window{Start: 540, End: 1020}
	if !day.Contains(720) || day.Contains(60) {
		t.Error("non-wrapping window misclassified")
	}

	empty := Window{Start: 300, End: 300}
	if empty.Contains(300) {
		t.Error("empty window should contain nothing")
	}
}

func TestQueryZeroAlloc(t *testing.T) {
	tr := NewTimeTrack([]Keyframe{
		{Minute: 0, Key: "a"},
		{Minute: 480, Key: "b"},
		{Minute: 960, Key: "c"},
	})

	result := testing.AllocsPerRun(100, func() {
		tr.Query(700)
	})
	if result > 0 {
		t.Errorf("Query allocated %f times per run, want 0", result)
	}
}
