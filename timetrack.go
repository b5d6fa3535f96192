package backdrop

import (
	"fmt"
	"sort"
	"time"
)

// minutesPerDay is the length of the circular clock domain.
const minutesPerDay = 1440

// ParseClock parses a "HH:MM" clock string into a minute-of-day value in
// [0, 1440). Hours 0-23 and minutes 0-59 are accepted; anything else is an
// error and the caller is expected to drop the entry.
func ParseClock(s string) (float64, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("backdrop: bad clock string %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("backdrop: clock %q out of range", s)
	}
	return float64(h*60 + m), nil
}

// MinuteOfDay returns the fractional minute of day for a wall-clock time,
// including seconds (e.g. 14:30:30 -> 870.5). The result is in [0, 1440).
func MinuteOfDay(t time.Time) float64 {
	return float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60
}

// Keyframe places a content key on the 24-hour clock.
// Key is a logical reference (art variant name, image URL, frame index),
// never a texture itself.
type Keyframe struct {
	Minute float64
	Key    string
}

// TrackSample is the result of querying a TimeTrack: the bracketing pair of
// keys and the normalized progress between them.
type TrackSample struct {
	Lower string
	Upper string
	// T is linear progress in [0, 1] from Lower toward Upper.
	T float64
	// Eased is smoothstep(T), for blends that want ease-in/out.
	Eased float64
}

// TimeTrack is an immutable ordered set of keyframes on the circular
// 24-hour clock. The last keyframe wraps to the first at midnight.
type TimeTrack struct {
	frames []Keyframe
}

// NewTimeTrack builds a track from the given keyframes. Keyframes are
// stable-sorted ascending by minute; when two share the same minute the
// last-specified entry wins. Returns nil when no keyframes remain; a nil
// track is valid and every method treats it as empty.
func NewTimeTrack(kfs []Keyframe) *TimeTrack {
	if len(kfs) == 0 {
		return nil
	}
	sorted := make([]Keyframe, len(kfs))
	copy(sorted, kfs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Minute < sorted[j].Minute
	})
	// Collapse duplicate minutes, keeping the later entry in source order
	// (stable sort preserves it as the last of its run).
	out := sorted[:0]
	for i, kf := range sorted {
		if i+1 < len(sorted) && sorted[i+1].Minute == kf.Minute {
			continue
		}
		out = append(out, kf)
	}
	return &TimeTrack{frames: out}
}

// Len returns the number of keyframes, 0 for a nil track.
func (tr *TimeTrack) Len() int {
	if tr == nil {
		return 0
	}
	return len(tr.frames)
}

// Query maps a minute-of-day value onto the bracketing keyframe pair and the
// progress between them. The day is treated as circular: a query before the
// first keyframe selects the final keyframe as Lower (crossing midnight).
//
// A track with exactly one keyframe always returns {Lower == Upper, T: 0}.
// Querying a nil or empty track returns the zero TrackSample.
func (tr *TimeTrack) Query(nowMinute float64) TrackSample {
	if tr.Len() == 0 {
		return TrackSample{}
	}
	frames := tr.frames
	if len(frames) == 1 {
		return TrackSample{Lower: frames[0].Key, Upper: frames[0].Key}
	}

	// Last keyframe whose minute <= now; wraps to the final keyframe when
	// now precedes the first entry. Tracks are tiny (tens of entries at
	// most), so a linear scan is deterministic and cheap enough for a
	// per-frame call.
	lo := len(frames) - 1
	for i, kf := range frames {
		if kf.Minute > nowMinute {
			break
		}
		lo = i
	}
	hi := (lo + 1) % len(frames)

	lower, upper := frames[lo], frames[hi]
	span := upper.Minute - lower.Minute
	if span <= 0 {
		span = (minutesPerDay - lower.Minute) + upper.Minute
	}
	if span < 1 {
		// Degenerate spacing; guard the division below.
		span = 1
	}
	elapsed := nowMinute - lower.Minute
	if elapsed < 0 {
		elapsed += minutesPerDay
	}
	t := clamp01(elapsed / span)
	return TrackSample{
		Lower: lower.Key,
		Upper: upper.Key,
		T:     t,
		Eased: smoothstep(t),
	}
}

// Window is a daily time window in minutes of day. Start may exceed End, in
// which case the window wraps past midnight (22:00-05:30 contains 23:00 and
// 02:00 but not 12:00).
type Window struct {
	Start, End float64
}

// Contains reports whether the given minute of day falls inside the window.
// An empty window (Start == End) contains nothing.
func (w Window) Contains(minute float64) bool {
	if w.Start == w.End {
		return false
	}
	if w.Start < w.End {
		return minute >= w.Start && minute < w.End
	}
	return minute >= w.Start || minute < w.End
}
