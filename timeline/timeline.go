// Package timeline converts ordered segment durations into the overlay
// windows the composition graph is built from.
package timeline

import (
	"github.com/samber/lo"

	"github.com/mvenus2/RedditVideoMakerBot/segments"
)

// OverlayWindow is the time interval during which one segment's image is
// composited onto the background. Windows are derived once and never
// mutated.
type OverlayWindow struct {
	SegmentIndex int
	StartSeconds float64
	EndSeconds   float64
	Opacity      float64
}

// Build emits one window per segment, in order, by advancing a running
// cursor from zero. The result is contiguous and non-overlapping:
// windows[0] starts at 0, each window starts where the previous one ended,
// and the last window ends at the total narration duration.
//
// A zero-duration segment yields a zero-width window; it is deliberately
// not filtered so the next window still starts where it ended.
func Build(segs []segments.MediaSegment, opacity float64) []OverlayWindow {
	windows := make([]OverlayWindow, 0, len(segs))
	t := 0.0
	for _, s := range segs {
		windows = append(windows, OverlayWindow{
			SegmentIndex: s.Index,
			StartSeconds: t,
			EndSeconds:   t + s.DurationSeconds,
			Opacity:      opacity,
		})
		t += s.DurationSeconds
	}
	return windows
}

// TotalDuration is the summed duration of all segments in seconds.
func TotalDuration(segs []segments.MediaSegment) float64 {
	return lo.SumBy(segs, func(s segments.MediaSegment) float64 {
		return s.DurationSeconds
	})
}
