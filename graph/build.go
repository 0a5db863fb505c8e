package graph

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mvenus2/RedditVideoMakerBot/config"
	"github.com/mvenus2/RedditVideoMakerBot/segments"
	"github.com/mvenus2/RedditVideoMakerBot/timeline"
	"github.com/mvenus2/RedditVideoMakerBot/types"
)

// BuildError reports an invariant violation while composing the graph.
// It always fires before any encoder process is spawned.
type BuildError struct {
	Reason string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("graph build: %s", e.Reason)
}

// Build translates a resolved job plus its overlay windows into a
// composition graph. Building is pure: the same job and windows always
// produce a structurally identical graph.
//
// Stacking order follows the source material: the background is cropped to
// the target aspect ratio, each segment image is scaled (and, for flat
// comments, alpha-mixed) and overlaid centered during its window, narration
// audio is concatenated in window order, background audio is mixed in only
// when its volume is non-zero, an optional credit line is drawn, and the
// result is scaled to exactly the output resolution.
func Build(job types.RenderJob, windows []timeline.OverlayWindow) (*Graph, error) {
	if job.Width <= 0 || job.Height <= 0 {
		return nil, &BuildError{Reason: fmt.Sprintf("invalid resolution %dx%d", job.Width, job.Height)}
	}
	if len(windows) != len(job.Segments) {
		return nil, &BuildError{Reason: fmt.Sprintf("%d windows for %d segments", len(windows), len(job.Segments))}
	}
	if len(job.Segments) == 0 {
		return nil, &BuildError{Reason: "no segments"}
	}
	if err := requireFile(job.BackgroundPath); err != nil {
		return nil, err
	}
	for _, s := range job.Segments {
		if err := requireFile(s.AudioPath); err != nil {
			return nil, err
		}
		if err := requireFile(s.ImagePath); err != nil {
			return nil, err
		}
	}
	mixBackground := job.BackgroundAudioVolume > 0
	if mixBackground {
		if err := requireFile(job.BackgroundAudioPath); err != nil {
			return nil, err
		}
	}

	g := &Graph{}

	// Background video, cropped to the output aspect ratio. The crop is
	// anchored on the source height and centered horizontally.
	bg := g.add(KindInput, map[string]string{"path": job.BackgroundPath, "media": "video"})
	video := g.add(KindCrop, map[string]string{
		"w": fmt.Sprintf("ih*(%d/%d)", job.Width, job.Height),
		"h": "ih",
	}, bg)

	// One overlay per window, visible only inside [start, end).
	overlayWidth := job.Width * config.ScreenshotWidthPercent / 100
	for i, w := range windows {
		img := g.add(KindInput, map[string]string{"path": job.Segments[i].ImagePath, "media": "image"})
		scaled := g.add(KindScale, map[string]string{
			"w": strconv.Itoa(overlayWidth),
			"h": "-1",
		}, img)
		if job.Mode == segments.FlatComments {
			scaled = g.add(KindColorMix, map[string]string{"aa": formatNumber(w.Opacity)}, scaled)
		}
		video = g.add(KindOverlay, map[string]string{
			"x":      "(main_w-overlay_w)/2",
			"y":      "(main_h-overlay_h)/2",
			"enable": fmt.Sprintf("between(t,%s,%s)", formatNumber(w.StartSeconds), formatNumber(w.EndSeconds)),
		}, video, scaled)
	}

	// Narration clips, concatenated in the same order as the windows.
	// Any reordering here would desynchronize audio and video.
	audioInputs := make([]NodeID, 0, len(job.Segments))
	for _, s := range job.Segments {
		audioInputs = append(audioInputs, g.add(KindInput, map[string]string{"path": s.AudioPath, "media": "audio"}))
	}
	audio := g.add(KindConcatAudio, map[string]string{
		"count": strconv.Itoa(len(audioInputs)),
	}, audioInputs...)

	if mixBackground {
		bgm := g.add(KindInput, map[string]string{"path": job.BackgroundAudioPath, "media": "audio"})
		audio = g.add(KindMixAudio, map[string]string{
			"volume":   formatNumber(job.BackgroundAudioVolume),
			"duration": "longest",
		}, audio, bgm)
	}

	if job.BackgroundCredit != "" {
		args := map[string]string{
			"text":      fmt.Sprintf("Background by %s", job.BackgroundCredit),
			"x":         "(w-text_w)",
			"y":         "(h-text_h)",
			"fontsize":  "5",
			"fontcolor": "White",
		}
		if fontFile := creditFont(); fontFile != "" {
			args["fontfile"] = fontFile
		}
		video = g.add(KindDrawText, args, video)
	}

	video = g.add(KindScale, map[string]string{
		"w": strconv.Itoa(job.Width),
		"h": strconv.Itoa(job.Height),
	}, video)

	g.output = g.add(KindOutput, map[string]string{"path": job.OutputPath}, video, audio)
	return g, nil
}

func requireFile(path string) error {
	if path == "" {
		return &BuildError{Reason: "asset path is empty"}
	}
	if _, err := os.Stat(path); err != nil {
		return &BuildError{Reason: fmt.Sprintf("asset missing: %s", path)}
	}
	return nil
}

// creditFont returns the bundled credit font if it is present.
func creditFont() string {
	path := filepath.Join(config.FontsDir, "Roboto-Regular.ttf")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// formatNumber renders a float without trailing zeros so graph args stay
// stable between builds.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
