// Package segments resolves the ordered audio and image fragments of a
// render job and probes their durations.
package segments

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// MediaSegment is one narrated unit: an audio clip paired with the image
// shown while it plays. Immutable once probed.
type MediaSegment struct {
	Index           int
	AudioPath       string
	DurationSeconds float64
	ImagePath       string
}

// MissingAssetError reports a referenced audio or image file that does not
// exist in the scratch directory.
type MissingAssetError struct {
	Path string
}

func (e *MissingAssetError) Error() string {
	return fmt.Sprintf("missing asset: %s", e.Path)
}

// EmptySegmentSetError reports a job with zero body segments in a mode that
// needs at least one, which would produce a zero-length timeline.
type EmptySegmentSetError struct {
	Mode LayoutMode
}

func (e *EmptySegmentSetError) Error() string {
	return fmt.Sprintf("no body segments for mode %s", e.Mode)
}

// Prober reads a media file's duration in seconds without modifying it.
type Prober interface {
	Duration(path string) (float64, error)
}

// placeholderSize is the edge length of generated transparent placeholders.
// The graph scales overlays to the target width anyway.
const placeholderSize = 512

// Gather enumerates the audio/image pairs for the given mode inside the
// job scratch directory and probes each audio clip. The title segment is
// always first; bodyCount is the number of body clips after it.
func Gather(scratchDir string, mode LayoutMode, bodyCount int, prober Prober) ([]MediaSegment, error) {
	if bodyCount <= 0 && mode.RequiresBodySegments() {
		return nil, &EmptySegmentSetError{Mode: mode}
	}

	pairs, err := enumerate(scratchDir, mode, bodyCount)
	if err != nil {
		return nil, err
	}

	segs := make([]MediaSegment, 0, len(pairs))
	for i, p := range pairs {
		if _, err := os.Stat(p.audio); err != nil {
			return nil, &MissingAssetError{Path: p.audio}
		}
		if _, err := os.Stat(p.image); err != nil {
			return nil, &MissingAssetError{Path: p.image}
		}
		d, err := prober.Duration(p.audio)
		if err != nil {
			return nil, err
		}
		segs = append(segs, MediaSegment{
			Index:           i,
			AudioPath:       p.audio,
			DurationSeconds: d,
			ImagePath:       p.image,
		})
	}
	return segs, nil
}

type assetPair struct {
	audio string
	image string
}

// enumerate lists the scratch-relative asset pairs in playback order.
// Filenames follow the scratch directory contract: mp3/ and png/
// subdirectories named by enumeration order, title first.
func enumerate(dir string, mode LayoutMode, bodyCount int) ([]assetPair, error) {
	mp3 := func(name string) string { return filepath.Join(dir, "mp3", name) }
	img := func(name string) string { return filepath.Join(dir, "png", name) }

	pairs := []assetPair{{audio: mp3("title.mp3"), image: img("title.png")}}

	switch mode {
	case FlatComments:
		for i := 0; i < bodyCount; i++ {
			pairs = append(pairs, assetPair{
				audio: mp3(fmt.Sprintf("%d.mp3", i)),
				image: img(fmt.Sprintf("comment_%d.png", i)),
			})
		}
	case StoryTitleAndBody:
		pairs = append(pairs, assetPair{
			audio: mp3("postaudio.mp3"),
			image: img("story_content.png"),
		})
	case StoryPerParagraph:
		for i := 0; i < bodyCount; i++ {
			pairs = append(pairs, assetPair{
				audio: mp3(fmt.Sprintf("postaudio-%d.mp3", i)),
				image: img(fmt.Sprintf("img%d.png", i)),
			})
		}
	case StoryPerParagraphBlank:
		// Same audio timing as StoryPerParagraph, but every image is a
		// generated transparent placeholder, title included.
		blank, err := writePlaceholder(filepath.Join(dir, "png"))
		if err != nil {
			return nil, err
		}
		pairs[0].image = blank
		for i := 0; i < bodyCount; i++ {
			pairs = append(pairs, assetPair{
				audio: mp3(fmt.Sprintf("postaudio-%d.mp3", i)),
				image: blank,
			})
		}
	default:
		return nil, fmt.Errorf("unknown layout mode %d", int(mode))
	}

	return pairs, nil
}

// writePlaceholder creates (or reuses) a fully transparent PNG in the job's
// png directory and returns its path.
func writePlaceholder(pngDir string) (string, error) {
	path := filepath.Join(pngDir, "trs.png")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(pngDir, 0o755); err != nil {
		return "", fmt.Errorf("create png dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create placeholder: %w", err)
	}
	defer f.Close()

	img := image.NewRGBA(image.Rect(0, 0, placeholderSize, placeholderSize))
	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encode placeholder: %w", err)
	}
	return path, nil
}
