// Package types holds the payloads shared between the render pipeline and
// its intake surfaces (CLI, Kafka, HTTP).
package types

import (
	"fmt"
	"time"

	"github.com/mvenus2/RedditVideoMakerBot/segments"
)

// RenderRequest describes one video to assemble. It arrives as JSON from
// the CLI input file, a Kafka message or the HTTP API. The referenced
// scratch directory must already contain the background clip and all
// audio/image fragments.
type RenderRequest struct {
	// ThreadID keys the scratch directory under assets/temp/
	ThreadID string `json:"thread_id"`

	// Title of the post; used for the output filename and thumbnail text
	Title string `json:"title"`

	// Subreddit groups finished renders under results/
	Subreddit string `json:"subreddit"`

	// Mode is the layout mode name (see segments.ParseLayoutMode)
	Mode string `json:"mode"`

	// Clips is the number of body segments after the title
	Clips int `json:"clips"`

	// BackgroundCredit overrides the configured credit line when non-empty
	BackgroundCredit string `json:"background_credit,omitempty"`
}

// Validate checks the request shape before any filesystem work happens.
func (r RenderRequest) Validate() error {
	if r.ThreadID == "" {
		return fmt.Errorf("thread_id is required")
	}
	if r.Subreddit == "" {
		return fmt.Errorf("subreddit is required")
	}
	if _, err := segments.ParseLayoutMode(r.Mode); err != nil {
		return err
	}
	return nil
}

// RenderResult reports a finished render.
type RenderResult struct {
	ThreadID      string    `json:"thread_id"`
	VideoPath     string    `json:"video_path"`
	OnlyTTSPath   string    `json:"only_tts_path,omitempty"`
	ThumbnailPath string    `json:"thumbnail_path,omitempty"`
	LengthSeconds float64   `json:"length_seconds"`
	FinishedAt    time.Time `json:"finished_at"`
}

// RenderJob is the fully resolved, read-only description consumed by the
// graph builder and renderer. Created once per video, discarded after
// rendering.
type RenderJob struct {
	BackgroundPath      string
	BackgroundAudioPath string
	BackgroundCredit    string

	Segments []segments.MediaSegment
	Mode     segments.LayoutMode

	Width  int
	Height int

	Opacity               float64
	BackgroundAudioVolume float64

	OutputPath string
}
