package config

import "time"

// Video Output Constants
const (
	// VideoCodec is the video encoding codec
	VideoCodec = "h264"

	// VideoBitrate is the video quality bitrate
	VideoBitrate = "20M"

	// AudioBitrate is the audio quality bitrate
	AudioBitrate = "192k"

	// OutputFormat is the container format for rendered videos
	OutputFormat = "mp4"

	// ScreenshotWidthPercent is the overlay width as a percentage of the
	// output width
	ScreenshotWidthPercent = 45
)

// Progress Constants
const (
	// ProgressPollInterval is how often the render progress channel is read
	ProgressPollInterval = 1 * time.Second
)

// Directory Constants
const (
	// AssetsTempDir holds per-job scratch directories
	AssetsTempDir = "assets/temp"

	// ResultsDir holds finished renders, keyed by subreddit
	ResultsDir = "results"

	// OnlyTTSDir is the results subdirectory for narration-only renders
	OnlyTTSDir = "OnlyTTS"

	// ThumbnailsDir is the results subdirectory for thumbnail stills
	ThumbnailsDir = "thumbnails"

	// InputDir is the directory scanned for render request JSON files
	InputDir = "input"

	// FontsDir holds the fonts used for credit text and thumbnails
	FontsDir = "fonts"
)

// Title and Filename Constants
const (
	// MaxFilenameLength caps the normalized output filename
	MaxFilenameLength = 251
)

// YouTube Constants
const (
	// YouTubeCategoryID for Entertainment
	YouTubeCategoryID = "24"

	// YouTubePrivacyStatus sets video visibility
	YouTubePrivacyStatus = "public"
)
