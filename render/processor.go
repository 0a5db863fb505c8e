package render

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mvenus2/RedditVideoMakerBot/config"
	"github.com/mvenus2/RedditVideoMakerBot/media"
	"github.com/mvenus2/RedditVideoMakerBot/results"
	"github.com/mvenus2/RedditVideoMakerBot/segments"
	"github.com/mvenus2/RedditVideoMakerBot/thumbnail"
	"github.com/mvenus2/RedditVideoMakerBot/timeline"
	"github.com/mvenus2/RedditVideoMakerBot/types"
)

// Processor runs one request end to end: gather fragments, place them on
// the timeline, render the main video, then the optional narration-only
// variant, the thumbnail and the ledger entry. The scratch directory is
// removed afterwards whether the render succeeded or not.
type Processor struct {
	cfg      config.Settings
	renderer *Renderer
	prober   segments.Prober
	composer *thumbnail.Composer

	// ScratchRoot and ResultsRoot default to the standard layout.
	ScratchRoot string
	ResultsRoot string
}

func NewProcessor(cfg config.Settings) *Processor {
	return NewProcessorWithDependencies(cfg,
		NewRenderer(),
		media.NewProber(),
		thumbnail.NewComposer(filepath.Join(config.FontsDir, "Roboto-Bold.ttf")))
}

// NewProcessorWithDependencies wires explicit collaborators, for tests and
// callers that already hold a renderer.
func NewProcessorWithDependencies(cfg config.Settings, r *Renderer, p segments.Prober, c *thumbnail.Composer) *Processor {
	return &Processor{
		cfg:         cfg,
		renderer:    r,
		prober:      p,
		composer:    c,
		ScratchRoot: config.AssetsTempDir,
		ResultsRoot: config.ResultsDir,
	}
}

// Process assembles the video for req. onProgress receives completion
// fractions for the main render only; the narration-only pass is quick and
// unreported.
func (p *Processor) Process(req types.RenderRequest, onProgress func(float64)) (*types.RenderResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid render request: %w", err)
	}
	mode, err := segments.ParseLayoutMode(req.Mode)
	if err != nil {
		return nil, err
	}

	scratch := filepath.Join(p.ScratchRoot, req.ThreadID)
	defer func() {
		if err := results.CleanScratch(p.ScratchRoot, req.ThreadID); err != nil {
			log.Printf("⚠️ could not clean %s: %v", scratch, err)
		}
	}()

	segs, err := segments.Gather(scratch, mode, req.Clips, p.prober)
	if err != nil {
		return nil, err
	}
	windows := timeline.Build(segs, p.cfg.Opacity)
	total := timeline.TotalDuration(segs)
	log.Printf("🎬 %s: %d segments, %.1fs of narration", req.ThreadID, len(segs), total)

	layout := results.NewLayout(p.ResultsRoot, req.Subreddit, req.Title)
	template := p.thumbnailTemplate()
	wantOnlyTTS := p.cfg.EnableExtraAudio && p.cfg.BackgroundAudioVolume > 0
	if err := layout.EnsureDirs(wantOnlyTTS, template != ""); err != nil {
		return nil, err
	}

	credit := req.BackgroundCredit
	if credit == "" {
		credit = p.cfg.BackgroundCredit
	}

	job := types.RenderJob{
		BackgroundPath:        filepath.Join(scratch, "background.mp4"),
		BackgroundAudioPath:   filepath.Join(scratch, "background.mp3"),
		BackgroundCredit:      credit,
		Segments:              segs,
		Mode:                  mode,
		Width:                 p.cfg.ResolutionW,
		Height:                p.cfg.ResolutionH,
		Opacity:               p.cfg.Opacity,
		BackgroundAudioVolume: p.cfg.BackgroundAudioVolume,
		OutputPath:            layout.VideoPath(),
	}
	if err := p.renderer.Render(job, windows, onProgress); err != nil {
		return nil, err
	}

	result := &types.RenderResult{
		ThreadID:      req.ThreadID,
		VideoPath:     layout.VideoPath(),
		LengthSeconds: total,
		FinishedAt:    time.Now().UTC(),
	}

	// Without a background mix the main output already is pure narration,
	// so a second pass would only duplicate it.
	if wantOnlyTTS {
		ttsJob := job
		ttsJob.BackgroundAudioVolume = 0
		ttsJob.OutputPath = layout.OnlyTTSPath()
		if err := p.renderer.Render(ttsJob, windows, nil); err != nil {
			return nil, fmt.Errorf("narration-only variant: %w", err)
		}
		result.OnlyTTSPath = ttsJob.OutputPath
	}

	if template != "" {
		if err := p.composer.Compose(template, req.Title, layout.ThumbnailPath()); err != nil {
			log.Printf("⚠️ thumbnail for %s: %v", req.ThreadID, err)
		} else {
			result.ThumbnailPath = layout.ThumbnailPath()
		}
	}

	ledger := results.NewLedger(filepath.Join(layout.SubredditDir(), "videos.json"))
	if err := ledger.Append(results.Record{
		Subreddit:        req.Subreddit,
		ID:               req.ThreadID,
		BackgroundCredit: credit,
		Title:            req.Title,
		Filename:         filepath.Base(layout.VideoPath()),
	}); err != nil {
		return nil, err
	}

	log.Printf("✅ rendered %s", result.VideoPath)
	return result, nil
}

// thumbnailTemplate returns the configured template image or empty when
// none is installed, which disables thumbnail output.
func (p *Processor) thumbnailTemplate() string {
	path := filepath.Join(config.InputDir, "thumbnail.png")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
