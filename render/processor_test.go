package render

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvenus2/RedditVideoMakerBot/config"
	"github.com/mvenus2/RedditVideoMakerBot/results"
	"github.com/mvenus2/RedditVideoMakerBot/thumbnail"
	"github.com/mvenus2/RedditVideoMakerBot/types"
)

type stubProber struct{ seconds float64 }

func (s stubProber) Duration(string) (float64, error) { return s.seconds, nil }

// captureRun records every output path handed to the encoder. The output
// file is the one .mp4 argument that is not an -i input.
type captureRun struct {
	outputs []string
}

func (c *captureRun) run(stream *ffmpeg.Stream, w io.Writer) error {
	args := stream.GetArgs()
	for i, a := range args {
		if strings.HasSuffix(a, ".mp4") && (i == 0 || args[i-1] != "-i") {
			c.outputs = append(c.outputs, a)
			break
		}
	}
	return nil
}

func seedScratch(t *testing.T, root, threadID string) {
	t.Helper()
	dir := filepath.Join(root, threadID)
	for _, name := range []string{
		"background.mp4",
		"background.mp3",
		"mp3/title.mp3",
		"mp3/0.mp3",
		"png/title.png",
		"png/comment_0.png",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
}

func testProcessor(t *testing.T, cfg config.Settings) (*Processor, *captureRun) {
	t.Helper()
	capture := &captureRun{}
	r := NewRendererWithRun(capture.run)
	r.PollInterval = time.Hour

	p := NewProcessorWithDependencies(cfg, r, stubProber{seconds: 3}, thumbnail.NewComposer("missing.ttf"))
	p.ScratchRoot = filepath.Join(t.TempDir(), "scratch")
	p.ResultsRoot = filepath.Join(t.TempDir(), "results")
	return p, capture
}

func testSettings() config.Settings {
	return config.Settings{
		ResolutionW:           1080,
		ResolutionH:           1920,
		Opacity:               0.9,
		BackgroundAudioVolume: 0.15,
		BackgroundCredit:      "bbswitzer",
	}
}

func TestProcessHappyPath(t *testing.T) {
	p, capture := testProcessor(t, testSettings())
	seedScratch(t, p.ScratchRoot, "t3_abc")

	res, err := p.Process(types.RenderRequest{
		ThreadID:  "t3_abc",
		Title:     "My great post",
		Subreddit: "AskReddit",
		Mode:      "comments",
		Clips:     1,
	}, nil)
	require.NoError(t, err)

	want := filepath.Join(p.ResultsRoot, "AskReddit", "My great post.mp4")
	assert.Equal(t, want, res.VideoPath)
	assert.Empty(t, res.OnlyTTSPath)
	assert.InDelta(t, 6.0, res.LengthSeconds, 1e-9, "two 3s fragments")
	assert.Equal(t, []string{want}, capture.outputs, "one encoder run without the extra-audio variant")

	assert.NoDirExists(t, filepath.Join(p.ScratchRoot, "t3_abc"), "scratch is cleaned up")

	raw, err := os.ReadFile(filepath.Join(p.ResultsRoot, "AskReddit", "videos.json"))
	require.NoError(t, err)
	var records []results.Record
	require.NoError(t, json.Unmarshal(raw, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "t3_abc", records[0].ID)
	assert.Equal(t, "bbswitzer", records[0].BackgroundCredit)
	assert.Equal(t, "My great post.mp4", records[0].Filename)
}

func TestProcessExtraAudioVariant(t *testing.T) {
	cfg := testSettings()
	cfg.EnableExtraAudio = true
	p, capture := testProcessor(t, cfg)
	seedScratch(t, p.ScratchRoot, "t3_tts")

	res, err := p.Process(types.RenderRequest{
		ThreadID:  "t3_tts",
		Title:     "tts post",
		Subreddit: "AskReddit",
		Mode:      "comments",
		Clips:     1,
	}, nil)
	require.NoError(t, err)

	require.Len(t, capture.outputs, 2, "main render then narration-only render")
	assert.Equal(t, res.VideoPath, capture.outputs[0])
	assert.Equal(t, res.OnlyTTSPath, capture.outputs[1])
	assert.Equal(t, filepath.Join(p.ResultsRoot, "AskReddit", "OnlyTTS", "tts post.mp4"), res.OnlyTTSPath)
}

func TestProcessSkipsVariantWithoutBackgroundMix(t *testing.T) {
	cfg := testSettings()
	cfg.EnableExtraAudio = true
	cfg.BackgroundAudioVolume = 0
	p, capture := testProcessor(t, cfg)
	seedScratch(t, p.ScratchRoot, "t3_nomix")

	res, err := p.Process(types.RenderRequest{
		ThreadID:  "t3_nomix",
		Title:     "quiet post",
		Subreddit: "AskReddit",
		Mode:      "comments",
		Clips:     1,
	}, nil)
	require.NoError(t, err)

	assert.Len(t, capture.outputs, 1, "the main output is already pure narration")
	assert.Empty(t, res.OnlyTTSPath)
}

func TestProcessRequestCreditOverride(t *testing.T) {
	p, _ := testProcessor(t, testSettings())
	seedScratch(t, p.ScratchRoot, "t3_credit")

	_, err := p.Process(types.RenderRequest{
		ThreadID:         "t3_credit",
		Title:            "credit post",
		Subreddit:        "AskReddit",
		Mode:             "comments",
		Clips:            1,
		BackgroundCredit: "someoneelse",
	}, nil)
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(p.ResultsRoot, "AskReddit", "videos.json"))
	require.NoError(t, err)
	var records []results.Record
	require.NoError(t, json.Unmarshal(raw, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "someoneelse", records[0].BackgroundCredit)
}

func TestProcessInvalidRequest(t *testing.T) {
	p, capture := testProcessor(t, testSettings())

	_, err := p.Process(types.RenderRequest{Title: "no thread id"}, nil)
	require.Error(t, err)
	assert.Empty(t, capture.outputs)
}

func TestProcessMissingAssetsCleansScratch(t *testing.T) {
	p, _ := testProcessor(t, testSettings())
	seedScratch(t, p.ScratchRoot, "t3_gone")
	require.NoError(t, os.Remove(filepath.Join(p.ScratchRoot, "t3_gone", "mp3", "0.mp3")))

	_, err := p.Process(types.RenderRequest{
		ThreadID:  "t3_gone",
		Title:     "broken",
		Subreddit: "AskReddit",
		Mode:      "comments",
		Clips:     1,
	}, nil)
	require.Error(t, err)
	assert.NoDirExists(t, filepath.Join(p.ScratchRoot, "t3_gone"), "scratch is cleaned even on failure")
}
