package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvenus2/RedditVideoMakerBot/segments"
	"github.com/mvenus2/RedditVideoMakerBot/timeline"
	"github.com/mvenus2/RedditVideoMakerBot/types"
)

func renderJob(t *testing.T) (types.RenderJob, []timeline.OverlayWindow) {
	t.Helper()
	dir := t.TempDir()
	touch := func(name string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		return path
	}

	segs := []segments.MediaSegment{
		{Index: 0, AudioPath: touch("mp3/title.mp3"), DurationSeconds: 4, ImagePath: touch("png/title.png")},
		{Index: 1, AudioPath: touch("mp3/0.mp3"), DurationSeconds: 6, ImagePath: touch("png/comment_0.png")},
	}
	job := types.RenderJob{
		BackgroundPath: touch("background.mp4"),
		Segments:       segs,
		Mode:           segments.FlatComments,
		Width:          1080,
		Height:         1920,
		Opacity:        0.9,
		OutputPath:     filepath.Join(dir, "out.mp4"),
	}
	return job, timeline.Build(segs, job.Opacity)
}

// progressFile digs the report path out of the compiled argument list.
func progressFile(t *testing.T, stream *ffmpeg.Stream) string {
	t.Helper()
	args := stream.GetArgs()
	for i, a := range args {
		if a == "-progress" && i+1 < len(args) {
			return args[i+1]
		}
	}
	t.Fatal("no -progress argument in compiled stream")
	return ""
}

func TestRenderReportsProgress(t *testing.T) {
	job, windows := renderJob(t)

	var mu sync.Mutex
	var seen []float64
	record := func(f float64) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, f)
	}

	r := NewRendererWithRun(func(stream *ffmpeg.Stream, w io.Writer) error {
		path := progressFile(t, stream)
		// halfway through a 10s narration
		require.NoError(t, os.WriteFile(path, []byte("out_time_ms=5000000\n"), 0o644))
		time.Sleep(30 * time.Millisecond)
		return nil
	})
	r.PollInterval = 5 * time.Millisecond

	require.NoError(t, r.Render(job, windows, record))

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	assert.InDelta(t, 0.5, seen[0], 1e-9)
	assert.Equal(t, 1.0, seen[len(seen)-1], "success always ends on a full bar")
}

func TestRenderEncodeError(t *testing.T) {
	job, windows := renderJob(t)

	r := NewRendererWithRun(func(stream *ffmpeg.Stream, w io.Writer) error {
		fmt.Fprintln(w, "Error while filtering: invalid argument")
		return fmt.Errorf("exit status 1")
	})
	r.PollInterval = time.Hour

	err := r.Render(job, windows, nil)
	var encErr *EncodeError
	require.ErrorAs(t, err, &encErr)
	assert.Contains(t, encErr.Output, "Error while filtering")
	assert.EqualError(t, encErr.Err, "exit status 1")
}

func TestRenderGraphErrorsSkipEncoder(t *testing.T) {
	job, windows := renderJob(t)
	require.NoError(t, os.Remove(job.BackgroundPath))

	invoked := false
	r := NewRendererWithRun(func(stream *ffmpeg.Stream, w io.Writer) error {
		invoked = true
		return nil
	})

	err := r.Render(job, windows, nil)
	require.Error(t, err)
	assert.False(t, invoked, "broken graphs never reach the encoder")
}
