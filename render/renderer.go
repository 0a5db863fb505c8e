package render

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"runtime"
	"strconv"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/mvenus2/RedditVideoMakerBot/config"
	"github.com/mvenus2/RedditVideoMakerBot/graph"
	"github.com/mvenus2/RedditVideoMakerBot/progress"
	"github.com/mvenus2/RedditVideoMakerBot/timeline"
	"github.com/mvenus2/RedditVideoMakerBot/types"
)

// EncodeError wraps an encoder failure together with the captured
// diagnostic output, which is where ffmpeg explains itself.
type EncodeError struct {
	Output string
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode failed: %v", e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// RunFunc executes a compiled stream, sending encoder diagnostics to w.
// Tests substitute it to exercise the pipeline without an encoder binary.
type RunFunc func(stream *ffmpeg.Stream, w io.Writer) error

// Renderer turns a resolved job into a finished video file. Each Render
// call builds a fresh graph and a fresh single-use progress monitor, so a
// renderer can be reused across jobs.
type Renderer struct {
	run          RunFunc
	PollInterval time.Duration
}

func NewRenderer() *Renderer {
	return &Renderer{
		run:          runStream,
		PollInterval: config.ProgressPollInterval,
	}
}

// NewRendererWithRun builds a renderer with a custom executor.
func NewRendererWithRun(run RunFunc) *Renderer {
	r := NewRenderer()
	r.run = run
	return r
}

// Render encodes job into job.OutputPath, reporting completion fractions
// to onProgress while the encoder runs. onProgress may be nil. It always
// fires a final 1.0 on success.
func (r *Renderer) Render(job types.RenderJob, windows []timeline.OverlayWindow, onProgress func(float64)) error {
	g, err := graph.Build(job, windows)
	if err != nil {
		return err
	}

	stream, err := g.Compile(encodeArgs())
	if err != nil {
		return err
	}

	mon := progress.NewMonitor()
	mon.Interval = r.PollInterval
	reportPath, err := mon.Start(timeline.TotalDuration(job.Segments), onProgress)
	if err != nil {
		return err
	}
	defer mon.Stop()

	log.Printf("🎥 encoding %s", job.OutputPath)
	var diag bytes.Buffer
	runErr := r.run(stream.GlobalArgs("-progress", reportPath).OverWriteOutput(), &diag)
	mon.Stop()
	if runErr != nil {
		return &EncodeError{Output: diag.String(), Err: runErr}
	}

	if onProgress != nil {
		onProgress(1.0)
	}
	return nil
}

func runStream(stream *ffmpeg.Stream, w io.Writer) error {
	return stream.WithErrorOutput(w).Run()
}

func encodeArgs() ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"f":       config.OutputFormat,
		"c:v":     config.VideoCodec,
		"b:v":     config.VideoBitrate,
		"b:a":     config.AudioBitrate,
		"threads": strconv.Itoa(runtime.NumCPU()),
	}
}
