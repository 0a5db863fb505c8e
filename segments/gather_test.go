package segments

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProber returns canned durations keyed by base filename.
type fakeProber struct {
	durations map[string]float64
}

func (p fakeProber) Duration(path string) (float64, error) {
	if d, ok := p.durations[filepath.Base(path)]; ok {
		return d, nil
	}
	return 1.0, nil
}

func writeScratch(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
	return dir
}

func TestGatherFlatComments(t *testing.T) {
	dir := writeScratch(t,
		"mp3/title.mp3", "mp3/0.mp3", "mp3/1.mp3",
		"png/title.png", "png/comment_0.png", "png/comment_1.png",
	)
	prober := fakeProber{durations: map[string]float64{
		"title.mp3": 1.5, "0.mp3": 2.0, "1.mp3": 3.5,
	}}

	segs, err := Gather(dir, FlatComments, 2, prober)
	require.NoError(t, err)
	require.Len(t, segs, 3)

	assert.Equal(t, filepath.Join(dir, "mp3", "title.mp3"), segs[0].AudioPath)
	assert.Equal(t, filepath.Join(dir, "png", "comment_1.png"), segs[2].ImagePath)
	assert.Equal(t, []float64{1.5, 2.0, 3.5}, []float64{
		segs[0].DurationSeconds, segs[1].DurationSeconds, segs[2].DurationSeconds,
	})
	for i, s := range segs {
		assert.Equal(t, i, s.Index)
	}
}

func TestGatherStoryTitleAndBody(t *testing.T) {
	dir := writeScratch(t,
		"mp3/title.mp3", "mp3/postaudio.mp3",
		"png/title.png", "png/story_content.png",
	)

	// The body count is irrelevant for this mode, including zero.
	segs, err := Gather(dir, StoryTitleAndBody, 0, fakeProber{})
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, filepath.Join(dir, "mp3", "postaudio.mp3"), segs[1].AudioPath)
	assert.Equal(t, filepath.Join(dir, "png", "story_content.png"), segs[1].ImagePath)
}

func TestGatherStoryPerParagraph(t *testing.T) {
	dir := writeScratch(t,
		"mp3/title.mp3", "mp3/postaudio-0.mp3", "mp3/postaudio-1.mp3",
		"png/title.png", "png/img0.png", "png/img1.png",
	)

	segs, err := Gather(dir, StoryPerParagraph, 2, fakeProber{})
	require.NoError(t, err)
	require.Len(t, segs, 3)
	assert.Equal(t, filepath.Join(dir, "png", "img1.png"), segs[2].ImagePath)
}

func TestGatherStoryPerParagraphBlank(t *testing.T) {
	dir := writeScratch(t,
		"mp3/title.mp3", "mp3/postaudio-0.mp3",
	)

	segs, err := Gather(dir, StoryPerParagraphBlank, 1, fakeProber{})
	require.NoError(t, err)
	require.Len(t, segs, 2)

	// Every image, title included, is the generated transparent placeholder,
	// and it exists on disk.
	for _, s := range segs {
		assert.Equal(t, filepath.Join(dir, "png", "trs.png"), s.ImagePath)
	}
	_, err = os.Stat(segs[0].ImagePath)
	require.NoError(t, err)
}

func TestGatherMissingAudio(t *testing.T) {
	dir := writeScratch(t, "mp3/title.mp3", "png/title.png", "png/comment_0.png")

	_, err := Gather(dir, FlatComments, 1, fakeProber{})
	var missing *MissingAssetError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, filepath.Join(dir, "mp3", "0.mp3"), missing.Path)
}

func TestGatherMissingImage(t *testing.T) {
	dir := writeScratch(t, "mp3/title.mp3", "mp3/0.mp3", "png/title.png")

	_, err := Gather(dir, FlatComments, 1, fakeProber{})
	var missing *MissingAssetError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, filepath.Join(dir, "png", "comment_0.png"), missing.Path)
}

func TestGatherEmptySegmentSet(t *testing.T) {
	dir := writeScratch(t, "mp3/title.mp3", "png/title.png")

	for _, mode := range []LayoutMode{FlatComments, StoryPerParagraph, StoryPerParagraphBlank} {
		t.Run(mode.String(), func(t *testing.T) {
			_, err := Gather(dir, mode, 0, fakeProber{})
			var empty *EmptySegmentSetError
			require.ErrorAs(t, err, &empty)
			assert.Equal(t, mode, empty.Mode)
		})
	}
}

func TestParseLayoutMode(t *testing.T) {
	cases := []struct {
		in      string
		want    LayoutMode
		wantErr bool
	}{
		{"comments", FlatComments, false},
		{"story", StoryTitleAndBody, false},
		{"story-paragraphs", StoryPerParagraph, false},
		{"story-paragraphs-blank", StoryPerParagraphBlank, false},
		{"interpretive-dance", 0, true},
		{"", 0, true},
	}
	for _, c := range cases {
		got, err := ParseLayoutMode(c.in)
		if c.wantErr {
			assert.Error(t, err, c.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
		assert.Equal(t, c.in, got.String())
	}
}
