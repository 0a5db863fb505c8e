package thumbnail

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplate(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 30, G: 30, B: 30, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "template.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestWrapTitle(t *testing.T) {
	cases := []struct {
		name       string
		title      string
		maxLetters int
		want       []string
	}{
		{"fits on one line", "short title", 40, []string{"short title"}},
		{"splits at the limit", "one two three four", 8, []string{"one two", "three", "four"}},
		{"oversized word", "supercalifragilistic yes", 10, []string{"supercalifragilistic", "yes"}},
		{"empty", "", 10, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, wrapTitle(tc.title, tc.maxLetters))
		})
	}
}

func TestComposeWritesPNG(t *testing.T) {
	template := writeTemplate(t, 480, 360)
	out := filepath.Join(t.TempDir(), "thumb.png")

	c := NewComposer("no-such-font.ttf")
	require.NoError(t, c.Compose(template, "AITA for testing my own code", out))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 480, img.Bounds().Dx())
	assert.Equal(t, 360, img.Bounds().Dy())

	// the drawn title must have changed some pixels near the top margin
	changed := false
	for y := 0; y < 120 && !changed; y++ {
		for x := 0; x < 480; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r>>8 != 30 || g>>8 != 30 || b>>8 != 30 {
				changed = true
				break
			}
		}
	}
	assert.True(t, changed, "title text was not drawn")
}

func TestComposeMissingTemplate(t *testing.T) {
	c := NewComposer("font.ttf")
	err := c.Compose("nope.png", "title", filepath.Join(t.TempDir(), "out.png"))
	assert.Error(t, err)
}
