// Package thumbnail burns a post title onto a template image to produce
// the cover art uploaded next to the video.
package thumbnail

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Composer draws wrapped title text onto a template. The zero value is not
// usable, construct it with NewComposer.
type Composer struct {
	FontPath string
	FontSize float64
	Color    color.Color
}

func NewComposer(fontPath string) *Composer {
	return &Composer{
		FontPath: fontPath,
		FontSize: 50,
		Color:    color.White,
	}
}

// Compose reads the template, lays the title over it and writes a PNG.
func (c *Composer) Compose(templatePath, title, outPath string) error {
	tf, err := os.Open(templatePath)
	if err != nil {
		return fmt.Errorf("open thumbnail template: %w", err)
	}
	defer tf.Close()

	src, _, err := image.Decode(tf)
	if err != nil {
		return fmt.Errorf("decode thumbnail template: %w", err)
	}

	canvas := image.NewRGBA(src.Bounds())
	draw.Draw(canvas, canvas.Bounds(), src, src.Bounds().Min, draw.Src)

	face, err := c.face()
	if err != nil {
		return err
	}

	width := canvas.Bounds().Dx()
	height := canvas.Bounds().Dy()
	lines := wrapTitle(title, lettersPerLine(width, c.FontSize))

	marginX := float64(width) * 0.05
	marginY := float64(height) * 0.12
	lineHeight := c.FontSize * 1.1

	d := font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(c.Color),
		Face: face,
	}
	for i, line := range lines {
		d.Dot = fixed.Point26_6{
			X: fixed.Int26_6(marginX * 64),
			Y: fixed.Int26_6((marginY + float64(i)*lineHeight + c.FontSize) * 64),
		}
		d.DrawString(line)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create thumbnail: %w", err)
	}
	defer out.Close()
	if err := png.Encode(out, canvas); err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}
	return nil
}

func (c *Composer) face() (font.Face, error) {
	raw, err := os.ReadFile(c.FontPath)
	if err != nil {
		// Template-only thumbnails are better than no thumbnails.
		return basicfont.Face7x13, nil
	}
	parsed, err := opentype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", c.FontPath, err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    c.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build font face: %w", err)
	}
	return face, nil
}

// lettersPerLine estimates how many characters fit across 80% of the
// template, assuming a glyph is about half the font size wide.
func lettersPerLine(width int, fontSize float64) int {
	usable := float64(width) * 0.8
	return int(math.Round(usable / (fontSize * 0.5)))
}

// wrapTitle greedily packs words into lines of at most maxLetters.
// A single word longer than the limit still gets its own line.
func wrapTitle(title string, maxLetters int) []string {
	var lines []string
	for _, word := range strings.Fields(title) {
		if len(lines) > 0 && len(lines[len(lines)-1])+len(word) < maxLetters {
			lines[len(lines)-1] += " " + word
			continue
		}
		lines = append(lines, word)
	}
	return lines
}
