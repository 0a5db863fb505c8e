package segments

import "fmt"

// LayoutMode selects how audio and image fragments are enumerated for a job.
// Fixed for the duration of one render.
type LayoutMode int

const (
	// FlatComments overlays one comment screenshot per narration clip.
	FlatComments LayoutMode = iota

	// StoryTitleAndBody shows the title card, then the full story body.
	StoryTitleAndBody

	// StoryPerParagraph shows one rendered image per story paragraph.
	StoryPerParagraph

	// StoryPerParagraphBlank keeps per-paragraph timing but swaps every
	// image for a transparent placeholder (captions are burned in later
	// by an external tool).
	StoryPerParagraphBlank
)

var modeNames = map[LayoutMode]string{
	FlatComments:           "comments",
	StoryTitleAndBody:      "story",
	StoryPerParagraph:      "story-paragraphs",
	StoryPerParagraphBlank: "story-paragraphs-blank",
}

func (m LayoutMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("LayoutMode(%d)", int(m))
}

// ParseLayoutMode maps a request string to a LayoutMode.
func ParseLayoutMode(s string) (LayoutMode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown layout mode %q", s)
}

// RequiresBodySegments reports whether a zero body count is an invalid job
// shape for this mode. StoryTitleAndBody always has exactly one body clip
// regardless of the requested count.
func (m LayoutMode) RequiresBodySegments() bool {
	return m != StoryTitleAndBody
}
