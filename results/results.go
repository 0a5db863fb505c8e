// Package results owns the on-disk layout of finished videos: safe file
// names, the per-subreddit directory tree, the ledger of produced videos
// and scratch-space cleanup.
package results

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mvenus2/RedditVideoMakerBot/config"
)

var (
	illegalChars = regexp.MustCompile(`[?\\"%*:|<>]`)
	withoutSlash = regexp.MustCompile(`( [wW]\s?/\s?[oO0])`)
	withSlash    = regexp.MustCompile(`( [wW]\s?/)`)
	numberSlash  = regexp.MustCompile(`(\d+)\s?/\s?(\d+)`)
	wordSlash    = regexp.MustCompile(`(\w+)\s?/\s?(\w+)`)
)

// NormalizeName turns a post title into a filename that survives every
// filesystem we care about. Slashes are spelled out ("w/o" becomes
// "without", "1/2" becomes "1 of 2") before the leftovers are stripped.
func NormalizeName(name string) string {
	name = illegalChars.ReplaceAllString(name, "")
	name = withoutSlash.ReplaceAllString(name, " without")
	name = withSlash.ReplaceAllString(name, " with")
	name = numberSlash.ReplaceAllString(name, "$1 of $2")
	name = wordSlash.ReplaceAllString(name, "$1 or $2")
	name = strings.ReplaceAll(name, "/", "")
	if len(name) > config.MaxFilenameLength {
		name = name[:config.MaxFilenameLength]
	}
	return name
}

// Layout resolves every output path for one video.
type Layout struct {
	BaseDir   string
	Subreddit string
	Filename  string
}

func NewLayout(baseDir, subreddit, title string) Layout {
	return Layout{BaseDir: baseDir, Subreddit: subreddit, Filename: NormalizeName(title)}
}

func (l Layout) SubredditDir() string {
	return filepath.Join(l.BaseDir, l.Subreddit)
}

func (l Layout) VideoPath() string {
	return filepath.Join(l.SubredditDir(), l.Filename+"."+config.OutputFormat)
}

func (l Layout) OnlyTTSPath() string {
	return filepath.Join(l.SubredditDir(), config.OnlyTTSDir, l.Filename+"."+config.OutputFormat)
}

func (l Layout) ThumbnailPath() string {
	return filepath.Join(l.SubredditDir(), config.ThumbnailsDir, l.Filename+".png")
}

// EnsureDirs creates the subreddit tree. The OnlyTTS and thumbnail
// subdirectories are only made when asked for, so a default run leaves a
// flat directory.
func (l Layout) EnsureDirs(onlyTTS, thumbnails bool) error {
	dirs := []string{l.SubredditDir()}
	if onlyTTS {
		dirs = append(dirs, filepath.Join(l.SubredditDir(), config.OnlyTTSDir))
	}
	if thumbnails {
		dirs = append(dirs, filepath.Join(l.SubredditDir(), config.ThumbnailsDir))
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create results dir %s: %w", d, err)
		}
	}
	return nil
}

// CleanScratch removes one thread's temp workspace. Missing directories
// are fine, a crashed earlier run may already have lost them.
func CleanScratch(root, threadID string) error {
	if root == "" || threadID == "" {
		return fmt.Errorf("refusing to clean scratch path %q/%q", root, threadID)
	}
	return os.RemoveAll(filepath.Join(root, threadID))
}
