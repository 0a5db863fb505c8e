package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mvenus2/RedditVideoMakerBot/config"
	"github.com/mvenus2/RedditVideoMakerBot/upload"
)

func main() {
	videoPath := flag.String("video", "", "Path to the MP4 file to upload")
	title := flag.String("title", "", "Title for the YouTube video (defaults to filename)")
	description := flag.String("description", "", "Description to use (optional)")
	subreddit := flag.String("subreddit", "", "Subreddit the video came from (used in the description)")
	tagsFlag := flag.String("tags", "reddit,reddit stories,shorts", "Comma-separated list of tags")
	categoryID := flag.String("category-id", config.YouTubeCategoryID, "YouTube category ID")

	flag.Parse()
	_ = godotenv.Load()

	if *videoPath == "" {
		flag.Usage()
		log.Fatal("--video is required")
	}
	if err := ensureFileExists(*videoPath); err != nil {
		log.Fatalf("invalid video path: %v", err)
	}

	titleVal := strings.TrimSpace(*title)
	if titleVal == "" {
		filename := filepath.Base(*videoPath)
		titleVal = strings.TrimSuffix(filename, filepath.Ext(filename))
	}

	descVal := strings.TrimSpace(*description)
	if descVal == "" {
		descVal = defaultDescription(titleVal, *subreddit)
	}

	tags := parseTags(*tagsFlag)

	serviceAccount := os.Getenv("YOUTUBE_SERVICE_ACCOUNT_FILE")
	if serviceAccount == "" {
		log.Fatal("YOUTUBE_SERVICE_ACCOUNT_FILE is not set")
	}

	uploader, err := upload.NewUploader(serviceAccount)
	if err != nil {
		log.Fatalf("failed to initialize uploader: %v", err)
	}

	videoID, err := uploader.UploadVideo(*videoPath, upload.Metadata{
		Title:       titleVal,
		Description: descVal,
		Tags:        tags,
		CategoryID:  *categoryID,
	})
	if err != nil {
		log.Fatalf("upload failed: %v", err)
	}

	log.Printf("Uploaded successfully! https://youtube.com/shorts/%s", videoID)
}

func ensureFileExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, expected file: %s", path)
	}
	return nil
}

func parseTags(raw string) []string {
	split := strings.Split(raw, ",")
	var tags []string
	for _, tag := range split {
		clean := strings.TrimSpace(tag)
		if clean != "" {
			tags = append(tags, clean)
		}
	}
	return tags
}

func defaultDescription(title, subreddit string) string {
	builder := strings.Builder{}
	builder.WriteString(title)
	builder.WriteString("\n\n")
	if strings.TrimSpace(subreddit) != "" {
		builder.WriteString("💬 From r/")
		builder.WriteString(subreddit)
		builder.WriteString("\n\n")
	}
	builder.WriteString("#reddit #redditstories #shorts")
	return builder.String()
}
