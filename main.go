package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mvenus2/RedditVideoMakerBot/api"
	"github.com/mvenus2/RedditVideoMakerBot/config"
	"github.com/mvenus2/RedditVideoMakerBot/jobs"
	"github.com/mvenus2/RedditVideoMakerBot/kafka"
	"github.com/mvenus2/RedditVideoMakerBot/render"
	"github.com/mvenus2/RedditVideoMakerBot/storage"
	"github.com/mvenus2/RedditVideoMakerBot/tui"
	"github.com/mvenus2/RedditVideoMakerBot/types"
)

const defaultAPIPort = ":8081"

func main() {
	requestFile := flag.String("request", "", "Render one request from a JSON file, with a progress display")
	batchMode := flag.Bool("batch", false, "Render every request file in the input/ directory")
	kafkaMode := flag.Bool("kafka", false, "Consume render requests from Kafka")
	apiPort := flag.String("port", defaultAPIPort, "API server port (e.g., :8081)")
	flag.Parse()

	log.Println("🎬 Video Assembler - Starting...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	processor := render.NewProcessor(cfg)

	var tracker *jobs.Tracker
	if cfg.RedisAddr != "" {
		tracker, err = jobs.NewTracker(cfg.RedisAddr)
		if err != nil {
			log.Fatalf("❌ Job tracker: %v", err)
		}
		defer tracker.Close()
	}

	switch {
	case *requestFile != "":
		if err := renderOne(cfg, processor, *requestFile); err != nil {
			log.Fatalf("❌ Render failed: %v", err)
		}

	case *batchMode:
		log.Println("📁 Running in BATCH mode")
		if err := renderDirectory(cfg, processor, config.InputDir); err != nil {
			log.Fatalf("❌ Batch processing failed: %v", err)
		}

	case *kafkaMode:
		log.Println("📨 Running in KAFKA consumer mode")
		log.Printf("🔗 Brokers: %v, topic: %s, group: %s", cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID)
		err := kafka.RunUntilSignalled(kafka.ConsumerConfig{
			Brokers:   cfg.KafkaBrokers,
			Topic:     cfg.KafkaTopic,
			GroupID:   cfg.KafkaGroupID,
			Processor: processor,
			Tracker:   tracker,
		})
		if err != nil {
			log.Fatalf("❌ Kafka consumer failed: %v", err)
		}

	default:
		log.Println("🌐 Running in API mode")
		router := api.NewServer(processor, tracker).NewRouter()
		log.Printf("🚀 API Server listening on %s", *apiPort)
		log.Println("📌 Endpoints:")
		log.Println("   POST /api/render    - Queue a render from JSON")
		log.Println("   GET  /api/jobs/:id  - Job status")
		log.Println("   GET  /health        - Health check")
		if err := router.Run(*apiPort); err != nil {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}
}

func readRequest(path string) (types.RenderRequest, error) {
	var req types.RenderRequest
	raw, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("read request file: %w", err)
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, fmt.Errorf("parse request file %s: %w", path, err)
	}
	return req, req.Validate()
}

func renderOne(cfg config.Settings, processor *render.Processor, path string) error {
	req, err := readRequest(path)
	if err != nil {
		return err
	}
	result, err := tui.Run(processor, req)
	if err != nil {
		return err
	}
	return archive(cfg, req.Subreddit, result)
}

func renderDirectory(cfg config.Settings, processor *render.Processor, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read input directory: %w", err)
	}

	rendered := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		req, err := readRequest(path)
		if err != nil {
			log.Printf("⚠️ skipping %s: %v", entry.Name(), err)
			continue
		}

		result, err := processor.Process(req, nil)
		if err != nil {
			log.Printf("❌ %s: %v", req.ThreadID, err)
			continue
		}
		if err := archive(cfg, req.Subreddit, result); err != nil {
			log.Printf("⚠️ archive %s: %v", req.ThreadID, err)
		}
		rendered++
	}

	log.Printf("📊 Batch complete: %d videos rendered", rendered)
	return nil
}

// archive pushes the finished render to S3 when a bucket is configured.
func archive(cfg config.Settings, subreddit string, result *types.RenderResult) error {
	if cfg.S3Bucket == "" {
		return nil
	}
	ctx := context.Background()
	archiver, err := storage.NewArchiver(ctx, cfg.S3Bucket, cfg.S3Region)
	if err != nil {
		return err
	}
	return archiver.Archive(ctx, subreddit, result)
}
