package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Settings holds the per-process render configuration. It is loaded once at
// startup and passed into components by value; nothing reads it from ambient
// state after Load returns.
type Settings struct {
	// Output resolution
	ResolutionW int
	ResolutionH int

	// Opacity applied to comment screenshots (0..1)
	Opacity float64

	// BackgroundAudioVolume mixes background music into the narration.
	// Zero disables background audio entirely.
	BackgroundAudioVolume float64

	// EnableExtraAudio also renders a narration-only variant under OnlyTTS
	EnableExtraAudio bool

	// BackgroundCredit is drawn bottom-right when non-empty
	BackgroundCredit string

	// Kafka
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	// Redis job tracking (optional; empty addr disables)
	RedisAddr string

	// S3 upload of finished renders (optional; empty bucket disables)
	S3Bucket string
	S3Region string

	// YouTube upload (optional; empty file disables)
	YouTubeServiceAccountFile string
}

// Load reads settings from the environment, after loading .env if present.
func Load() (Settings, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	s := Settings{
		ResolutionW:           envInt("RESOLUTION_W", 1080),
		ResolutionH:           envInt("RESOLUTION_H", 1920),
		Opacity:               envFloat("OPACITY", 0.9),
		BackgroundAudioVolume: envFloat("BACKGROUND_AUDIO_VOLUME", 0),
		EnableExtraAudio:      envBool("ENABLE_EXTRA_AUDIO", false),
		BackgroundCredit:      os.Getenv("BACKGROUND_CREDIT"),

		KafkaBrokers: strings.Split(envStr("KAFKA_BOOTSTRAP_SERVERS", "localhost:9093"), ","),
		KafkaTopic:   envStr("KAFKA_TOPIC_RENDER_REQUESTS", "video-render-requests"),
		KafkaGroupID: envStr("KAFKA_CONSUMER_GROUP_ID", "render-service-consumer-group"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		S3Bucket:  os.Getenv("S3_BUCKET"),
		S3Region:  os.Getenv("S3_REGION"),

		YouTubeServiceAccountFile: os.Getenv("YOUTUBE_SERVICE_ACCOUNT_FILE"),
	}

	if s.ResolutionW <= 0 || s.ResolutionH <= 0 {
		return Settings{}, fmt.Errorf("invalid resolution %dx%d", s.ResolutionW, s.ResolutionH)
	}
	if s.Opacity < 0 || s.Opacity > 1 {
		return Settings{}, fmt.Errorf("opacity must be within [0,1], got %v", s.Opacity)
	}
	if s.BackgroundAudioVolume < 0 {
		return Settings{}, fmt.Errorf("background audio volume must not be negative, got %v", s.BackgroundAudioVolume)
	}

	return s, nil
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %d", key, v, def)
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %v", key, v, def)
		return def
	}
	return f
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %v", key, v, def)
		return def
	}
	return b
}
