// Package jobs tracks render job lifecycles in Redis so the HTTP API and
// Kafka consumer can report on work they handed off.
package jobs

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	StatusQueued    = "queued"
	StatusRendering = "rendering"
	StatusDone      = "done"
	StatusFailed    = "failed"
)

// finishedTTL bounds how long completed job hashes linger.
const finishedTTL = 24 * time.Hour

// Tracker stores one hash per job under render:<thread id>.
type Tracker struct {
	client *redis.Client
}

func NewTracker(addr string) (*Tracker, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return &Tracker{client: client}, nil
}

func key(threadID string) string {
	return fmt.Sprintf("render:%s", threadID)
}

func (t *Tracker) MarkQueued(ctx context.Context, threadID, subreddit string) error {
	return t.client.HSet(ctx, key(threadID),
		"status", StatusQueued,
		"subreddit", subreddit,
		"queued_at", time.Now().Format(time.RFC3339),
	).Err()
}

func (t *Tracker) MarkRendering(ctx context.Context, threadID string) error {
	return t.client.HSet(ctx, key(threadID),
		"status", StatusRendering,
		"started_at", time.Now().Format(time.RFC3339),
	).Err()
}

// Progress stores the current completion fraction. Errors are swallowed:
// a dropped progress sample must never interrupt a render.
func (t *Tracker) Progress(ctx context.Context, threadID string, fraction float64) {
	t.client.HSet(ctx, key(threadID),
		"progress", strconv.FormatFloat(fraction, 'f', 4, 64),
	)
}

func (t *Tracker) MarkDone(ctx context.Context, threadID, videoPath string) error {
	pipe := t.client.TxPipeline()
	pipe.HSet(ctx, key(threadID),
		"status", StatusDone,
		"video_path", videoPath,
		"progress", "1.0000",
		"completed_at", time.Now().Format(time.RFC3339),
	)
	pipe.Expire(ctx, key(threadID), finishedTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (t *Tracker) MarkFailed(ctx context.Context, threadID string, cause error) error {
	pipe := t.client.TxPipeline()
	pipe.HSet(ctx, key(threadID),
		"status", StatusFailed,
		"error", cause.Error(),
		"completed_at", time.Now().Format(time.RFC3339),
	)
	pipe.Expire(ctx, key(threadID), finishedTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// Status returns the raw job hash, empty when the job is unknown.
func (t *Tracker) Status(ctx context.Context, threadID string) (map[string]string, error) {
	return t.client.HGetAll(ctx, key(threadID)).Result()
}

func (t *Tracker) Close() error {
	return t.client.Close()
}
