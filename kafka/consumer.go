// Package kafka consumes render requests from a Kafka topic and feeds them
// through the render pipeline, recording job state in Redis.
package kafka

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"

	"github.com/mvenus2/RedditVideoMakerBot/jobs"
	"github.com/mvenus2/RedditVideoMakerBot/types"
)

// RequestProcessor is what the consumer drives for each message; satisfied
// by render.Processor.
type RequestProcessor interface {
	Process(req types.RenderRequest, onProgress func(float64)) (*types.RenderResult, error)
}

// ConsumerConfig holds connection and routing settings.
type ConsumerConfig struct {
	Brokers   []string
	Topic     string
	GroupID   string
	Processor RequestProcessor
	Tracker   *jobs.Tracker
}

// Consumer pulls RenderRequest JSON messages off a consumer group. A
// message is only marked when it was either processed successfully or is
// malformed beyond retrying.
type Consumer struct {
	group sarama.ConsumerGroup
	cfg   ConsumerConfig
	ready chan struct{}
}

func NewConsumer(cfg ConsumerConfig) (*Consumer, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Version = sarama.V3_6_0_0
	saramaCfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaCfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaCfg.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	return &Consumer{group: group, cfg: cfg, ready: make(chan struct{})}, nil
}

// Start begins consuming and returns once the group session is live.
func (c *Consumer) Start(ctx context.Context) error {
	handler := &sessionHandler{consumer: c, ready: c.ready}

	go func() {
		for {
			if err := c.group.Consume(ctx, []string{c.cfg.Topic}, handler); err != nil {
				if err == context.Canceled {
					return
				}
				log.Printf("❌ Kafka consume error: %v", err)
			}
			if ctx.Err() != nil {
				return
			}
			handler.ready = make(chan struct{})
		}
	}()

	<-c.ready
	log.Printf("✅ Kafka consumer started (group: %s, topic: %s)", c.cfg.GroupID, c.cfg.Topic)

	go func() {
		for err := range c.group.Errors() {
			log.Printf("❌ Kafka consumer error: %v", err)
		}
	}()
	return nil
}

func (c *Consumer) Close() error {
	return c.group.Close()
}

// handle decides the fate of one message: mark malformed and invalid
// payloads so they are never retried, leave render failures unmarked so a
// restart picks them up again.
func (c *Consumer) handle(ctx context.Context, raw []byte) bool {
	var req types.RenderRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		log.Printf("⚠️ dropping unparseable render request: %v", err)
		return true
	}
	if err := req.Validate(); err != nil {
		log.Printf("⚠️ dropping invalid render request: %v", err)
		return true
	}

	if c.cfg.Tracker != nil {
		c.cfg.Tracker.MarkRendering(ctx, req.ThreadID)
	}

	var onProgress func(float64)
	if c.cfg.Tracker != nil {
		onProgress = func(f float64) { c.cfg.Tracker.Progress(ctx, req.ThreadID, f) }
	}

	result, err := c.cfg.Processor.Process(req, onProgress)
	if err != nil {
		log.Printf("❌ render %s failed: %v", req.ThreadID, err)
		if c.cfg.Tracker != nil {
			c.cfg.Tracker.MarkFailed(ctx, req.ThreadID, err)
		}
		return false
	}

	if c.cfg.Tracker != nil {
		c.cfg.Tracker.MarkDone(ctx, req.ThreadID, result.VideoPath)
	}
	return true
}

type sessionHandler struct {
	consumer *Consumer
	ready    chan struct{}
}

func (h *sessionHandler) Setup(sarama.ConsumerGroupSession) error {
	close(h.ready)
	return nil
}

func (h *sessionHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *sessionHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}
			log.Printf("📥 render request: partition=%d offset=%d", message.Partition, message.Offset)
			if h.consumer.handle(session.Context(), message.Value) {
				session.MarkMessage(message, "")
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// RunUntilSignalled starts the consumer and blocks until SIGINT/SIGTERM,
// giving in-flight renders a moment to finish before closing.
func RunUntilSignalled(cfg ConsumerConfig) error {
	consumer, err := NewConsumer(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		return err
	}

	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigterm, syscall.SIGINT, syscall.SIGTERM)
	<-sigterm
	log.Println("received termination signal")

	cancel()
	time.Sleep(2 * time.Second)
	return consumer.Close()
}
