package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Message is the record view handed to handlers.
type Message struct {
	Topic     string
	Key       []byte
	Value     []byte
	Partition int32
	Offset    int64
	Timestamp time.Time
}

// Handler processes one message. A non-nil error triggers the retry loop.
type Handler func(ctx context.Context, msg *Message) error

type Consumer struct {
	client *kgo.Client
	cfg    *Config
	log    *zerolog.Logger
}

func NewConsumer(cfg *Config, log *zerolog.Logger, group, topic string) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(topic),
		kgo.SessionTimeout(cfg.SessionTimeout),
		kgo.HeartbeatInterval(cfg.HeartbeatInterval),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}
	return &Consumer{client: client, cfg: cfg, log: log}, nil
}

// Run polls until the context is cancelled. Offsets are committed after each
// batch, so a crashed worker replays at-least-once; handlers must tolerate
// duplicate delivery.
func (c *Consumer) Run(ctx context.Context, handler Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fetches := c.client.PollFetches(ctx)
		if errs := fetches.Errors(); len(errs) > 0 {
			// Transient fetch errors are common during rebalances
			for _, err := range errs {
				c.log.Warn().Str("topic", err.Topic).Int32("partition", err.Partition).
					Err(err.Err).Msg("fetch error")
			}
		}

		fetches.EachRecord(func(record *kgo.Record) {
			msg := &Message{
				Topic:     record.Topic,
				Key:       record.Key,
				Value:     record.Value,
				Partition: record.Partition,
				Offset:    record.Offset,
				Timestamp: record.Timestamp,
			}
			if err := c.handleWithRetry(ctx, handler, msg); err != nil {
				c.log.Error().Err(err).Str("topic", msg.Topic).Int64("offset", msg.Offset).
					Msg("message dropped after retries")
			}
		})

		if err := c.client.CommitUncommittedOffsets(ctx); err != nil {
			c.log.Error().Err(err).Msg("failed to commit offsets")
		}
	}
}

func (c *Consumer) handleWithRetry(ctx context.Context, handler Handler, msg *Message) error {
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.cfg.RetryBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
		if err := handler(ctx, msg); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Consumer) Close() {
	c.client.Close()
}
