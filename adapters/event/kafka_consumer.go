package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/duo-site/internal/config"
	"github.com/khoahotran/duo-site/pkg/logger"
)

// Message is a decoded site.events envelope with its payload left raw.
type Message struct {
	Type       string          `json:"type"`
	Key        string          `json:"key"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

type HandlerFunc func(ctx context.Context, msg Message) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer dispatches site events to handlers registered per event type.
type Consumer struct {
	reader   messageReader
	handlers map[string]HandlerFunc
	logger   logger.Logger
}

func NewKafkaConsumer(cfg config.Config, groupID string, log logger.Logger) (*Consumer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers has not config")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    TopicSiteEvents,
		GroupID:  groupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	return newConsumer(reader, log), nil
}

func newConsumer(r messageReader, log logger.Logger) *Consumer {
	return &Consumer{reader: r, handlers: make(map[string]HandlerFunc), logger: log}
}

func (c *Consumer) Handle(eventType string, h HandlerFunc) {
	c.handlers[eventType] = h
}

// Run reads until ctx is cancelled. Undecodable and unhandled messages are
// committed and skipped; a failed handler leaves its message uncommitted.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("Worker listening", zap.String("topic", TopicSiteEvents))
	for {
		km, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			c.logger.Error("Failed to read message from Kafka", err)
			continue
		}

		var msg Message
		if err := json.Unmarshal(km.Value, &msg); err != nil {
			c.logger.Warn("Skipping undecodable site event", zap.String("key", string(km.Key)), zap.Error(err))
			c.commit(ctx, km)
			continue
		}

		h, ok := c.handlers[msg.Type]
		if !ok {
			c.commit(ctx, km)
			continue
		}
		if err := h(ctx, msg); err != nil {
			c.logger.Error("Failed to process site event", err, zap.String("type", msg.Type), zap.String("key", msg.Key))
			continue
		}
		c.commit(ctx, km)
	}
}

func (c *Consumer) commit(ctx context.Context, km kafka.Message) {
	if err := c.reader.CommitMessages(ctx, km); err != nil {
		c.logger.Error("Failed to commit message", err, zap.Int64("offset", km.Offset))
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
