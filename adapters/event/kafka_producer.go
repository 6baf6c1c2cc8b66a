package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/duo-site/internal/application/service"
	"github.com/khoahotran/duo-site/internal/config"
	"github.com/khoahotran/duo-site/pkg/logger"
)

const TopicSiteEvents = "site.events"

// Envelope is the JSON body of every message on site.events.
type Envelope struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	logger logger.Logger
	now    func() time.Time
}

// NewKafkaPublisher returns a no-op publisher when no brokers are configured.
func NewKafkaPublisher(cfg config.Config, log logger.Logger) service.EventPublisher {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		log.Info("Kafka brokers not configured, site events are disabled.")
		return NopPublisher{}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        TopicSiteEvents,
		Balancer:     &kafka.Hash{},
		Async:        true,
		RequiredAcks: kafka.RequireOne,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Error("failed to deliver site events", err, zap.Int("count", len(messages)))
			}
		},
	}

	log.Info("Initialize Kafka producer successfully.", zap.String("topic", TopicSiteEvents))
	return newKafkaPublisher(writer, log)
}

func newKafkaPublisher(w messageWriter, log logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, logger: log, now: time.Now}
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, key string, payload any) {
	body, err := json.Marshal(Envelope{Type: eventType, Key: key, OccurredAt: p.now().UTC(), Payload: payload})
	if err != nil {
		p.logger.Error("failed to encode site event", err, zap.String("type", eventType))
		return
	}

	msg := kafka.Message{
		Key:     []byte(key),
		Value:   body,
		Headers: []kafka.Header{{Key: "event-type", Value: []byte(eventType)}},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish site event", err, zap.String("type", eventType), zap.String("key", key))
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, any) {}
