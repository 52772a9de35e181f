package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Shopify/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/events"
)

const (
	cloudEventSpecVersion     = "1.0"
	cloudEventDataContentType = "application/json"
)

// CloudEvent is the CloudEvents v1.0 envelope used for every message on the
// bus.
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	Subject         string      `json:"subject,omitempty"`
	ID              string      `json:"id"`
	Time            time.Time   `json:"time"`
	DataContentType string      `json:"datacontenttype"`
	Data            interface{} `json:"data,omitempty"`
}

// Producer publishes CloudEvents to Kafka with a synchronous, idempotent
// sarama producer.
type Producer struct {
	producer sarama.SyncProducer
	logger   *zap.Logger
	source   string
}

// NewProducer connects to brokers. source identifies this service in the
// CloudEvent envelope, e.g. "/tradeconnect/platform".
func NewProducer(brokers []string, source string, logger *zap.Logger) (*Producer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &Producer{producer: producer, logger: logger, source: source}, nil
}

// Publish wraps payload in a CloudEvent and sends it to topic. The subject is
// used as the partition key so events for one entity stay ordered.
func (p *Producer) Publish(ctx context.Context, topic, eventType, subject string, payload interface{}) error {
	event := CloudEvent{
		SpecVersion:     cloudEventSpecVersion,
		Type:            eventType,
		Source:          p.source,
		Subject:         subject,
		ID:              uuid.NewString(),
		Time:            time.Now().UTC(),
		DataContentType: cloudEventDataContentType,
		Data:            payload,
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(eventJSON),
	}
	if subject != "" {
		msg.Key = sarama.StringEncoder(subject)
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("type", eventType),
			zap.Error(err))
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("event published",
		zap.String("topic", topic),
		zap.String("type", eventType),
		zap.String("event_id", event.ID),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	return nil
}

var _ events.Publisher = (*Producer)(nil)
