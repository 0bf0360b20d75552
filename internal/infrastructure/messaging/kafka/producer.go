package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/sota-olympics/sota-service/internal/domain/repository"
	"github.com/sota-olympics/sota-service/internal/pkg/logger"
)

// Producer publishes write events to Kafka.
type Producer struct {
	producer sarama.SyncProducer
}

// ProducerConfig holds the Kafka producer settings.
type ProducerConfig struct {
	Brokers      []string
	ClientID     string
	MaxRetries   int
	RetryBackoff time.Duration
}

// NewProducer creates a synchronous Kafka producer.
func NewProducer(cfg *ProducerConfig) (*Producer, error) {
	config := sarama.NewConfig()
	config.ClientID = cfg.ClientID
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Retry.Max = cfg.MaxRetries
	config.Producer.Retry.Backoff = cfg.RetryBackoff
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1
	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true
	config.Version = sarama.V3_6_0_0

	producer, err := sarama.NewSyncProducer(cfg.Brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync producer: %w", err)
	}

	logger.Info(context.Background(), "kafka producer initialized",
		logger.Field("brokers", cfg.Brokers),
		logger.Field("client_id", cfg.ClientID),
	)

	return &Producer{producer: producer}, nil
}

// Publish sends the JSON-encoded event to the topic.
func (p *Producer) Publish(ctx context.Context, topic, key string, event interface{}) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		logger.Error(ctx, "failed to marshal event",
			logger.Field("topic", topic),
			zap.Error(err),
		)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     topic,
		Key:       sarama.StringEncoder(key),
		Value:     sarama.ByteEncoder(eventJSON),
		Timestamp: time.Now(),
		Headers: []sarama.RecordHeader{
			{
				Key:   []byte("event_time"),
				Value: []byte(time.Now().Format(time.RFC3339)),
			},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		logger.Error(ctx, "failed to send event",
			logger.Field("topic", topic),
			logger.Field("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send event: %w", err)
	}

	logger.Debug(ctx, "event published",
		logger.Field("topic", topic),
		logger.Field("key", key),
		logger.Field("partition", partition),
		logger.Field("offset", offset),
	)

	return nil
}

// Close shuts the producer down.
func (p *Producer) Close() error {
	return p.producer.Close()
}

var _ repository.EventPublisher = (*Producer)(nil)

// MedalUpdatedEvent announces a processed medal tally write.
type MedalUpdatedEvent struct {
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	SportID     int64     `json:"sport_id"`
	TypeID      int64     `json:"sport_type_id"`
	CountryCode string    `json:"country_code"`
	Gold        int64     `json:"gold"`
	Silver      int64     `json:"silver"`
	Bronze      int64     `json:"bronze"`
}

// AudienceUpdatedEvent announces a processed audience batch write.
type AudienceUpdatedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	Records   int       `json:"records"`
}
