package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/chrisdamba/foodadmin/internal/models"
)

// KafkaPublisher writes notifications to a Kafka topic, keyed by notification
// id so resends of one notification land on the same partition.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *slog.Logger
}

func saramaConfig(cfg models.KafkaConfig) *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // required by SyncProducer
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	// Producer.Timeout bounds how long the broker waits for WaitForAll acks.
	if cfg.ProducerTimeoutMs > 0 {
		saramaConfig.Producer.Timeout = time.Duration(cfg.ProducerTimeoutMs) * time.Millisecond
	}
	return saramaConfig
}

func NewKafkaPublisher(cfg models.KafkaConfig, log *slog.Logger) (*KafkaPublisher, error) {
	if cfg.Topic == "" {
		return nil, models.Invalid("kafka topic is required")
	}
	brokerList := strings.Split(cfg.BrokerList, ",")

	producer, err := sarama.NewSyncProducer(brokerList, saramaConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}
	p := NewKafkaPublisherWithProducer(producer, cfg.Topic, log)
	p.log.Info("kafka publisher created", "brokers", brokerList, "topic", cfg.Topic)
	return p, nil
}

// NewKafkaPublisherWithProducer wraps an existing producer.
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string, log *slog.Logger) *KafkaPublisher {
	if log == nil {
		log = slog.Default()
	}
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		log:      log.With("component", "dispatch", "backend", "kafka"),
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, n models.Notification) error {
	if p.producer == nil {
		return fmt.Errorf("kafka producer is not initialized")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	env, body, err := encode(n)
	if err != nil {
		return err
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(n.ID),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("message_id"), Value: []byte(env.MessageID)},
			{Key: []byte("type"), Value: []byte(n.Type)},
		},
	})
	if err != nil {
		p.log.Warn("failed to send notification", "topic", p.topic, "notification_id", n.ID, "error", err)
		return fmt.Errorf("failed to send notification %s to topic %s: %w", n.ID, p.topic, err)
	}
	p.log.Debug("notification sent", "notification_id", n.ID, "partition", partition, "offset", offset)
	return nil
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
