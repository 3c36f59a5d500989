// Package dispatch hands sent notifications to a message transport. Delivery
// to end users happens downstream and is not tracked here.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/chrisdamba/foodadmin/internal/models"
	"github.com/google/uuid"
)

// Publisher delivers one notification to the transport.
type Publisher interface {
	Publish(ctx context.Context, n models.Notification) error
	Close() error
}

// Envelope is the message body every transport carries.
type Envelope struct {
	MessageID    string              `json:"message_id"`
	PublishedAt  time.Time           `json:"published_at"`
	Notification models.Notification `json:"notification"`
}

func newEnvelope(n models.Notification) Envelope {
	return Envelope{
		MessageID:    uuid.NewString(),
		PublishedAt:  time.Now().UTC(),
		Notification: n,
	}
}

func encode(n models.Notification) (Envelope, []byte, error) {
	env := newEnvelope(n)
	body, err := json.Marshal(env)
	if err != nil {
		return env, nil, fmt.Errorf("failed to encode notification %s: %w", n.ID, err)
	}
	return env, body, nil
}

// New builds the publisher selected by cfg.DispatchBackend.
func New(cfg *models.Config, log *slog.Logger) (Publisher, error) {
	switch cfg.DispatchBackend {
	case "", "log":
		return NewLogPublisher(log), nil
	case "kafka":
		return NewKafkaPublisher(cfg.Kafka, log)
	case "rabbitmq":
		return NewRabbitPublisher(cfg.RabbitMQ, log)
	default:
		return nil, models.Invalid("unknown dispatch backend %q", cfg.DispatchBackend)
	}
}

// LogPublisher writes each envelope to the log instead of a broker.
type LogPublisher struct {
	log *slog.Logger
}

func NewLogPublisher(log *slog.Logger) *LogPublisher {
	if log == nil {
		log = slog.Default()
	}
	return &LogPublisher{log: log.With("component", "dispatch")}
}

func (p *LogPublisher) Publish(ctx context.Context, n models.Notification) error {
	env := newEnvelope(n)
	p.log.InfoContext(ctx, "notification dispatched",
		"message_id", env.MessageID,
		"notification_id", n.ID,
		"audience", n.TargetAudience,
		"recipients", n.Delivery.Sent,
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
