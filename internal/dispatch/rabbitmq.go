package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/chrisdamba/foodadmin/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitPublisher publishes notifications to a topic exchange. The routing
// key is the configured prefix followed by the target audience.
type RabbitPublisher struct {
	cfg  models.RabbitMQConfig
	log  *slog.Logger
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewRabbitPublisher(cfg models.RabbitMQConfig, log *slog.Logger) (*RabbitPublisher, error) {
	if log == nil {
		log = slog.Default()
	}
	p := &RabbitPublisher{
		cfg: cfg,
		log: log.With("component", "dispatch", "backend", "rabbitmq"),
	}
	if err := p.connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	return p, nil
}

func (p *RabbitPublisher) connect() error {
	conn, err := amqp.Dial(p.cfg.URL)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	if err := ch.ExchangeDeclare(p.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return err
	}
	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return err
	}
	p.conn = conn
	p.ch = ch
	return nil
}

func (p *RabbitPublisher) routingKey(n models.Notification) string {
	return fmt.Sprintf("%s.%s", p.cfg.RoutingKey, n.TargetAudience)
}

func (p *RabbitPublisher) Publish(ctx context.Context, n models.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		p.log.Warn("connection closed, reconnecting")
		if err := p.connect(); err != nil {
			return fmt.Errorf("rabbitmq reconnect: %w", err)
		}
	}

	env, body, err := encode(n)
	if err != nil {
		return err
	}
	confirm, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, p.cfg.Exchange, p.routingKey(n), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    env.MessageID,
		Priority:     uint8(n.Priority.Rank()),
		Timestamp:    env.PublishedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish notification %s: %w", n.ID, err)
	}
	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !acked {
		return errors.New("rabbitmq nacked notification " + n.ID)
	}
	p.log.Debug("notification published", "notification_id", n.ID, "routing_key", p.routingKey(n))
	return nil
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil && !p.ch.IsClosed() {
		if err := p.ch.Close(); err != nil {
			return fmt.Errorf("close rabbitmq channel: %w", err)
		}
	}
	if p.conn != nil && !p.conn.IsClosed() {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %w", err)
		}
	}
	return nil
}
