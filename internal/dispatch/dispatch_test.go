package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/chrisdamba/foodadmin/internal/logger"
	"github.com/chrisdamba/foodadmin/internal/models"
)

func testNotification() models.Notification {
	return models.Notification{
		ID:             "n-1",
		Title:          "Hello",
		Message:        "World",
		Type:           models.NotificationTypeInfo,
		Priority:       models.PriorityHigh,
		TargetAudience: models.AudienceDrivers,
		Status:         models.NotificationStatusSent,
		Delivery:       models.DeliveryStats{Sent: 3, Delivered: 3},
	}
}

func TestKafkaPublisherPublish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var env Envelope
		if err := json.Unmarshal(val, &env); err != nil {
			return err
		}
		if env.MessageID == "" || env.Notification.ID != "n-1" || env.Notification.TargetAudience != models.AudienceDrivers {
			return errors.New("unexpected envelope")
		}
		return nil
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewKafkaPublisherWithProducer(producer, "notifications", logger.Discard())
	if err := p.Publish(context.Background(), testNotification()); err != nil {
		t.Errorf("Publish() error = %v", err)
	}
	if err := p.Publish(context.Background(), testNotification()); !errors.Is(err, sarama.ErrOutOfBrokers) {
		t.Errorf("Publish() error = %v, want %v", err, sarama.ErrOutOfBrokers)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestKafkaPublisherCancelledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	p := NewKafkaPublisherWithProducer(producer, "notifications", nil)
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Publish(ctx, testNotification()); !errors.Is(err, context.Canceled) {
		t.Errorf("Publish() error = %v, want context.Canceled", err)
	}
}

func TestSaramaConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  models.KafkaConfig
		want time.Duration
	}{
		{"defaultTimeout", models.KafkaConfig{}, sarama.NewConfig().Producer.Timeout},
		{"configuredTimeout", models.KafkaConfig{ProducerTimeoutMs: 2500}, 2500 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := saramaConfig(tt.cfg)
			if cfg.Producer.Timeout != tt.want {
				t.Errorf("Producer.Timeout = %v, want %v", cfg.Producer.Timeout, tt.want)
			}
			if !cfg.Producer.Return.Successes || cfg.Producer.RequiredAcks != sarama.WaitForAll {
				t.Errorf("Producer = %+v, want successes returned and all acks", cfg.Producer)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestNewKafkaPublisherRequiresTopic(t *testing.T) {
	if _, err := NewKafkaPublisher(models.KafkaConfig{BrokerList: "localhost:9092"}, nil); !errors.Is(err, models.ErrValidation) {
		t.Errorf("NewKafkaPublisher() error = %v, want validation", err)
	}
}

func TestRabbitRoutingKey(t *testing.T) {
	p := &RabbitPublisher{cfg: models.RabbitMQConfig{RoutingKey: "notifications"}}
	if got := p.routingKey(testNotification()); got != "notifications.drivers" {
		t.Errorf("routingKey() = %q, want %q", got, "notifications.drivers")
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		wantLog bool
		wantErr bool
	}{
		{"default", "", true, false},
		{"log", "log", true, false},
		{"unknown", "carrier-pigeon", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(&models.Config{DispatchBackend: tt.backend}, logger.Discard())
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if _, ok := p.(*LogPublisher); ok != tt.wantLog {
				t.Errorf("New() = %T", p)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	env, body, err := encode(testNotification())
	if err != nil {
		t.Fatal(err)
	}
	var decoded Envelope
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.MessageID != env.MessageID || decoded.Notification.Priority != models.PriorityHigh {
		t.Errorf("encode() = %+v", decoded)
	}
}
