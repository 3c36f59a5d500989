package models

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "foodadmin.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
seed: 7
store_backend: postgres
strict_transitions: true
dispatch_backend: kafka
latency:
  min: 10ms
  max: 50ms
fixtures:
  orders: 14
kafka:
  broker_list: broker:9092
  topic: alerts
`)
	cfg, err := LoadConfigFrom(viper.New(), path)
	if err != nil {
		t.Fatalf("LoadConfigFrom() error = %v", err)
	}
	if cfg.Seed != 7 || cfg.StoreBackend != "postgres" || !cfg.StrictTransitions || cfg.DispatchBackend != "kafka" {
		t.Errorf("top-level keys not decoded: %+v", cfg)
	}
	if cfg.Latency.Min != 10*time.Millisecond || cfg.Latency.Max != 50*time.Millisecond {
		t.Errorf("Latency = %+v", cfg.Latency)
	}
	if cfg.Fixtures.Orders != 14 {
		t.Errorf("Fixtures.Orders = %d, want 14", cfg.Fixtures.Orders)
	}
	if cfg.Fixtures.Customers != 40 {
		t.Errorf("Fixtures.Customers = %d, want default 40", cfg.Fixtures.Customers)
	}
	if cfg.Kafka.BrokerList != "broker:9092" || cfg.Kafka.Topic != "alerts" {
		t.Errorf("Kafka = %+v", cfg.Kafka)
	}
	if cfg.Database.DSN() != "host=localhost port=5432 user=postgres password= dbname=foodadmin sslmode=disable" {
		t.Errorf("DSN() = %q", cfg.Database.DSN())
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfigFrom(viper.New(), "")
	if err != nil {
		t.Fatalf("LoadConfigFrom() error = %v", err)
	}
	if cfg.StoreBackend != "memory" || cfg.DispatchBackend != "log" || cfg.AdminID != "admin-1" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Latency.Min != 200*time.Millisecond || cfg.Latency.Max != 800*time.Millisecond {
		t.Errorf("Latency = %+v", cfg.Latency)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("FOODADMIN_STORE_BACKEND", "postgres")
	t.Setenv("FOODADMIN_LATENCY_MAX", "1s")
	cfg, err := LoadConfigFrom(viper.New(), "")
	if err != nil {
		t.Fatalf("LoadConfigFrom() error = %v", err)
	}
	if cfg.StoreBackend != "postgres" {
		t.Errorf("StoreBackend = %q, want postgres", cfg.StoreBackend)
	}
	if cfg.Latency.Max != time.Second {
		t.Errorf("Latency.Max = %v, want 1s", cfg.Latency.Max)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		validation bool
	}{
		{"unknownStore", "store_backend: mongo\n", true},
		{"unknownDispatch", "dispatch_backend: pigeon\n", true},
		{"invertedLatency", "latency:\n  min: 2s\n  max: 1s\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigFrom(viper.New(), writeConfig(t, tt.body))
			if !errors.Is(err, ErrValidation) {
				t.Errorf("LoadConfigFrom() error = %v, want ErrValidation", err)
			}
		})
	}

	t.Run("missingExplicitFile", func(t *testing.T) {
		_, err := LoadConfigFrom(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
		if err == nil {
			t.Error("LoadConfigFrom() should fail for a missing explicit file")
		}
	})
}
