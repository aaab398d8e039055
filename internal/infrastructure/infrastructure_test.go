package infrastructure_test

import (
	"testing"

	"github.com/JaimeStill/civicdoc/internal/config"
	"github.com/JaimeStill/civicdoc/internal/infrastructure"
	"github.com/JaimeStill/civicdoc/pkg/database"
	"github.com/JaimeStill/civicdoc/pkg/events"
	"github.com/JaimeStill/civicdoc/pkg/idempotency"
	"github.com/JaimeStill/civicdoc/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=civicdocstore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/civicdocstore;"

func validConfig() *config.Config {
	return &config.Config{
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "civicdoc",
			User:            "civicdoc",
			Password:        "civicdoc",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Storage: storage.Config{
			Provider:         storage.ProviderAzure,
			ContainerName:    "circulars",
			ConnectionString: azuriteConnString,
		},
		Events: events.Config{
			Topic:        "civicdoc.complaints",
			WriteTimeout: "5s",
		},
		Idempotency: idempotency.Config{
			TTL:    "24h",
			Prefix: "civicdoc:idem:",
		},
		LogLevel: "info",
		Version:  "0.1.0",
	}
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Lifecycle == nil {
		t.Error("Lifecycle is nil")
	}
	if infra.Logger == nil {
		t.Error("Logger is nil")
	}
	if infra.Database == nil {
		t.Error("Database is nil")
	}
	if infra.Storage == nil {
		t.Error("Storage is nil")
	}
	if infra.Events == nil {
		t.Error("Events is nil")
	}
	if infra.Idempotency == nil {
		t.Error("Idempotency is nil")
	}
}

func TestNewDatabaseConnection(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	conn := infra.Database.Connection()
	if conn == nil {
		t.Fatal("Database.Connection() returned nil")
	}
	conn.Close()
}

func TestNewWithRedisAndKafka(t *testing.T) {
	cfg := validConfig()
	cfg.Idempotency.URL = "redis://localhost:6379/0"
	cfg.Events.Brokers = []string{"localhost:9092"}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if infra.Idempotency == idempotency.Noop() {
		t.Error("expected redis-backed idempotency store")
	}
	if infra.Events == events.Noop() {
		t.Error("expected kafka-backed publisher")
	}
}

func TestNewInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{"invalid storage connection string", func(c *config.Config) {
			c.Storage.ConnectionString = "not-a-connection-string"
		}},
		{"unsupported storage provider", func(c *config.Config) {
			c.Storage.Provider = "s3"
		}},
		{"invalid redis url", func(c *config.Config) {
			c.Idempotency.URL = "http://not-redis"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			if _, err := infrastructure.New(cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
