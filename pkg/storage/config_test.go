package storage_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/civicdoc/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{ConnectionString: "test-connection"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Provider != storage.ProviderAzure {
		t.Errorf("provider: got %s, want %s", cfg.Provider, storage.ProviderAzure)
	}
	if cfg.ContainerName != "circulars" {
		t.Errorf("container_name: got %s, want circulars", cfg.ContainerName)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_PROVIDER", "minio")
	t.Setenv("TEST_CONTAINER", "uploads")
	t.Setenv("TEST_ENDPOINT", "localhost:9000")
	t.Setenv("TEST_ACCESS_KEY", "minioadmin")
	t.Setenv("TEST_SECRET_KEY", "minioadmin")
	t.Setenv("TEST_USE_SSL", "true")

	env := &storage.Env{
		Provider:      "TEST_PROVIDER",
		ContainerName: "TEST_CONTAINER",
		Endpoint:      "TEST_ENDPOINT",
		AccessKey:     "TEST_ACCESS_KEY",
		SecretKey:     "TEST_SECRET_KEY",
		UseSSL:        "TEST_USE_SSL",
	}

	cfg := storage.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Provider != storage.ProviderMinIO {
		t.Errorf("provider: got %s, want minio", cfg.Provider)
	}
	if cfg.ContainerName != "uploads" {
		t.Errorf("container_name: got %s, want uploads", cfg.ContainerName)
	}
	if cfg.Endpoint != "localhost:9000" {
		t.Errorf("endpoint: got %s, want localhost:9000", cfg.Endpoint)
	}
	if !cfg.UseSSL {
		t.Error("use_ssl: got false, want true")
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr string
	}{
		{
			name:    "azure without credentials",
			cfg:     storage.Config{Provider: storage.ProviderAzure},
			wantErr: "connection_string or account_url required",
		},
		{
			name: "azure with account url",
			cfg:  storage.Config{AccountURL: "https://civicdoc.blob.core.windows.net/"},
		},
		{
			name:    "minio without endpoint",
			cfg:     storage.Config{Provider: storage.ProviderMinIO, AccessKey: "a", SecretKey: "b"},
			wantErr: "endpoint required",
		},
		{
			name:    "minio without keys",
			cfg:     storage.Config{Provider: storage.ProviderMinIO, Endpoint: "localhost:9000"},
			wantErr: "access_key and secret_key required",
		},
		{
			name: "minio complete",
			cfg: storage.Config{
				Provider:  storage.ProviderMinIO,
				Endpoint:  "localhost:9000",
				AccessKey: "minioadmin",
				SecretKey: "minioadmin",
			},
		},
		{
			name:    "unsupported provider",
			cfg:     storage.Config{Provider: "s3", ConnectionString: "conn"},
			wantErr: "unsupported provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{
		Provider:         storage.ProviderAzure,
		ContainerName:    "circulars",
		ConnectionString: "base-conn",
	}

	overlay := storage.Config{
		Provider: storage.ProviderMinIO,
		Endpoint: "minio:9000",
		UseSSL:   true,
	}
	base.Merge(&overlay)

	if base.ContainerName != "circulars" {
		t.Errorf("container_name should remain circulars, got %s", base.ContainerName)
	}
	if base.Provider != storage.ProviderMinIO {
		t.Errorf("provider: got %s, want minio", base.Provider)
	}
	if base.Endpoint != "minio:9000" {
		t.Errorf("endpoint: got %s, want minio:9000", base.Endpoint)
	}
	if base.ConnectionString != "base-conn" {
		t.Errorf("connection_string: got %s, want base-conn", base.ConnectionString)
	}
	if !base.UseSSL {
		t.Error("use_ssl: overlay should enable it")
	}
}
