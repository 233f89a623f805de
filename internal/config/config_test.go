package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Address() != "0.0.0.0:8080" {
		t.Fatalf("unexpected address: %s", cfg.Server.Address())
	}
	if cfg.Blob.Backend != BackendGridFS {
		t.Fatalf("expected gridfs default backend, got %q", cfg.Blob.Backend)
	}
	if cfg.Blob.MaxFileSize != 50*1024*1024 {
		t.Fatalf("expected 50 MiB default cap, got %d", cfg.Blob.MaxFileSize)
	}
	if cfg.Auth.BcryptCost != 12 {
		t.Fatalf("expected default bcrypt cost 12, got %d", cfg.Auth.BcryptCost)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GOSHOP_API_PORT", "9090")
	t.Setenv("GOSHOP_BLOB_BACKEND", "MinIO")
	t.Setenv("GOSHOP_CORS_ORIGINS", "https://shop.example.com, https://admin.example.com")
	t.Setenv("MONGODB_CONNECT_TIMEOUT", "3s")
	t.Setenv("GOSHOP_PUBLIC_BASE_URL", "https://api.example.com/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port override, got %d", cfg.Server.Port)
	}
	if cfg.Blob.Backend != BackendMinIO {
		t.Fatalf("expected backend lowered to minio, got %q", cfg.Blob.Backend)
	}
	if len(cfg.CORS.AllowOrigins) != 2 || cfg.CORS.AllowOrigins[1] != "https://admin.example.com" {
		t.Fatalf("unexpected origins: %v", cfg.CORS.AllowOrigins)
	}
	if cfg.Mongo.ConnectTimeout != 3*time.Second {
		t.Fatalf("unexpected connect timeout: %v", cfg.Mongo.ConnectTimeout)
	}
	if cfg.Blob.PublicBaseURL != "https://api.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Blob.PublicBaseURL)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("GOSHOP_BLOB_BACKEND", "ftp")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestLoadRequiresCloudinaryURL(t *testing.T) {
	t.Setenv("GOSHOP_BLOB_BACKEND", "cloudinary")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing CLOUDINARY_URL")
	}
}

func TestBcryptCostClamped(t *testing.T) {
	t.Setenv("GOSHOP_AUTH_BCRYPT_COST", "99")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Auth.BcryptCost != 12 {
		t.Fatalf("expected out-of-range cost clamped to 12, got %d", cfg.Auth.BcryptCost)
	}
}
