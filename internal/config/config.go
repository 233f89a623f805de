package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Blob store backend identifiers.
const (
	BackendGridFS     = "gridfs"
	BackendMinIO      = "minio"
	BackendCloudinary = "cloudinary"
)

// Config aggregates runtime configuration for the shop API.
type Config struct {
	Server  ServerConfig
	Mongo   MongoConfig
	Blob    BlobConfig
	CORS    CORSConfig
	Auth    AuthConfig
	Metrics MetricsConfig
}

// ServerConfig parameterizes the HTTP server.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Address returns the listen address in host:port form.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// MongoConfig contains MongoDB connection details.
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// BlobConfig selects and parameterizes the blob store backend.
type BlobConfig struct {
	// Backend is one of gridfs, minio, cloudinary.
	Backend string
	// Bucket names the GridFS bucket or the MinIO bucket.
	Bucket string
	// PublicBaseURL is prepended to /files/<name> for backends that do not
	// return absolute URLs themselves.
	PublicBaseURL string
	// MaxFileSize caps a single uploaded file, in bytes.
	MaxFileSize int64

	MinIO      MinIOConfig
	Cloudinary CloudinaryConfig
}

// MinIOConfig carries MinIO connection information.
type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	Region          string
}

// CloudinaryConfig carries credentials for the image CDN backend.
type CloudinaryConfig struct {
	URL    string
	Folder string
}

// CORSConfig holds the fixed cross-origin policy.
type CORSConfig struct {
	AllowOrigins     []string
	AllowCredentials bool
}

// AuthConfig groups credential-handling settings.
type AuthConfig struct {
	BcryptCost int
}

// MetricsConfig groups observability settings.
type MetricsConfig struct {
	PrometheusPath string
}

const defaultMaxFileSize = 50 * 1024 * 1024 // 50 MiB

// Load reads configuration values from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:         getString("GOSHOP_API_HOST", "0.0.0.0"),
			Port:         getInt("GOSHOP_API_PORT", 8080),
			ReadTimeout:  getDuration("GOSHOP_API_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDuration("GOSHOP_API_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDuration("GOSHOP_API_IDLE_TIMEOUT", 60*time.Second),
		},
		Mongo: MongoConfig{
			URI:            getString("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getString("MONGODB_DATABASE", "shop"),
			ConnectTimeout: getDuration("MONGODB_CONNECT_TIMEOUT", 10*time.Second),
		},
		Blob: BlobConfig{
			Backend:       strings.ToLower(getString("GOSHOP_BLOB_BACKEND", BackendGridFS)),
			Bucket:        getString("GOSHOP_BLOB_BUCKET", "uploads"),
			PublicBaseURL: strings.TrimRight(getString("GOSHOP_PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
			MaxFileSize:   getInt64("GOSHOP_MAX_FILE_SIZE", defaultMaxFileSize),
			MinIO: MinIOConfig{
				Endpoint:        getString("MINIO_ENDPOINT", "localhost:9000"),
				AccessKeyID:     getString("MINIO_ROOT_USER", "goshop"),
				SecretAccessKey: getString("MINIO_ROOT_PASSWORD", "change-me-strong-password"),
				UseSSL:          getBool("MINIO_USE_SSL", false),
				Region:          getString("MINIO_REGION", ""),
			},
			Cloudinary: CloudinaryConfig{
				URL:    getString("CLOUDINARY_URL", ""),
				Folder: getString("CLOUDINARY_FOLDER", "products"),
			},
		},
		CORS: CORSConfig{
			AllowOrigins:     getStrings("GOSHOP_CORS_ORIGINS", []string{"http://localhost:3000"}),
			AllowCredentials: getBool("GOSHOP_CORS_CREDENTIALS", true),
		},
		Auth: AuthConfig{
			BcryptCost: loadBcryptCost(),
		},
		Metrics: MetricsConfig{
			PrometheusPath: getString("GOSHOP_METRICS_PATH", "/metrics"),
		},
	}

	switch cfg.Blob.Backend {
	case BackendGridFS, BackendMinIO, BackendCloudinary:
	default:
		return Config{}, fmt.Errorf("unknown blob backend %q", cfg.Blob.Backend)
	}

	if cfg.Blob.Backend == BackendCloudinary && cfg.Blob.Cloudinary.URL == "" {
		return Config{}, fmt.Errorf("CLOUDINARY_URL is required for the cloudinary backend")
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getStrings(key string, fallback []string) []string {
	if val, ok := os.LookupEnv(key); ok {
		var out []string
		for _, part := range strings.Split(val, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.ToLower(strings.TrimSpace(val))
		switch val {
		case "1", "true", "t", "yes", "y":
			return true
		case "0", "false", "f", "no", "n":
			return false
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func loadBcryptCost() int {
	cost := getInt("GOSHOP_AUTH_BCRYPT_COST", 12)
	if cost < 4 || cost > 31 {
		cost = 12
	}
	return cost
}
