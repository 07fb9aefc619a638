// Package config loads vecbridge settings.
//
// Settings come from three layers, later layers winning:
//
//  1. Built-in defaults (Default)
//  2. An optional YAML file
//  3. VECBRIDGE_* environment variables
//
// The merged result is validated before it is returned.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/hupe1980/vecbridge/internal/compress"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Storage backends.
const (
	BackendMemory = "memory"
	BackendLocal  = "local"
	BackendMinIO  = "minio"
	BackendS3     = "s3"
)

// Settings is the complete vecbridge configuration.
type Settings struct {
	Log         LogSettings         `yaml:"log"`
	Storage     StorageSettings     `yaml:"storage"`
	Performance PerformanceSettings `yaml:"performance"`
	Service     ServiceSettings     `yaml:"service"`
}

// LogSettings configures the logger.
type LogSettings struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// StorageSettings selects where collection snapshots are kept.
type StorageSettings struct {
	// Backend is memory, local, minio or s3.
	Backend string `yaml:"backend"`
	// Path is the root directory of the local backend.
	Path string `yaml:"path"`
	// Bucket and Prefix address the object store of the minio and s3 backends.
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
	// Compression is none, lz4 or zstd.
	Compression string `yaml:"compression"`
	// FlushInterval is the period of background snapshot flushes. Zero
	// flushes on shutdown only.
	FlushInterval time.Duration `yaml:"flush_interval"`

	MinIO MinIOSettings `yaml:"minio"`
	S3    S3Settings    `yaml:"s3"`
}

// MinIOSettings configures the minio backend.
type MinIOSettings struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
	Secure    bool   `yaml:"secure"`
}

// S3Settings configures the s3 backend. Credentials come from the default
// AWS credential chain.
type S3Settings struct {
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
}

// PerformanceSettings bounds engine resource usage.
type PerformanceSettings struct {
	// MaxSearchThreads limits concurrent searches. Zero means GOMAXPROCS.
	MaxSearchThreads int64 `yaml:"max_search_threads"`
	// MaxBackgroundWorkers limits concurrent snapshot flushes.
	MaxBackgroundWorkers int64 `yaml:"max_background_workers"`
	// IOLimitBytesPerSec throttles snapshot IO. Zero disables throttling.
	IOLimitBytesPerSec int64 `yaml:"io_limit_bytes_per_sec"`
}

// ServiceSettings configures the client/worker bridge.
type ServiceSettings struct {
	ChannelBuffer      int           `yaml:"channel_buffer"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	HealthCheckTimeout time.Duration `yaml:"health_check_timeout"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
}

// Default returns the built-in defaults.
func Default() Settings {
	return Settings{
		Log: LogSettings{
			Level:  "info",
			Format: "text",
		},
		Storage: StorageSettings{
			Backend:     BackendMemory,
			Compression: "lz4",
		},
		Performance: PerformanceSettings{
			MaxBackgroundWorkers: 1,
		},
		Service: ServiceSettings{
			ChannelBuffer:      1024,
			RequestTimeout:     30 * time.Second,
			HealthCheckTimeout: 5 * time.Second,
			ShutdownTimeout:    30 * time.Second,
		},
	}
}

// Load reads settings from path (optional) and the environment.
func Load(path string) (Settings, error) {
	s := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := s.decode(data); err != nil {
			return Settings{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := s.applyEnv(os.LookupEnv); err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s *Settings) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks the settings for consistency.
func (s Settings) Validate() error {
	if _, err := s.Log.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(s.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format must be text or json, got %q", ErrInvalid, s.Log.Format)
	}

	switch s.Storage.Backend {
	case BackendMemory:
	case BackendLocal:
		if s.Storage.Path == "" {
			return fmt.Errorf("%w: storage.path is required for the local backend", ErrInvalid)
		}
	case BackendMinIO:
		if s.Storage.Bucket == "" || s.Storage.MinIO.Endpoint == "" {
			return fmt.Errorf("%w: storage.bucket and storage.minio.endpoint are required for the minio backend", ErrInvalid)
		}
	case BackendS3:
		if s.Storage.Bucket == "" {
			return fmt.Errorf("%w: storage.bucket is required for the s3 backend", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown storage.backend %q", ErrInvalid, s.Storage.Backend)
	}
	if _, err := compress.Parse(s.Storage.Compression); err != nil {
		return fmt.Errorf("%w: storage.compression: %v", ErrInvalid, err)
	}
	if s.Storage.FlushInterval < 0 {
		return fmt.Errorf("%w: storage.flush_interval must not be negative", ErrInvalid)
	}

	if s.Performance.MaxSearchThreads < 0 || s.Performance.MaxBackgroundWorkers < 0 || s.Performance.IOLimitBytesPerSec < 0 {
		return fmt.Errorf("%w: performance limits must not be negative", ErrInvalid)
	}

	if s.Service.ChannelBuffer <= 0 {
		return fmt.Errorf("%w: service.channel_buffer must be positive", ErrInvalid)
	}
	if s.Service.RequestTimeout <= 0 || s.Service.HealthCheckTimeout <= 0 || s.Service.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: service timeouts must be positive", ErrInvalid)
	}
	return nil
}

// SlogLevel parses Level.
func (l LogSettings) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	return lvl, nil
}
