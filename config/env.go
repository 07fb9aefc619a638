package config

import (
	"fmt"
	"strconv"
	"time"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "VECBRIDGE_"

type envBinding struct {
	name string
	set  func(s *Settings, v string) error
}

func str(field func(s *Settings) *string) func(*Settings, string) error {
	return func(s *Settings, v string) error {
		*field(s) = v
		return nil
	}
}

func integer(field func(s *Settings) *int64) func(*Settings, string) error {
	return func(s *Settings, v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		*field(s) = n
		return nil
	}
}

func duration(field func(s *Settings) *time.Duration) func(*Settings, string) error {
	return func(s *Settings, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*field(s) = d
		return nil
	}
}

var envBindings = []envBinding{
	{"LOG_LEVEL", str(func(s *Settings) *string { return &s.Log.Level })},
	{"LOG_FORMAT", str(func(s *Settings) *string { return &s.Log.Format })},

	{"STORAGE_BACKEND", str(func(s *Settings) *string { return &s.Storage.Backend })},
	{"STORAGE_PATH", str(func(s *Settings) *string { return &s.Storage.Path })},
	{"STORAGE_BUCKET", str(func(s *Settings) *string { return &s.Storage.Bucket })},
	{"STORAGE_PREFIX", str(func(s *Settings) *string { return &s.Storage.Prefix })},
	{"STORAGE_COMPRESSION", str(func(s *Settings) *string { return &s.Storage.Compression })},
	{"STORAGE_FLUSH_INTERVAL", duration(func(s *Settings) *time.Duration { return &s.Storage.FlushInterval })},

	{"MINIO_ENDPOINT", str(func(s *Settings) *string { return &s.Storage.MinIO.Endpoint })},
	{"MINIO_ACCESS_KEY", str(func(s *Settings) *string { return &s.Storage.MinIO.AccessKey })},
	{"MINIO_SECRET_KEY", str(func(s *Settings) *string { return &s.Storage.MinIO.SecretKey })},
	{"MINIO_REGION", str(func(s *Settings) *string { return &s.Storage.MinIO.Region })},
	{"MINIO_SECURE", func(s *Settings, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		s.Storage.MinIO.Secure = b
		return nil
	}},

	{"S3_REGION", str(func(s *Settings) *string { return &s.Storage.S3.Region })},
	{"S3_ENDPOINT", str(func(s *Settings) *string { return &s.Storage.S3.Endpoint })},

	{"PERFORMANCE_MAX_SEARCH_THREADS", integer(func(s *Settings) *int64 { return &s.Performance.MaxSearchThreads })},
	{"PERFORMANCE_MAX_BACKGROUND_WORKERS", integer(func(s *Settings) *int64 { return &s.Performance.MaxBackgroundWorkers })},
	{"PERFORMANCE_IO_LIMIT_BYTES_PER_SEC", integer(func(s *Settings) *int64 { return &s.Performance.IOLimitBytesPerSec })},

	{"SERVICE_CHANNEL_BUFFER", func(s *Settings, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		s.Service.ChannelBuffer = n
		return nil
	}},
	{"SERVICE_REQUEST_TIMEOUT", duration(func(s *Settings) *time.Duration { return &s.Service.RequestTimeout })},
	{"SERVICE_HEALTH_CHECK_TIMEOUT", duration(func(s *Settings) *time.Duration { return &s.Service.HealthCheckTimeout })},
	{"SERVICE_SHUTDOWN_TIMEOUT", duration(func(s *Settings) *time.Duration { return &s.Service.ShutdownTimeout })},
}

func (s *Settings) applyEnv(lookup func(string) (string, bool)) error {
	for _, b := range envBindings {
		v, ok := lookup(EnvPrefix + b.name)
		if !ok {
			continue
		}
		if err := b.set(s, v); err != nil {
			return fmt.Errorf("%w: %s%s: %v", ErrInvalid, EnvPrefix, b.name, err)
		}
	}
	return nil
}
