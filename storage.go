package vecbridge

import (
	"context"
	"fmt"
	"runtime"

	"github.com/hupe1980/vecbridge/blobstore"
	miniostore "github.com/hupe1980/vecbridge/blobstore/minio"
	s3store "github.com/hupe1980/vecbridge/blobstore/s3"
	"github.com/hupe1980/vecbridge/config"
	"github.com/hupe1980/vecbridge/engine"
	"github.com/hupe1980/vecbridge/internal/compress"
	"github.com/hupe1980/vecbridge/internal/resource"
)

// newBlobStore returns the store selected by s, or nil for the memory
// backend.
func newBlobStore(ctx context.Context, s config.StorageSettings) (blobstore.BlobStore, error) {
	switch s.Backend {
	case config.BackendMemory:
		return nil, nil
	case config.BackendLocal:
		return blobstore.NewLocalStore(s.Path), nil
	case config.BackendMinIO:
		store, err := miniostore.New(ctx, miniostore.Config{
			Endpoint:  s.MinIO.Endpoint,
			AccessKey: s.MinIO.AccessKey,
			SecretKey: s.MinIO.SecretKey,
			Region:    s.MinIO.Region,
			Secure:    s.MinIO.Secure,
		}, s.Bucket, s.Prefix)
		if err != nil {
			return nil, fmt.Errorf("minio store: %w", err)
		}
		return store, nil
	case config.BackendS3:
		optFns := []s3store.Option{s3store.WithPrefix(s.Prefix)}
		if s.S3.Region != "" {
			optFns = append(optFns, s3store.WithRegion(s.S3.Region))
		}
		if s.S3.Endpoint != "" {
			optFns = append(optFns, s3store.WithEndpoint(s.S3.Endpoint))
		}
		store, err := s3store.New(ctx, s.Bucket, optFns...)
		if err != nil {
			return nil, fmt.Errorf("s3 store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", config.ErrInvalid, s.Backend)
	}
}

// localEngineFactory builds the in-process engine described by s. A non-nil
// store takes precedence over the configured backend.
func localEngineFactory(s config.Settings, store blobstore.BlobStore, logger *Logger) EngineFactory {
	return func(ctx context.Context) (engine.Engine, error) {
		ct, err := compress.Parse(s.Storage.Compression)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
		}

		if store == nil {
			store, err = newBlobStore(ctx, s.Storage)
			if err != nil {
				return nil, err
			}
		}

		searchThreads := s.Performance.MaxSearchThreads
		if searchThreads == 0 {
			searchThreads = int64(runtime.GOMAXPROCS(0))
		}
		rc := resource.NewController(resource.Config{
			MaxSearchThreads:     searchThreads,
			MaxBackgroundWorkers: s.Performance.MaxBackgroundWorkers,
			IOLimitBytesPerSec:   s.Performance.IOLimitBytesPerSec,
		})

		optFns := []engine.Option{
			engine.WithCompression(ct),
			engine.WithResourceController(rc),
			engine.WithLogger(logger.Logger),
			engine.WithFlushInterval(s.Storage.FlushInterval),
		}
		if store != nil {
			optFns = append(optFns, engine.WithBlobStore(store))
		}

		eng, err := engine.Open(ctx, optFns...)
		if err != nil {
			return nil, err
		}
		return eng, nil
	}
}
