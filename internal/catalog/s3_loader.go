package catalog

import (
	"compress/gzip"
	"context"
	"fmt"

	"furnistore/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Loader implements Loader for gzipped product feeds stored in S3.
type s3Loader struct {
	client *s3.Client
	bucket string
	logger zerolog.Logger
}

// NewS3Loader creates a new S3-based product loader.
func NewS3Loader(ctx context.Context, bucket, region string, logger zerolog.Logger) (Loader, error) {
	logger = logger.With().Str("component", "s3-catalog-loader").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 loader initialised")

	return &s3Loader{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		logger: logger,
	}, nil
}

// Load fetches key from the bucket and decodes it like a local feed.
func (l *s3Loader) Load(ctx context.Context, key string) ([]model.Product, error) {
	log := l.logger.With().Str("bucket", l.bucket).Str("key", key).Logger()
	log.Info().Msg("loading catalog from S3")

	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", l.bucket, key, err)
	}
	defer result.Body.Close()

	gzipReader, err := gzip.NewReader(result.Body)
	if err != nil {
		log.Error().Err(err).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for S3 object %s: %w", key, err)
	}
	defer gzipReader.Close()

	products, err := readProducts(ctx, gzipReader)
	if err != nil {
		log.Error().Err(err).Msg("error reading catalog from S3")
		return nil, fmt.Errorf("error reading catalog from S3 %s: %w", key, err)
	}

	log.Info().Int("products_loaded", len(products)).Msg("catalog loaded from S3")
	return products, nil
}

// fallbackLoader tries S3 first and falls back to the local file system.
type fallbackLoader struct {
	s3Loader   Loader
	fileLoader Loader
	s3Prefix   string
	logger     zerolog.Logger
}

// NewFallbackLoader creates a loader that tries s3Loader with s3Prefix
// prepended to the location, then fileLoader with the location as-is.
// A nil s3Loader means local only.
func NewFallbackLoader(s3Loader, fileLoader Loader, s3Prefix string, logger zerolog.Logger) Loader {
	return &fallbackLoader{
		s3Loader:   s3Loader,
		fileLoader: fileLoader,
		s3Prefix:   s3Prefix,
		logger:     logger.With().Str("component", "fallback-loader").Logger(),
	}
}

func (l *fallbackLoader) Load(ctx context.Context, location string) ([]model.Product, error) {
	if l.s3Loader != nil {
		key := l.s3Prefix + location

		products, err := l.s3Loader.Load(ctx, key)
		if err == nil {
			return products, nil
		}

		l.logger.Warn().
			Err(err).
			Str("s3_key", key).
			Msg("failed to load from S3, falling back to local file system")
	}

	l.logger.Info().Str("file_path", location).Msg("loading from local file system")
	return l.fileLoader.Load(ctx, location)
}
