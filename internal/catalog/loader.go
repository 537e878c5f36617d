package catalog

import (
	"compress/gzip"
	"context"
	"fmt"
	"os"

	"furnistore/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for gzipped JSON-lines files on local disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based product loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a gzipped product feed with one JSON product per line.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]model.Product, error) {
	l.logger.Info().Str("file", filePath).Msg("loading catalog file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open catalog file")
		return nil, fmt.Errorf("failed to open catalog file %s: %w", filePath, err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", filePath, err)
	}
	defer gzipReader.Close()

	products, err := readProducts(ctx, gzipReader)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("error reading catalog file")
		return nil, fmt.Errorf("error reading catalog file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("products_loaded", len(products)).
		Msg("catalog file loaded")

	return products, nil
}
