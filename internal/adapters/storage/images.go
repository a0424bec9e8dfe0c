// internal/adapters/storage/images.go
package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ammarques/stockroom-be/internal/core/domain"
	"github.com/ammarques/stockroom-be/internal/core/ports"
)

// PlaceholderImageURL is returned for empty payloads so catalog entries
// without a photo still render a thumbnail.
const PlaceholderImageURL = "https://placehold.co/40x40.png"

// ImageStore persists base64 catalog images through a StorageClient
type ImageStore struct {
	client StorageClient
	prefix string
	logger *slog.Logger
}

// Statically assert that *ImageStore implements the BlobStore port.
var _ ports.BlobStore = (*ImageStore)(nil)

// NewImageStore creates a new image blob store
func NewImageStore(client StorageClient, logger *slog.Logger) *ImageStore {
	return &ImageStore{
		client: client,
		prefix: "items",
		logger: logger.With(slog.String("storage", "images")),
	}
}

// StoreBase64 decodes a base64 payload, uploads it under a fresh key and
// returns the object URL. The payload may be a bare base64 string or a
// data URL; an empty payload short-circuits to the placeholder URL.
func (s *ImageStore) StoreBase64(ctx context.Context, payload, fileName, contentType string) (string, error) {
	if payload == "" {
		return PlaceholderImageURL, nil
	}

	encoded, declaredType := stripDataURL(payload)
	if contentType == "" {
		contentType = declaredType
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("invalid image payload: %w", domain.ErrUploadFailure)
	}

	key := fmt.Sprintf("%s/%s%s", s.prefix, uuid.New(), extensionFor(contentType, fileName))

	url, err := s.client.Upload(ctx, key, bytes.NewReader(data), contentType)
	if err != nil {
		s.logger.ErrorContext(ctx, "image upload failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("image upload failed: %w", domain.ErrUploadFailure)
	}

	s.logger.InfoContext(ctx, "image stored",
		slog.String("key", key),
		slog.Int("size", len(data)))

	return url, nil
}

// stripDataURL splits a "data:<type>;base64,<payload>" URL into its payload
// and declared content type. Bare base64 passes through unchanged.
func stripDataURL(payload string) (encoded, contentType string) {
	if !strings.HasPrefix(payload, "data:") {
		return payload, ""
	}

	header, rest, found := strings.Cut(payload, ",")
	if !found {
		return payload, ""
	}

	header = strings.TrimPrefix(header, "data:")
	header = strings.TrimSuffix(header, ";base64")

	return rest, header
}

func extensionFor(contentType, fileName string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}

	if idx := strings.LastIndex(fileName, "."); idx >= 0 {
		return fileName[idx:]
	}

	return ".bin"
}
