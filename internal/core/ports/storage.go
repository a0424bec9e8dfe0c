// internal/core/ports/storage.go
package ports

import "context"

// BlobStore is the collaborator contract for image storage. StoreBase64
// persists a base64 payload and returns a public URL; an empty payload
// returns the implementation's fixed placeholder URL without an upload.
type BlobStore interface {
	StoreBase64(ctx context.Context, payload, fileName, contentType string) (string, error)
}
