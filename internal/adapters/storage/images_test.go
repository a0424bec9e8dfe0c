// internal/adapters/storage/images_test.go
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammarques/stockroom-be/internal/core/domain"
	"github.com/ammarques/stockroom-be/test/helpers"
)

// fakeClient records the last upload and can be told to fail.
type fakeClient struct {
	lastKey         string
	lastContentType string
	lastData        []byte
	failUpload      error
}

func (f *fakeClient) Upload(_ context.Context, key string, data io.Reader, contentType string) (string, error) {
	if f.failUpload != nil {
		return "", f.failUpload
	}

	content, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}

	f.lastKey = key
	f.lastContentType = contentType
	f.lastData = content
	return "https://cdn.stockroom.app/" + key, nil
}

func (f *fakeClient) Download(context.Context, string) ([]byte, error) { return nil, nil }
func (f *fakeClient) Delete(context.Context, string) error            { return nil }
func (f *fakeClient) GetPresignedURL(context.Context, string, time.Duration) (string, error) {
	return "", nil
}
func (f *fakeClient) List(context.Context, string) ([]string, error) { return nil, nil }
func (f *fakeClient) Exists(context.Context, string) (bool, error)   { return false, nil }

func TestImageStore_StoreBase64(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("fake png bytes"))

	t.Run("stores bare base64 payload", func(t *testing.T) {
		client := &fakeClient{}
		store := NewImageStore(client, helpers.TestLogger())

		url, err := store.StoreBase64(context.Background(), payload, "photo.png", "image/png")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "https://cdn.stockroom.app/items/"))
		assert.True(t, strings.HasSuffix(client.lastKey, ".png"))
		assert.Equal(t, "image/png", client.lastContentType)
		assert.Equal(t, []byte("fake png bytes"), client.lastData)
	})

	t.Run("data URL declares the content type", func(t *testing.T) {
		client := &fakeClient{}
		store := NewImageStore(client, helpers.TestLogger())

		dataURL := "data:image/webp;base64," + payload
		_, err := store.StoreBase64(context.Background(), dataURL, "", "")
		require.NoError(t, err)
		assert.Equal(t, "image/webp", client.lastContentType)
		assert.True(t, strings.HasSuffix(client.lastKey, ".webp"))
	})

	t.Run("explicit content type wins over the data URL", func(t *testing.T) {
		client := &fakeClient{}
		store := NewImageStore(client, helpers.TestLogger())

		dataURL := "data:image/webp;base64," + payload
		_, err := store.StoreBase64(context.Background(), dataURL, "", "image/jpeg")
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", client.lastContentType)
	})

	t.Run("empty payload short-circuits to the placeholder", func(t *testing.T) {
		client := &fakeClient{}
		store := NewImageStore(client, helpers.TestLogger())

		url, err := store.StoreBase64(context.Background(), "", "", "")
		require.NoError(t, err)
		assert.Equal(t, PlaceholderImageURL, url)
		assert.Empty(t, client.lastKey)
	})

	t.Run("invalid base64 is an upload failure", func(t *testing.T) {
		store := NewImageStore(&fakeClient{}, helpers.TestLogger())

		_, err := store.StoreBase64(context.Background(), "not base64!!!", "", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrUploadFailure))
	})

	t.Run("client failure is an upload failure", func(t *testing.T) {
		client := &fakeClient{failUpload: errors.New("bucket unavailable")}
		store := NewImageStore(client, helpers.TestLogger())

		_, err := store.StoreBase64(context.Background(), payload, "photo.png", "image/png")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrUploadFailure))
	})
}

func TestStripDataURL(t *testing.T) {
	tests := []struct {
		name         string
		payload      string
		wantEncoded  string
		wantDeclared string
	}{
		{
			name:         "bare base64 passes through",
			payload:      "aGVsbG8=",
			wantEncoded:  "aGVsbG8=",
			wantDeclared: "",
		},
		{
			name:         "data URL splits payload and type",
			payload:      "data:image/png;base64,aGVsbG8=",
			wantEncoded:  "aGVsbG8=",
			wantDeclared: "image/png",
		},
		{
			name:         "data prefix without comma passes through",
			payload:      "data:image/png",
			wantEncoded:  "data:image/png",
			wantDeclared: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, declared := stripDataURL(tt.payload)
			assert.Equal(t, tt.wantEncoded, encoded)
			assert.Equal(t, tt.wantDeclared, declared)
		})
	}
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".png", extensionFor("image/png", ""))
	assert.Equal(t, ".jpg", extensionFor("image/jpeg", "photo.heic"))
	assert.Equal(t, ".gif", extensionFor("image/gif", ""))
	assert.Equal(t, ".heic", extensionFor("", "photo.heic"))
	assert.Equal(t, ".bin", extensionFor("", "noextension"))
}
