// internal/adapters/db/cursor.go
package db

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// pageCursor marks a position in an ordered result set: the sort key of the
// last returned row plus its id as a tiebreaker. Encoded cursors are opaque
// to callers and must never be parsed or reconstructed outside this package.
type pageCursor struct {
	Key string    `json:"k"`
	ID  uuid.UUID `json:"id"`
}

func encodeCursor(key string, id uuid.UUID) string {
	data, _ := json.Marshal(pageCursor{Key: key, ID: id})
	return base64.URLEncoding.EncodeToString(data)
}

func decodeCursor(token string) (*pageCursor, error) {
	if token == "" {
		return nil, nil
	}

	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor: %w", err)
	}

	var c pageCursor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("malformed cursor: %w", err)
	}

	return &c, nil
}

// timeKey formats a timestamp sort key so it round-trips through the cursor
// without precision loss.
func timeKey(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimeKey(key string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed cursor key: %w", err)
	}
	return t, nil
}
