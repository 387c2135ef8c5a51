package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// ObjectStore persists article images and resolves their public URLs
type ObjectStore interface {
	// Put writes (or overwrites) the object at key and returns its public URL
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// ThumbnailKey is the object key of an article's thumbnail. Re-uploads overwrite it.
func ThumbnailKey(userID, articleID, ext string) string {
	return fmt.Sprintf("%s/%s.%s", userID, articleID, ext)
}

// ContentImageKey is the object key of an image embedded in article content
func ContentImageKey(userID string, at time.Time, ext string) string {
	return fmt.Sprintf("%s/content-%d.%s", userID, at.UnixMilli(), ext)
}
