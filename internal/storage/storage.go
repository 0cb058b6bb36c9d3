package storage

import (
	"context"
	"io"
)

// Service stores user-uploaded media in remote object storage.
type Service interface {
	// Put streams body to the given key and returns the public object URL.
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}
