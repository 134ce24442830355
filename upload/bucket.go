package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Bucket is binary object storage: Put stores data under key and returns a
// stable reference, URL resolves a reference to its public address.
type Bucket interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	URL(ref string) string
}

// LocalBucket keeps objects on disk. The HTTP server serves Root under the
// path that BaseURL points to.
type LocalBucket struct {
	Root    string
	BaseURL string
}

func NewLocalBucket(root, baseURL string) (*LocalBucket, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalBucket{Root: root, BaseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (b *LocalBucket) Put(ctx context.Context, key string, data []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := b.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create object dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	return key, nil
}

func (b *LocalBucket) URL(ref string) string {
	return b.BaseURL + "/" + strings.TrimPrefix(ref, "/")
}

func (b *LocalBucket) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("empty object key")
	}
	return filepath.Join(b.Root, filepath.FromSlash(clean)), nil
}
