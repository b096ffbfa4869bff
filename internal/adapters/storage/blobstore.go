// Package storage provides the blob store adapter used for proof-of-payment
// uploads. The object store itself is external; only upload and URL
// retrieval are needed here.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BlobStore uploads a blob and returns the URL it will be served from
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte) (string, error)
}

// localBlobStore writes blobs under a base directory and returns URLs under
// a configured base URL. Stands in for the hosted object store in dev and
// small deployments.
type localBlobStore struct {
	dir     string
	baseURL string
}

// NewLocalBlobStore creates a disk-backed blob store
func NewLocalBlobStore(dir, baseURL string) BlobStore {
	return &localBlobStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *localBlobStore) Upload(_ context.Context, path string, data []byte) (string, error) {
	clean := filepath.Clean("/" + path)
	full := filepath.Join(s.dir, clean)

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create blob directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write blob: %w", err)
	}

	return s.baseURL + strings.ReplaceAll(clean, string(filepath.Separator), "/"), nil
}
