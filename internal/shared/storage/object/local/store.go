package local

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"packaging-backend/internal/shared/storage/object"
	"packaging-backend/internal/shared/util"
)

// Store implements ObjectStore using the local filesystem.
type Store struct {
	baseDir string
}

// New creates a new local object store rooted at baseDir.
func New(baseDir string) object.ObjectStore {
	return &Store{baseDir: baseDir}
}

// Save writes the reader to disk under namespace, keeping the given file name.
func (s *Store) Save(ctx context.Context, namespace string, fileName string, r io.Reader) (string, int64, string, error) {
	sanitizedName, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", 0, "", fmt.Errorf("sanitize file name: %w", err)
	}
	storageKey, err := util.JoinKey(namespace, sanitizedName)
	if err != nil {
		return "", 0, "", err
	}

	var sniff [512]byte
	n, readErr := io.ReadFull(r, sniff[:])
	if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
		return "", 0, "", fmt.Errorf("read sniff: %w", readErr)
	}
	mimeType := http.DetectContentType(sniff[:n])

	size, err := s.write(ctx, storageKey, io.MultiReader(bytes.NewReader(sniff[:n]), r))
	if err != nil {
		return "", 0, "", err
	}
	return storageKey, size, mimeType, nil
}

// SaveWithKey writes the reader to disk at a specific storage key.
func (s *Store) SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error) {
	_ = contentType
	return s.write(ctx, storageKey, r)
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fullPath, err := s.resolve(storageKey)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", object.ErrNotFound, storageKey)
		}
		return nil, err
	}
	return f, nil
}

func (s *Store) write(ctx context.Context, storageKey string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	fullPath, err := s.resolve(storageKey)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return 0, fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		return 0, fmt.Errorf("write body: %w", err)
	}
	return written, nil
}

func (s *Store) resolve(storageKey string) (string, error) {
	clean := path.Clean("/" + strings.ReplaceAll(storageKey, "\\", "/"))
	if strings.Contains(storageKey, "..") || clean == "/" {
		return "", fmt.Errorf("invalid storage key")
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
