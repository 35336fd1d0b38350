package decisionlog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
)

// DefaultFilePath is where the JSONL log lives relative to the working directory.
const DefaultFilePath = "logs/ai_decisions.jsonl"

// FileSink appends one JSON object per line to a file.
type FileSink struct {
	path string

	mu     sync.Mutex
	f      *os.File
	closed bool
}

// NewFileSink returns a sink writing to path. The file and its directory are
// created on first write.
func NewFileSink(path string) *FileSink {
	if path == "" {
		path = DefaultFilePath
	}
	return &FileSink{path: path}
}

// Path returns the file the sink appends to.
func (s *FileSink) Path() string {
	return s.path
}

// Write appends rec as a single line.
func (s *FileSink) Write(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode decision: %w", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.f == nil {
		if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
		f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open decision log: %w", err)
		}
		s.f = f
	}
	if _, err := s.f.Write(line); err != nil {
		return fmt.Errorf("append decision: %w", err)
	}
	return nil
}

// Close releases the file handle.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

var _ Sink = (*FileSink)(nil)
