package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"packaging-backend/internal/fragility"
	"packaging-backend/internal/shared/metrics"
	"packaging-backend/internal/shared/storage/object"
	"packaging-backend/internal/shared/telemetry"
	"packaging-backend/internal/shared/util"
)

const (
	// DefaultMaxBytes is the upload size limit when none is configured.
	DefaultMaxBytes = 5 << 20
	namespace       = "images"
)

var (
	allowedExtensions   = map[string]bool{"jpg": true, "jpeg": true, "png": true}
	allowedContentTypes = map[string]bool{"image/jpeg": true, "image/png": true}
)

// Service stores uploaded images and classifies them.
type Service struct {
	Store           object.ObjectStore
	Repo            Repo
	Classifier      *fragility.Classifier
	StorageProvider string
	MaxBytes        int64

	now func() time.Time
}

// Upload validates, stores and classifies one image. Classification never
// fails the upload; an unreadable image gets the fallback assessment.
func (s *Service) Upload(ctx context.Context, fileName, contentType string, r io.Reader) (Image, error) {
	ext := util.FileExt(strings.TrimSpace(fileName))
	contentType = normalizeContentType(contentType)
	if !allowedExtensions[ext] || !allowedContentTypes[contentType] {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return Image{}, fmt.Errorf("%w: only JPG and PNG allowed", ErrUnsupportedType)
	}

	maxBytes := s.maxBytes()
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return Image{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return Image{}, fmt.Errorf("%w: maximum size is %s", ErrTooLarge, humanBytes(maxBytes))
	}
	if len(data) == 0 {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return Image{}, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}

	id := uuid.NewString()
	safeName := id + "." + ext
	storageKey, size, mimeType, err := s.Store.Save(ctx, namespace, safeName, bytes.NewReader(data))
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("failed").Inc()
		return Image{}, fmt.Errorf("store image: %w", err)
	}

	assessment := s.classify(bytes.NewReader(data))

	img := Image{
		ID:              id,
		FileName:        safeName,
		OriginalName:    fileName,
		ContentType:     contentType,
		MimeType:        mimeType,
		SizeBytes:       size,
		StorageProvider: s.StorageProvider,
		StorageKey:      storageKey,
		Assessment:      assessment,
		CreatedAt:       s.clock().UTC(),
	}
	if err := s.Repo.Create(ctx, img); err != nil {
		metrics.UploadsTotal.WithLabelValues("failed").Inc()
		return Image{}, fmt.Errorf("record image: %w", err)
	}

	metrics.UploadsTotal.WithLabelValues("stored").Inc()
	telemetry.Info("image.uploaded", map[string]any{
		"image_id":            img.ID,
		"size_bytes":          img.SizeBytes,
		"suggested_fragility": assessment.SuggestedLevel.String(),
		"confidence":          assessment.Confidence,
	})
	return img, nil
}

// Get returns stored image metadata.
func (s *Service) Get(ctx context.Context, id string) (Image, error) {
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return Image{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, strings.TrimSpace(id))
}

// Assess re-reads a stored image and classifies it. Only an unknown id is an
// error; a stored object that cannot be opened or decoded yields the fallback
// assessment.
func (s *Service) Assess(ctx context.Context, id string) (fragility.Assessment, error) {
	img, err := s.Get(ctx, id)
	if err != nil {
		return fragility.Assessment{}, err
	}
	rc, err := s.Store.Open(ctx, img.StorageKey)
	if err != nil {
		event := "image.open_failed"
		if errors.Is(err, object.ErrNotFound) {
			event = "image.object_missing"
		}
		telemetry.Warn(event, map[string]any{
			"image_id":    img.ID,
			"storage_key": img.StorageKey,
			"error":       err.Error(),
		})
		a := fragility.Fallback()
		metrics.RecordClassification(a.SuggestedLevel.String(), true)
		return a, nil
	}
	defer rc.Close()

	return s.classify(rc), nil
}

func (s *Service) classify(r io.Reader) fragility.Assessment {
	c := s.Classifier
	if c == nil {
		c = fragility.NewClassifier(fragility.DefaultThresholds())
	}
	a := c.Classify(r)
	metrics.RecordClassification(a.SuggestedLevel.String(), a.IsFallback())
	return a
}

func (s *Service) maxBytes() int64 {
	if s.MaxBytes > 0 {
		return s.MaxBytes
	}
	return DefaultMaxBytes
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func normalizeContentType(raw string) string {
	ct := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}

func humanBytes(n int64) string {
	if n%(1<<20) == 0 {
		return fmt.Sprintf("%dMB", n>>20)
	}
	return fmt.Sprintf("%d bytes", n)
}
