package images

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"packaging-backend/internal/fragility"
	"packaging-backend/internal/packaging"
)

func sampleImage() Image {
	return Image{
		ID:              "5f1c3a52-3b6e-4c43-9a57-0d1f0f3f6a11",
		FileName:        "5f1c3a52-3b6e-4c43-9a57-0d1f0f3f6a11.png",
		OriginalName:    "vase.png",
		ContentType:     "image/png",
		MimeType:        "image/png",
		SizeBytes:       2048,
		StorageProvider: "s3",
		StorageKey:      "images/5f1c3a52-3b6e-4c43-9a57-0d1f0f3f6a11.png",
		Assessment: fragility.Assessment{
			SuggestedLevel: packaging.FragilityHigh,
			Confidence:     0.85,
			Reasoning:      []string{"extreme aspect ratio (0.33), tipping risk"},
		},
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	img := sampleImage()
	mock.ExpectExec("INSERT INTO images").
		WithArgs(
			img.ID,
			img.FileName,
			img.OriginalName,
			img.ContentType,
			img.MimeType,
			img.SizeBytes,
			img.StorageProvider,
			img.StorageKey,
			"high",
			0.85,
			[]byte(`["extreme aspect ratio (0.33), tipping risk"]`),
			img.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := &PGRepo{DB: db}
	if err := repo.Create(context.Background(), img); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	want := sampleImage()
	rows := sqlmock.NewRows([]string{
		"id", "file_name", "original_name", "content_type", "mime_type", "size_bytes",
		"storage_provider", "storage_key", "suggested_fragility", "confidence", "reasoning", "created_at",
	}).AddRow(
		want.ID, want.FileName, want.OriginalName, want.ContentType, want.MimeType, want.SizeBytes,
		want.StorageProvider, want.StorageKey, "high", 0.85,
		[]byte(`["extreme aspect ratio (0.33), tipping risk"]`), want.CreatedAt,
	)
	mock.ExpectQuery("SELECT (.+) FROM images").WithArgs(want.ID).WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	got, err := repo.GetByID(context.Background(), want.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("image mismatch (-want +got):\n%s", diff)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT (.+) FROM images").WillReturnError(sql.ErrNoRows)

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByID(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
