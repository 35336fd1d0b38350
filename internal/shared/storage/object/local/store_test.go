package local

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"packaging-backend/internal/shared/storage/object"
)

func TestSaveOpenRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	jpeg := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{1}, 1024)...)

	key, size, mime, err := store.Save(context.Background(), "images", "f00d.jpg", bytes.NewReader(jpeg))
	require.NoError(t, err)
	assert.Equal(t, "images/f00d.jpg", key)
	assert.Equal(t, int64(len(jpeg)), size)
	assert.Equal(t, "image/jpeg", mime)

	rc, err := store.Open(context.Background(), key)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, jpeg, got)
}

func TestSaveWithKeyOverwrites(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	_, err := store.SaveWithKey(ctx, "reports/r.pdf", "application/pdf", strings.NewReader("first"))
	require.NoError(t, err)
	n, err := store.SaveWithKey(ctx, "reports/r.pdf", "application/pdf", strings.NewReader("second"))
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)

	rc, err := store.Open(ctx, "reports/r.pdf")
	require.NoError(t, err)
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	assert.Equal(t, "second", string(got))
}

func TestRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	_, err := store.Open(ctx, "../secret")
	assert.Error(t, err)
	_, err = store.SaveWithKey(ctx, "a/../../b", "text/plain", strings.NewReader("x"))
	assert.Error(t, err)
	_, _, _, err = store.Save(ctx, "..", "x.png", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestOpenMissingIsNotFound(t *testing.T) {
	_, err := New(t.TempDir()).Open(context.Background(), "images/none.png")
	assert.True(t, errors.Is(err, object.ErrNotFound))
}
