package health

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckWithoutDatabase(t *testing.T) {
	st, ok := NewService(nil).Check(context.Background())
	assert.True(t, ok)
	assert.Equal(t, Status{Status: "healthy", Service: "packaging-ai-api"}, st)
}

func TestCheckPingsDatabase(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectPing()
	st, ok := NewService(db).Check(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "ok", st.Database)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	st, ok = NewService(db).Check(context.Background())
	assert.False(t, ok)
	assert.Equal(t, "degraded", st.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
