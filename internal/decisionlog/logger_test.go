package decisionlog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type recordingSink struct {
	mu   sync.Mutex
	recs []Record
}

func (s *recordingSink) Write(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	return nil
}

func (s *recordingSink) snapshot() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.recs...)
}

// gatedSink blocks every write until release is closed and announces each
// write on started.
type gatedSink struct {
	started chan struct{}
	release chan struct{}
	inner   recordingSink
}

func newGatedSink() *gatedSink {
	return &gatedSink{started: make(chan struct{}, 16), release: make(chan struct{})}
}

func (s *gatedSink) Write(ctx context.Context, rec Record) error {
	s.started <- struct{}{}
	<-s.release
	return s.inner.Write(ctx, rec)
}

func sampleRecord(id string) Record {
	return Record{
		RecommendationID: id,
		Category:         "electronics",
		Dimensions:       Dimensions{L: 100, W: 50, H: 30},
		WeightKG:         1.2,
		UserFragility:    "low",
		FinalFragility:   "low",
		FragilitySource:  "user",
		EstimatedCost:    87.28,
	}
}

func TestLoggerDrainsOnClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := &recordingSink{}
	logger := NewLogger(sink, 64, time.Second)
	for i := 0; i < 10; i++ {
		logger.Log(sampleRecord(fmt.Sprintf("rec-%d", i)))
	}

	require.NoError(t, logger.Close(context.Background()))

	got := sink.snapshot()
	require.Len(t, got, 10)
	for i, rec := range got {
		assert.Equal(t, fmt.Sprintf("rec-%d", i), rec.RecommendationID)
		assert.False(t, rec.Timestamp.IsZero())
	}
	assert.Zero(t, logger.Dropped())
}

func TestLoggerKeepsCallerTimestamp(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := &recordingSink{}
	logger := NewLogger(sink, 4, time.Second)
	stamp := time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC)
	rec := sampleRecord("rec-ts")
	rec.Timestamp = stamp

	logger.Log(rec)
	require.NoError(t, logger.Close(context.Background()))

	require.Len(t, sink.snapshot(), 1)
	assert.Equal(t, stamp, sink.snapshot()[0].Timestamp)
}

func TestLoggerDropsWhenFull(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := newGatedSink()
	logger := NewLogger(sink, 1, time.Second)

	logger.Log(sampleRecord("in-flight"))
	<-sink.started
	logger.Log(sampleRecord("buffered"))
	logger.Log(sampleRecord("dropped"))

	assert.Equal(t, uint64(1), logger.Dropped())

	close(sink.release)
	require.NoError(t, logger.Close(context.Background()))

	got := sink.inner.snapshot()
	require.Len(t, got, 2)
	assert.Equal(t, "in-flight", got[0].RecommendationID)
	assert.Equal(t, "buffered", got[1].RecommendationID)
}

func TestLoggerAfterCloseDropsWithoutPanic(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := &recordingSink{}
	logger := NewLogger(sink, 4, time.Second)
	require.NoError(t, logger.Close(context.Background()))

	assert.NotPanics(t, func() { logger.Log(sampleRecord("late")) })
	assert.Equal(t, uint64(1), logger.Dropped())
	assert.Empty(t, sink.snapshot())
	assert.NoError(t, logger.Close(context.Background()))
}

func TestLoggerCloseHonoursDeadline(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := newGatedSink()
	logger := NewLogger(sink, 4, time.Second)
	logger.Log(sampleRecord("slow"))
	<-sink.started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := logger.Close(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	close(sink.release)
	require.NoError(t, logger.Close(context.Background()))
	assert.Len(t, sink.inner.snapshot(), 1)
}

func TestLoggerSwallowsSinkErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	failing := SinkFunc(func(context.Context, Record) error { return errors.New("disk full") })
	logger := NewLogger(failing, 4, time.Second)

	logger.Log(sampleRecord("a"))
	logger.Log(sampleRecord("b"))

	require.NoError(t, logger.Close(context.Background()))
	assert.Equal(t, uint64(2), logger.Failed())
	assert.Zero(t, logger.Dropped())
}

func TestLoggerNilSinkDiscards(t *testing.T) {
	defer goleak.VerifyNone(t)

	logger := NewLogger(nil, 0, 0)
	logger.Log(sampleRecord("x"))
	require.NoError(t, logger.Close(context.Background()))
	assert.Zero(t, logger.Failed())
}
