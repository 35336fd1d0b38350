package decisionlog

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSinkAppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ai_decisions.jsonl")
	sink := NewFileSink(path)
	t.Cleanup(func() { _ = sink.Close() })

	imageID := "img-1"
	first := sampleRecord("rec-1")
	first.Timestamp = time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)
	first.ImageID = &imageID
	second := sampleRecord("rec-2")

	require.NoError(t, sink.Write(context.Background(), first))
	require.NoError(t, sink.Write(context.Background(), second))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, lines, 2)

	assert.Equal(t, "rec-1", lines[0]["recommendation_id"])
	assert.Equal(t, "img-1", lines[0]["image_id"])
	assert.Equal(t, "2026-05-01T12:00:00Z", lines[0]["timestamp"])
	assert.Equal(t, map[string]any{"l": float64(100), "w": float64(50), "h": float64(30)}, lines[0]["dimensions"])
	assert.Equal(t, "low", lines[0]["final_fragility_used"])
	assert.Equal(t, 87.28, lines[0]["estimated_cost"])

	assert.Nil(t, lines[1]["image_id"])
	for _, key := range []string{
		"timestamp", "recommendation_id", "image_id", "category", "dimensions",
		"weight_kg", "ai_suggested_fragility", "ai_confidence", "ai_reasoning",
		"user_selected_fragility", "final_fragility_used", "fragility_source",
		"estimated_cost", "sustainability_score",
	} {
		assert.Contains(t, lines[1], key)
	}
}

func TestFileSinkRejectsWritesAfterClose(t *testing.T) {
	sink := NewFileSink(filepath.Join(t.TempDir(), "d.jsonl"))
	require.NoError(t, sink.Close())

	err := sink.Write(context.Background(), sampleRecord("late"))
	assert.True(t, errors.Is(err, ErrClosed))
}

func TestPGSinkInsertsDecision(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rec := sampleRecord("rec-9")
	rec.Timestamp = time.Date(2026, time.June, 2, 8, 30, 0, 0, time.UTC)
	rec.AISuggestedFragility = "high"
	rec.FragilitySource = "user_override"

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO decisions")).
		WithArgs(
			"rec-9",
			nil,
			"electronics",
			"low",
			"high",
			"user_override",
			87.28,
			0,
			sqlmock.AnyArg(),
			rec.Timestamp,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	sink := &PGSink{DB: db}
	require.NoError(t, sink.Write(context.Background(), rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGSinkWrapsExecError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO decisions")).WillReturnError(errors.New("connection reset"))

	err = (&PGSink{DB: db}).Write(context.Background(), sampleRecord("rec-err"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert decision")
	require.NoError(t, mock.ExpectationsWereMet())
}

type fakeSQS struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (f *fakeSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{}, nil
}

func TestSQSSinkSendsRecordBody(t *testing.T) {
	fake := &fakeSQS{}
	sink := &SQSSink{client: fake, queueURL: "https://sqs.example/queue"}

	require.NoError(t, sink.Write(context.Background(), sampleRecord("rec-q")))

	require.Len(t, fake.inputs, 1)
	in := fake.inputs[0]
	assert.Equal(t, "https://sqs.example/queue", *in.QueueUrl)
	assert.Equal(t, "rec-q", *in.MessageAttributes["recommendation_id"].StringValue)

	var body Record
	require.NoError(t, json.Unmarshal([]byte(*in.MessageBody), &body))
	assert.Equal(t, "rec-q", body.RecommendationID)
	assert.Equal(t, Dimensions{L: 100, W: 50, H: 30}, body.Dimensions)
}

func TestSQSSinkPropagatesSendError(t *testing.T) {
	sink := &SQSSink{client: &fakeSQS{err: errors.New("throttled")}, queueURL: "q"}

	err := sink.Write(context.Background(), sampleRecord("rec-q"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestNewSQSSinkRequiresQueueURL(t *testing.T) {
	_, err := NewSQSSink(context.Background(), "us-east-1", "  ")
	assert.Error(t, err)
}

func TestMultiFansOutToEverySink(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	boom := errors.New("boom")
	failing := SinkFunc(func(context.Context, Record) error { return boom })

	err := Multi(a, nil, failing, b).Write(context.Background(), sampleRecord("fan"))

	assert.True(t, errors.Is(err, boom))
	assert.Len(t, a.snapshot(), 1)
	assert.Len(t, b.snapshot(), 1)
}

func TestMultiSingleSinkIsUnwrapped(t *testing.T) {
	a := &recordingSink{}
	assert.Same(t, a, Multi(a).(*recordingSink))
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	failing := SinkFunc(func(context.Context, Record) error {
		calls.Add(1)
		return errors.New("unavailable")
	})
	cfg := DefaultBreakerConfig("test-sink")
	cfg.FailureThreshold = 2
	cfg.Timeout = time.Hour
	b := NewBreaker(failing, cfg)

	for i := 0; i < 2; i++ {
		assert.Error(t, b.Write(context.Background(), sampleRecord("x")))
	}
	err := b.Write(context.Background(), sampleRecord("x"))

	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "open", b.State())
}

func TestBreakerPassesThroughOnSuccess(t *testing.T) {
	inner := &recordingSink{}
	b := NewBreaker(inner, DefaultBreakerConfig("ok"))

	require.NoError(t, b.Write(context.Background(), sampleRecord("ok")))
	assert.Len(t, inner.snapshot(), 1)
	assert.Equal(t, "closed", b.State())
}
