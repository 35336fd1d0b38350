package decisionlog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"packaging-backend/internal/shared/metrics"
	"packaging-backend/internal/shared/telemetry"
)

const (
	DefaultBuffer       = 256
	DefaultWriteTimeout = 5 * time.Second
)

// Logger hands records to a Sink on a background goroutine. Log never blocks
// the caller and never reports an error; records that do not fit are dropped.
type Logger struct {
	sink    Sink
	timeout time.Duration
	now     func() time.Time

	mu      sync.RWMutex
	closed  bool
	records chan Record
	done    chan struct{}

	dropped atomic.Uint64
	failed  atomic.Uint64
}

// NewLogger starts the writer goroutine. Close must be called to stop it.
func NewLogger(sink Sink, buffer int, writeTimeout time.Duration) *Logger {
	if sink == nil {
		sink = Discard
	}
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	l := &Logger{
		sink:    sink,
		timeout: writeTimeout,
		now:     time.Now,
		records: make(chan Record, buffer),
		done:    make(chan struct{}),
	}
	go l.run()
	return l
}

// Log enqueues rec, stamping it if it has no timestamp.
func (l *Logger) Log(rec Record) {
	rec = rec.stamped(l.now)

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		l.drop(rec, "closed")
		return
	}
	select {
	case l.records <- rec:
	default:
		l.drop(rec, "full")
	}
}

// Close stops accepting records and waits for the queue to drain. If ctx ends
// first the remaining records are still written in the background.
func (l *Logger) Close(ctx context.Context) error {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		close(l.records)
	}
	l.mu.Unlock()

	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dropped returns how many records never reached the sink queue.
func (l *Logger) Dropped() uint64 {
	return l.dropped.Load()
}

// Failed returns how many sink writes returned an error.
func (l *Logger) Failed() uint64 {
	return l.failed.Load()
}

func (l *Logger) run() {
	defer close(l.done)
	for rec := range l.records {
		l.write(rec)
	}
}

func (l *Logger) write(rec Record) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	if err := l.sink.Write(ctx, rec); err != nil {
		l.failed.Add(1)
		metrics.DecisionLogErrorsTotal.Inc()
		telemetry.Warn("decisionlog.write_failed", map[string]any{
			"recommendation_id": rec.RecommendationID,
			"error":             err,
		})
	}
}

func (l *Logger) drop(rec Record, reason string) {
	l.dropped.Add(1)
	metrics.DecisionLogDroppedTotal.Inc()
	telemetry.Warn("decisionlog.dropped", map[string]any{
		"recommendation_id": rec.RecommendationID,
		"reason":            reason,
	})
}
