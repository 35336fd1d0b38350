// Package decisionlog records every recommendation decision for later
// analysis. Writing is best-effort: nothing here can fail a recommendation.
package decisionlog

import (
	"context"
	"errors"
)

// ErrClosed is returned by sinks used after Close.
var ErrClosed = errors.New("decision log closed")

// Sink persists decision records.
type Sink interface {
	Write(ctx context.Context, rec Record) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, rec Record) error

func (f SinkFunc) Write(ctx context.Context, rec Record) error {
	return f(ctx, rec)
}

// Discard drops every record.
var Discard Sink = SinkFunc(func(context.Context, Record) error { return nil })
