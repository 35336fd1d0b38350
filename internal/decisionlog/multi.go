package decisionlog

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type multiSink []Sink

// Multi fans each record out to every sink concurrently. All sinks are
// attempted; the first error is returned.
func Multi(sinks ...Sink) Sink {
	out := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

func (m multiSink) Write(ctx context.Context, rec Record) error {
	var g errgroup.Group
	for _, s := range m {
		g.Go(func() error {
			return s.Write(ctx, rec)
		})
	}
	return g.Wait()
}
