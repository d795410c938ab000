// Package store owns the persistence boundary for analysis records. Every
// write reports its outcome as a Result value; the analysis path logs these
// but never branches on them.
package store

import (
	"context"

	"resume-match-engine/internal/analysis/record"
)

// Result is the outcome of one sink write.
type Result struct {
	Sink string
	Err  error
}

// RecordWriter is one destination for finished analysis records.
type RecordWriter interface {
	Name() string
	Save(ctx context.Context, rec *record.AnalysisRecord) error
}

// MultiSink fans a record out to every configured writer. A failing writer
// never stops the others.
type MultiSink struct {
	writers []RecordWriter
}

func NewMultiSink(writers ...RecordWriter) *MultiSink {
	return &MultiSink{writers: writers}
}

// Persist writes the record to all sinks and reports one Result per sink.
func (s *MultiSink) Persist(ctx context.Context, rec *record.AnalysisRecord) []Result {
	results := make([]Result, 0, len(s.writers))
	for _, w := range s.writers {
		results = append(results, Result{
			Sink: w.Name(),
			Err:  w.Save(ctx, rec),
		})
	}
	return results
}
