package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"resume-match-engine/internal/analysis/record"
	"resume-match-engine/internal/common/metrics"
)

// BatchResult is the outcome of one request within a batch, keyed by its
// request identifier. Either Record or Err is set.
type BatchResult struct {
	RequestID string                 `json:"requestId"`
	Record    *record.AnalysisRecord `json:"record,omitempty"`
	Err       error                  `json:"-"`
}

// AnalyzeBatch runs many requests through a bounded worker pool. Results
// come back in input order; a failed request carries its error without
// aborting the rest of the batch. Cancelling the context abandons requests
// that have not finished; their results carry the context error and nothing
// is persisted for them.
func (e *Engine) AnalyzeBatch(ctx context.Context, reqs []Request) []BatchResult {
	results := make([]BatchResult, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.poolSize)

	for i, req := range reqs {
		results[i].RequestID = req.RequestID

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			metrics.BatchJobsActive.Inc()
			defer metrics.BatchJobsActive.Dec()

			rec, err := e.Analyze(gctx, req)
			if err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Record = rec
			if results[i].RequestID == "" {
				results[i].RequestID = rec.ID
			}
			return nil
		})
	}

	// Goroutines never return errors; Wait is only a join.
	_ = g.Wait()
	return results
}
