// Package engine orchestrates one analysis: it forks the three scoring
// signals, joins them in the aggregator, and hands the finished record to
// the persistence and notification boundaries without depending on them.
package engine

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"resume-match-engine/internal/analysis/feature"
	"resume-match-engine/internal/analysis/reasoning"
	"resume-match-engine/internal/analysis/record"
	"resume-match-engine/internal/analysis/scoring"
	"resume-match-engine/internal/common/config"
	apperrors "resume-match-engine/internal/common/errors"
	"resume-match-engine/internal/common/logger"
	"resume-match-engine/internal/common/metrics"
	"resume-match-engine/internal/store"
)

// Sink receives finished records. Persistence failures come back as data;
// the analysis result never depends on them.
type Sink interface {
	Persist(ctx context.Context, rec *record.AnalysisRecord) []store.Result
}

// Notifier is told about finished analyses. Implementations must not fail
// the analysis path.
type Notifier interface {
	NotifyDecision(ctx context.Context, rec *record.AnalysisRecord)
}

// Request is one resume/job-description analysis request.
type Request struct {
	RequestID              string       `json:"requestId"`
	ResumeFilename         string       `json:"resumeFilename"`
	JobDescriptionFilename string       `json:"jobDescriptionFilename"`
	Features               *feature.Set `json:"features"`
}

// Engine runs analyses. Safe for concurrent use; all scoring state is
// per-call.
type Engine struct {
	weights    scoring.WeightConfig
	boundaries scoring.Boundaries
	evaluator  reasoning.Evaluator
	sink       Sink
	notifier   Notifier
	logger     logger.Logger

	// Caps concurrent reasoning-service calls across all requests.
	reasoningSem *semaphore.Weighted

	poolSize       int
	persistTimeout time.Duration
}

// Option tweaks engine construction.
type Option func(*Engine)

// WithSink attaches a persistence boundary.
func WithSink(s Sink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithNotifier attaches a notification boundary.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// New builds an engine from validated configuration.
func New(cfg *config.Config, evaluator reasoning.Evaluator, log logger.Logger, opts ...Option) (*Engine, error) {
	weights, err := scoring.NewWeightConfig(cfg.Scoring)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		weights:        weights,
		boundaries:     scoring.NewBoundaries(cfg.Scoring),
		evaluator:      evaluator,
		logger:         log.WithFields(map[string]interface{}{"component": "analysis-engine"}),
		reasoningSem:   semaphore.NewWeighted(int64(cfg.Batch.ReasoningInFlight)),
		poolSize:       cfg.Batch.PoolSize,
		persistTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Analyze runs the full pipeline for one request. The returned record is
// complete even when the reasoning signal was unavailable; only malformed
// input or cancellation produce an error.
func (e *Engine) Analyze(ctx context.Context, req Request) (*record.AnalysisRecord, error) {
	start := time.Now()

	if req.Features == nil {
		err := apperrors.NewInvalidFeatureSetError("feature set is required")
		metrics.AnalysesFailed.WithLabelValues(string(err.Code)).Inc()
		return nil, err
	}
	if err := req.Features.Validate(); err != nil {
		metrics.AnalysesFailed.WithLabelValues(errorCode(err)).Inc()
		return nil, err
	}

	var (
		hard    scoring.HardResult
		soft    scoring.SoftResult
		verdict *reasoning.Verdict
	)

	// Fork: the three signals are independent given the feature set. The
	// aggregator below is the join barrier; nothing is emitted until all
	// three have resolved.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hard = scoring.HardMatch(req.Features, e.weights)
		return nil
	})
	g.Go(func() error {
		soft = scoring.SoftMatch(req.Features)
		return nil
	})
	g.Go(func() error {
		if err := e.reasoningSem.Acquire(gctx, 1); err != nil {
			return err
		}
		defer e.reasoningSem.Release(1)

		verdict = e.evaluator.Evaluate(gctx, req.Features)
		return nil
	})
	if err := g.Wait(); err != nil {
		// Cancellation discards the request entirely; no partial record.
		return nil, err
	}
	// The evaluator absorbs context errors into degraded verdicts, so a
	// cancellation that lands mid-call still reaches this point. Nothing
	// from a cancelled request may be built or persisted.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	composite := scoring.Aggregate(hard, soft, verdict, e.weights)
	level := e.boundaries.Classify(composite.Overall)
	recommendation := scoring.Recommend(composite, level, req.Features)

	rec := record.Build(record.Meta{
		RequestID:              req.RequestID,
		ResumeFilename:         req.ResumeFilename,
		JobDescriptionFilename: req.JobDescriptionFilename,
	}, req.Features, composite, level, recommendation)

	metrics.AnalysesCompleted.WithLabelValues(rec.MatchLevel, rec.HiringRecommendation.Decision).Inc()
	if rec.Degraded {
		metrics.AnalysesDegraded.Inc()
	}

	e.logger.Info("analysis completed", map[string]interface{}{
		"requestId":  rec.ID,
		"overall":    rec.OverallScore,
		"matchLevel": rec.MatchLevel,
		"decision":   rec.HiringRecommendation.Decision,
		"degraded":   rec.Degraded,
		"durationMs": time.Since(start).Milliseconds(),
	})

	e.dispatch(rec)
	return rec, nil
}

func errorCode(err error) string {
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) {
		return string(stdErr.Code)
	}
	return string(apperrors.ErrCodeAnalysisFailed)
}

// dispatch hands the record to the persistence and notification boundaries,
// detached from the request context so a slow sink cannot hold the caller.
// Outcomes are logged and counted, never inspected by the scoring path.
func (e *Engine) dispatch(rec *record.AnalysisRecord) {
	if e.sink == nil && e.notifier == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), e.persistTimeout)
		defer cancel()

		if e.sink != nil {
			for _, res := range e.sink.Persist(ctx, rec) {
				if res.Err != nil {
					metrics.RecordsPersisted.WithLabelValues(res.Sink, "failure").Inc()
					e.logger.Warn("record persistence failed", map[string]interface{}{
						"requestId": rec.ID,
						"sink":      res.Sink,
						"error":     res.Err.Error(),
					})
					continue
				}
				metrics.RecordsPersisted.WithLabelValues(res.Sink, "success").Inc()
			}
		}

		if e.notifier != nil {
			e.notifier.NotifyDecision(ctx, rec)
		}
	}()
}
