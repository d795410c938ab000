package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-match-engine/internal/analysis/feature"
	"resume-match-engine/internal/analysis/reasoning"
	"resume-match-engine/internal/analysis/record"
	"resume-match-engine/internal/common/config"
	"resume-match-engine/internal/common/logger"
	"resume-match-engine/internal/store"
)

// ==========================
// Test Doubles
// ==========================

type stubEvaluator struct {
	verdict *reasoning.Verdict
	delay   time.Duration

	mu       sync.Mutex
	inFlight int
	maxSeen  int
	calls    int
}

func (s *stubEvaluator) Evaluate(ctx context.Context, fs *feature.Set) *reasoning.Verdict {
	s.mu.Lock()
	s.calls++
	s.inFlight++
	if s.inFlight > s.maxSeen {
		s.maxSeen = s.inFlight
	}
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
		}
	}

	s.mu.Lock()
	s.inFlight--
	s.mu.Unlock()

	if ctx.Err() != nil {
		return reasoning.TimedOut()
	}
	return s.verdict
}

type captureSink struct {
	mu      sync.Mutex
	records []*record.AnalysisRecord
	done    chan struct{}
}

func newCaptureSink() *captureSink {
	return &captureSink{done: make(chan struct{}, 64)}
}

func (c *captureSink) Persist(ctx context.Context, rec *record.AnalysisRecord) []store.Result {
	c.mu.Lock()
	c.records = append(c.records, rec)
	c.mu.Unlock()
	c.done <- struct{}{}
	return []store.Result{{Sink: "capture"}}
}

func (c *captureSink) wait(t *testing.T) *record.AnalysisRecord {
	t.Helper()
	select {
	case <-c.done:
	case <-time.After(2 * time.Second):
		t.Fatal("sink was never called")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.records[len(c.records)-1]
}

type captureNotifier struct {
	mu      sync.Mutex
	records []*record.AnalysisRecord
}

func (c *captureNotifier) NotifyDecision(ctx context.Context, rec *record.AnalysisRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, rec)
}

// ==========================
// Test Helper Functions
// ==========================

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Scoring = config.ScoringConfig{
		HardWeight: 0.4, SoftWeight: 0.3, ReasoningWeight: 0.3,
		SkillsWeight: 0.4, KeywordsWeight: 0.3, TFIDFWeight: 0.15, BM25Weight: 0.15,
		ExcellentBoundary: 85, GoodBoundary: 70, FairBoundary: 50,
	}
	cfg.Batch = config.BatchConfig{PoolSize: 4, ReasoningInFlight: 2}
	return cfg
}

func okVerdict(score float64) *reasoning.Verdict {
	return &reasoning.Verdict{
		Score:      score,
		Confidence: 85,
		Verdict:    reasoning.LabelHire,
		Reasoning:  "solid candidate",
		Status:     reasoning.StatusOK,
	}
}

func testRequest(id string) Request {
	return Request{
		RequestID:              id,
		ResumeFilename:         "resume.pdf",
		JobDescriptionFilename: "jd.txt",
		Features: &feature.Set{
			SkillsFound:        []string{"go", "postgresql"},
			SkillsMissing:      []string{"kubernetes"},
			KeywordsFound:      []string{"backend"},
			KeywordsMissing:    []string{"grpc"},
			TFIDFScore:         70,
			BM25Score:          65,
			SemanticSimilarity: 88,
		},
	}
}

func newTestEngine(t *testing.T, evaluator reasoning.Evaluator, opts ...Option) *Engine {
	t.Helper()
	e, err := New(testConfig(), evaluator, logger.NewNoOpLogger(), opts...)
	require.NoError(t, err)
	return e
}

// ==========================
// Single Analysis Tests
// ==========================

func TestEngine_Analyze(t *testing.T) {
	e := newTestEngine(t, &stubEvaluator{verdict: okVerdict(90)})

	rec, err := e.Analyze(context.Background(), testRequest("req-1"))

	require.NoError(t, err)
	assert.Equal(t, "req-1", rec.ID)
	assert.False(t, rec.Degraded)
	assert.NotEmpty(t, rec.MatchLevel)
	assert.GreaterOrEqual(t, rec.OverallScore, 0.0)
	assert.LessOrEqual(t, rec.OverallScore, 100.0)
	require.NotNil(t, rec.ScoringDetails.ReasoningScore)
	assert.Equal(t, 90.0, *rec.ScoringDetails.ReasoningScore)
}

func TestEngine_Analyze_DegradedCompletesWithRecord(t *testing.T) {
	e := newTestEngine(t, &stubEvaluator{verdict: reasoning.Unavailable("outage")})

	rec, err := e.Analyze(context.Background(), testRequest("req-1"))

	require.NoError(t, err)
	assert.True(t, rec.Degraded)
	assert.Nil(t, rec.ScoringDetails.ReasoningScore)
	assert.True(t, rec.HiringRecommendation.Confidence > 0)
}

func TestEngine_Analyze_RejectsMissingFeatures(t *testing.T) {
	e := newTestEngine(t, &stubEvaluator{verdict: okVerdict(90)})

	req := testRequest("req-1")
	req.Features = nil

	_, err := e.Analyze(context.Background(), req)
	assert.Error(t, err)
}

func TestEngine_Analyze_RejectsOutOfRangeSignals(t *testing.T) {
	e := newTestEngine(t, &stubEvaluator{verdict: okVerdict(90)})

	req := testRequest("req-1")
	req.Features.TFIDFScore = 140

	_, err := e.Analyze(context.Background(), req)
	assert.Error(t, err)
}

func TestEngine_Analyze_DispatchesToSinkAndNotifier(t *testing.T) {
	sink := newCaptureSink()
	notifier := &captureNotifier{}
	e := newTestEngine(t, &stubEvaluator{verdict: okVerdict(95)},
		WithSink(sink), WithNotifier(notifier))

	rec, err := e.Analyze(context.Background(), testRequest("req-1"))
	require.NoError(t, err)

	persisted := sink.wait(t)
	assert.Equal(t, rec.ID, persisted.ID)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Len(t, notifier.records, 1)
}

func TestEngine_Analyze_SinkFailureDoesNotAffectResult(t *testing.T) {
	failing := failingSink{}
	e := newTestEngine(t, &stubEvaluator{verdict: okVerdict(90)}, WithSink(failing))

	rec, err := e.Analyze(context.Background(), testRequest("req-1"))

	require.NoError(t, err)
	assert.NotNil(t, rec)
}

func TestEngine_Analyze_MidFlightCancellationDiscardsRecord(t *testing.T) {
	var persisted int32
	sink := sinkFunc(func(ctx context.Context, rec *record.AnalysisRecord) []store.Result {
		atomic.AddInt32(&persisted, 1)
		return nil
	})

	// The evaluator hangs past the cancellation point and degrades instead
	// of erroring, so the discard must happen at the join barrier.
	stub := &stubEvaluator{verdict: okVerdict(90), delay: 500 * time.Millisecond}
	e := newTestEngine(t, stub, WithSink(sink))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(30*time.Millisecond, cancel)

	rec, err := e.Analyze(ctx, testRequest("req-1"))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, rec)

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt32(&persisted))
}

type failingSink struct{}

func (failingSink) Persist(ctx context.Context, rec *record.AnalysisRecord) []store.Result {
	return []store.Result{{Sink: "postgres", Err: fmt.Errorf("connection refused")}}
}

// ==========================
// Batch Analysis Tests
// ==========================

func TestEngine_AnalyzeBatch(t *testing.T) {
	e := newTestEngine(t, &stubEvaluator{verdict: okVerdict(90)})

	reqs := make([]Request, 10)
	for i := range reqs {
		reqs[i] = testRequest(fmt.Sprintf("req-%d", i))
	}

	results := e.AnalyzeBatch(context.Background(), reqs)

	require.Len(t, results, 10)
	for i, res := range results {
		assert.Equal(t, fmt.Sprintf("req-%d", i), res.RequestID)
		require.NoError(t, res.Err)
		require.NotNil(t, res.Record)
	}
}

func TestEngine_AnalyzeBatch_CapsReasoningConcurrency(t *testing.T) {
	stub := &stubEvaluator{verdict: okVerdict(80), delay: 30 * time.Millisecond}
	e := newTestEngine(t, stub)

	reqs := make([]Request, 8)
	for i := range reqs {
		reqs[i] = testRequest(fmt.Sprintf("req-%d", i))
	}

	e.AnalyzeBatch(context.Background(), reqs)

	stub.mu.Lock()
	defer stub.mu.Unlock()
	assert.Equal(t, 8, stub.calls)
	assert.LessOrEqual(t, stub.maxSeen, 2)
}

func TestEngine_AnalyzeBatch_PartialFailuresDoNotAbortBatch(t *testing.T) {
	e := newTestEngine(t, &stubEvaluator{verdict: okVerdict(90)})

	reqs := []Request{testRequest("good-1"), testRequest("bad"), testRequest("good-2")}
	reqs[1].Features.BM25Score = -10

	results := e.AnalyzeBatch(context.Background(), reqs)

	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.Nil(t, results[1].Record)
	assert.NoError(t, results[2].Err)
}

func TestEngine_AnalyzeBatch_CancellationDiscardsPendingRequests(t *testing.T) {
	var persisted int32
	sink := sinkFunc(func(ctx context.Context, rec *record.AnalysisRecord) []store.Result {
		atomic.AddInt32(&persisted, 1)
		return nil
	})

	stub := &stubEvaluator{verdict: okVerdict(90), delay: 50 * time.Millisecond}
	e := newTestEngine(t, stub, WithSink(sink))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reqs := make([]Request, 6)
	for i := range reqs {
		reqs[i] = testRequest(fmt.Sprintf("req-%d", i))
	}

	results := e.AnalyzeBatch(ctx, reqs)

	for _, res := range results {
		assert.Error(t, res.Err)
		assert.Nil(t, res.Record)
	}
	assert.Zero(t, atomic.LoadInt32(&persisted))
}

type sinkFunc func(ctx context.Context, rec *record.AnalysisRecord) []store.Result

func (f sinkFunc) Persist(ctx context.Context, rec *record.AnalysisRecord) []store.Result {
	return f(ctx, rec)
}
