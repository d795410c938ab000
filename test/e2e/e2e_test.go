// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-match-engine/internal/analysis/engine"
	"resume-match-engine/internal/analysis/feature"
	"resume-match-engine/internal/analysis/reasoning"
	"resume-match-engine/internal/analysis/record"
	"resume-match-engine/internal/common/config"
	"resume-match-engine/internal/common/logger"
	"resume-match-engine/internal/store"
	"resume-match-engine/pkg/contract"
)

// ==========================
// In-Process Fixture
// ==========================

// The end-to-end tests run the whole pipeline in process: a stub reasoning
// service over httptest, a miniredis verdict cache, and an in-memory sink.

type memorySink struct {
	mu      sync.Mutex
	records []*record.AnalysisRecord
	done    chan struct{}
}

func newMemorySink() *memorySink {
	return &memorySink{done: make(chan struct{}, 64)}
}

func (m *memorySink) Persist(ctx context.Context, rec *record.AnalysisRecord) []store.Result {
	m.mu.Lock()
	m.records = append(m.records, rec)
	m.mu.Unlock()
	m.done <- struct{}{}
	return []store.Result{{Sink: "memory"}}
}

func (m *memorySink) waitForRecord(t *testing.T) *record.AnalysisRecord {
	t.Helper()
	select {
	case <-m.done:
	case <-time.After(2 * time.Second):
		t.Fatal("record was never persisted")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[len(m.records)-1]
}

type fixture struct {
	engine *engine.Engine
	sink   *memorySink
}

func setup(t *testing.T, reasoningHandler http.HandlerFunc) *fixture {
	t.Helper()

	srv := httptest.NewServer(reasoningHandler)
	t.Cleanup(srv.Close)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{}
	cfg.Scoring = config.ScoringConfig{
		HardWeight: 0.4, SoftWeight: 0.3, ReasoningWeight: 0.3,
		SkillsWeight: 0.4, KeywordsWeight: 0.3, TFIDFWeight: 0.15, BM25Weight: 0.15,
		ExcellentBoundary: 85, GoodBoundary: 70, FairBoundary: 50,
	}
	cfg.Reasoning = config.ReasoningConfig{
		BaseURL:    srv.URL,
		Model:      "verdict-v1",
		Timeout:    2 * time.Second,
		MaxRetries: 1,
		CacheTTL:   10 * time.Minute,
	}
	cfg.Batch = config.BatchConfig{PoolSize: 4, ReasoningInFlight: 2}

	log := logger.NewNoOpLogger()
	sink := newMemorySink()

	evaluator := reasoning.NewAdapter(cfg.Reasoning, cache, log)
	e, err := engine.New(cfg, evaluator, log, engine.WithSink(sink))
	require.NoError(t, err)

	return &fixture{engine: e, sink: sink}
}

func reasoningStub(score, confidence float64, verdict string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"score":      score,
			"confidence": confidence,
			"verdict":    verdict,
			"reasoning":  "candidate profile matches the role",
		})
	}
}

func analysisRequest(id string) engine.Request {
	return engine.Request{
		RequestID:              id,
		ResumeFilename:         "jane_doe_resume.pdf",
		JobDescriptionFilename: "senior_backend_engineer.txt",
		Features: &feature.Set{
			SkillsFound:        []string{"go", "postgresql", "docker"},
			SkillsMissing:      []string{"kubernetes"},
			KeywordsFound:      []string{"backend", "microservices"},
			KeywordsMissing:    []string{"grpc"},
			TFIDFScore:         72,
			BM25Score:          68,
			SemanticSimilarity: 84,
		},
	}
}

// ==========================
// End-To-End Pipeline Tests
// ==========================

func TestPipeline_SuccessfulAnalysis(t *testing.T) {
	f := setup(t, reasoningStub(90, 85, "HIRE"))

	rec, err := f.engine.Analyze(context.Background(), analysisRequest("e2e-1"))
	require.NoError(t, err)

	assert.Equal(t, "e2e-1", rec.ID)
	assert.False(t, rec.Degraded)
	assert.Equal(t, "OK", rec.ReasoningAnalysis.Status)
	assert.GreaterOrEqual(t, rec.OverallScore, 0.0)
	assert.LessOrEqual(t, rec.OverallScore, 100.0)

	persisted := f.sink.waitForRecord(t)
	assert.Equal(t, rec.ID, persisted.ID)

	// The persisted record satisfies the external contract.
	data, err := json.Marshal(persisted)
	require.NoError(t, err)
	assert.NoError(t, contract.ValidateAnalysisRecord(data))
}

func TestPipeline_ReasoningOutageDegradesGracefully(t *testing.T) {
	f := setup(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	rec, err := f.engine.Analyze(context.Background(), analysisRequest("e2e-2"))
	require.NoError(t, err)

	assert.True(t, rec.Degraded)
	assert.Nil(t, rec.ScoringDetails.ReasoningScore)
	assert.NotEmpty(t, rec.HiringRecommendation.Decision)

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.NoError(t, contract.ValidateAnalysisRecord(data))
}

func TestPipeline_VerdictCacheSkipsSecondCall(t *testing.T) {
	var calls int
	var mu sync.Mutex
	f := setup(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		reasoningStub(80, 70, "HIRE")(w, r)
	})

	_, err := f.engine.Analyze(context.Background(), analysisRequest("e2e-3a"))
	require.NoError(t, err)
	_, err = f.engine.Analyze(context.Background(), analysisRequest("e2e-3b"))
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestPipeline_BatchAnalysis(t *testing.T) {
	f := setup(t, reasoningStub(75, 70, "UNCERTAIN"))

	reqs := []engine.Request{
		analysisRequest("batch-1"),
		analysisRequest("batch-2"),
		analysisRequest("batch-3"),
	}
	// Distinct feature sets so the verdict cache does not collapse the batch.
	reqs[1].Features.SemanticSimilarity = 60
	reqs[2].Features.SemanticSimilarity = 30

	results := f.engine.AnalyzeBatch(context.Background(), reqs)

	require.Len(t, results, 3)
	for _, res := range results {
		require.NoError(t, res.Err)
		require.NotNil(t, res.Record)
	}
	assert.Greater(t, results[0].Record.OverallScore, results[2].Record.OverallScore)
}

func TestPipeline_InvalidInputIsRejected(t *testing.T) {
	f := setup(t, reasoningStub(90, 85, "HIRE"))

	req := analysisRequest("e2e-5")
	req.Features.SemanticSimilarity = 250

	_, err := f.engine.Analyze(context.Background(), req)
	assert.Error(t, err)
}
