package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"resume-match-engine/internal/analysis/record"
	apperrors "resume-match-engine/internal/common/errors"
	"resume-match-engine/internal/common/logger"
)

// Indexer writes analysis records to Elasticsearch for search and analytics.
type Indexer struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewIndexer(client *elasticsearch.Client, index string, log logger.Logger) *Indexer {
	return &Indexer{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "analysis-indexer"}),
	}
}

func (i *Indexer) Name() string { return "elasticsearch" }

// Save indexes one analysis record under its ID.
func (i *Indexer) Save(ctx context.Context, rec *record.AnalysisRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return apperrors.NewPersistenceError(fmt.Errorf("marshal record: %w", err))
	}

	req := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: rec.ID,
		Body:       bytes.NewReader(body),
	}

	res, err := req.Do(ctx, i.client)
	if err != nil {
		return apperrors.NewPersistenceError(fmt.Errorf("index record: %w", err))
	}
	defer res.Body.Close()

	if res.IsError() {
		return apperrors.NewPersistenceError(fmt.Errorf("index record: %s", res.String()))
	}

	i.logger.Debug("analysis record indexed", map[string]interface{}{
		"recordId": rec.ID,
	})
	return nil
}

// Summary aggregates stored analyses: counts, average score, and the
// distribution across match levels and decisions.
type Summary struct {
	TotalAnalyses     int64            `json:"total_analyses"`
	AverageScore      float64          `json:"average_score"`
	ScoreDistribution map[string]int64 `json:"score_distribution"`
	DecisionCounts    map[string]int64 `json:"decision_counts"`
	DegradedAnalyses  int64            `json:"degraded_analyses"`
}

// Analytics computes the summary with one aggregation query.
func (i *Indexer) Analytics(ctx context.Context) (*Summary, error) {
	query := map[string]interface{}{
		"size": 0,
		"aggs": map[string]interface{}{
			"avg_score": map[string]interface{}{
				"avg": map[string]interface{}{"field": "overall_score"},
			},
			"by_match_level": map[string]interface{}{
				"terms": map[string]interface{}{"field": "match_level.keyword"},
			},
			"by_decision": map[string]interface{}{
				"terms": map[string]interface{}{"field": "hiring_recommendation.decision.keyword"},
			},
			"degraded": map[string]interface{}{
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"degraded": true},
				},
			},
		},
	}

	body, _ := json.Marshal(query)
	req := esapi.SearchRequest{
		Index: []string{i.index},
		Body:  bytes.NewReader(body),
	}

	res, err := req.Do(ctx, i.client)
	if err != nil {
		return nil, apperrors.NewPersistenceError(fmt.Errorf("analytics query: %w", err))
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, apperrors.NewPersistenceError(fmt.Errorf("analytics query: %s", res.String()))
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
		} `json:"hits"`
		Aggregations struct {
			AvgScore struct {
				Value *float64 `json:"value"`
			} `json:"avg_score"`
			ByMatchLevel struct {
				Buckets []struct {
					Key      string `json:"key"`
					DocCount int64  `json:"doc_count"`
				} `json:"buckets"`
			} `json:"by_match_level"`
			ByDecision struct {
				Buckets []struct {
					Key      string `json:"key"`
					DocCount int64  `json:"doc_count"`
				} `json:"buckets"`
			} `json:"by_decision"`
			Degraded struct {
				DocCount int64 `json:"doc_count"`
			} `json:"degraded"`
		} `json:"aggregations"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewPersistenceError(fmt.Errorf("decode analytics response: %w", err))
	}

	summary := &Summary{
		TotalAnalyses:     parsed.Hits.Total.Value,
		ScoreDistribution: make(map[string]int64),
		DecisionCounts:    make(map[string]int64),
		DegradedAnalyses:  parsed.Aggregations.Degraded.DocCount,
	}
	if parsed.Aggregations.AvgScore.Value != nil {
		summary.AverageScore = *parsed.Aggregations.AvgScore.Value
	}
	for _, b := range parsed.Aggregations.ByMatchLevel.Buckets {
		summary.ScoreDistribution[b.Key] = b.DocCount
	}
	for _, b := range parsed.Aggregations.ByDecision.Buckets {
		summary.DecisionCounts[b.Key] = b.DocCount
	}
	return summary, nil
}
