package reasoning

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"time"

	"resume-match-engine/internal/analysis/feature"
	"resume-match-engine/internal/common/config"
)

var (
	ErrReasoningTimeout = errors.New("REASONING_TIMEOUT")
	ErrReasoningFailed  = errors.New("REASONING_FAILED")
)

// Client calls the reasoning service over HTTP. It returns errors; the
// translation of errors into degraded verdicts is the Adapter's job.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	maxRetries int
	httpClient *http.Client
}

func NewClient(cfg config.ReasoningConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		// No client timeout; the context carries the whole-call budget
		// including retries.
		httpClient: &http.Client{},
	}
}

type evaluateRequest struct {
	Model              string   `json:"model"`
	SkillsFound        []string `json:"skills_found"`
	SkillsMissing      []string `json:"skills_missing"`
	KeywordsFound      []string `json:"keywords_found"`
	KeywordsMissing    []string `json:"keywords_missing"`
	TFIDFScore         float64  `json:"tfidf_score"`
	BM25Score          float64  `json:"bm25_score"`
	SemanticSimilarity float64  `json:"semantic_similarity"`
}

type evaluateResponse struct {
	Score      *float64 `json:"score"`
	Confidence *float64 `json:"confidence"`
	Verdict    string   `json:"verdict"`
	Reasoning  string   `json:"reasoning"`
}

// Evaluate issues one evaluation call, retrying transient failures with
// exponential backoff while the context budget lasts.
func (c *Client) Evaluate(ctx context.Context, fs *feature.Set) (*Verdict, error) {
	body, err := json.Marshal(evaluateRequest{
		Model:              c.model,
		SkillsFound:        fs.SkillsFound,
		SkillsMissing:      fs.SkillsMissing,
		KeywordsFound:      fs.KeywordsFound,
		KeywordsMissing:    fs.KeywordsMissing,
		TFIDFScore:         fs.TFIDFScore,
		BM25Score:          fs.BM25Score,
		SemanticSimilarity: fs.SemanticSimilarity,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrReasoningFailed, err)
	}

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, contextErr(ctx)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+"/api/v1/evaluate", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReasoningFailed, err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, lastErr = c.httpClient.Do(req)
		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}

		if ctx.Err() != nil {
			return nil, contextErr(ctx)
		}
	}

	if lastErr != nil {
		if ctx.Err() != nil {
			return nil, contextErr(ctx)
		}
		return nil, fmt.Errorf("%w: %v", ErrReasoningFailed, lastErr)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: no successful response after retries", ErrReasoningFailed)
	}
	defer resp.Body.Close()

	var raw evaluateResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrReasoningFailed, err)
	}

	return normalize(raw)
}

// normalize maps the service payload onto a Verdict, treating any schema
// deviation as an error so the adapter can degrade instead of propagating
// a half-formed verdict.
func normalize(raw evaluateResponse) (*Verdict, error) {
	if raw.Score == nil || raw.Confidence == nil {
		return nil, fmt.Errorf("%w: response missing score or confidence", ErrReasoningFailed)
	}

	var label Label
	switch strings.ToUpper(strings.TrimSpace(raw.Verdict)) {
	case string(LabelHire):
		label = LabelHire
	case string(LabelNoHire):
		label = LabelNoHire
	case string(LabelUncertain), "":
		label = LabelUncertain
	default:
		return nil, fmt.Errorf("%w: unknown verdict %q", ErrReasoningFailed, raw.Verdict)
	}

	return &Verdict{
		Score:      clampScore(*raw.Score),
		Confidence: clampScore(*raw.Confidence),
		Verdict:    label,
		Reasoning:  strings.TrimSpace(raw.Reasoning),
		Status:     StatusOK,
	}, nil
}

// contextErr separates budget exhaustion from caller cancellation: an
// expired deadline is a reasoning timeout, a cancelled caller keeps its
// context error so the request can be discarded upstream.
func contextErr(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrReasoningTimeout
	}
	return ctx.Err()
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
