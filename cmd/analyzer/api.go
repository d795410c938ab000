// cmd/analyzer/api.go
package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"resume-match-engine/internal/analysis/engine"
	apperrors "resume-match-engine/internal/common/errors"
	"resume-match-engine/internal/store"
	"resume-match-engine/pkg/contract"
)

type batchRequest struct {
	Requests []engine.Request `json:"requests"`
}

// newRouter wires the HTTP API next to the health and metrics endpoints.
func newRouter(analysisEngine *engine.Engine, indexer *store.Indexer) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ready",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/api/v1/analyze", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}

		// The embedded schema guards the boundary before the payload is
		// bound to engine types.
		var envelope struct {
			Features json.RawMessage `json:"features"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		if len(envelope.Features) > 0 && string(envelope.Features) != "null" {
			if err := contract.ValidateFeatureSet(envelope.Features); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}

		var req engine.Request
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}

		rec, err := analysisEngine.Analyze(r.Context(), req)
		if err != nil {
			writeAnalysisError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	})

	mux.HandleFunc("/api/v1/analyze/batch", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req batchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		if len(req.Requests) == 0 {
			writeError(w, http.StatusBadRequest, "requests must not be empty")
			return
		}

		results := analysisEngine.AnalyzeBatch(r.Context(), req.Requests)

		type batchItem struct {
			RequestID string      `json:"requestId"`
			Record    interface{} `json:"record,omitempty"`
			Error     string      `json:"error,omitempty"`
		}
		items := make([]batchItem, len(results))
		for i, res := range results {
			items[i].RequestID = res.RequestID
			if res.Err != nil {
				items[i].Error = res.Err.Error()
				continue
			}
			items[i].Record = res.Record
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"results": items})
	})

	mux.HandleFunc("/api/v1/analytics/summary", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if indexer == nil {
			writeError(w, http.StatusServiceUnavailable, "analytics store not configured")
			return
		}

		summary, err := indexer.Analytics(r.Context())
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, summary)
	})

	return mux
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeAnalysisError(w http.ResponseWriter, err error) {
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) {
		status := http.StatusInternalServerError
		switch stdErr.Code {
		case apperrors.ErrCodeInvalidFeatureSet, apperrors.ErrCodeParseError:
			status = http.StatusBadRequest
		case apperrors.ErrCodeInvalidWeightConfig:
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, stdErr)
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
