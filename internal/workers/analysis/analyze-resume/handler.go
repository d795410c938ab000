// internal/workers/analysis/analyze-resume/handler.go
package analyzeresume

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"resume-match-engine/internal/analysis/engine"
	"resume-match-engine/internal/analysis/record"
	apperrors "resume-match-engine/internal/common/errors"
	"resume-match-engine/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "analyze-resume"
)

// Analyzer is the engine capability the worker needs.
type Analyzer interface {
	Analyze(ctx context.Context, req engine.Request) (*record.AnalysisRecord, error)
}

type Handler struct {
	config   *Config
	analyzer Analyzer
	logger   logger.Logger
}

func NewHandler(config *Config, analyzer Analyzer, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		analyzer: analyzer,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, string(apperrors.ErrCodeParseError), fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		var stdErr *apperrors.StandardError
		errorCode := string(apperrors.ErrCodeAnalysisFailed)
		if errors.As(err, &stdErr) {
			errorCode = string(stdErr.Code)
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	rec, err := h.analyzer.Analyze(ctx, engine.Request{
		RequestID:              input.RequestID,
		ResumeFilename:         input.ResumeFilename,
		JobDescriptionFilename: input.JobDescriptionFilename,
		Features:               input.Features,
	})
	if err != nil {
		return nil, err
	}

	return &Output{
		RecordID:     rec.ID,
		OverallScore: rec.OverallScore,
		MatchLevel:   rec.MatchLevel,
		Decision:     rec.HiringRecommendation.Decision,
		Confidence:   rec.HiringRecommendation.Confidence,
		Degraded:     rec.Degraded,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
