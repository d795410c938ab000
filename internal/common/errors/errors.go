// Package errors provides standardized error handling for the analysis
// pipeline and its workflow-engine integration.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidFeatureSet   ErrorCode = "INVALID_FEATURE_SET"
	ErrCodeInvalidWeightConfig ErrorCode = "INVALID_WEIGHT_CONFIG"

	ErrCodeReasoningUnavailable ErrorCode = "REASONING_UNAVAILABLE"
	ErrCodeReasoningTimeout     ErrorCode = "REASONING_TIMEOUT"

	ErrCodePersistenceFailed ErrorCode = "PERSISTENCE_FAILED"
	ErrCodeAnalysisFailed    ErrorCode = "ANALYSIS_FAILED"
	ErrCodeParseError        ErrorCode = "PARSE_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow
// engine by the analyze-resume worker surface.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ToBPMNError converts a StandardError to its workflow-engine form.
func (e *StandardError) ToBPMNError() *BPMNError {
	retries := 0
	if e.Retryable {
		retries = 1
	}
	return &BPMNError{
		Code:      string(e.Code),
		Message:   e.Message,
		Details:   e.Details,
		Retryable: e.Retryable,
		Retries:   retries,
	}
}

// ==========================
// 3. Error Constructors
// ==========================

// NewInvalidFeatureSetError signals a malformed upstream FeatureSet. The
// request is rejected; the fault is in the extraction collaborator.
func NewInvalidFeatureSetError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFeatureSet,
		Message:   "Feature set failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidWeightConfigError signals a weight group that does not sum to 1.0.
// Fatal at startup/config load.
func NewInvalidWeightConfigError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidWeightConfig,
		Message:   "Weight configuration failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewReasoningUnavailableError is captured internally as a verdict status.
// It never crosses the adapter boundary; it exists for logging and metrics.
func NewReasoningUnavailableError(err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeReasoningUnavailable,
		Message:   "Reasoning service unavailable",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewReasoningTimeoutError marks a reasoning call that exhausted its budget.
func NewReasoningTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeReasoningTimeout,
		Message:   "Reasoning service call timed out",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPersistenceError marks a failed record write. The analysis result is
// unaffected; the store is fail-open.
func NewPersistenceError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePersistenceFailed,
		Message:   "Failed to persist analysis record",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnalysisFailedError wraps an unexpected pipeline failure.
func NewAnalysisFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnalysisFailed,
		Message:   "Analysis pipeline failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewParseError marks unparseable worker/API input.
func NewParseError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeParseError,
		Message:   "Failed to parse input",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
