// internal/workers/analysis/analyze-resume/models.go
package analyzeresume

import (
	"resume-match-engine/internal/analysis/feature"
)

type Input struct {
	RequestID              string       `json:"requestId"`
	ResumeFilename         string       `json:"resumeFilename"`
	JobDescriptionFilename string       `json:"jobDescriptionFilename"`
	Features               *feature.Set `json:"features"`
}

type Output struct {
	RecordID     string  `json:"recordId"`
	OverallScore float64 `json:"overallScore"`
	MatchLevel   string  `json:"matchLevel"`
	Decision     string  `json:"decision"`
	Confidence   float64 `json:"confidence"`
	Degraded     bool    `json:"degraded"`
}
