package record

import (
	"fmt"
	"strings"
)

// Report renders the record as a plain-text summary for CLI and email
// consumers.
func (r *AnalysisRecord) Report() string {
	var b strings.Builder

	b.WriteString("Resume Analysis Report\n")
	b.WriteString("=====================\n")
	fmt.Fprintf(&b, "Resume: %s\n", r.ResumeFilename)
	fmt.Fprintf(&b, "Job Description: %s\n", r.JobDescriptionFilename)
	fmt.Fprintf(&b, "Overall Score: %.1f%%\n", r.OverallScore)
	fmt.Fprintf(&b, "Match Level: %s\n", strings.ToUpper(r.MatchLevel))
	fmt.Fprintf(&b, "Decision: %s (confidence %.1f%%)\n",
		r.HiringRecommendation.Decision, r.HiringRecommendation.Confidence)
	if r.Degraded {
		b.WriteString("Note: reasoning signal was unavailable for this analysis.\n")
	}

	fmt.Fprintf(&b, "\nAnalysis: %s\n", r.HiringRecommendation.Reasoning)

	if len(r.HiringRecommendation.NextSteps) > 0 {
		b.WriteString("\nNext Steps:\n")
		for _, step := range r.HiringRecommendation.NextSteps {
			fmt.Fprintf(&b, "- %s\n", step)
		}
	}

	if len(r.HiringRecommendation.RiskFactors) > 0 {
		b.WriteString("\nRisk Factors:\n")
		for _, risk := range r.HiringRecommendation.RiskFactors {
			fmt.Fprintf(&b, "- %s\n", risk)
		}
	}

	return b.String()
}
