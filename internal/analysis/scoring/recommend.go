package scoring

import (
	"fmt"
	"strings"

	"resume-match-engine/internal/analysis/feature"
	"resume-match-engine/internal/analysis/reasoning"
)

// Decision is the hiring recommendation class.
type Decision string

const (
	DecisionHire   Decision = "HIRE"
	DecisionReview Decision = "REVIEW"
	DecisionReject Decision = "REJECT"
)

// Recommendation is the engine's hiring advice for one analysis.
type Recommendation struct {
	Decision             Decision
	Confidence           float64
	Reasoning            string
	ReasoningUnavailable bool
	NextSteps            []string
	RiskFactors          []string
	SuccessProbability   float64
}

// Recommend derives the hiring recommendation from the composite score, its
// match level, and the reasoning verdict.
func Recommend(c Composite, level MatchLevel, fs *feature.Set) Recommendation {
	verdict := c.Reasoning
	verdictOK := verdict.OK()
	noHire := verdictOK && verdict.Verdict == reasoning.LabelNoHire

	var decision Decision
	switch {
	case c.Overall >= 75 && !noHire:
		decision = DecisionHire
	case c.Overall < 50 || (noHire && c.Overall < 65):
		decision = DecisionReject
	default:
		decision = DecisionReview
	}

	proxy := level.ConfidenceProxy()
	confidence := proxy
	if verdictOK {
		confidence = (proxy + verdict.Confidence) / 2
	}

	return Recommendation{
		Decision:             decision,
		Confidence:           roundScore(confidence),
		Reasoning:            explain(c, decision),
		ReasoningUnavailable: !verdictOK,
		NextSteps:            nextSteps(c, fs, decision),
		RiskFactors:          riskFactors(c, fs),
		SuccessProbability:   successProbability(c.Overall),
	}
}

// successProbability estimates interview-to-offer likelihood from the overall
// score, capped at 95.
func successProbability(overall float64) float64 {
	p := overall*0.9 + 5
	if p > 95 {
		return 95
	}
	return roundScore(p)
}

func explain(c Composite, decision Decision) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Overall match score: %.1f/100. ", c.Overall)
	fmt.Fprintf(&b, "Breakdown: Hard matching %.1f%%, Soft matching %.1f%%", c.Hard.Score, c.Soft.Score)
	if c.Reasoning.OK() {
		fmt.Fprintf(&b, ", Reasoning %.1f%%. ", c.Reasoning.Score)
	} else {
		b.WriteString(". Reasoning signal unavailable; hard and soft weights were rescaled. ")
	}

	switch decision {
	case DecisionHire:
		b.WriteString("Strong alignment with the role requirements; recommend proceeding to interview.")
	case DecisionReview:
		b.WriteString("Partial alignment with the role requirements; manual review recommended.")
	default:
		b.WriteString("Significant gaps against the role requirements.")
	}
	return b.String()
}

func nextSteps(c Composite, fs *feature.Set, decision Decision) []string {
	var steps []string

	if c.Hard.KeywordsScore < 60 {
		steps = append(steps, "Improve resume keywords to better match job requirements")
	}
	if c.Hard.SkillsScore < 60 {
		if len(fs.SkillsMissing) > 0 {
			top := fs.SkillsMissing
			if len(top) > 3 {
				top = top[:3]
			}
			steps = append(steps, "Develop skills in: "+strings.Join(top, ", "))
		} else {
			steps = append(steps, "Highlight relevant technical skills more prominently")
		}
	}
	if c.Soft.Score < 60 {
		steps = append(steps, "Add more specific examples of relevant experience")
	}

	if len(steps) == 0 {
		if decision == DecisionHire {
			steps = append(steps, "Strong candidate - proceed to interview")
		} else {
			steps = append(steps, "Review the full analysis record before deciding")
		}
	}
	return steps
}

func riskFactors(c Composite, fs *feature.Set) []string {
	var risks []string

	if c.Hard.SkillsScore < 40 {
		risks = append(risks, "Significant technical skills gap")
	}
	if c.Hard.KeywordsScore < 30 {
		risks = append(risks, "Poor alignment with job requirements")
	}
	if c.Soft.Score < 40 {
		risks = append(risks, "Limited relevant experience")
	}
	if c.Reasoning.OK() && c.Reasoning.Verdict == reasoning.LabelNoHire {
		risks = append(risks, "Reasoning model recommends against hiring")
	}
	if c.Overall < 30 {
		risks = append(risks, "Overall poor qualification match")
	}
	return risks
}
