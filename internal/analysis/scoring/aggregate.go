package scoring

import (
	"math"

	"resume-match-engine/internal/analysis/reasoning"
)

// AppliedWeights records the effective weights used for one aggregation,
// after any degraded-mode rescaling.
type AppliedWeights struct {
	Hard      float64 `json:"hard"`
	Soft      float64 `json:"soft"`
	Reasoning float64 `json:"reasoning"`
}

// Composite is the joined result of the three scoring signals.
type Composite struct {
	Hard      HardResult
	Soft      SoftResult
	Reasoning *reasoning.Verdict

	Weights  AppliedWeights
	Overall  float64
	Degraded bool
}

// Aggregate combines the signal scores into the overall score. When the
// reasoning verdict is unavailable the hard and soft weights are rescaled
// proportionally and the result is flagged degraded. The overall score is
// rounded to one decimal exactly once, here; component scores keep full
// precision.
func Aggregate(hard HardResult, soft SoftResult, verdict *reasoning.Verdict, w WeightConfig) Composite {
	c := Composite{
		Hard:      hard,
		Soft:      soft,
		Reasoning: verdict,
	}

	if verdict != nil && verdict.OK() {
		c.Weights = AppliedWeights{Hard: w.Hard, Soft: w.Soft, Reasoning: w.Reasoning}
		c.Overall = roundScore(
			hard.Score*w.Hard + soft.Score*w.Soft + verdict.Score*w.Reasoning)
		return c
	}

	h, s := w.DegradedSplit()
	c.Weights = AppliedWeights{Hard: h, Soft: s, Reasoning: 0}
	c.Overall = roundScore(hard.Score*h + soft.Score*s)
	c.Degraded = true
	return c
}

// roundScore rounds to one decimal place.
func roundScore(v float64) float64 {
	return math.Round(v*10) / 10
}
