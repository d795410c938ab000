package scoring

import (
	"fmt"
	"math"

	"resume-match-engine/internal/common/config"
	apperrors "resume-match-engine/internal/common/errors"
)

// WeightConfig defines the relative importance of each scoring signal.
// Both weight groups must sum to 1.0 (within epsilon); violating configs
// fail at construction, never per call.
type WeightConfig struct {
	Hard      float64
	Soft      float64
	Reasoning float64

	// Sub-weights within the hard-match signal.
	Skills   float64
	Keywords float64
	TFIDF    float64
	BM25     float64
}

const weightEpsilon = 1e-6

// DefaultWeights returns the default weight distribution.
func DefaultWeights() WeightConfig {
	return WeightConfig{
		Hard:      0.4,
		Soft:      0.3,
		Reasoning: 0.3,

		Skills:   0.4,
		Keywords: 0.3,
		TFIDF:    0.15,
		BM25:     0.15,
	}
}

// Validate checks both weight groups sum to 1.0 and no weight is negative.
func (w WeightConfig) Validate() error {
	for name, v := range map[string]float64{
		"hard": w.Hard, "soft": w.Soft, "reasoning": w.Reasoning,
		"skills": w.Skills, "keywords": w.Keywords, "tfidf": w.TFIDF, "bm25": w.BM25,
	} {
		if v < 0 {
			return apperrors.NewInvalidWeightConfigError(
				fmt.Sprintf("weight %q is negative: %.4f", name, v))
		}
	}

	if sum := w.Hard + w.Soft + w.Reasoning; math.Abs(sum-1.0) > weightEpsilon {
		return apperrors.NewInvalidWeightConfigError(
			fmt.Sprintf("signal weights sum to %.4f, want 1.0", sum))
	}
	if sum := w.Skills + w.Keywords + w.TFIDF + w.BM25; math.Abs(sum-1.0) > weightEpsilon {
		return apperrors.NewInvalidWeightConfigError(
			fmt.Sprintf("hard-match sub-weights sum to %.4f, want 1.0", sum))
	}
	return nil
}

// NewWeightConfig builds a validated WeightConfig from the application config.
func NewWeightConfig(cfg config.ScoringConfig) (WeightConfig, error) {
	w := WeightConfig{
		Hard:      cfg.HardWeight,
		Soft:      cfg.SoftWeight,
		Reasoning: cfg.ReasoningWeight,
		Skills:    cfg.SkillsWeight,
		Keywords:  cfg.KeywordsWeight,
		TFIDF:     cfg.TFIDFWeight,
		BM25:      cfg.BM25Weight,
	}
	if err := w.Validate(); err != nil {
		return WeightConfig{}, err
	}
	return w, nil
}

// DegradedSplit returns the hard/soft weights proportionally rescaled to sum
// to 1.0, used when the reasoning signal is unavailable.
func (w WeightConfig) DegradedSplit() (hard, soft float64) {
	total := w.Hard + w.Soft
	if total == 0 {
		return 0.5, 0.5
	}
	return w.Hard / total, w.Soft / total
}
