package scoring

import (
	"resume-match-engine/internal/common/config"
)

// MatchLevel is the ordinal classification of an overall score.
type MatchLevel string

const (
	MatchExcellent MatchLevel = "excellent"
	MatchGood      MatchLevel = "good"
	MatchFair      MatchLevel = "fair"
	MatchPoor      MatchLevel = "poor"
)

// Boundaries holds the lower edges of the top three tiers. Each boundary is
// inclusive: a score exactly on the edge belongs to the higher tier.
type Boundaries struct {
	Excellent float64
	Good      float64
	Fair      float64
}

// DefaultBoundaries returns the default tier edges.
func DefaultBoundaries() Boundaries {
	return Boundaries{Excellent: 85, Good: 70, Fair: 50}
}

// NewBoundaries builds tier edges from the application config.
func NewBoundaries(cfg config.ScoringConfig) Boundaries {
	return Boundaries{
		Excellent: cfg.ExcellentBoundary,
		Good:      cfg.GoodBoundary,
		Fair:      cfg.FairBoundary,
	}
}

// Classify maps an overall score onto its match level.
func (b Boundaries) Classify(score float64) MatchLevel {
	switch {
	case score >= b.Excellent:
		return MatchExcellent
	case score >= b.Good:
		return MatchGood
	case score >= b.Fair:
		return MatchFair
	default:
		return MatchPoor
	}
}

// ConfidenceProxy converts a match level into a confidence estimate used when
// blending with the reasoning model's own confidence.
func (l MatchLevel) ConfidenceProxy() float64 {
	switch l {
	case MatchExcellent:
		return 90
	case MatchGood:
		return 75
	case MatchFair:
		return 60
	default:
		return 40
	}
}
