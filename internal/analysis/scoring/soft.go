package scoring

import (
	"resume-match-engine/internal/analysis/feature"
)

// SoftResult carries the semantic-similarity signal promoted to a soft-match
// score on the 0-100 scale.
type SoftResult struct {
	Score float64 `json:"score"`
}

// SoftMatch derives the soft-match score from the semantic-similarity signal.
// Range validation happens in feature.Set.Validate before scoring starts.
func SoftMatch(fs *feature.Set) SoftResult {
	return SoftResult{Score: clamp(fs.SemanticSimilarity, 0, 100)}
}
