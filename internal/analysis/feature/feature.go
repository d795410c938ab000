// Package feature defines the normalized resume/job-description feature set
// produced by the extraction collaborator and consumed by the scoring engine.
package feature

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	apperrors "resume-match-engine/internal/common/errors"
)

// Set is the immutable input of one analysis: skill and keyword overlap sets
// plus statistical and semantic similarity signals, each on the 0-100 scale.
type Set struct {
	SkillsFound     []string `json:"skillsFound"`
	SkillsMissing   []string `json:"skillsMissing"`
	KeywordsFound   []string `json:"keywordsFound"`
	KeywordsMissing []string `json:"keywordsMissing"`

	TFIDFScore         float64 `json:"tfidfScore"`
	BM25Score          float64 `json:"bm25Score"`
	SemanticSimilarity float64 `json:"semanticSimilarity"`
}

// Validate checks the numeric signals against the 0-100 contract. A violation
// signals an extraction bug upstream and rejects the request.
func (s *Set) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"tfidfScore", s.TFIDFScore},
		{"bm25Score", s.BM25Score},
		{"semanticSimilarity", s.SemanticSimilarity},
	}

	for _, c := range checks {
		if c.value < 0 || c.value > 100 {
			return apperrors.NewInvalidFeatureSetError(
				fmt.Sprintf("%s out of range [0,100]: %.2f", c.name, c.value))
		}
	}
	return nil
}

// Digest returns a stable hash of the feature set, used as the reasoning
// verdict cache key.
func (s *Set) Digest() string {
	data, _ := json.Marshal(s)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
