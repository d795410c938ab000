package scoring

import (
	"resume-match-engine/internal/analysis/feature"
)

// HardResult carries the hard-match composite and its components, all on a
// 0-100 scale.
type HardResult struct {
	Score         float64 `json:"score"`
	SkillsScore   float64 `json:"skillsScore"`
	KeywordsScore float64 `json:"keywordsScore"`
	TFIDFScore    float64 `json:"tfidfScore"`
	BM25Score     float64 `json:"bm25Score"`
}

// HardMatch computes the weighted hard-match score from lexical signals.
func HardMatch(fs *feature.Set, w WeightConfig) HardResult {
	r := HardResult{
		SkillsScore:   overlapScore(fs.SkillsFound, fs.SkillsMissing),
		KeywordsScore: overlapScore(fs.KeywordsFound, fs.KeywordsMissing),
		TFIDFScore:    fs.TFIDFScore,
		BM25Score:     fs.BM25Score,
	}
	r.Score = clamp(
		r.SkillsScore*w.Skills+
			r.KeywordsScore*w.Keywords+
			r.TFIDFScore*w.TFIDF+
			r.BM25Score*w.BM25,
		0, 100)
	return r
}

// overlapScore is the percentage of required items present. A requirement
// list that is empty on both sides scores 100: nothing was asked for, so
// nothing is missing.
func overlapScore(found, missing []string) float64 {
	total := len(found) + len(missing)
	if total == 0 {
		return 100
	}
	return float64(len(found)) / float64(total) * 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
