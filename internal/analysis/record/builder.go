package record

import (
	"time"

	"github.com/google/uuid"

	"resume-match-engine/internal/analysis/feature"
	"resume-match-engine/internal/analysis/scoring"
)

// Meta is the caller-supplied identity of one analysis request.
type Meta struct {
	RequestID              string
	ResumeFilename         string
	JobDescriptionFilename string
}

// Build assembles the analysis record from the scoring outputs. Pure
// assembly: no scores are computed or adjusted here.
func Build(meta Meta, fs *feature.Set, c scoring.Composite, level scoring.MatchLevel, rec scoring.Recommendation) *AnalysisRecord {
	id := meta.RequestID
	if id == "" {
		id = uuid.New().String()
	}

	// JSON arrays in the output contract are never null.
	skillsFound := nonNil(fs.SkillsFound)
	skillsMissing := nonNil(fs.SkillsMissing)

	r := &AnalysisRecord{
		ID:                     id,
		Timestamp:              time.Now().UTC(),
		ResumeFilename:         meta.ResumeFilename,
		JobDescriptionFilename: meta.JobDescriptionFilename,

		OverallScore: c.Overall,
		MatchLevel:   string(level),

		ScoringDetails: ScoringDetails{
			SkillsMatchScore:   c.Hard.SkillsScore,
			SkillsFound:        skillsFound,
			SkillsMissing:      skillsMissing,
			KeywordMatchScore:  c.Hard.KeywordsScore,
			SemanticSimilarity: fs.SemanticSimilarity,
			TotalWeightedScore: c.Overall,
		},
		HardMatching: SignalBreakdown{
			Score:         c.Hard.Score,
			Weight:        c.Weights.Hard,
			WeightedScore: c.Hard.Score * c.Weights.Hard,
			Details: map[string]float64{
				"skills_score":   c.Hard.SkillsScore,
				"keywords_score": c.Hard.KeywordsScore,
				"tfidf_score":    c.Hard.TFIDFScore,
				"bm25_score":     c.Hard.BM25Score,
			},
		},
		SoftMatching: SignalBreakdown{
			Score:         c.Soft.Score,
			Weight:        c.Weights.Soft,
			WeightedScore: c.Soft.Score * c.Weights.Soft,
			Details: map[string]float64{
				"semantic_similarity": fs.SemanticSimilarity,
			},
		},
		HiringRecommendation: HiringRecommendation{
			Decision:           string(rec.Decision),
			Confidence:         rec.Confidence,
			Reasoning:          rec.Reasoning,
			NextSteps:          nonNil(rec.NextSteps),
			RiskFactors:        nonNil(rec.RiskFactors),
			SuccessProbability: rec.SuccessProbability,
		},
		ExtractedInfo: ExtractedInfo{
			ResumeSkills:   skillsFound,
			JDRequirements: append(append([]string{}, skillsFound...), skillsMissing...),
		},
		Degraded: c.Degraded,
	}

	if c.Reasoning.OK() {
		score := c.Reasoning.Score
		r.ScoringDetails.ReasoningScore = &score
		r.ReasoningAnalysis = ReasoningAnalysis{
			Score:         &score,
			Weight:        c.Weights.Reasoning,
			WeightedScore: score * c.Weights.Reasoning,
			Reasoning:     c.Reasoning.Reasoning,
			Confidence:    c.Reasoning.Confidence,
			Verdict:       string(c.Reasoning.Verdict),
			Status:        string(c.Reasoning.Status),
		}
	} else {
		status := "UNAVAILABLE"
		reasoning := "reasoning signal unavailable"
		if c.Reasoning != nil {
			status = string(c.Reasoning.Status)
			if c.Reasoning.Reasoning != "" {
				reasoning = c.Reasoning.Reasoning
			}
		}
		r.ReasoningAnalysis = ReasoningAnalysis{
			Reasoning: reasoning,
			Verdict:   "UNCERTAIN",
			Status:    status,
		}
	}

	return r
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
