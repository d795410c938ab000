// Package record fixes the external shape of a completed analysis. The JSON
// field names here are a durable contract with persistence and UI consumers;
// renaming a field is a breaking change.
package record

import (
	"time"
)

// ScoringDetails summarizes the per-signal scores for consumers that do not
// need the full component breakdown.
type ScoringDetails struct {
	SkillsMatchScore   float64  `json:"skills_match_score"`
	SkillsFound        []string `json:"skills_found"`
	SkillsMissing      []string `json:"skills_missing"`
	KeywordMatchScore  float64  `json:"keyword_match_score"`
	SemanticSimilarity float64  `json:"semantic_similarity"`
	ReasoningScore     *float64 `json:"reasoning_score"`
	TotalWeightedScore float64  `json:"total_weighted_score"`
}

// SignalBreakdown reports one signal's raw score, the weight applied to it,
// and the resulting contribution to the overall score.
type SignalBreakdown struct {
	Score         float64            `json:"score"`
	Weight        float64            `json:"weight"`
	WeightedScore float64            `json:"weighted_score"`
	Details       map[string]float64 `json:"details"`
}

// ReasoningAnalysis is the reasoning signal's breakdown plus the verdict the
// model returned. Score is null when the signal was unavailable.
type ReasoningAnalysis struct {
	Score         *float64 `json:"score"`
	Weight        float64  `json:"weight"`
	WeightedScore float64  `json:"weighted_score"`
	Reasoning     string   `json:"reasoning"`
	Confidence    float64  `json:"confidence"`
	Verdict       string   `json:"verdict"`
	Status        string   `json:"status"`
}

// HiringRecommendation is the final advice attached to the record.
type HiringRecommendation struct {
	Decision           string   `json:"decision"`
	Confidence         float64  `json:"confidence"`
	Reasoning          string   `json:"reasoning"`
	NextSteps          []string `json:"next_steps"`
	RiskFactors        []string `json:"risk_factors"`
	SuccessProbability float64  `json:"success_probability"`
}

// ExtractedInfo echoes the inputs the scores were computed from.
type ExtractedInfo struct {
	ResumeSkills   []string `json:"resume_skills"`
	JDRequirements []string `json:"jd_requirements"`
}

// AnalysisRecord is the aggregate result of one analysis. Immutable after
// the builder assembles it.
type AnalysisRecord struct {
	ID                     string    `json:"id"`
	Timestamp              time.Time `json:"timestamp"`
	ResumeFilename         string    `json:"resume_filename"`
	JobDescriptionFilename string    `json:"job_description_filename"`

	OverallScore float64 `json:"overall_score"`
	MatchLevel   string  `json:"match_level"`

	ScoringDetails       ScoringDetails       `json:"scoring_details"`
	HardMatching         SignalBreakdown      `json:"hard_matching"`
	SoftMatching         SignalBreakdown      `json:"soft_matching"`
	ReasoningAnalysis    ReasoningAnalysis    `json:"reasoning_analysis"`
	HiringRecommendation HiringRecommendation `json:"hiring_recommendation"`
	ExtractedInfo        ExtractedInfo        `json:"extracted_info"`

	Degraded bool `json:"degraded"`
}
