// Package reasoning wraps the external reasoning-model service behind an
// adapter that never fails: every outcome, including timeout and outage, is
// expressed as a Verdict status so callers branch on data.
package reasoning

// Status describes how a verdict was obtained.
type Status string

const (
	StatusOK          Status = "OK"
	StatusUnavailable Status = "UNAVAILABLE"
	StatusTimeout     Status = "TIMEOUT"
)

// Label is the model's hiring stance.
type Label string

const (
	LabelHire      Label = "HIRE"
	LabelNoHire    Label = "NO_HIRE"
	LabelUncertain Label = "UNCERTAIN"
)

// Verdict is the normalized output of one reasoning-model evaluation.
// When Status is not OK, Score and Confidence are zero and Verdict is
// UNCERTAIN; consumers must check Status (or OK) before trusting Score.
type Verdict struct {
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
	Verdict    Label   `json:"verdict"`
	Reasoning  string  `json:"reasoning"`
	Status     Status  `json:"status"`
}

// OK reports whether the verdict came from a successful evaluation.
func (v *Verdict) OK() bool {
	return v != nil && v.Status == StatusOK
}

// Unavailable returns the verdict used when the service could not answer.
func Unavailable(reason string) *Verdict {
	return &Verdict{
		Verdict:   LabelUncertain,
		Reasoning: reason,
		Status:    StatusUnavailable,
	}
}

// TimedOut returns the verdict used when the call exceeded its budget.
func TimedOut() *Verdict {
	return &Verdict{
		Verdict:   LabelUncertain,
		Reasoning: "reasoning service did not answer within the time budget",
		Status:    StatusTimeout,
	}
}
