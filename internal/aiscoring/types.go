package aiscoring

import "time"

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ProgramResult is the per-program entry of an AI eligibility analysis. It
// is a superset of the deterministic result shape: the qualitative fields
// (confidence, summary, recommendations, next steps) only exist here.
type ProgramResult struct {
	ProgramID          string     `json:"programId"`
	ProgramName        string     `json:"programName"`
	Score              int        `json:"score"`
	Eligible           bool       `json:"eligible"`
	Confidence         Confidence `json:"confidence"`
	Summary            string     `json:"summary"`
	MetRequirements    []string   `json:"metRequirements"`
	NotMetRequirements []string   `json:"notMetRequirements"`
	Recommendations    []string   `json:"recommendations"`
	NextSteps          []string   `json:"nextSteps"`
}

// Analysis is the full output of an AI (or fallback) eligibility run.
// Thinking carries the model's raw reasoning trace when the response
// included one; it is audit material only and never required for
// correctness.
type Analysis struct {
	LeadID                 string          `json:"leadId"`
	AnalyzedAt             time.Time       `json:"analyzedAt"`
	OverallScore           int             `json:"overallScore"`
	BestProgram            string          `json:"bestProgram,omitempty"`
	Programs               []ProgramResult `json:"programs"`
	GeneralRecommendations []string        `json:"generalRecommendations"`
	Thinking               string          `json:"aiThinking,omitempty"`
}
