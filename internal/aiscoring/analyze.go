package aiscoring

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/gabrielmaialva33/jim-consultoria/internal/catalog"
	"github.com/gabrielmaialva33/jim-consultoria/internal/scoring"
)

const requestTimeout = 90 * time.Second

// Analyzer runs the AI-assisted eligibility analysis. Analyze never returns
// an error: any failure of the external call or of response parsing routes
// to the deterministic fallback, so callers always get a usable Analysis.
type Analyzer struct {
	caller LLMCaller
	now    func() time.Time
}

func NewAnalyzer(caller LLMCaller) *Analyzer {
	return &Analyzer{caller: caller, now: time.Now}
}

func (a *Analyzer) Analyze(ctx context.Context, applicant scoring.Applicant) Analysis {
	if a.caller == nil {
		return FallbackAnalysis(applicant, a.now())
	}

	callCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	raw, err := a.caller.GenerateJSON(callCtx, buildPrompt(applicant))
	if err != nil {
		log.Printf("ai eligibility call failed for lead %s: %v", applicant.ID, err)
		return FallbackAnalysis(applicant, a.now())
	}

	parsed, thinking, err := parseResponse(raw)
	if err != nil {
		log.Printf("ai eligibility response unusable for lead %s: %v", applicant.ID, err)
		return FallbackAnalysis(applicant, a.now())
	}

	return a.normalize(applicant, parsed, thinking)
}

// normalize coerces every model-provided field into the internal shape:
// scores clamped to [0,100], missing confidence defaulted to medium, absent
// arrays defaulted to empty, program names resolved from the catalog rather
// than trusted from the model. The overall score is recomputed here; the
// best-program pick is taken from the model as long as it names a known
// program, since "best" may encode qualitative judgment a plain max would
// miss.
func (a *Analyzer) normalize(applicant scoring.Applicant, parsed parsedAnalysis, thinking string) Analysis {
	programs := make([]ProgramResult, 0, len(parsed.Programs))
	sum := 0
	for _, p := range parsed.Programs {
		name := p.ProgramID
		if prog, ok := catalog.ByID(p.ProgramID); ok {
			name = prog.Name
		}
		score := clampInt(int(math.Round(p.Score)))
		sum += score
		programs = append(programs, ProgramResult{
			ProgramID:          p.ProgramID,
			ProgramName:        name,
			Score:              score,
			Eligible:           p.Eligible,
			Confidence:         coerceConfidence(p.Confidence),
			Summary:            p.Summary,
			MetRequirements:    emptyIfNil(p.MetRequirements),
			NotMetRequirements: emptyIfNil(p.NotMetRequirements),
			Recommendations:    emptyIfNil(p.Recommendations),
			NextSteps:          emptyIfNil(p.NextSteps),
		})
	}

	overall := 0
	if len(programs) > 0 {
		overall = int(math.Round(float64(sum) / float64(len(programs))))
	}

	best := ""
	if _, ok := catalog.ByID(parsed.BestProgram); ok {
		best = parsed.BestProgram
	}

	return Analysis{
		LeadID:                 applicant.ID,
		AnalyzedAt:             a.now(),
		OverallScore:           overall,
		BestProgram:            best,
		Programs:               programs,
		GeneralRecommendations: emptyIfNil(parsed.GeneralRecommendations),
		Thinking:               thinking,
	}
}

func coerceConfidence(v string) Confidence {
	switch Confidence(v) {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return Confidence(v)
	default:
		return ConfidenceMedium
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func clampInt(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
