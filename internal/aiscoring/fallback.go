package aiscoring

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gabrielmaialva33/jim-consultoria/internal/catalog"
	"github.com/gabrielmaialva33/jim-consultoria/internal/scoring"
)

// Hard disqualifiers: a not-met note containing one of these phrases blocks
// eligibility outright, unlike the soft deductions.
var disqualifierPhrases = []string{"não é elegível", "não é aceito"}

// defaultStateCode is used when the applicant has no state on file; SP is
// the product's primary market.
const defaultStateCode = "SP"

const (
	fallbackBase          = 50
	fallbackEligibleFloor = 60
)

// FallbackAnalysis produces a deterministic Analysis in the same shape the
// AI path returns, so callers are agnostic to which path ran. Confidence is
// always low to signal degraded quality downstream.
func FallbackAnalysis(applicant scoring.Applicant, analyzedAt time.Time) Analysis {
	all := catalog.All()
	programs := make([]ProgramResult, 0, len(all))
	sum := 0

	for _, program := range all {
		programs = append(programs, fallbackProgram(applicant, program))
		sum += programs[len(programs)-1].Score
	}

	overall := 0
	if len(programs) > 0 {
		overall = int(math.Round(float64(sum) / float64(len(programs))))
	}

	best := ""
	bestScore := -1
	for _, p := range programs {
		if p.Score > bestScore {
			best = p.ProgramID
			bestScore = p.Score
		}
	}

	return Analysis{
		LeadID:       applicant.ID,
		AnalyzedAt:   analyzedAt,
		OverallScore: overall,
		BestProgram:  best,
		Programs:     programs,
		GeneralRecommendations: []string{
			"Complete todos os dados do seu perfil para uma análise mais precisa",
			"A análise com IA está temporariamente indisponível",
		},
	}
}

func fallbackProgram(applicant scoring.Applicant, program catalog.Program) ProgramResult {
	reqs := program.Requirements
	score := fallbackBase
	var met, notMet []string

	if orgTypeAllowed(reqs.AllowedOrganizationTypes, applicant.OrganizationType) {
		met = append(met, fmt.Sprintf("Tipo de organização %s é aceito", applicant.OrganizationType))
		score += 10
	} else if reqs.AllowedOrganizationTypes != nil {
		notMet = append(notMet, fmt.Sprintf("Tipo de organização %s não é aceito neste programa", applicant.OrganizationType))
		score -= 20
	}

	stateCode := applicant.StateCode
	if stateCode == "" {
		stateCode = defaultStateCode
	}
	if reqs.AllowedStates == nil || containsState(reqs.AllowedStates, stateCode) {
		met = append(met, fmt.Sprintf("Estado %s é elegível", stateCode))
		score += 10
	} else {
		notMet = append(notMet, fmt.Sprintf("Estado %s não é elegível (apenas %s)", stateCode, strings.Join(reqs.AllowedStates, ", ")))
		score -= 30
	}

	if reqs.MinCompanyAge != "" && applicant.CompanyAge != "" {
		if scoring.MeetsMinimumAge(applicant.CompanyAge, reqs.MinCompanyAge) {
			met = append(met, "Tempo de empresa atende ao requisito mínimo")
			score += 15
		} else {
			notMet = append(notMet, fmt.Sprintf("Tempo de empresa insuficiente (mínimo: %s)", reqs.MinCompanyAge))
			score -= 25
		}
	}

	if reqs.RequiresCNPJ && applicant.TaxID == "" {
		notMet = append(notMet, "CNPJ é obrigatório mas não foi informado")
		score -= 10
	} else if applicant.TaxID != "" {
		met = append(met, "CNPJ/CPF informado")
		score += 5
	}

	if len(applicant.CulturalAreas) > 0 {
		areas := make([]string, len(applicant.CulturalAreas))
		for i, a := range applicant.CulturalAreas {
			areas[i] = string(a)
		}
		met = append(met, fmt.Sprintf("Áreas culturais definidas: %s", strings.Join(areas, ", ")))
		score += 10
	} else {
		notMet = append(notMet, "Áreas culturais não informadas")
		score -= 5
	}

	score = clampInt(score)

	return ProgramResult{
		ProgramID:          program.ID,
		ProgramName:        program.Name,
		Score:              score,
		Eligible:           score >= fallbackEligibleFloor && !hasDisqualifier(notMet),
		Confidence:         ConfidenceLow,
		Summary:            fmt.Sprintf("Análise básica sem IA. Score: %d/100.", score),
		MetRequirements:    emptyIfNil(met),
		NotMetRequirements: emptyIfNil(notMet),
		Recommendations:    []string{"Complete seu perfil para uma análise mais precisa"},
		NextSteps:          []string{"Aguarde análise completa com IA"},
	}
}

func hasDisqualifier(notes []string) bool {
	for _, note := range notes {
		for _, phrase := range disqualifierPhrases {
			if strings.Contains(note, phrase) {
				return true
			}
		}
	}
	return false
}

func orgTypeAllowed(allowed []scoring.OrganizationType, v scoring.OrganizationType) bool {
	for _, t := range allowed {
		if t == v {
			return true
		}
	}
	return false
}

func containsState(states []string, state string) bool {
	for _, s := range states {
		if s == state {
			return true
		}
	}
	return false
}
