package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// Score weights for the rule-based scorer. A grant that states no
// requirement for a criterion earns the partial award, never zero.
const (
	interestBonus      = 20
	ageMetPoints       = 25
	agePartialPoints   = 10
	stateMetPoints     = 25
	statePartialPoints = 15
	orgPJPoints        = 15
	orgPFPoints        = 5
	areasPoints        = 15
	variableCap        = 70
	eligibleThreshold  = 50
)

// CalculateEligibility scores an applicant against every grant and returns
// the results sorted by score descending (input order preserved on ties).
// It is pure and total: missing fields read as "no information", never as a
// failure.
func CalculateEligibility(applicant Applicant, grants []Grant) []EligibilityResult {
	results := make([]EligibilityResult, 0, len(grants))

	for _, grant := range grants {
		reqs := grant.Requirements
		score := 0
		var reasons, met, notMet []string

		if interestedIn(applicant.InterestedGrants, grant) {
			score += interestBonus
			reasons = append(reasons, "Lead expressou interesse neste edital")
		}

		if reqs != nil && reqs.MinCompanyAge != "" {
			if MeetsMinimumAge(applicant.CompanyAge, reqs.MinCompanyAge) {
				score += ageMetPoints
				met = append(met, fmt.Sprintf("Tempo de CNPJ atende ao mínimo (%s)", reqs.MinCompanyAge))
			} else {
				notMet = append(notMet, fmt.Sprintf("Tempo de CNPJ insuficiente (requer %s)", reqs.MinCompanyAge))
			}
		} else {
			score += agePartialPoints
		}

		if reqs != nil && reqs.State != "" {
			if applicant.StateCode == reqs.State {
				score += stateMetPoints
				met = append(met, fmt.Sprintf("Localização em %s", reqs.State))
			} else {
				notMet = append(notMet, fmt.Sprintf("Requer localização em %s", reqs.State))
			}
		} else {
			score += statePartialPoints
			met = append(met, "Edital nacional (sem restrição de estado)")
		}

		if applicant.OrganizationType != "" {
			if applicant.OrganizationType != OrgIndividual {
				score += orgPJPoints
				met = append(met, "Pessoa Jurídica (elegível para maiores valores)")
			} else {
				score += orgPFPoints
				met = append(met, "Pessoa Física (valores limitados)")
			}
		}

		if len(applicant.CulturalAreas) > 0 {
			score += areasPoints
			met = append(met, fmt.Sprintf("Áreas culturais definidas: %d", len(applicant.CulturalAreas)))
		} else {
			notMet = append(notMet, "Nenhuma área cultural especificada")
		}

		// Advisory flags carry no points.
		if reqs != nil && reqs.RequiresCulturalCNAE {
			reasons = append(reasons, "Requer CNAE cultural (verificar manualmente)")
		}
		if reqs != nil && reqs.RequiresSalic {
			reasons = append(reasons, "Requer cadastro no SALIC")
		}

		if reqs != nil && reqs.VariesBySpecificEdital {
			if score > variableCap {
				score = variableCap
			}
			reasons = append(reasons, "Requisitos variam por edital específico")
		}

		score = clampScore(score)

		results = append(results, EligibilityResult{
			GrantID:      grant.ID,
			GrantName:    grant.Name,
			Score:        score,
			Eligible:     score >= eligibleThreshold && len(notMet) == 0,
			Reasons:      reasons,
			Requirements: RequirementChecks{Met: met, NotMet: notMet},
		})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results
}

// interestedIn matches the applicant's declared grant identifiers against
// the grant id and the grant name lowercased with whitespace runs
// collapsed to underscores ("ProAC ICMS" -> "proac_icms"). Matching the
// id covers grants whose display name normalizes differently, like
// "Lei Rouanet" under the id "rouanet".
func interestedIn(interested []string, grant Grant) bool {
	normalized := NormalizeGrantName(grant.Name)
	for _, id := range interested {
		if id == grant.ID || id == normalized {
			return true
		}
	}
	return false
}

func NormalizeGrantName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
