// Package leads is the service layer around lead intake: form validation,
// eligibility scoring on submission, AI analysis, and the CRM pipeline.
package leads

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gabrielmaialva33/jim-consultoria/internal/catalog"
	"github.com/gabrielmaialva33/jim-consultoria/internal/scoring"
)

const maxProjectDescription = 1000

var (
	phoneRe = regexp.MustCompile(`^\(\d{2}\) \d{4,5}-\d{4}$`)
	cnpjRe  = regexp.MustCompile(`^\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// FieldErrors maps a form field name to a user-facing message in
// Portuguese. It doubles as the validation error.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("formulário inválido: %s", strings.Join(fields, ", "))
}

var validOrgTypes = map[scoring.OrganizationType]bool{
	scoring.OrgIndividual: true, scoring.OrgMEI: true, scoring.OrgME: true,
	scoring.OrgEPP: true, scoring.OrgNGO: true, scoring.OrgCooperative: true,
	scoring.OrgFoundation: true,
}

var validCompanyAges = map[scoring.CompanyAge]bool{
	scoring.AgeLessThan6M: true, scoring.Age6MTo1Y: true,
	scoring.Age1YTo2Y: true, scoring.AgeMoreThan2Y: true,
}

var validAreas = map[scoring.CulturalArea]bool{
	scoring.AreaMusic: true, scoring.AreaTheater: true, scoring.AreaDance: true,
	scoring.AreaVisualArts: true, scoring.AreaCinema: true, scoring.AreaLiterature: true,
	scoring.AreaCircus: true, scoring.AreaHeritage: true, scoring.AreaOther: true,
}

// ValidateForm checks a submitted applicant profile. Optional fields are
// validated only when filled in; an empty string passes.
func ValidateForm(form scoring.Applicant) FieldErrors {
	errs := FieldErrors{}

	if utf8.RuneCountInString(strings.TrimSpace(form.Name)) < 2 {
		errs["name"] = "Nome deve ter pelo menos 2 caracteres"
	}
	if !emailRe.MatchString(form.Email) {
		errs["email"] = "E-mail inválido"
	}
	if form.Phone != "" && !phoneRe.MatchString(form.Phone) {
		errs["phone"] = "Telefone inválido. Use o formato (11) 99999-9999"
	}
	if !validOrgTypes[form.OrganizationType] {
		errs["organization_type"] = "Tipo de organização inválido"
	}
	if form.CompanyAge != "" && !validCompanyAges[form.CompanyAge] {
		errs["company_age"] = "Tempo de empresa inválido"
	}
	if form.TaxID != "" && !cnpjRe.MatchString(form.TaxID) {
		errs["tax_id"] = "CNPJ inválido. Use o formato 00.000.000/0000-00"
	}
	if form.StateCode != "" && utf8.RuneCountInString(form.StateCode) != 2 {
		errs["state_code"] = "Selecione um estado"
	}
	if len(form.CulturalAreas) == 0 {
		errs["cultural_areas"] = "Selecione pelo menos uma área cultural"
	} else {
		for _, area := range form.CulturalAreas {
			if !validAreas[area] {
				errs["cultural_areas"] = "Área cultural inválida"
				break
			}
		}
	}
	if len(form.InterestedGrants) == 0 {
		errs["interested_grants"] = "Selecione pelo menos um edital"
	} else {
		for _, id := range form.InterestedGrants {
			if _, ok := catalog.ByID(id); !ok {
				errs["interested_grants"] = "Edital inválido"
				break
			}
		}
	}
	if utf8.RuneCountInString(form.ProjectDescription) > maxProjectDescription {
		errs["project_description"] = "Descrição deve ter no máximo 1000 caracteres"
	}
	if form.EstimatedBudget < 0 {
		errs["estimated_budget"] = "Valor deve ser positivo"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
