package leads

import (
	"strings"
	"testing"

	"github.com/gabrielmaialva33/jim-consultoria/internal/scoring"
)

func validForm() scoring.Applicant {
	return scoring.Applicant{
		Name:             "Produtora Gama",
		Email:            "gama@example.com",
		Phone:            "(11) 99999-9999",
		OrganizationType: scoring.OrgMEI,
		CompanyAge:       scoring.Age1YTo2Y,
		TaxID:            "12.345.678/0001-90",
		StateCode:        "SP",
		City:             "Campinas",
		CulturalAreas:    []scoring.CulturalArea{scoring.AreaDance},
		InterestedGrants: []string{"pnab"},
	}
}

func TestValidateFormAccepts(t *testing.T) {
	if errs := ValidateForm(validForm()); errs != nil {
		t.Fatalf("expected valid, got %v", errs)
	}
}

func TestValidateFormOptionalFieldsMayBeEmpty(t *testing.T) {
	form := validForm()
	form.Phone = ""
	form.TaxID = ""
	form.StateCode = ""
	form.City = ""
	form.CompanyAge = ""
	if errs := ValidateForm(form); errs != nil {
		t.Fatalf("expected valid, got %v", errs)
	}
}

func TestValidateFormRejections(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*scoring.Applicant)
		field  string
	}{
		{"short name", func(f *scoring.Applicant) { f.Name = "A" }, "name"},
		{"bad email", func(f *scoring.Applicant) { f.Email = "not-an-email" }, "email"},
		{"bad phone", func(f *scoring.Applicant) { f.Phone = "11999999999" }, "phone"},
		{"bad org type", func(f *scoring.Applicant) { f.OrganizationType = "LTDA" }, "organization_type"},
		{"bad company age", func(f *scoring.Applicant) { f.CompanyAge = "ANCIENT" }, "company_age"},
		{"bad cnpj", func(f *scoring.Applicant) { f.TaxID = "12345678000190" }, "tax_id"},
		{"bad state", func(f *scoring.Applicant) { f.StateCode = "SPO" }, "state_code"},
		{"no areas", func(f *scoring.Applicant) { f.CulturalAreas = nil }, "cultural_areas"},
		{"bad area", func(f *scoring.Applicant) { f.CulturalAreas = []scoring.CulturalArea{"GAMING"} }, "cultural_areas"},
		{"no grants", func(f *scoring.Applicant) { f.InterestedGrants = nil }, "interested_grants"},
		{"unknown grant", func(f *scoring.Applicant) { f.InterestedGrants = []string{"edital_x"} }, "interested_grants"},
		{"long description", func(f *scoring.Applicant) { f.ProjectDescription = strings.Repeat("a", 1001) }, "project_description"},
		{"negative budget", func(f *scoring.Applicant) { f.EstimatedBudget = -1 }, "estimated_budget"},
	} {
		form := validForm()
		tc.mutate(&form)
		errs := ValidateForm(form)
		if errs == nil {
			t.Fatalf("%s: expected rejection", tc.name)
		}
		if _, ok := errs[tc.field]; !ok {
			t.Fatalf("%s: expected error on %q, got %v", tc.name, tc.field, errs)
		}
	}
}

func TestValidateFormDescriptionBoundary(t *testing.T) {
	form := validForm()
	form.ProjectDescription = strings.Repeat("a", 1000)
	if errs := ValidateForm(form); errs != nil {
		t.Fatalf("1000 characters must pass, got %v", errs)
	}
}

func TestFieldErrorsMessage(t *testing.T) {
	errs := FieldErrors{"email": "E-mail inválido", "name": "Nome deve ter pelo menos 2 caracteres"}
	msg := errs.Error()
	if !strings.Contains(msg, "email") || !strings.Contains(msg, "name") {
		t.Fatalf("unexpected message: %q", msg)
	}
}
