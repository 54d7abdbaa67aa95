// Package catalog holds the fixed registry of cultural-grant programs and
// their prerequisites. The data changes only with a code release and is
// exposed as process-wide immutable configuration, never as user data.
package catalog

import "github.com/gabrielmaialva33/jim-consultoria/internal/scoring"

type ProgramType string

const (
	TypeTaxIncentive  ProgramType = "TAX_INCENTIVE"
	TypeDirectFunding ProgramType = "DIRECT_FUNDING"
)

const (
	ProgramProACICMS    = "proac_icms"
	ProgramProACEditais = "proac_editais"
	ProgramRouanet      = "rouanet"
	ProgramPNAB         = "pnab"
)

// ProgramRequirements is the machine-checkable portion of a program's
// prerequisites. Nil slices mean "no restriction"; an empty MinCompanyAge
// means none is specified (or it varies per call).
type ProgramRequirements struct {
	MinCompanyAge            scoring.CompanyAge         `json:"minCompanyAge,omitempty"`
	RequiresCulturalCNAE     bool                       `json:"requiresCulturalCNAE"`
	AllowedStates            []string                   `json:"allowedStates,omitempty"`
	AllowedOrganizationTypes []scoring.OrganizationType `json:"allowedOrganizationTypes,omitempty"`
	RequiresCNPJ             bool                       `json:"requiresCNPJ"`
	MinBudget                *float64                   `json:"minBudget,omitempty"`
	MaxBudget                *float64                   `json:"maxBudget,omitempty"`
}

type Program struct {
	ID                   string              `json:"id"`
	Name                 string              `json:"name"`
	Agency               string              `json:"agency"`
	Type                 ProgramType         `json:"type"`
	Description          string              `json:"description"`
	DetailedRequirements []string            `json:"detailedRequirements"`
	Advantages           []string            `json:"advantages"`
	Requirements         ProgramRequirements `json:"requirements"`
	OfficialURL          string              `json:"officialUrl"`
}

var programOrder = []string{ProgramProACICMS, ProgramProACEditais, ProgramRouanet, ProgramPNAB}

var programs = map[string]Program{
	ProgramProACICMS: {
		ID:          ProgramProACICMS,
		Name:        "ProAC ICMS",
		Agency:      "Secretaria de Cultura SP",
		Type:        TypeTaxIncentive,
		Description: "Incentivo fiscal via ICMS para projetos culturais. Empresas patrocinadoras podem destinar até 3% do ICMS devido.",
		DetailedRequirements: []string{
			"Pessoa jurídica com CNPJ ativo há pelo menos 2 anos",
			"Sede no Estado de São Paulo",
			"CNAE cultural (atividade econômica principal ou secundária)",
			"Regularidade fiscal (certidões negativas)",
			"Projeto cultural com contrapartida social definida",
			"Captação junto a empresas contribuintes de ICMS em SP",
		},
		Advantages: []string{
			"Sem limite de valor por projeto",
			"Fluxo contínuo (inscrições durante todo o ano)",
			"Maior programa de incentivo fiscal cultural do Brasil",
		},
		Requirements: ProgramRequirements{
			MinCompanyAge:        scoring.AgeMoreThan2Y,
			RequiresCulturalCNAE: true,
			AllowedStates:        []string{"SP"},
			AllowedOrganizationTypes: []scoring.OrganizationType{
				scoring.OrgME, scoring.OrgEPP, scoring.OrgNGO, scoring.OrgCooperative, scoring.OrgFoundation,
			},
			RequiresCNPJ: true,
		},
		OfficialURL: "https://fomentocultsp.sp.gov.br",
	},
	ProgramProACEditais: {
		ID:          ProgramProACEditais,
		Name:        "ProAC Editais",
		Agency:      "Secretaria de Cultura SP",
		Type:        TypeDirectFunding,
		Description: "Fomento direto via editais públicos. Recursos não-reembolsáveis para projetos culturais selecionados.",
		DetailedRequirements: []string{
			"Pessoa física ou jurídica com atuação cultural comprovada",
			"Residência ou sede no Estado de São Paulo",
			"Histórico de trabalhos culturais realizados",
			"Projeto dentro das categorias do edital específico",
			"Cumprimento de cotas de acessibilidade e inclusão",
		},
		Advantages: []string{
			"Aceita pessoa física (CPF)",
			"Vários editais temáticos ao longo do ano",
			"Contempla artistas iniciantes e veteranos",
		},
		Requirements: ProgramRequirements{
			MinCompanyAge:        scoring.Age1YTo2Y,
			RequiresCulturalCNAE: true,
			AllowedStates:        []string{"SP"},
			AllowedOrganizationTypes: []scoring.OrganizationType{
				scoring.OrgIndividual, scoring.OrgMEI, scoring.OrgME, scoring.OrgEPP,
				scoring.OrgNGO, scoring.OrgCooperative, scoring.OrgFoundation,
			},
			MaxBudget: budget(300000),
		},
		OfficialURL: "https://fomentocultsp.sp.gov.br",
	},
	ProgramRouanet: {
		ID:          ProgramRouanet,
		Name:        "Lei Rouanet",
		Agency:      "Ministério da Cultura",
		Type:        TypeTaxIncentive,
		Description: "Incentivo fiscal federal. Empresas podem deduzir do IR valores destinados a projetos culturais aprovados.",
		DetailedRequirements: []string{
			"Cadastro ativo no sistema SALIC",
			"CNPJ ativo com atividade cultural",
			"Certidões negativas de débitos federais",
			"Projeto com plano de distribuição/democratização",
			"Previsão de contrapartida social obrigatória",
			"Orçamento detalhado dentro dos limites do programa",
		},
		Advantages: []string{
			"Alcance nacional para captação",
			"Até R$ 10 milhões por projeto",
			"Aceita projetos de qualquer estado brasileiro",
		},
		Requirements: ProgramRequirements{
			MinCompanyAge:        scoring.Age6MTo1Y,
			RequiresCulturalCNAE: true,
			AllowedOrganizationTypes: []scoring.OrganizationType{
				scoring.OrgME, scoring.OrgEPP, scoring.OrgNGO, scoring.OrgCooperative, scoring.OrgFoundation,
			},
			RequiresCNPJ: true,
			MaxBudget:    budget(10000000),
		},
		OfficialURL: "https://salic.cultura.gov.br",
	},
	ProgramPNAB: {
		ID:          ProgramPNAB,
		Name:        "PNAB (Aldir Blanc)",
		Agency:      "Secretaria de Cultura SP / MinC",
		Type:        TypeDirectFunding,
		Description: "Política Nacional Aldir Blanc. Fomento direto descentralizado para agentes culturais.",
		DetailedRequirements: []string{
			"Atuação cultural comprovada (mínimo 2 anos recomendado)",
			"Cadastro no sistema estadual/municipal de cultura",
			"Atendimento às cotas de inclusão do edital",
			"Projeto dentro das linhas temáticas do edital específico",
			"Comprovação de trajetória artística/cultural",
		},
		Advantages: []string{
			"Aceita CPF e MEI",
			"Foco em inclusão e diversidade",
			"Editais regionais e temáticos",
			"Recursos do governo federal via estados/municípios",
		},
		Requirements: ProgramRequirements{
			AllowedOrganizationTypes: []scoring.OrganizationType{
				scoring.OrgIndividual, scoring.OrgMEI, scoring.OrgME, scoring.OrgEPP,
				scoring.OrgNGO, scoring.OrgCooperative, scoring.OrgFoundation,
			},
		},
		OfficialURL: "https://www.cultura.sp.gov.br",
	},
}

// All returns the programs in their fixed catalog order.
func All() []Program {
	out := make([]Program, 0, len(programOrder))
	for _, id := range programOrder {
		out = append(out, programs[id])
	}
	return out
}

func ByID(id string) (Program, bool) {
	p, ok := programs[id]
	return p, ok
}

// IDs returns the catalog order; useful for prompts and stable iteration.
func IDs() []string {
	out := make([]string, len(programOrder))
	copy(out, programOrder)
	return out
}

func budget(v float64) *float64 { return &v }

// scoringCriteria is the structured requirements block handed to the
// deterministic scorer, keyed by program id. PNAB and the ProAC open
// calls vary per edital, so their blocks stay mostly empty.
var scoringCriteria = map[string]scoring.ScoringCriteria{
	ProgramProACICMS: {
		MinCompanyAge:        scoring.AgeMoreThan2Y,
		RequiresCulturalCNAE: true,
		State:                "SP",
	},
	ProgramProACEditais: {
		MinCompanyAge:          scoring.Age1YTo2Y,
		State:                  "SP",
		VariesBySpecificEdital: true,
	},
	ProgramRouanet: {
		MinCompanyAge: scoring.Age6MTo1Y,
		RequiresSalic: true,
	},
	ProgramPNAB: {
		VariesBySpecificEdital: true,
	},
}

// Grants projects the catalog into grant records for seeding the store
// and for deterministic scoring.
func Grants() []scoring.Grant {
	out := make([]scoring.Grant, 0, len(programOrder))
	for _, id := range programOrder {
		p := programs[id]
		criteria := scoringCriteria[id]
		out = append(out, scoring.Grant{
			ID:           p.ID,
			Name:         p.Name,
			Requirements: &criteria,
			Active:       true,
		})
	}
	return out
}
