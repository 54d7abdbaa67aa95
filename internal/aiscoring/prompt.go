package aiscoring

import (
	"fmt"
	"strings"

	"github.com/gabrielmaialva33/jim-consultoria/internal/catalog"
	"github.com/gabrielmaialva33/jim-consultoria/internal/scoring"
)

// The prompt is fully self-contained: it embeds both the applicant profile
// and the complete program catalog so the model needs no external knowledge.

var orgTypeLabels = map[scoring.OrganizationType]string{
	scoring.OrgIndividual:  "Pessoa Física (CPF)",
	scoring.OrgMEI:         "Microempreendedor Individual",
	scoring.OrgME:          "Microempresa",
	scoring.OrgEPP:         "Empresa de Pequeno Porte",
	scoring.OrgNGO:         "ONG / Associação",
	scoring.OrgCooperative: "Cooperativa",
	scoring.OrgFoundation:  "Fundação",
}

var companyAgeLabels = map[scoring.CompanyAge]string{
	scoring.AgeLessThan6M: "Menos de 6 meses",
	scoring.Age6MTo1Y:     "Entre 6 meses e 1 ano",
	scoring.Age1YTo2Y:     "Entre 1 e 2 anos",
	scoring.AgeMoreThan2Y: "Mais de 2 anos",
}

var culturalAreaLabels = map[scoring.CulturalArea]string{
	scoring.AreaMusic:      "Música",
	scoring.AreaTheater:    "Teatro",
	scoring.AreaDance:      "Dança",
	scoring.AreaVisualArts: "Artes Visuais",
	scoring.AreaCinema:     "Cinema/Audiovisual",
	scoring.AreaLiterature: "Literatura",
	scoring.AreaCircus:     "Circo",
	scoring.AreaHeritage:   "Patrimônio Cultural",
	scoring.AreaOther:      "Outros",
}

func buildPrompt(applicant scoring.Applicant) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analise a elegibilidade do seguinte proponente cultural para os programas de fomento disponíveis.\n\n")
	b.WriteString(formatApplicant(applicant))
	b.WriteString("\n\n---\n\n# Programas Disponíveis\n\n")
	b.WriteString(formatPrograms())
	b.WriteString("\n---\n\n")
	b.WriteString(responseInstructions)
	return b.String()
}

func formatApplicant(a scoring.Applicant) string {
	var b strings.Builder
	b.WriteString("## Dados do Proponente\n\n")
	fmt.Fprintf(&b, "**Nome:** %s\n", a.Name)
	fmt.Fprintf(&b, "**Tipo de Organização:** %s\n", labelOr(orgTypeLabels[a.OrganizationType], string(a.OrganizationType)))
	fmt.Fprintf(&b, "**Tempo de Empresa:** %s\n", labelOr(companyAgeLabels[a.CompanyAge], "Não informado"))
	fmt.Fprintf(&b, "**Estado:** %s\n", labelOr(a.StateCode, "Não informado"))
	fmt.Fprintf(&b, "**Cidade:** %s\n", labelOr(a.City, "Não informada"))
	fmt.Fprintf(&b, "**CNPJ/CPF:** %s\n\n", labelOr(a.TaxID, "Não informado"))

	areas := make([]string, 0, len(a.CulturalAreas))
	for _, area := range a.CulturalAreas {
		areas = append(areas, labelOr(culturalAreaLabels[area], string(area)))
	}
	fmt.Fprintf(&b, "**Áreas Culturais:** %s\n\n", labelOr(strings.Join(areas, ", "), "Não informadas"))
	fmt.Fprintf(&b, "**Descrição do Projeto:** %s\n\n", labelOr(a.ProjectDescription, "Não informada"))
	if a.EstimatedBudget > 0 {
		fmt.Fprintf(&b, "**Orçamento Estimado:** R$ %.2f\n\n", a.EstimatedBudget)
	} else {
		b.WriteString("**Orçamento Estimado:** Não informado\n\n")
	}
	fmt.Fprintf(&b, "**Editais de Interesse:** %s", labelOr(strings.Join(a.InterestedGrants, ", "), "Não informados"))
	return b.String()
}

func formatPrograms() string {
	var blocks []string
	for _, p := range catalog.All() {
		var b strings.Builder
		fmt.Fprintf(&b, "### %s\n", p.Name)
		fmt.Fprintf(&b, "**Tipo:** %s\n", programTypeLabel(p.Type))
		fmt.Fprintf(&b, "**Órgão:** %s\n", p.Agency)
		fmt.Fprintf(&b, "**Descrição:** %s\n\n", p.Description)
		b.WriteString("**Requisitos Principais:**\n")
		for _, r := range p.DetailedRequirements {
			fmt.Fprintf(&b, "- %s\n", r)
		}
		b.WriteString("\n**Vantagens:**\n")
		for _, a := range p.Advantages {
			fmt.Fprintf(&b, "- %s\n", a)
		}
		b.WriteString("\n**Restrições Técnicas:**\n")
		fmt.Fprintf(&b, "- Tempo mínimo de empresa: %s\n", minAgeLabel(p.Requirements.MinCompanyAge))
		fmt.Fprintf(&b, "- Requer CNAE cultural: %s\n", simNao(p.Requirements.RequiresCulturalCNAE))
		fmt.Fprintf(&b, "- Estados permitidos: %s\n", statesLabel(p.Requirements.AllowedStates))
		fmt.Fprintf(&b, "- Tipos de organização: %s\n", orgTypesLabel(p.Requirements.AllowedOrganizationTypes))
		if p.Requirements.RequiresCNPJ {
			b.WriteString("- Requer CNPJ: Sim\n")
		} else {
			b.WriteString("- Requer CNPJ: Não (aceita CPF)\n")
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n---\n")
}

const responseInstructions = `# Instruções de Resposta

Responda em JSON com a seguinte estrutura:

{
  "programs": [
    {
      "programId": "proac_icms",
      "score": 85,
      "eligible": true,
      "confidence": "high",
      "summary": "Resumo de 1-2 frases sobre a elegibilidade",
      "metRequirements": ["requisito atendido 1", "requisito atendido 2"],
      "notMetRequirements": ["requisito não atendido"],
      "recommendations": ["recomendação para melhorar elegibilidade"],
      "nextSteps": ["próximo passo 1", "próximo passo 2"]
    }
  ],
  "bestProgram": "proac_icms",
  "generalRecommendations": ["recomendação geral 1", "recomendação geral 2"]
}

Analise todos os 4 programas: proac_icms, proac_editais, rouanet, pnab.

Para cada programa:
- score: 0-100, considerando todos os requisitos
- eligible: true se score >= 60 e nenhum requisito eliminatório falhar
- confidence: "high" se tiver todos os dados, "medium" se faltar algum, "low" se faltar dados críticos
- Seja específico nas recomendações baseado nos dados fornecidos`

func programTypeLabel(t catalog.ProgramType) string {
	if t == catalog.TypeTaxIncentive {
		return "Incentivo Fiscal"
	}
	return "Fomento Direto"
}

func minAgeLabel(a scoring.CompanyAge) string {
	if a == "" {
		return "Não especificado"
	}
	return string(a)
}

func statesLabel(states []string) string {
	if len(states) == 0 {
		return "Todos"
	}
	return strings.Join(states, ", ")
}

func orgTypesLabel(types []scoring.OrganizationType) string {
	if len(types) == 0 {
		return "Todos"
	}
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return strings.Join(out, ", ")
}

func simNao(v bool) string {
	if v {
		return "Sim"
	}
	return "Não"
}

func labelOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
