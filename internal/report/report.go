// Package report renders a lead's eligibility analysis as Markdown, as a
// styled HTML document, and as a PDF printed through headless Chromium.
package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gabrielmaialva33/jim-consultoria/internal/aiscoring"
	"github.com/gabrielmaialva33/jim-consultoria/internal/catalog"
	"github.com/gabrielmaialva33/jim-consultoria/internal/leadstore"
)

const disclaimer = "Este relatório é uma análise preliminar automatizada e não substitui a " +
	"avaliação de um consultor. A elegibilidade final depende do edital específico e da " +
	"documentação do proponente."

func BuildMarkdown(lead leadstore.Lead, analysis aiscoring.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Relatório de Elegibilidade Cultural\n\n")
	fmt.Fprintf(&b, "- Proponente: %s\n", lead.Name)
	if lead.City != "" || lead.StateCode != "" {
		fmt.Fprintf(&b, "- Localização: %s\n", joinLocation(lead.City, lead.StateCode))
	}
	fmt.Fprintf(&b, "- Data da análise: %s\n\n", analysis.AnalyzedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "%s\n\n", disclaimer)

	fmt.Fprintf(&b, "## Resumo\n\n")
	fmt.Fprintf(&b, "Score geral de elegibilidade: **%d/100**.\n", analysis.OverallScore)
	if analysis.BestProgram != "" {
		if p, ok := catalog.ByID(analysis.BestProgram); ok {
			fmt.Fprintf(&b, "Programa mais promissor: **%s**.\n", p.Name)
		}
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Análise por Programa\n\n")
	for _, p := range analysis.Programs {
		appendProgram(&b, p)
	}

	if len(analysis.GeneralRecommendations) > 0 {
		fmt.Fprintf(&b, "## Recomendações Gerais\n\n")
		for _, r := range analysis.GeneralRecommendations {
			fmt.Fprintf(&b, "- %s\n", sanitizeLine(r))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Apêndice\n\n")
	fmt.Fprintf(&b, "### Análise completa (JSON)\n\n```json\n%s\n```\n", prettyJSON(analysis))

	return b.String()
}

func appendProgram(b *strings.Builder, p aiscoring.ProgramResult) {
	fmt.Fprintf(b, "### %s\n\n", p.ProgramName)
	fmt.Fprintf(b, "- Score: %d/100\n", p.Score)
	fmt.Fprintf(b, "- Elegível: %s\n", simNao(p.Eligible))
	fmt.Fprintf(b, "- Confiança: %s\n", confidenceLabel(p.Confidence))
	if p.Summary != "" {
		fmt.Fprintf(b, "- Resumo: %s\n", sanitizeLine(p.Summary))
	}
	b.WriteString("\n")

	if len(p.MetRequirements) > 0 {
		fmt.Fprintf(b, "Requisitos atendidos:\n\n")
		for _, r := range p.MetRequirements {
			fmt.Fprintf(b, "- %s\n", sanitizeLine(r))
		}
		b.WriteString("\n")
	}
	if len(p.NotMetRequirements) > 0 {
		fmt.Fprintf(b, "Requisitos não atendidos:\n\n")
		for _, r := range p.NotMetRequirements {
			fmt.Fprintf(b, "- %s\n", sanitizeLine(r))
		}
		b.WriteString("\n")
	}
	if len(p.Recommendations) > 0 {
		fmt.Fprintf(b, "Recomendações:\n\n")
		for _, r := range p.Recommendations {
			fmt.Fprintf(b, "- %s\n", sanitizeLine(r))
		}
		b.WriteString("\n")
	}
	if len(p.NextSteps) > 0 {
		fmt.Fprintf(b, "Próximos passos:\n\n")
		for _, r := range p.NextSteps {
			fmt.Fprintf(b, "- %s\n", sanitizeLine(r))
		}
		b.WriteString("\n")
	}
}

func joinLocation(city, state string) string {
	switch {
	case city != "" && state != "":
		return city + " - " + state
	case city != "":
		return city
	default:
		return state
	}
}

func simNao(v bool) string {
	if v {
		return "Sim"
	}
	return "Não"
}

func confidenceLabel(c aiscoring.Confidence) string {
	switch c {
	case aiscoring.ConfidenceHigh:
		return "Alta"
	case aiscoring.ConfidenceLow:
		return "Baixa"
	default:
		return "Média"
	}
}

func sanitizeLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func prettyJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
