package aiscoring

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gabrielmaialva33/jim-consultoria/internal/scoring"
)

type fakeCaller struct {
	response string
	err      error
	prompt   string
}

func (f *fakeCaller) GenerateJSON(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func fixedAnalyzer(caller LLMCaller) *Analyzer {
	a := NewAnalyzer(caller)
	a.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return a
}

func testApplicant() scoring.Applicant {
	return scoring.Applicant{
		ID:               "lead-1",
		Name:             "Coletivo Maré",
		Email:            "contato@mare.art.br",
		OrganizationType: scoring.OrgNGO,
		CompanyAge:       scoring.AgeMoreThan2Y,
		TaxID:            "12.345.678/0001-90",
		StateCode:        "SP",
		CulturalAreas:    []scoring.CulturalArea{scoring.AreaTheater},
		InterestedGrants: []string{"proac_icms"},
	}
}

func TestAnalyzeNormalizesModelOutput(t *testing.T) {
	caller := &fakeCaller{response: `{
		"programs": [
			{"programId": "proac_icms", "score": 120.7, "eligible": true, "confidence": "alta"},
			{"programId": "desconhecido", "score": -3, "eligible": false, "confidence": "low"}
		],
		"bestProgram": "proac_icms"
	}`}
	analysis := fixedAnalyzer(caller).Analyze(context.Background(), testApplicant())

	if len(analysis.Programs) != 2 {
		t.Fatalf("expected 2 programs, got %d", len(analysis.Programs))
	}
	first := analysis.Programs[0]
	if first.Score != 100 {
		t.Fatalf("score must clamp to 100, got %d", first.Score)
	}
	if first.ProgramName != "ProAC ICMS" {
		t.Fatalf("name must resolve from the registry, got %q", first.ProgramName)
	}
	if first.Confidence != ConfidenceMedium {
		t.Fatalf("unknown confidence must default to medium, got %q", first.Confidence)
	}
	if first.MetRequirements == nil || first.Recommendations == nil {
		t.Fatal("absent arrays must decode as empty, not nil")
	}

	second := analysis.Programs[1]
	if second.Score != 0 {
		t.Fatalf("score must clamp to 0, got %d", second.Score)
	}
	if second.ProgramName != "desconhecido" {
		t.Fatalf("unknown program keeps its id as name, got %q", second.ProgramName)
	}

	if analysis.OverallScore != 50 {
		t.Fatalf("overall must be recomputed mean (100+0)/2, got %d", analysis.OverallScore)
	}
	if analysis.BestProgram != "proac_icms" {
		t.Fatalf("known bestProgram must be kept, got %q", analysis.BestProgram)
	}
	if analysis.LeadID != "lead-1" {
		t.Fatalf("unexpected lead id %q", analysis.LeadID)
	}
}

func TestAnalyzeDropsUnknownBestProgram(t *testing.T) {
	caller := &fakeCaller{response: `{
		"programs": [{"programId": "pnab", "score": 70, "eligible": true, "confidence": "high"}],
		"bestProgram": "programa_inventado"
	}`}
	analysis := fixedAnalyzer(caller).Analyze(context.Background(), testApplicant())
	if analysis.BestProgram != "" {
		t.Fatalf("unknown bestProgram must be dropped, got %q", analysis.BestProgram)
	}
}

func TestAnalyzeKeepsThinkingTrace(t *testing.T) {
	caller := &fakeCaller{response: "<think>raciocínio interno</think>" + `{
		"programs": [{"programId": "pnab", "score": 70, "eligible": true, "confidence": "high"}]
	}`}
	analysis := fixedAnalyzer(caller).Analyze(context.Background(), testApplicant())
	if analysis.Thinking != "raciocínio interno" {
		t.Fatalf("unexpected thinking %q", analysis.Thinking)
	}
}

func TestAnalyzeCallErrorFallsBack(t *testing.T) {
	caller := &fakeCaller{err: errors.New("rate limited")}
	analysis := fixedAnalyzer(caller).Analyze(context.Background(), testApplicant())
	if len(analysis.Programs) != 4 {
		t.Fatalf("fallback must cover all programs, got %d", len(analysis.Programs))
	}
	for _, p := range analysis.Programs {
		if p.Confidence != ConfidenceLow {
			t.Fatalf("fallback confidence must be low, got %q for %s", p.Confidence, p.ProgramID)
		}
	}
}

func TestAnalyzeUnparseableResponseFallsBack(t *testing.T) {
	caller := &fakeCaller{response: "desculpe, não consegui"}
	analysis := fixedAnalyzer(caller).Analyze(context.Background(), testApplicant())
	if len(analysis.Programs) != 4 {
		t.Fatalf("fallback must cover all programs, got %d", len(analysis.Programs))
	}
}

func TestAnalyzeNilCallerFallsBack(t *testing.T) {
	analysis := fixedAnalyzer(nil).Analyze(context.Background(), testApplicant())
	if len(analysis.Programs) != 4 {
		t.Fatalf("fallback must cover all programs, got %d", len(analysis.Programs))
	}
	if analysis.AnalyzedAt.IsZero() {
		t.Fatal("analyzedAt must be set")
	}
}

func TestAnalyzePromptContents(t *testing.T) {
	caller := &fakeCaller{response: `{
		"programs": [{"programId": "pnab", "score": 70, "eligible": true, "confidence": "high"}]
	}`}
	fixedAnalyzer(caller).Analyze(context.Background(), testApplicant())

	for _, want := range []string{
		"Coletivo Maré",
		"ONG / Associação",
		"Mais de 2 anos",
		"# Programas Disponíveis",
		"ProAC ICMS",
		"Lei Rouanet",
		"# Instruções de Resposta",
		"proac_icms, proac_editais, rouanet, pnab",
	} {
		if !strings.Contains(caller.prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}
