// eligibility-report runs the AI eligibility analysis for one stored lead
// and writes the report to a file or stdout. With -format=pdf it prints
// through headless Chromium.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/gabrielmaialva33/jim-consultoria/internal/aiscoring"
	"github.com/gabrielmaialva33/jim-consultoria/internal/leadstore"
	"github.com/gabrielmaialva33/jim-consultoria/internal/report"
)

func main() {
	_ = godotenv.Load()

	dbPath := flag.String("db", "jim.db", "SQLite database path")
	leadID := flag.String("lead", "", "lead id to report on")
	format := flag.String("format", "md", "output format: md, html, or pdf")
	output := flag.String("o", "", "output file (default stdout; required for pdf)")
	flag.Parse()

	if *leadID == "" {
		log.Fatal("missing required flag -lead")
	}
	if *format == "pdf" && *output == "" {
		log.Fatal("-format=pdf requires -o")
	}

	store, err := leadstore.Open(*dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	lead, err := store.GetLead(*leadID)
	if err != nil {
		log.Fatal(err)
	}

	var caller aiscoring.LLMCaller
	if anthropicCaller, err := aiscoring.NewAnthropicCallerFromEnv(); err != nil {
		log.Printf("AI analysis disabled: %v", err)
	} else {
		caller = anthropicCaller
	}
	analysis := aiscoring.NewAnalyzer(caller).Analyze(context.Background(), lead.Applicant)

	var out []byte
	switch *format {
	case "md", "markdown":
		out = []byte(report.BuildMarkdown(lead, analysis))
	case "html":
		doc, err := report.RenderHTML(lead, analysis)
		if err != nil {
			log.Fatal(err)
		}
		out = []byte(doc)
	case "pdf":
		pdf, err := report.NewChromiumPDFRenderer().Render(context.Background(), lead, analysis)
		if err != nil {
			log.Fatal(err)
		}
		out = pdf
	default:
		log.Fatalf("unknown format %q", *format)
	}

	if *output == "" {
		if _, err := os.Stdout.Write(out); err != nil {
			log.Fatal(err)
		}
		return
	}
	if err := os.WriteFile(*output, out, 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s (%d bytes)", *output, len(out))
}
