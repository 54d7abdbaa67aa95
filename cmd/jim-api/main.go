package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gabrielmaialva33/jim-consultoria/internal/aiscoring"
	"github.com/gabrielmaialva33/jim-consultoria/internal/httpapi"
	"github.com/gabrielmaialva33/jim-consultoria/internal/leads"
	"github.com/gabrielmaialva33/jim-consultoria/internal/leadstore"
	"github.com/gabrielmaialva33/jim-consultoria/internal/report"
)

func main() {
	_ = godotenv.Load()

	addr := flag.String("addr", ":8080", "HTTP listen address")
	dbPath := flag.String("db", "jim.db", "SQLite database path")
	enablePDF := flag.Bool("pdf", true, "enable PDF report rendering")
	flag.Parse()

	store, err := leadstore.Open(*dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	// Without ANTHROPIC_API_KEY every analysis uses the rule-based
	// fallback instead of failing.
	var caller aiscoring.LLMCaller
	if anthropicCaller, err := aiscoring.NewAnthropicCallerFromEnv(); err != nil {
		log.Printf("AI analysis disabled: %v", err)
	} else {
		caller = anthropicCaller
	}

	service := leads.NewService(store, aiscoring.NewAnalyzer(caller))
	if err := service.SeedGrants(); err != nil {
		log.Fatal(err)
	}

	var pdf httpapi.PDFRenderer
	if *enablePDF {
		pdf = report.NewChromiumPDFRenderer()
	}

	server := &http.Server{
		Addr:    *addr,
		Handler: httpapi.NewServer(service, pdf),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("starting jim-api (addr=%s, db=%s)", *addr, *dbPath)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
