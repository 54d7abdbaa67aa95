// Package httpapi exposes the lead intake and CRM operations over a small
// JSON API. Routing stays on net/http; handlers delegate to the lead
// service and map its errors to status codes.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gabrielmaialva33/jim-consultoria/internal/aiscoring"
	"github.com/gabrielmaialva33/jim-consultoria/internal/catalog"
	"github.com/gabrielmaialva33/jim-consultoria/internal/leads"
	"github.com/gabrielmaialva33/jim-consultoria/internal/leadstore"
	"github.com/gabrielmaialva33/jim-consultoria/internal/report"
	"github.com/gabrielmaialva33/jim-consultoria/internal/scoring"
)

// PDFRenderer is implemented by report.ChromiumPDFRenderer. Nil disables
// the PDF format on the report endpoint.
type PDFRenderer interface {
	Render(ctx context.Context, lead leadstore.Lead, analysis aiscoring.Analysis) ([]byte, error)
}

type Server struct {
	service *leads.Service
	pdf     PDFRenderer
}

func NewServer(service *leads.Service, pdf PDFRenderer) http.Handler {
	s := &Server{service: service, pdf: pdf}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/leads", s.handleLeads)
	mux.HandleFunc("/v1/leads/", s.handleLead)
	mux.HandleFunc("/v1/tasks/", s.handleTask)
	mux.HandleFunc("/v1/programs", s.handlePrograms)
	mux.HandleFunc("/v1/grants", s.handleGrants)
	mux.HandleFunc("/v1/grants/", s.handleGrant)
	mux.HandleFunc("/v1/dashboard", s.handleDashboard)
	mux.HandleFunc("/v1/health", s.handleHealth)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeServiceError(w http.ResponseWriter, err error) {
	var fieldErrs leads.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"ok":           false,
			"error":        "formulário inválido",
			"field_errors": fieldErrs,
		})
	case errors.Is(err, leadstore.ErrDuplicateEmail):
		writeJSON(w, http.StatusConflict, map[string]any{
			"ok":    false,
			"error": "Este e-mail já está cadastrado. Entre em contato conosco.",
		})
	case errors.Is(err, leadstore.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{
			"ok":    false,
			"error": "registro não encontrado",
		})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"ok":    false,
			"error": "Ocorreu um erro ao processar. Tente novamente.",
		})
	}
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return []byte("{}"), nil
	}
	blob, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(blob) == 0 {
		blob = []byte("{}")
	}
	return blob, nil
}

func methodOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func parseInt(value string, def int) int {
	if strings.TrimSpace(value) == "" {
		return def
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return v
}

func (s *Server) handleLeads(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		blob, err := readBody(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "corpo inválido"})
			return
		}
		var form scoring.Applicant
		if err := json.Unmarshal(blob, &form); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "JSON inválido"})
			return
		}
		lead, results, err := s.service.Submit(form)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"ok":      true,
			"lead":    lead,
			"results": results,
		})
	case http.MethodGet:
		limit := parseInt(r.URL.Query().Get("limit"), 0)
		list, err := s.service.ListLeads(limit)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if list == nil {
			list = []leadstore.Lead{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"leads": list})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleLead routes /v1/leads/{id} and its sub-resources.
func (s *Server) handleLead(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/leads/")
	id, sub, _ := strings.Cut(strings.TrimSuffix(rest, "/"), "/")
	if id == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch sub {
	case "":
		s.handleLeadDetail(w, r, id)
	case "activities":
		s.handleLeadActivities(w, r, id)
	case "tasks":
		s.handleLeadTasks(w, r, id)
	case "recalculate":
		s.handleLeadRecalculate(w, r, id)
	case "analyze":
		s.handleLeadAnalyze(w, r, id)
	case "status":
		s.handleLeadStatus(w, r, id)
	case "notes":
		s.handleLeadNotes(w, r, id)
	case "report":
		s.handleLeadReport(w, r, id)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *Server) handleLeadDetail(w http.ResponseWriter, r *http.Request, id string) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	lead, err := s.service.Lead(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lead": lead})
}

func (s *Server) handleLeadActivities(w http.ResponseWriter, r *http.Request, id string) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	if _, err := s.service.Lead(id); err != nil {
		writeServiceError(w, err)
		return
	}
	activities, err := s.service.Activities(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if activities == nil {
		activities = []leadstore.Activity{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"activities": activities})
}

// handleLeadTasks lists and creates follow-up tasks for a lead.
func (s *Server) handleLeadTasks(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		if _, err := s.service.Lead(id); err != nil {
			writeServiceError(w, err)
			return
		}
		tasks, err := s.service.Tasks(id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if tasks == nil {
			tasks = []leadstore.Task{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
	case http.MethodPost:
		blob, err := readBody(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "corpo inválido"})
			return
		}
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			DueDate     string `json:"due_date"`
			Priority    string `json:"priority"`
		}
		if err := json.Unmarshal(blob, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "JSON inválido"})
			return
		}
		var dueDate *time.Time
		if req.DueDate != "" {
			t, err := time.Parse(time.RFC3339, req.DueDate)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "data de vencimento inválida"})
				return
			}
			dueDate = &t
		}
		task, err := s.service.AddTask(id, req.Title, req.Description, dueDate, leadstore.TaskPriority(req.Priority))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "task": task})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleTask routes /v1/tasks/{id}/toggle.
func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/tasks/")
	id, sub, _ := strings.Cut(strings.TrimSuffix(rest, "/"), "/")
	if id == "" || sub != "toggle" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	task, err := s.service.ToggleTask(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "task": task})
}

func (s *Server) handleLeadRecalculate(w http.ResponseWriter, r *http.Request, id string) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	results, err := s.service.Recalculate(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	lead, err := s.service.Lead(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"lead":    lead,
		"results": results,
	})
}

func (s *Server) handleLeadAnalyze(w http.ResponseWriter, r *http.Request, id string) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	analysis, err := s.service.Analyze(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"analysis": analysis,
	})
}

func (s *Server) handleLeadStatus(w http.ResponseWriter, r *http.Request, id string) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	blob, err := readBody(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "corpo inválido"})
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(blob, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "JSON inválido"})
		return
	}
	if err := s.service.ChangeStatus(id, scoring.LeadStatus(req.Status)); err != nil {
		if errors.Is(err, leadstore.ErrNotFound) {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "status inválido"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleLeadNotes(w http.ResponseWriter, r *http.Request, id string) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	blob, err := readBody(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "corpo inválido"})
		return
	}
	var req struct {
		Note string `json:"note"`
	}
	if err := json.Unmarshal(blob, &req); err != nil || strings.TrimSpace(req.Note) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "nota vazia"})
		return
	}
	if err := s.service.AddNote(id, req.Note); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleLeadReport re-runs the analysis and renders it as markdown, HTML,
// or PDF depending on ?format. Markdown is the default.
func (s *Server) handleLeadReport(w http.ResponseWriter, r *http.Request, id string) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	lead, err := s.service.Lead(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	analysis, err := s.service.Analyze(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "", "md", "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = io.WriteString(w, report.BuildMarkdown(lead, analysis))
	case "html":
		doc, err := report.RenderHTML(lead, analysis)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, doc)
	case "pdf":
		if s.pdf == nil {
			writeJSON(w, http.StatusNotImplemented, map[string]any{"ok": false, "error": "PDF indisponível"})
			return
		}
		pdf, err := s.pdf.Render(r.Context(), lead, analysis)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="relatorio-elegibilidade.pdf"`)
		_, _ = w.Write(pdf)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "formato inválido"})
	}
}

func (s *Server) handlePrograms(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"programs": catalog.All()})
}

func (s *Server) handleGrants(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	grants, err := s.service.ActiveGrants()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if grants == nil {
		grants = []scoring.Grant{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"grants": grants})
}

// handleGrant updates a grant's operator-managed schedule fields. An
// omitted field keeps its current value; an empty closes_at clears the
// deadline.
func (s *Server) handleGrant(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/grants/"), "/")
	if id == "" || strings.Contains(id, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if !methodOnly(w, r, http.MethodPatch) {
		return
	}
	blob, err := readBody(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "corpo inválido"})
		return
	}
	var req struct {
		ClosesAt *string `json:"closes_at"`
		IsActive *bool   `json:"is_active"`
	}
	if err := json.Unmarshal(blob, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "JSON inválido"})
		return
	}

	grant, err := s.service.Grant(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	closesAt := grant.ClosesAt
	if req.ClosesAt != nil {
		if *req.ClosesAt == "" {
			closesAt = nil
		} else {
			t, err := time.Parse(time.RFC3339, *req.ClosesAt)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "data de encerramento inválida"})
				return
			}
			closesAt = &t
		}
	}
	active := grant.Active
	if req.IsActive != nil {
		active = *req.IsActive
	}

	if err := s.service.UpdateGrantSchedule(id, closesAt, active); err != nil {
		writeServiceError(w, err)
		return
	}
	updated, err := s.service.Grant(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "grant": updated})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	stats, err := s.service.Dashboard()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
