package leads

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gabrielmaialva33/jim-consultoria/internal/aiscoring"
	"github.com/gabrielmaialva33/jim-consultoria/internal/catalog"
	"github.com/gabrielmaialva33/jim-consultoria/internal/leadstore"
	"github.com/gabrielmaialva33/jim-consultoria/internal/scoring"
)

const (
	sourceLanding    = "landing"
	defaultStateCode = "SP"
)

type Service struct {
	store    *leadstore.Store
	analyzer *aiscoring.Analyzer
	now      func() time.Time
}

func NewService(store *leadstore.Store, analyzer *aiscoring.Analyzer) *Service {
	return &Service{store: store, analyzer: analyzer, now: time.Now}
}

// SeedGrants writes the program catalog into the grants table. Safe to
// run on every startup: existing rows only refresh their catalog fields,
// operator-set closing dates and active flags are kept.
func (s *Service) SeedGrants() error {
	for _, g := range catalog.Grants() {
		if err := s.store.UpsertGrant(g); err != nil {
			return fmt.Errorf("seed grant %s: %w", g.ID, err)
		}
	}
	return nil
}

// Submit validates a landing-page form, scores it against the active
// grants, and persists the lead with its eligibility summary.
func (s *Service) Submit(form scoring.Applicant) (leadstore.Lead, []scoring.EligibilityResult, error) {
	if errs := ValidateForm(form); errs != nil {
		return leadstore.Lead{}, nil, errs
	}

	grants, err := s.store.ActiveGrants()
	if err != nil {
		return leadstore.Lead{}, nil, fmt.Errorf("load grants: %w", err)
	}

	results := scoring.CalculateEligibility(form, grants)
	score := scoring.OverallScore(results)
	eligible := scoring.EligibleGrantNames(results)

	if form.StateCode == "" {
		form.StateCode = defaultStateCode
	}
	lead := leadstore.Lead{
		Applicant:        form,
		Status:           scoring.StatusNew,
		Source:           sourceLanding,
		EligibilityScore: &score,
		EligibleGrants:   eligible,
	}
	if err := s.store.CreateLead(&lead); err != nil {
		return leadstore.Lead{}, nil, err
	}
	return lead, results, nil
}

func (s *Service) Lead(id string) (leadstore.Lead, error) {
	return s.store.GetLead(id)
}

func (s *Service) ListLeads(limit int) ([]leadstore.Lead, error) {
	return s.store.ListLeads(limit)
}

// Recalculate rescores an existing lead against the current active
// grants and overwrites its stored summary.
func (s *Service) Recalculate(leadID string) ([]scoring.EligibilityResult, error) {
	lead, err := s.store.GetLead(leadID)
	if err != nil {
		return nil, err
	}
	grants, err := s.store.ActiveGrants()
	if err != nil {
		return nil, fmt.Errorf("load grants: %w", err)
	}

	results := scoring.CalculateEligibility(lead.Applicant, grants)
	score := scoring.OverallScore(results)
	eligible := scoring.EligibleGrantNames(results)

	if err := s.store.UpdateEligibilitySummary(leadID, score, eligible); err != nil {
		return nil, err
	}
	return results, nil
}

// Analyze runs the AI eligibility analysis for a lead, stores the full
// result in the activity log, and refreshes the lead's summary fields.
// A degraded (fallback) analysis still lands; only storage errors fail.
func (s *Service) Analyze(ctx context.Context, leadID string) (aiscoring.Analysis, error) {
	lead, err := s.store.GetLead(leadID)
	if err != nil {
		return aiscoring.Analysis{}, err
	}

	analysis := s.analyzer.Analyze(ctx, lead.Applicant)

	var eligible []string
	for _, p := range analysis.Programs {
		if p.Eligible {
			eligible = append(eligible, p.ProgramName)
		}
	}
	if err := s.store.UpdateEligibilitySummary(leadID, analysis.OverallScore, eligible); err != nil {
		return aiscoring.Analysis{}, err
	}

	activity := leadstore.Activity{
		LeadID:   leadID,
		Type:     leadstore.ActivityAIAnalysis,
		Content:  fmt.Sprintf("Análise de elegibilidade concluída. Score geral: %d/100.", analysis.OverallScore),
		Metadata: analysis,
	}
	if err := s.store.AppendActivity(&activity); err != nil {
		log.Printf("record analysis activity for %s: %v", leadID, err)
	}
	return analysis, nil
}

var validStatuses = map[scoring.LeadStatus]bool{
	scoring.StatusNew: true, scoring.StatusQualification: true,
	scoring.StatusProposal: true, scoring.StatusNegotiation: true,
	scoring.StatusWon: true, scoring.StatusLost: true,
}

// ChangeStatus moves a lead through the pipeline and records the
// transition in the activity log.
func (s *Service) ChangeStatus(leadID string, status scoring.LeadStatus) error {
	if !validStatuses[status] {
		return fmt.Errorf("leads: unknown status %q", status)
	}
	lead, err := s.store.GetLead(leadID)
	if err != nil {
		return err
	}
	if lead.Status == status {
		return nil
	}
	if err := s.store.UpdateStatus(leadID, status); err != nil {
		return err
	}
	activity := leadstore.Activity{
		LeadID:  leadID,
		Type:    leadstore.ActivityStatusChange,
		Content: fmt.Sprintf("Status alterado de %s para %s", lead.Status, status),
		Metadata: map[string]any{
			"from": string(lead.Status),
			"to":   string(status),
		},
	}
	if err := s.store.AppendActivity(&activity); err != nil {
		log.Printf("record status change for %s: %v", leadID, err)
	}
	return nil
}

// AddNote appends a free-form note to a lead's history.
func (s *Service) AddNote(leadID, content string) error {
	if _, err := s.store.GetLead(leadID); err != nil {
		return err
	}
	return s.store.AppendActivity(&leadstore.Activity{
		LeadID:  leadID,
		Type:    leadstore.ActivityNote,
		Content: content,
	})
}

func (s *Service) UpdateNotes(leadID, notes string) error {
	return s.store.UpdateNotes(leadID, notes)
}

func (s *Service) Activities(leadID string) ([]leadstore.Activity, error) {
	return s.store.LeadActivities(leadID)
}

func (s *Service) ActiveGrants() ([]scoring.Grant, error) {
	return s.store.ActiveGrants()
}

func (s *Service) AllGrants() ([]scoring.Grant, error) {
	return s.store.AllGrants()
}

func (s *Service) Grant(id string) (scoring.Grant, error) {
	return s.store.GetGrant(id)
}

// UpdateGrantSchedule sets a grant's closing date (nil clears it) and
// active flag. These fields are never touched by catalog seeding.
func (s *Service) UpdateGrantSchedule(grantID string, closesAt *time.Time, active bool) error {
	return s.store.UpdateGrantSchedule(grantID, closesAt, active)
}

var validPriorities = map[leadstore.TaskPriority]bool{
	leadstore.PriorityLow: true, leadstore.PriorityMedium: true,
	leadstore.PriorityHigh: true, leadstore.PriorityUrgent: true,
}

// AddTask records a follow-up task for a lead. The title is required and
// priority defaults to MEDIUM.
func (s *Service) AddTask(leadID, title, description string, dueDate *time.Time, priority leadstore.TaskPriority) (leadstore.Task, error) {
	if strings.TrimSpace(title) == "" {
		return leadstore.Task{}, FieldErrors{"title": "Título é obrigatório."}
	}
	if priority == "" {
		priority = leadstore.PriorityMedium
	}
	if !validPriorities[priority] {
		return leadstore.Task{}, FieldErrors{"priority": "Prioridade inválida."}
	}
	if _, err := s.store.GetLead(leadID); err != nil {
		return leadstore.Task{}, err
	}

	task := leadstore.Task{
		LeadID:      leadID,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Priority:    priority,
	}
	if err := s.store.CreateTask(&task); err != nil {
		return leadstore.Task{}, err
	}
	return task, nil
}

func (s *Service) Tasks(leadID string) ([]leadstore.Task, error) {
	return s.store.LeadTasks(leadID)
}

// ToggleTask flips a task between open and completed.
func (s *Service) ToggleTask(taskID string) (leadstore.Task, error) {
	return s.store.ToggleTask(taskID)
}

type DashboardStats struct {
	TotalLeads    int                        `json:"total_leads"`
	NewLast7Days  int                        `json:"new_last_7_days"`
	StatusCounts  map[scoring.LeadStatus]int `json:"status_counts"`
	RecentLeads   []leadstore.Lead           `json:"recent_leads"`
	ClosingGrants []scoring.Grant            `json:"closing_grants"`
}

// Dashboard aggregates the admin overview: totals, pipeline breakdown,
// the ten newest leads, and grants closing in the next 30 days.
func (s *Service) Dashboard() (DashboardStats, error) {
	counts, err := s.store.StatusCounts()
	if err != nil {
		return DashboardStats{}, err
	}
	total := 0
	for _, n := range counts {
		total += n
	}

	now := s.now().UTC()
	recentCount, err := s.store.CountCreatedSince(now.AddDate(0, 0, -7))
	if err != nil {
		return DashboardStats{}, err
	}
	recent, err := s.store.ListLeads(10)
	if err != nil {
		return DashboardStats{}, err
	}
	closing, err := s.store.GrantsClosingBefore(now, now.AddDate(0, 0, 30))
	if err != nil {
		return DashboardStats{}, err
	}

	return DashboardStats{
		TotalLeads:    total,
		NewLast7Days:  recentCount,
		StatusCounts:  counts,
		RecentLeads:   recent,
		ClosingGrants: closing,
	}, nil
}
