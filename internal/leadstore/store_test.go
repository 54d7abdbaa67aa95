package leadstore

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gabrielmaialva33/jim-consultoria/internal/catalog"
	"github.com/gabrielmaialva33/jim-consultoria/internal/scoring"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleLead(email string) Lead {
	score := 72
	return Lead{
		Applicant: scoring.Applicant{
			Name:             "Produtora Beta",
			Email:            email,
			Phone:            "(11) 99999-9999",
			OrganizationType: scoring.OrgME,
			CompanyAge:       scoring.AgeMoreThan2Y,
			TaxID:            "12.345.678/0001-90",
			StateCode:        "SP",
			City:             "São Paulo",
			CulturalAreas:    []scoring.CulturalArea{scoring.AreaMusic, scoring.AreaCinema},
			InterestedGrants: []string{"proac_icms"},
			EstimatedBudget:  250000,
		},
		Status:           scoring.StatusNew,
		Source:           "landing",
		EligibilityScore: &score,
		EligibleGrants:   []string{"ProAC ICMS"},
	}
}

func TestCreateAndGetLeadRoundTrip(t *testing.T) {
	store := openTestStore(t)

	lead := sampleLead("beta@example.com")
	if err := store.CreateLead(&lead); err != nil {
		t.Fatalf("create: %v", err)
	}
	if lead.ID == "" {
		t.Fatal("create must assign an id")
	}

	got, err := store.GetLead(lead.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != lead.Name || got.Email != lead.Email {
		t.Fatalf("identity mismatch: %+v", got)
	}
	if got.OrganizationType != scoring.OrgME || got.CompanyAge != scoring.AgeMoreThan2Y {
		t.Fatalf("profile mismatch: %+v", got)
	}
	if len(got.CulturalAreas) != 2 || got.CulturalAreas[0] != scoring.AreaMusic {
		t.Fatalf("areas mismatch: %v", got.CulturalAreas)
	}
	if got.EligibilityScore == nil || *got.EligibilityScore != 72 {
		t.Fatalf("score mismatch: %v", got.EligibilityScore)
	}
	if len(got.EligibleGrants) != 1 || got.EligibleGrants[0] != "ProAC ICMS" {
		t.Fatalf("grants mismatch: %v", got.EligibleGrants)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatal("timestamps must be set")
	}
}

func TestGetLeadNotFound(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.GetLead("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	store := openTestStore(t)

	first := sampleLead("same@example.com")
	if err := store.CreateLead(&first); err != nil {
		t.Fatalf("first create: %v", err)
	}
	second := sampleLead("same@example.com")
	if err := store.CreateLead(&second); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestListLeadsNewestFirst(t *testing.T) {
	store := openTestStore(t)

	older := sampleLead("older@example.com")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	if err := store.CreateLead(&older); err != nil {
		t.Fatalf("create older: %v", err)
	}
	newer := sampleLead("newer@example.com")
	if err := store.CreateLead(&newer); err != nil {
		t.Fatalf("create newer: %v", err)
	}

	leads, err := store.ListLeads(0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(leads) != 2 {
		t.Fatalf("expected 2 leads, got %d", len(leads))
	}
	if leads[0].Email != "newer@example.com" {
		t.Fatalf("expected newest first, got %s", leads[0].Email)
	}

	limited, err := store.ListLeads(1)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 lead, got %d", len(limited))
	}
}

func TestUpdateEligibilitySummaryOverwrites(t *testing.T) {
	store := openTestStore(t)

	lead := sampleLead("update@example.com")
	if err := store.CreateLead(&lead); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.UpdateEligibilitySummary(lead.ID, 90, []string{"Lei Rouanet"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := store.GetLead(lead.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.EligibilityScore == nil || *got.EligibilityScore != 90 {
		t.Fatalf("score not overwritten: %v", got.EligibilityScore)
	}
	if len(got.EligibleGrants) != 1 || got.EligibleGrants[0] != "Lei Rouanet" {
		t.Fatalf("grants not overwritten: %v", got.EligibleGrants)
	}

	if err := store.UpdateEligibilitySummary("missing", 10, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStatusAndNotes(t *testing.T) {
	store := openTestStore(t)

	lead := sampleLead("pipeline@example.com")
	if err := store.CreateLead(&lead); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.UpdateStatus(lead.ID, scoring.StatusProposal); err != nil {
		t.Fatalf("status: %v", err)
	}
	if err := store.UpdateNotes(lead.ID, "ligou pedindo proposta"); err != nil {
		t.Fatalf("notes: %v", err)
	}
	got, _ := store.GetLead(lead.ID)
	if got.Status != scoring.StatusProposal {
		t.Fatalf("status: %s", got.Status)
	}
	if got.Notes != "ligou pedindo proposta" {
		t.Fatalf("notes: %q", got.Notes)
	}
}

func TestStatusCountsAndCreatedSince(t *testing.T) {
	store := openTestStore(t)

	a := sampleLead("a@example.com")
	if err := store.CreateLead(&a); err != nil {
		t.Fatal(err)
	}
	b := sampleLead("b@example.com")
	b.CreatedAt = time.Now().UTC().AddDate(0, 0, -10)
	if err := store.CreateLead(&b); err != nil {
		t.Fatal(err)
	}
	if err := store.UpdateStatus(b.ID, scoring.StatusWon); err != nil {
		t.Fatal(err)
	}

	counts, err := store.StatusCounts()
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts[scoring.StatusNew] != 1 || counts[scoring.StatusWon] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}

	recent, err := store.CountCreatedSince(time.Now().UTC().AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("created since: %v", err)
	}
	if recent != 1 {
		t.Fatalf("expected 1 recent lead, got %d", recent)
	}
}

func TestGrantSeedingRoundTrip(t *testing.T) {
	store := openTestStore(t)

	for _, g := range catalog.Grants() {
		if err := store.UpsertGrant(g); err != nil {
			t.Fatalf("upsert %s: %v", g.ID, err)
		}
	}
	// Upsert must be idempotent.
	for _, g := range catalog.Grants() {
		if err := store.UpsertGrant(g); err != nil {
			t.Fatalf("re-upsert %s: %v", g.ID, err)
		}
	}

	grants, err := store.ActiveGrants()
	if err != nil {
		t.Fatalf("active grants: %v", err)
	}
	if len(grants) != 4 {
		t.Fatalf("expected 4 grants, got %d", len(grants))
	}
	if grants[0].ID != catalog.ProgramProACICMS {
		t.Fatalf("seed order lost: %s", grants[0].ID)
	}
	if grants[0].Requirements == nil || grants[0].Requirements.State != "SP" {
		t.Fatalf("criteria did not round-trip: %+v", grants[0].Requirements)
	}
}

func TestGrantsClosingBefore(t *testing.T) {
	store := openTestStore(t)
	now := time.Now().UTC()

	soon := now.AddDate(0, 0, 10)
	far := now.AddDate(0, 0, 60)
	if err := store.UpsertGrant(scoring.Grant{ID: "soon", Name: "Edital Próximo", ClosesAt: &soon, Active: true}); err != nil {
		t.Fatal(err)
	}
	if err := store.UpsertGrant(scoring.Grant{ID: "far", Name: "Edital Distante", ClosesAt: &far, Active: true}); err != nil {
		t.Fatal(err)
	}
	if err := store.UpsertGrant(scoring.Grant{ID: "open", Name: "Fluxo Contínuo", Active: true}); err != nil {
		t.Fatal(err)
	}

	closing, err := store.GrantsClosingBefore(now, now.AddDate(0, 0, 30))
	if err != nil {
		t.Fatalf("closing: %v", err)
	}
	if len(closing) != 1 || closing[0].ID != "soon" {
		t.Fatalf("unexpected closing set: %+v", closing)
	}
}

func TestSeedingPreservesGrantSchedule(t *testing.T) {
	store := openTestStore(t)
	now := time.Now().UTC()

	for _, g := range catalog.Grants() {
		if err := store.UpsertGrant(g); err != nil {
			t.Fatalf("seed %s: %v", g.ID, err)
		}
	}
	soon := now.AddDate(0, 0, 10)
	if err := store.UpdateGrantSchedule(catalog.ProgramProACICMS, &soon, true); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := store.UpdateGrantSchedule(catalog.ProgramPNAB, nil, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	// A restart runs seeding again; operator edits must survive it.
	for _, g := range catalog.Grants() {
		if err := store.UpsertGrant(g); err != nil {
			t.Fatalf("re-seed %s: %v", g.ID, err)
		}
	}

	closing, err := store.GrantsClosingBefore(now, now.AddDate(0, 0, 30))
	if err != nil {
		t.Fatalf("closing: %v", err)
	}
	if len(closing) != 1 || closing[0].ID != catalog.ProgramProACICMS {
		t.Fatalf("deadline lost on re-seed: %+v", closing)
	}
	active, err := store.ActiveGrants()
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	for _, g := range active {
		if g.ID == catalog.ProgramPNAB {
			t.Fatal("deactivated grant reappeared after re-seed")
		}
	}

	if err := store.UpdateGrantSchedule("missing", nil, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTasksLifecycle(t *testing.T) {
	store := openTestStore(t)

	lead := sampleLead("tarefas@example.com")
	if err := store.CreateLead(&lead); err != nil {
		t.Fatal(err)
	}

	due := time.Now().UTC().AddDate(0, 0, 3)
	later := due.AddDate(0, 0, 4)
	first := Task{LeadID: lead.ID, Title: "Enviar proposta", DueDate: &due, Priority: PriorityHigh}
	if err := store.CreateTask(&first); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if first.ID == "" || first.Status != TaskPending {
		t.Fatalf("defaults not applied: %+v", first)
	}
	second := Task{LeadID: lead.ID, Title: "Agendar reunião", DueDate: &later}
	if err := store.CreateTask(&second); err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second.Priority != PriorityMedium {
		t.Fatalf("expected MEDIUM default, got %s", second.Priority)
	}
	undated := Task{LeadID: lead.ID, Title: "Revisar documentação"}
	if err := store.CreateTask(&undated); err != nil {
		t.Fatalf("create undated: %v", err)
	}

	tasks, err := store.LeadTasks(lead.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	// Due-date ascending, undated last.
	if tasks[0].Title != "Enviar proposta" || tasks[2].Title != "Revisar documentação" {
		t.Fatalf("unexpected order: %s, %s, %s", tasks[0].Title, tasks[1].Title, tasks[2].Title)
	}

	done, err := store.ToggleTask(first.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if done.Status != TaskCompleted || done.CompletedAt == nil {
		t.Fatalf("expected completed with stamp: %+v", done)
	}
	reopened, err := store.ToggleTask(first.ID)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if reopened.Status != TaskPending || reopened.CompletedAt != nil {
		t.Fatalf("expected reopened without stamp: %+v", reopened)
	}

	if _, err := store.ToggleTask("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestActivitiesNewestFirst(t *testing.T) {
	store := openTestStore(t)

	lead := sampleLead("history@example.com")
	if err := store.CreateLead(&lead); err != nil {
		t.Fatal(err)
	}

	older := Activity{
		LeadID:    lead.ID,
		Type:      ActivityNote,
		Content:   "primeiro contato",
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	}
	if err := store.AppendActivity(&older); err != nil {
		t.Fatalf("append older: %v", err)
	}
	newer := Activity{
		LeadID:   lead.ID,
		Type:     ActivityStatusChange,
		Content:  "Status alterado de NEW para QUALIFICATION",
		Metadata: map[string]any{"from": "NEW", "to": "QUALIFICATION"},
	}
	if err := store.AppendActivity(&newer); err != nil {
		t.Fatalf("append newer: %v", err)
	}

	activities, err := store.LeadActivities(lead.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(activities) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(activities))
	}
	if activities[0].Type != ActivityStatusChange {
		t.Fatalf("expected newest first, got %s", activities[0].Type)
	}
	meta, ok := activities[0].Metadata.(map[string]any)
	if !ok || meta["to"] != "QUALIFICATION" {
		t.Fatalf("metadata did not round-trip: %#v", activities[0].Metadata)
	}
	if activities[1].Metadata != nil {
		t.Fatalf("expected nil metadata, got %#v", activities[1].Metadata)
	}
}
