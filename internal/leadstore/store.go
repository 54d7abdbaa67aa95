// Package leadstore is the SQLite-backed record store for leads, grants,
// and per-lead activity history. The scoring subsystem never touches it
// directly; the lead service reads and writes through it.
package leadstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/gabrielmaialva33/jim-consultoria/internal/scoring"
)

var (
	ErrNotFound       = errors.New("leadstore: not found")
	ErrDuplicateEmail = errors.New("leadstore: e-mail already registered")
)

type ActivityType string

const (
	ActivityNote         ActivityType = "NOTE"
	ActivityStatusChange ActivityType = "STATUS_CHANGE"
	ActivityAIAnalysis   ActivityType = "AI_ANALYSIS"
)

// Lead is the persisted applicant record: the scoring profile plus CRM
// state and the denormalized eligibility summary. Full per-grant
// breakdowns are never stored here; the AI analysis lands in the activity
// log as an opaque payload.
type Lead struct {
	scoring.Applicant
	Status           scoring.LeadStatus `json:"status"`
	Source           string             `json:"source,omitempty"`
	Notes            string             `json:"notes,omitempty"`
	EligibilityScore *int               `json:"eligibility_score,omitempty"`
	EligibleGrants   []string           `json:"eligible_grants"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

type Activity struct {
	ID        string       `json:"id"`
	LeadID    string       `json:"lead_id"`
	Type      ActivityType `json:"activity_type"`
	Content   string       `json:"content"`
	Metadata  any          `json:"metadata,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskCancelled  TaskStatus = "CANCELLED"
)

// Task is a follow-up item attached to a lead.
type Task struct {
	ID          string       `json:"id"`
	LeadID      string       `json:"lead_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

const schema = `
CREATE TABLE IF NOT EXISTS leads (
	lead_id             TEXT PRIMARY KEY,
	name                TEXT NOT NULL,
	email               TEXT NOT NULL UNIQUE,
	phone               TEXT NOT NULL DEFAULT '',
	organization_type   TEXT NOT NULL,
	company_age         TEXT NOT NULL DEFAULT '',
	tax_id              TEXT NOT NULL DEFAULT '',
	state_code          TEXT NOT NULL DEFAULT '',
	city                TEXT NOT NULL DEFAULT '',
	cultural_areas      TEXT NOT NULL DEFAULT '[]',
	interested_grants   TEXT NOT NULL DEFAULT '[]',
	project_description TEXT NOT NULL DEFAULT '',
	estimated_budget    REAL NOT NULL DEFAULT 0,
	status              TEXT NOT NULL DEFAULT 'NEW',
	source              TEXT NOT NULL DEFAULT '',
	notes               TEXT NOT NULL DEFAULT '',
	eligibility_score   INTEGER,
	eligible_grants     TEXT NOT NULL DEFAULT '[]',
	created_at          TEXT NOT NULL,
	updated_at          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS grants (
	grant_id     TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	requirements TEXT,
	closes_at    TEXT NOT NULL DEFAULT '',
	is_active    INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS activities (
	activity_id   TEXT PRIMARY KEY,
	lead_id       TEXT NOT NULL,
	activity_type TEXT NOT NULL,
	content       TEXT NOT NULL DEFAULT '',
	metadata      TEXT,
	created_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_activities_lead ON activities(lead_id, created_at);

CREATE TABLE IF NOT EXISTS tasks (
	task_id      TEXT PRIMARY KEY,
	lead_id      TEXT NOT NULL,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	due_date     TEXT NOT NULL DEFAULT '',
	priority     TEXT NOT NULL DEFAULT 'MEDIUM',
	status       TEXT NOT NULL DEFAULT 'PENDING',
	completed_at TEXT NOT NULL DEFAULT '',
	created_at   TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_lead ON tasks(lead_id, due_date);
`

type Store struct {
	db *sqlx.DB
}

func Open(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// --- persist helpers ---

func timeToString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339Nano, v)
	return t
}

func marshalJSON(v any) string {
	if v == nil {
		return "[]"
	}
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return "[]"
	}
	return string(b)
}

func nullableJSON(v any) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}

func isUniqueEmailErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: leads.email")
}
