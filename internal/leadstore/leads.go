package leadstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/gabrielmaialva33/jim-consultoria/internal/scoring"
)

const leadColumns = `lead_id, name, email, phone, organization_type, company_age,
	tax_id, state_code, city, cultural_areas, interested_grants,
	project_description, estimated_budget, status, source, notes,
	eligibility_score, eligible_grants, created_at, updated_at`

// CreateLead inserts a new lead, assigning an id and timestamps when unset.
func (s *Store) CreateLead(lead *Lead) error {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = now
	}
	lead.UpdatedAt = now
	if lead.Status == "" {
		lead.Status = scoring.StatusNew
	}

	var score sql.NullInt64
	if lead.EligibilityScore != nil {
		score = sql.NullInt64{Int64: int64(*lead.EligibilityScore), Valid: true}
	}

	_, err := s.db.Exec(`INSERT INTO leads (`+leadColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.ID,
		lead.Name,
		lead.Email,
		lead.Phone,
		string(lead.OrganizationType),
		string(lead.CompanyAge),
		lead.TaxID,
		lead.StateCode,
		lead.City,
		marshalJSON(lead.CulturalAreas),
		marshalJSON(lead.InterestedGrants),
		lead.ProjectDescription,
		lead.EstimatedBudget,
		string(lead.Status),
		lead.Source,
		lead.Notes,
		score,
		marshalJSON(lead.EligibleGrants),
		timeToString(lead.CreatedAt),
		timeToString(lead.UpdatedAt),
	)
	if isUniqueEmailErr(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (s *Store) GetLead(id string) (Lead, error) {
	row := s.db.QueryRow(`SELECT `+leadColumns+` FROM leads WHERE lead_id = ?`, id)
	lead, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// ListLeads returns leads newest-first. A limit <= 0 means no limit.
func (s *Store) ListLeads(limit int) ([]Lead, error) {
	q := `SELECT ` + leadColumns + ` FROM leads ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// UpdateEligibilitySummary writes back the denormalized scoring summary.
// Last write wins; repeated recalculations overwrite, never accumulate.
func (s *Store) UpdateEligibilitySummary(leadID string, score int, eligibleGrants []string) error {
	res, err := s.db.Exec(`UPDATE leads SET eligibility_score = ?, eligible_grants = ?, updated_at = ? WHERE lead_id = ?`,
		score, marshalJSON(eligibleGrants), timeToString(time.Now().UTC()), leadID)
	if err != nil {
		return err
	}
	return requireRow(res.RowsAffected())
}

func (s *Store) UpdateStatus(leadID string, status scoring.LeadStatus) error {
	res, err := s.db.Exec(`UPDATE leads SET status = ?, updated_at = ? WHERE lead_id = ?`,
		string(status), timeToString(time.Now().UTC()), leadID)
	if err != nil {
		return err
	}
	return requireRow(res.RowsAffected())
}

func (s *Store) UpdateNotes(leadID, notes string) error {
	res, err := s.db.Exec(`UPDATE leads SET notes = ?, updated_at = ? WHERE lead_id = ?`,
		notes, timeToString(time.Now().UTC()), leadID)
	if err != nil {
		return err
	}
	return requireRow(res.RowsAffected())
}

// StatusCounts returns the number of leads per pipeline status.
func (s *Store) StatusCounts() (map[scoring.LeadStatus]int, error) {
	rows, err := s.db.Query(`SELECT status, COUNT(*) FROM leads GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[scoring.LeadStatus]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[scoring.LeadStatus(status)] = n
	}
	return counts, rows.Err()
}

// CountCreatedSince counts leads submitted at or after the given instant.
func (s *Store) CountCreatedSince(since time.Time) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM leads WHERE created_at >= ?`, timeToString(since.UTC())).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (Lead, error) {
	var lead Lead
	var orgType, companyAge, status string
	var areasJSON, grantsJSON, eligibleJSON string
	var score sql.NullInt64
	var createdAt, updatedAt string

	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Email, &lead.Phone, &orgType, &companyAge,
		&lead.TaxID, &lead.StateCode, &lead.City, &areasJSON, &grantsJSON,
		&lead.ProjectDescription, &lead.EstimatedBudget, &status, &lead.Source, &lead.Notes,
		&score, &eligibleJSON, &createdAt, &updatedAt,
	)
	if err != nil {
		return Lead{}, err
	}

	lead.OrganizationType = scoring.OrganizationType(orgType)
	lead.CompanyAge = scoring.CompanyAge(companyAge)
	lead.Status = scoring.LeadStatus(status)
	_ = json.Unmarshal([]byte(areasJSON), &lead.CulturalAreas)
	_ = json.Unmarshal([]byte(grantsJSON), &lead.InterestedGrants)
	_ = json.Unmarshal([]byte(eligibleJSON), &lead.EligibleGrants)
	if score.Valid {
		v := int(score.Int64)
		lead.EligibilityScore = &v
	}
	lead.CreatedAt = parseTime(createdAt)
	lead.UpdatedAt = parseTime(updatedAt)
	return lead, nil
}

func requireRow(affected int64, err error) error {
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
