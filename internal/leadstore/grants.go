package leadstore

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/gabrielmaialva33/jim-consultoria/internal/scoring"
)

// UpsertGrant inserts a grant or refreshes its catalog fields. On an
// existing row only name and requirements change; closes_at and
// is_active are operator-managed and survive startup re-seeding.
func (s *Store) UpsertGrant(g scoring.Grant) error {
	var closesAt string
	if g.ClosesAt != nil {
		closesAt = timeToString(*g.ClosesAt)
	}
	active := 0
	if g.Active {
		active = 1
	}
	_, err := s.db.Exec(`INSERT INTO grants (grant_id, name, requirements, closes_at, is_active)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(grant_id) DO UPDATE SET
			name = excluded.name,
			requirements = excluded.requirements`,
		g.ID, g.Name, nullableJSON(g.Requirements), closesAt, active)
	return err
}

// UpdateGrantSchedule sets the operator-managed fields: the closing date
// (nil clears it) and the active flag.
func (s *Store) UpdateGrantSchedule(grantID string, closesAt *time.Time, active bool) error {
	var closes string
	if closesAt != nil {
		closes = timeToString(*closesAt)
	}
	activeInt := 0
	if active {
		activeInt = 1
	}
	res, err := s.db.Exec(`UPDATE grants SET closes_at = ?, is_active = ? WHERE grant_id = ?`,
		closes, activeInt, grantID)
	if err != nil {
		return err
	}
	return requireRow(res.RowsAffected())
}

// GetGrant returns a single grant row.
func (s *Store) GetGrant(id string) (scoring.Grant, error) {
	grants, err := s.listGrants(`SELECT grant_id, name, requirements, closes_at, is_active
		FROM grants WHERE grant_id = ?`, id)
	if err != nil {
		return scoring.Grant{}, err
	}
	if len(grants) == 0 {
		return scoring.Grant{}, ErrNotFound
	}
	return grants[0], nil
}

// ActiveGrants returns every active grant in insertion order.
func (s *Store) ActiveGrants() ([]scoring.Grant, error) {
	return s.listGrants(`SELECT grant_id, name, requirements, closes_at, is_active
		FROM grants WHERE is_active = 1 ORDER BY rowid`)
}

// AllGrants returns every grant, active or not.
func (s *Store) AllGrants() ([]scoring.Grant, error) {
	return s.listGrants(`SELECT grant_id, name, requirements, closes_at, is_active
		FROM grants ORDER BY rowid`)
}

// GrantsClosingBefore returns active grants whose deadline falls within
// [now, deadline). Grants without a deadline never match.
func (s *Store) GrantsClosingBefore(now, deadline time.Time) ([]scoring.Grant, error) {
	grants, err := s.ActiveGrants()
	if err != nil {
		return nil, err
	}
	var closing []scoring.Grant
	for _, g := range grants {
		if g.ClosesAt == nil {
			continue
		}
		if !g.ClosesAt.Before(now) && g.ClosesAt.Before(deadline) {
			closing = append(closing, g)
		}
	}
	return closing, nil
}

func (s *Store) listGrants(query string, args ...any) ([]scoring.Grant, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []scoring.Grant
	for rows.Next() {
		var g scoring.Grant
		var reqs sql.NullString
		var closesAt string
		var active int
		if err := rows.Scan(&g.ID, &g.Name, &reqs, &closesAt, &active); err != nil {
			return nil, err
		}
		if reqs.Valid && reqs.String != "" {
			var criteria scoring.ScoringCriteria
			if err := json.Unmarshal([]byte(reqs.String), &criteria); err == nil {
				g.Requirements = &criteria
			}
		}
		if closesAt != "" {
			t := parseTime(closesAt)
			g.ClosesAt = &t
		}
		g.Active = active != 0
		grants = append(grants, g)
	}
	return grants, rows.Err()
}
