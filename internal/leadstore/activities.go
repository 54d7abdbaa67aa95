package leadstore

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AppendActivity records an event against a lead. Metadata, when present,
// is stored as JSON and round-trips as a decoded map on read.
func (s *Store) AppendActivity(a *Activity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`INSERT INTO activities (activity_id, lead_id, activity_type, content, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.LeadID, string(a.Type), a.Content, nullableJSON(a.Metadata), timeToString(a.CreatedAt))
	return err
}

// LeadActivities returns a lead's history, newest first.
func (s *Store) LeadActivities(leadID string) ([]Activity, error) {
	rows, err := s.db.Query(`SELECT activity_id, lead_id, activity_type, content, metadata, created_at
		FROM activities WHERE lead_id = ? ORDER BY created_at DESC`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var a Activity
		var activityType string
		var metadata sql.NullString
		var createdAt string
		if err := rows.Scan(&a.ID, &a.LeadID, &activityType, &a.Content, &metadata, &createdAt); err != nil {
			return nil, err
		}
		a.Type = ActivityType(activityType)
		if metadata.Valid && metadata.String != "" {
			var decoded map[string]any
			if err := json.Unmarshal([]byte(metadata.String), &decoded); err == nil {
				a.Metadata = decoded
			}
		}
		a.CreatedAt = parseTime(createdAt)
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
