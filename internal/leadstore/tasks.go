package leadstore

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

const taskColumns = `task_id, lead_id, title, description, due_date,
	priority, status, completed_at, created_at, updated_at`

// CreateTask inserts a follow-up task, defaulting to PENDING status and
// MEDIUM priority when unset.
func (s *Store) CreateTask(t *Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Status == "" {
		t.Status = TaskPending
	}

	var dueDate, completedAt string
	if t.DueDate != nil {
		dueDate = timeToString(*t.DueDate)
	}
	if t.CompletedAt != nil {
		completedAt = timeToString(*t.CompletedAt)
	}

	_, err := s.db.Exec(`INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.LeadID, t.Title, t.Description, dueDate,
		string(t.Priority), string(t.Status), completedAt,
		timeToString(t.CreatedAt), timeToString(t.UpdatedAt))
	return err
}

func (s *Store) GetTask(id string) (Task, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE task_id = ?`, id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return task, err
}

// LeadTasks returns a lead's tasks ordered by due date ascending, with
// undated tasks last.
func (s *Store) LeadTasks(leadID string) ([]Task, error) {
	rows, err := s.db.Query(`SELECT `+taskColumns+` FROM tasks
		WHERE lead_id = ? ORDER BY due_date = '', due_date, created_at`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// ToggleTask flips a task between open and done: a completed task
// reopens as PENDING, any other status completes with a completed_at
// stamp. Returns the updated task.
func (s *Store) ToggleTask(taskID string) (Task, error) {
	task, err := s.GetTask(taskID)
	if err != nil {
		return Task{}, err
	}

	now := time.Now().UTC()
	if task.Status == TaskCompleted {
		task.Status = TaskPending
		task.CompletedAt = nil
	} else {
		task.Status = TaskCompleted
		task.CompletedAt = &now
	}
	task.UpdatedAt = now

	var completedAt string
	if task.CompletedAt != nil {
		completedAt = timeToString(*task.CompletedAt)
	}
	_, err = s.db.Exec(`UPDATE tasks SET status = ?, completed_at = ?, updated_at = ? WHERE task_id = ?`,
		string(task.Status), completedAt, timeToString(task.UpdatedAt), taskID)
	if err != nil {
		return Task{}, err
	}
	return task, nil
}

func scanTask(row rowScanner) (Task, error) {
	var task Task
	var priority, status string
	var dueDate, completedAt, createdAt, updatedAt string

	err := row.Scan(
		&task.ID, &task.LeadID, &task.Title, &task.Description, &dueDate,
		&priority, &status, &completedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return Task{}, err
	}

	task.Priority = TaskPriority(priority)
	task.Status = TaskStatus(status)
	if dueDate != "" {
		t := parseTime(dueDate)
		task.DueDate = &t
	}
	if completedAt != "" {
		t := parseTime(completedAt)
		task.CompletedAt = &t
	}
	task.CreatedAt = parseTime(createdAt)
	task.UpdatedAt = parseTime(updatedAt)
	return task, nil
}
