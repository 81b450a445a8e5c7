// ABOUTME: Habit and completion CRUD against the SQLite store.
// ABOUTME: Deleting a habit cascades to its completions and integration state.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/2389/habitat/internal/habit"
)

// ErrNotFound is returned when a habit or completion does not exist.
var ErrNotFound = errors.New("not found")

// CreateHabit inserts a habit, assigning an ID and timestamps.
func (s *Store) CreateHabit(ctx context.Context, h *habit.Habit) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	h.CreatedAt = now
	h.UpdatedAt = now
	if len(h.Integrations) == 0 {
		h.Integrations = json.RawMessage("{}")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habits (id, user_id, name, type, target_value, integrations, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, h.ID, h.UserID, h.Name, h.Type, h.TargetValue, string(h.Integrations), h.CreatedAt, h.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert habit: %w", err)
	}
	return nil
}

// GetHabit loads a habit by ID.
func (s *Store) GetHabit(ctx context.Context, id string) (*habit.Habit, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, type, target_value, integrations, created_at, updated_at
		FROM habits WHERE id = ?
	`, id)
	return scanHabit(row)
}

// ListHabits returns a user's habits, newest first.
func (s *Store) ListHabits(ctx context.Context, userID string) ([]*habit.Habit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, type, target_value, integrations, created_at, updated_at
		FROM habits WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	var habits []*habit.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// UpdateHabit persists name, type, and target changes. The integrations
// column is owned by the extension system and only written through
// ApplyIntegrations.
func (s *Store) UpdateHabit(ctx context.Context, h *habit.Habit) error {
	h.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE habits SET name = ?, type = ?, target_value = ?, updated_at = ?
		WHERE id = ?
	`, h.Name, h.Type, h.TargetValue, h.UpdatedAt, h.ID)
	if err != nil {
		return fmt.Errorf("update habit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("habit %s: %w", h.ID, ErrNotFound)
	}
	return nil
}

// DeleteHabit removes a habit. Completions and all integration records go
// with it (ON DELETE CASCADE plus the row itself).
func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("habit %s: %w", id, ErrNotFound)
	}
	return nil
}

// CreateCompletion records one completion entry for a habit.
func (s *Store) CreateCompletion(ctx context.Context, c *habit.Completion) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CompletedAt.IsZero() {
		c.CompletedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habit_completions (id, habit_id, user_id, value, note, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.ID, c.HabitID, c.UserID, c.Value, c.Note, c.CompletedAt)
	if err != nil {
		return fmt.Errorf("insert completion: %w", err)
	}
	return nil
}

// ListCompletions returns a habit's completions, newest first.
func (s *Store) ListCompletions(ctx context.Context, habitID string, limit int) ([]*habit.Completion, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, habit_id, user_id, value, note, completed_at
		FROM habit_completions WHERE habit_id = ?
		ORDER BY completed_at DESC
		LIMIT ?
	`, habitID, limit)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	var completions []*habit.Completion
	for rows.Next() {
		var c habit.Completion
		if err := rows.Scan(&c.ID, &c.HabitID, &c.UserID, &c.Value, &c.Note, &c.CompletedAt); err != nil {
			return nil, err
		}
		completions = append(completions, &c)
	}
	return completions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (*habit.Habit, error) {
	var h habit.Habit
	var integrations string
	err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.Type, &h.TargetValue, &integrations, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan habit: %w", err)
	}
	h.Integrations = json.RawMessage(integrations)
	return &h, nil
}
