// ABOUTME: Core domain types for tracked habits and their completions.
// ABOUTME: Shared by the store, the extension system, and the HTTP API.

package habit

import (
	"encoding/json"
	"time"
)

// Habit types. Extensions scope themselves to these via SupportedTypes.
const (
	TypeSimple  = "simple"  // done / not done
	TypeCounter = "counter" // numeric count per completion
	TypeWeight  = "weight"  // weight measurement per completion
)

// ValidType reports whether t is a known habit type.
func ValidType(t string) bool {
	switch t {
	case TypeSimple, TypeCounter, TypeWeight:
		return true
	}
	return false
}

// Habit is a tracked entity. Integrations holds per-extension state keyed by
// extension name; each value is opaque to everything but the owning extension.
type Habit struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	TargetValue  float64         `json:"targetValue,omitempty"`
	Integrations json.RawMessage `json:"integrations,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Completion is one recorded completion entry for a habit. Value carries the
// measurement for counter and weight habits and is zero for simple habits.
type Completion struct {
	ID          string    `json:"id"`
	HabitID     string    `json:"habitId"`
	UserID      string    `json:"userId"`
	Value       float64   `json:"value,omitempty"`
	Note        string    `json:"note,omitempty"`
	CompletedAt time.Time `json:"completedAt"`
}
