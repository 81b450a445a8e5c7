// ABOUTME: Lifecycle event kinds and the payload delivered to extension hooks.
// ABOUTME: Events are emitted by the owning CRUD layer after its mutation commits.

package core

import "github.com/2389/habitat/internal/habit"

// EventKind identifies one habit lifecycle event.
type EventKind string

const (
	HabitCreated   EventKind = "created"
	HabitCompleted EventKind = "completed"
	HabitUpdated   EventKind = "updated"
	HabitDeleted   EventKind = "deleted"
)

// EventKinds lists every dispatchable kind, used to validate hook maps.
var EventKinds = []EventKind{HabitCreated, HabitCompleted, HabitUpdated, HabitDeleted}

// Event is the payload handed to every hook invocation. Habit is the
// post-mutation snapshot. Completion is set only for HabitCompleted and
// Previous only for HabitUpdated.
type Event struct {
	Kind       EventKind
	Habit      *habit.Habit
	User       string
	Completion *habit.Completion
	Previous   *habit.Habit
}
