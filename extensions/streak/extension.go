// ABOUTME: Streak extension tracking consecutive-day completion runs.
// ABOUTME: Hand-built descriptor; reads prior state before recomputing counters.

package streak

import (
	"context"

	"github.com/2389/habitat/extensions/core"
)

const (
	name    = "streak"
	version = "1.0.0"

	dayFormat = "2006-01-02"
)

// New builds the streak extension. It applies to every habit type: the
// namespace is seeded on creation and recomputed on each completion.
//
// Patch values are full replacements, so the hook reads its own prior
// state through the data manager and writes back computed results; it
// never relies on the merge step to accumulate anything.
func New(reader core.IntegrationReader) *core.Extension {
	data := core.NewDataManager(name, reader)

	return &core.Extension{
		Name:    name,
		Version: version,
		Hooks: map[core.EventKind]core.HookFunc{
			core.HabitCreated: func(ctx context.Context, evt core.Event) (core.HookResult, error) {
				return data.Seed(map[string]any{
					"current":       0,
					"longest":       0,
					"lastCompleted": "",
				}), nil
			},
			core.HabitCompleted: func(ctx context.Context, evt core.Event) (core.HookResult, error) {
				return onCompleted(ctx, evt, data)
			},
		},
		HealthCheck: func(ctx context.Context) (core.HealthStatus, error) {
			return core.HealthStatus{Status: core.StatusHealthy, Message: "streak tracking operational"}, nil
		},
	}
}

func onCompleted(ctx context.Context, evt core.Event, data *core.DataManager) (core.HookResult, error) {
	current, err := data.Get(ctx, evt.Habit.ID, "current")
	if err != nil {
		return core.NoUpdate(), err
	}
	longest, err := data.Get(ctx, evt.Habit.ID, "longest")
	if err != nil {
		return core.NoUpdate(), err
	}
	last, err := data.Get(ctx, evt.Habit.ID, "lastCompleted")
	if err != nil {
		return core.NoUpdate(), err
	}

	today := evt.Completion.CompletedAt.UTC().Format(dayFormat)
	if last.String() == today {
		// Second completion on the same day does not extend the streak.
		return core.NoUpdate(), nil
	}

	streak := int64(1)
	yesterday := evt.Completion.CompletedAt.UTC().AddDate(0, 0, -1).Format(dayFormat)
	if last.String() == yesterday {
		streak = current.Int() + 1
	}

	best := longest.Int()
	if streak > best {
		best = streak
	}

	return data.Patch(map[string]any{
		"current":       streak,
		"longest":       best,
		"lastCompleted": today,
	}), nil
}
