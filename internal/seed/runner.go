// ABOUTME: Inserts generated habits through the real dispatch path.
// ABOUTME: Seeded data gets the same integration state live data would.

package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/2389/habitat/extensions/core"
	"github.com/2389/habitat/internal/habit"
	"github.com/2389/habitat/internal/store"
)

// Run inserts the generated habits and their completion history, emitting
// the same lifecycle events the API would so extensions seed and patch
// their namespaces exactly as in production.
func Run(ctx context.Context, s *store.Store, d *core.Dispatcher, g *Generator, userID string, count int) (int, error) {
	habits := g.Generate(ctx, count)

	for _, data := range habits {
		h := &habit.Habit{
			UserID:      userID,
			Name:        data.Name,
			Type:        data.Type,
			TargetValue: data.TargetValue,
		}
		if !habit.ValidType(h.Type) {
			h.Type = habit.TypeSimple
		}
		if err := s.CreateHabit(ctx, h); err != nil {
			return 0, fmt.Errorf("seed habit %q: %w", data.Name, err)
		}
		d.Dispatch(ctx, core.Event{Kind: core.HabitCreated, Habit: h, User: userID})

		// Backdate history so streak-style extensions see consecutive days.
		for i, value := range data.History {
			completedAt := time.Now().UTC().AddDate(0, 0, i-len(data.History)+1)
			c := &habit.Completion{
				HabitID:     h.ID,
				UserID:      userID,
				Value:       value,
				CompletedAt: completedAt,
			}
			if err := s.CreateCompletion(ctx, c); err != nil {
				return 0, fmt.Errorf("seed completion for %q: %w", data.Name, err)
			}
			d.Dispatch(ctx, core.Event{Kind: core.HabitCompleted, Habit: h, User: userID, Completion: c})
		}
	}
	return len(habits), nil
}
