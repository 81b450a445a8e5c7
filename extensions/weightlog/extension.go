// ABOUTME: Weight-log extension recording last/min/max for weight habits.
// ABOUTME: Scoped to the "weight" type; patch-only, no created-time seed.

package weightlog

import (
	"context"
	"fmt"

	"github.com/2389/habitat/extensions/core"
	"github.com/2389/habitat/internal/habit"
)

const (
	name    = "weightlog"
	version = "1.0.0"
)

// New builds the weight-log extension. It receives events only for weight
// habits. The first patch creates the namespace implicitly; there is no
// created-time seed.
func New(reader core.IntegrationReader) *core.Extension {
	data := core.NewDataManager(name, reader)

	return &core.Extension{
		Name:           name,
		Version:        version,
		SupportedTypes: []string{habit.TypeWeight},
		Config:         map[string]string{"unit": "kg"},
		Hooks: map[core.EventKind]core.HookFunc{
			core.HabitCompleted: func(ctx context.Context, evt core.Event) (core.HookResult, error) {
				return onCompleted(ctx, evt, data)
			},
		},
		HealthCheck: func(ctx context.Context) (core.HealthStatus, error) {
			if reader == nil {
				return core.HealthStatus{}, fmt.Errorf("weight log has no store access")
			}
			return core.HealthStatus{Status: core.StatusHealthy, Message: "weight log operational"}, nil
		},
	}
}

func onCompleted(ctx context.Context, evt core.Event, data *core.DataManager) (core.HookResult, error) {
	weight := evt.Completion.Value
	if weight <= 0 {
		// A weight completion without a measurement is not loggable.
		return core.NoUpdate(), nil
	}

	minimum, err := data.Get(ctx, evt.Habit.ID, "min")
	if err != nil {
		return core.NoUpdate(), err
	}
	maximum, err := data.Get(ctx, evt.Habit.ID, "max")
	if err != nil {
		return core.NoUpdate(), err
	}
	entries, err := data.Get(ctx, evt.Habit.ID, "entries")
	if err != nil {
		return core.NoUpdate(), err
	}

	low, high := weight, weight
	if minimum.Exists() && minimum.Float() < low {
		low = minimum.Float()
	}
	if maximum.Exists() && maximum.Float() > high {
		high = maximum.Float()
	}

	return data.Patch(map[string]any{
		"last":    weight,
		"min":     low,
		"max":     high,
		"entries": entries.Int() + 1,
	}), nil
}
