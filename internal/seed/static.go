// ABOUTME: Static fallback habit data when OpenAI is not configured.
// ABOUTME: A small, varied set covering every habit type.

package seed

import "github.com/2389/habitat/internal/habit"

var staticHabits = []HabitData{
	{Name: "Morning meditation", Type: habit.TypeSimple, History: []float64{0, 0, 0}},
	{Name: "Read 20 pages", Type: habit.TypeSimple, History: []float64{0, 0}},
	{Name: "Glasses of water", Type: habit.TypeCounter, TargetValue: 8, History: []float64{6, 8, 7}},
	{Name: "Pushups", Type: habit.TypeCounter, TargetValue: 30, History: []float64{20, 25, 30}},
	{Name: "Weigh-in", Type: habit.TypeWeight, TargetValue: 75, History: []float64{78.2, 77.9, 77.5}},
	{Name: "No sugar after dinner", Type: habit.TypeSimple, History: nil},
	{Name: "Practice guitar", Type: habit.TypeSimple, History: []float64{0}},
	{Name: "Steps (thousands)", Type: habit.TypeCounter, TargetValue: 10, History: []float64{8, 11, 9}},
}

// staticSample returns up to count habits from the static set.
func staticSample(count int) []HabitData {
	if count >= len(staticHabits) {
		out := make([]HabitData, len(staticHabits))
		copy(out, staticHabits)
		return out
	}
	out := make([]HabitData, count)
	copy(out, staticHabits[:count])
	return out
}
