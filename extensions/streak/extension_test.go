// ABOUTME: Tests for streak computation across completion sequences.
// ABOUTME: Uses a fake reader holding the streak namespace directly.

package streak

import (
	"context"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/2389/habitat/extensions/core"
	"github.com/2389/habitat/internal/habit"
)

type fakeReader struct {
	data map[string][]byte
}

func (f *fakeReader) Integration(ctx context.Context, habitID, extension string) ([]byte, error) {
	return f.data[habitID], nil
}

func completedEvent(day time.Time) core.Event {
	return core.Event{
		Kind:       core.HabitCompleted,
		Habit:      &habit.Habit{ID: "h1", Type: habit.TypeSimple},
		User:       "harper",
		Completion: &habit.Completion{ID: "c1", HabitID: "h1", CompletedAt: day},
	}
}

func patchValue(t *testing.T, res core.HookResult, key string) any {
	t.Helper()
	paths, ok := res.PatchPaths()
	if !ok {
		t.Fatalf("expected a patch result, got %+v", res)
	}
	return paths[key]
}

func TestCreatedSeedsZeroState(t *testing.T) {
	ext := New(&fakeReader{})
	hook := ext.Hooks[core.HabitCreated]

	res, err := hook(context.Background(), core.Event{
		Kind:  core.HabitCreated,
		Habit: &habit.Habit{ID: "h1", Type: habit.TypeSimple},
	})
	if err != nil {
		t.Fatalf("created hook error = %v", err)
	}

	blob, ok := res.SeedBlob()
	if !ok {
		t.Fatalf("expected a seed result, got %+v", res)
	}
	if blob["current"] != 0 || blob["longest"] != 0 {
		t.Errorf("unexpected seed: %v", blob)
	}
}

func TestFirstCompletionStartsStreak(t *testing.T) {
	ext := New(&fakeReader{})
	hook := ext.Hooks[core.HabitCompleted]

	day := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	res, err := hook(context.Background(), completedEvent(day))
	if err != nil {
		t.Fatalf("completed hook error = %v", err)
	}

	if got := patchValue(t, res, "current"); got != int64(1) {
		t.Errorf("current = %v, want 1", got)
	}
	if got := patchValue(t, res, "lastCompleted"); got != "2026-08-31" {
		t.Errorf("lastCompleted = %v, want 2026-08-31", got)
	}
}

func TestConsecutiveDayExtendsStreak(t *testing.T) {
	reader := &fakeReader{data: map[string][]byte{
		"h1": []byte(`{"current":3,"longest":5,"lastCompleted":"2026-08-30"}`),
	}}
	ext := New(reader)
	hook := ext.Hooks[core.HabitCompleted]

	day := time.Date(2026, 8, 31, 22, 0, 0, 0, time.UTC)
	res, err := hook(context.Background(), completedEvent(day))
	if err != nil {
		t.Fatalf("completed hook error = %v", err)
	}

	if got := patchValue(t, res, "current"); got != int64(4) {
		t.Errorf("current = %v, want 4", got)
	}
	if got := patchValue(t, res, "longest"); got != int64(5) {
		t.Errorf("longest = %v, want 5 (unchanged)", got)
	}
}

func TestGapResetsStreak(t *testing.T) {
	reader := &fakeReader{data: map[string][]byte{
		"h1": []byte(`{"current":9,"longest":9,"lastCompleted":"2026-08-20"}`),
	}}
	ext := New(reader)
	hook := ext.Hooks[core.HabitCompleted]

	day := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	res, err := hook(context.Background(), completedEvent(day))
	if err != nil {
		t.Fatalf("completed hook error = %v", err)
	}

	if got := patchValue(t, res, "current"); got != int64(1) {
		t.Errorf("current = %v, want 1 after a gap", got)
	}
	if got := patchValue(t, res, "longest"); got != int64(9) {
		t.Errorf("longest = %v, want 9 preserved", got)
	}
}

func TestNewRecordUpdatesLongest(t *testing.T) {
	reader := &fakeReader{data: map[string][]byte{
		"h1": []byte(`{"current":5,"longest":5,"lastCompleted":"2026-08-30"}`),
	}}
	ext := New(reader)
	hook := ext.Hooks[core.HabitCompleted]

	day := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	res, err := hook(context.Background(), completedEvent(day))
	if err != nil {
		t.Fatalf("completed hook error = %v", err)
	}

	if got := patchValue(t, res, "longest"); got != int64(6) {
		t.Errorf("longest = %v, want 6", got)
	}
}

func TestSameDayCompletionIsNoUpdate(t *testing.T) {
	reader := &fakeReader{data: map[string][]byte{
		"h1": []byte(`{"current":2,"longest":4,"lastCompleted":"2026-08-31"}`),
	}}
	ext := New(reader)
	hook := ext.Hooks[core.HabitCompleted]

	day := time.Date(2026, 8, 31, 23, 0, 0, 0, time.UTC)
	res, err := hook(context.Background(), completedEvent(day))
	if err != nil {
		t.Fatalf("completed hook error = %v", err)
	}
	if res.IsUpdate() {
		t.Errorf("second completion on the same day should not update, got %+v", res)
	}
}

func TestDescriptorShape(t *testing.T) {
	ext := New(&fakeReader{})

	if ext.Name != "streak" {
		t.Errorf("name = %q, want streak", ext.Name)
	}
	if len(ext.SupportedTypes) != 0 {
		// The registry defaults this to {"all"} at registration.
		t.Errorf("expected SupportedTypes left empty for registry defaulting, got %v", ext.SupportedTypes)
	}
	if ext.HealthCheck == nil {
		t.Fatal("expected a health check")
	}
	status, err := ext.HealthCheck(context.Background())
	if err != nil {
		t.Fatalf("health check error = %v", err)
	}
	if status.Status != core.StatusHealthy {
		t.Errorf("health = %q, want healthy", status.Status)
	}
}

// Guard against the namespace layout drifting from what the hooks read.
func TestPatchRoundTripsThroughNamespace(t *testing.T) {
	ext := New(&fakeReader{})
	hook := ext.Hooks[core.HabitCompleted]

	day := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	res, _ := hook(context.Background(), completedEvent(day))
	paths, _ := res.PatchPaths()

	for key := range paths {
		if gjson.Valid(`{"` + key + `":0}`) == false {
			t.Errorf("patch key %q is not a plain field name", key)
		}
	}
}
