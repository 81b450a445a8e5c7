// ABOUTME: Tests for sample habit generation and the seeding runner.
// ABOUTME: Runs the static generator through a real store and dispatcher.

package seed

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/2389/habitat/extensions/core"
	"github.com/2389/habitat/extensions/streak"
	"github.com/2389/habitat/internal/habit"
	"github.com/2389/habitat/internal/store"
)

func TestStaticGeneratorCoversAllTypes(t *testing.T) {
	g := NewGenerator("default", "", "")
	habits := g.Generate(context.Background(), 0)

	if len(habits) == 0 {
		t.Fatal("expected static habits")
	}

	seen := map[string]bool{}
	for _, h := range habits {
		seen[h.Type] = true
	}
	for _, want := range []string{habit.TypeSimple, habit.TypeCounter, habit.TypeWeight} {
		if !seen[want] {
			t.Errorf("static set has no %q habit", want)
		}
	}
}

func TestStaticGeneratorRespectsCount(t *testing.T) {
	g := NewGenerator("default", "", "")

	if got := g.Generate(context.Background(), 3); len(got) != 3 {
		t.Errorf("generated %d habits, want 3", len(got))
	}
	if got := g.Generate(context.Background(), 1000); len(got) != len(staticHabits) {
		t.Errorf("generated %d habits, want the full static set of %d", len(got), len(staticHabits))
	}
}

func TestRunSeedsThroughDispatch(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "seed_test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := core.NewRegistry()
	if err := registry.Register(streak.New(s)); err != nil {
		t.Fatalf("failed to register streak: %v", err)
	}
	dispatcher := core.NewDispatcher(registry, s, logger, time.Second)

	g := NewGenerator("default", "", "")
	n, err := Run(context.Background(), s, dispatcher, g, "default", 0)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if n != len(staticHabits) {
		t.Errorf("seeded %d habits, want %d", n, len(staticHabits))
	}

	habits, err := s.ListHabits(context.Background(), "default")
	if err != nil {
		t.Fatalf("failed to list habits: %v", err)
	}
	if len(habits) != n {
		t.Fatalf("stored %d habits, want %d", len(habits), n)
	}

	// Every habit went through the created dispatch, so the streak namespace
	// exists; habits with consecutive-day history have a matching streak.
	for _, h := range habits {
		blob, err := s.Integration(context.Background(), h.ID, "streak")
		if err != nil {
			t.Fatalf("failed to read streak namespace: %v", err)
		}
		if blob == nil {
			t.Errorf("habit %q has no streak namespace", h.Name)
			continue
		}
		if h.Name == "Glasses of water" {
			if got := gjson.GetBytes(blob, "current").Int(); got != 3 {
				t.Errorf("streak for %q = %d, want 3", h.Name, got)
			}
		}
	}
}
