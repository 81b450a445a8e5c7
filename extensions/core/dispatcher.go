// ABOUTME: Lifecycle event dispatcher with concurrent fan-out and failure isolation.
// ABOUTME: Hook faults are logged and dropped; they never reach the CRUD caller.

package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultHookTimeout bounds one hook invocation when no timeout is configured.
const DefaultHookTimeout = 5 * time.Second

// IntegrationStore is the persistence surface the dispatcher and data
// managers need: raw namespace reads and atomic write-set application.
type IntegrationStore interface {
	Integration(ctx context.Context, habitID, extension string) ([]byte, error)
	ApplyIntegrations(ctx context.Context, ws WriteSet) error
}

// DispatchResult reports what one dispatch produced. Errors holds per-hook
// failures by extension name; they are informational only.
type DispatchResult struct {
	HabitID  string
	Updates  []HookUpdate
	WriteSet WriteSet
	Errors   map[string]error
}

// Dispatcher fans one lifecycle event out to every applicable extension,
// waits for all hooks, merges their results, and applies the write set.
//
// Dispatches for the same habit are serialized on a per-habit mutex so two
// rapid events cannot interleave their merges; dispatches for different
// habits run fully concurrently.
type Dispatcher struct {
	registry *Registry
	store    IntegrationStore
	merger   Merger
	logger   *slog.Logger
	timeout  time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewDispatcher creates a dispatcher. A zero timeout falls back to
// DefaultHookTimeout.
func NewDispatcher(registry *Registry, store IntegrationStore, logger *slog.Logger, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultHookTimeout
	}
	return &Dispatcher{
		registry: registry,
		store:    store,
		logger:   logger,
		timeout:  timeout,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Dispatch runs one fan-out/fan-in cycle for evt and applies the merged
// write set. It blocks until every hook has finished or timed out. Hook and
// merge failures are logged and recorded in the result but never returned;
// the caller's mutation has already committed and must not be failed here.
func (d *Dispatcher) Dispatch(ctx context.Context, evt Event) DispatchResult {
	res := DispatchResult{HabitID: evt.Habit.ID, Errors: make(map[string]error)}

	unlock := d.lockHabit(evt.Habit.ID)
	defer unlock()

	candidates := d.registry.Resolve(evt.Habit.Type)
	results := make([]HookResult, len(candidates))

	var wg sync.WaitGroup
	var errMu sync.Mutex
	for i, ext := range candidates {
		hook, ok := ext.Hooks[evt.Kind]
		if !ok {
			continue
		}
		wg.Add(1)
		go func(i int, ext *Extension, hook HookFunc) {
			defer wg.Done()
			r, err := d.invoke(ctx, hook, evt)
			if err != nil {
				hookErr := &HookError{Extension: ext.Name, Event: evt.Kind, Err: err}
				d.logger.Warn("extension hook error",
					slog.String("extension", ext.Name),
					slog.String("event", string(evt.Kind)),
					slog.String("error", err.Error()),
				)
				errMu.Lock()
				res.Errors[ext.Name] = hookErr
				errMu.Unlock()
				return
			}
			results[i] = r
		}(i, ext, hook)
	}
	wg.Wait()

	// Fan-in preserves registration order regardless of completion order.
	for i, ext := range candidates {
		if results[i].IsUpdate() {
			res.Updates = append(res.Updates, HookUpdate{Extension: ext.Name, Result: results[i]})
		}
	}

	res.WriteSet = d.merger.Merge(evt.Habit.ID, res.Updates)
	if len(res.WriteSet.Ops) > 0 {
		if err := d.store.ApplyIntegrations(ctx, res.WriteSet); err != nil {
			d.logger.Error("applying integration writes",
				slog.String("habit", evt.Habit.ID),
				slog.String("event", string(evt.Kind)),
				slog.String("error", err.Error()),
			)
		}
	}
	return res
}

// invoke runs one hook under a deadline and a panic boundary. A hook that
// outlives its deadline is abandoned; its goroutine may still be running but
// its eventual result is discarded.
func (d *Dispatcher) invoke(ctx context.Context, hook HookFunc, evt Event) (HookResult, error) {
	hctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	type outcome struct {
		result HookResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("hook panic: %v", r)}
			}
		}()
		r, err := hook(hctx, evt)
		done <- outcome{result: r, err: err}
	}()

	select {
	case o := <-done:
		return o.result, o.err
	case <-hctx.Done():
		return NoUpdate(), fmt.Errorf("hook timed out after %s: %w", d.timeout, hctx.Err())
	}
}

// lockHabit serializes dispatches per habit ID. Mutexes live for the
// process lifetime; the set is bounded by the number of habits seen.
func (d *Dispatcher) lockHabit(habitID string) func() {
	d.mu.Lock()
	l, ok := d.locks[habitID]
	if !ok {
		l = &sync.Mutex{}
		d.locks[habitID] = l
	}
	d.mu.Unlock()

	l.Lock()
	return l.Unlock
}
