// ABOUTME: HTTP handlers for habit CRUD, completions, and health.
// ABOUTME: Each mutation commits first, then emits its lifecycle event.

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/2389/habitat/extensions/core"
	"github.com/2389/habitat/internal/auth"
	apierrors "github.com/2389/habitat/internal/errors"
	"github.com/2389/habitat/internal/habit"
	"github.com/2389/habitat/internal/store"
)

// Handlers is the owning CRUD layer for habits. It performs the store
// mutation, then dispatches the lifecycle event; extension faults never
// change a mutation's outcome.
type Handlers struct {
	store      *store.Store
	dispatcher *core.Dispatcher
	health     *core.HealthAggregator
	registry   *core.Registry
	logger     *slog.Logger
}

// NewHandlers wires the HTTP layer.
func NewHandlers(s *store.Store, d *core.Dispatcher, h *core.HealthAggregator, reg *core.Registry, logger *slog.Logger) *Handlers {
	return &Handlers{store: s, dispatcher: d, health: h, registry: reg, logger: logger}
}

// RegisterRoutes mounts all API routes, including every registered
// extension's extra endpoints under /ext/<name>/<endpoint>.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/habits", func(r chi.Router) {
		r.Post("/", h.createHabit)
		r.Get("/", h.listHabits)
		r.Get("/{id}", h.getHabit)
		r.Put("/{id}", h.updateHabit)
		r.Delete("/{id}", h.deleteHabit)
		r.Post("/{id}/completions", h.completeHabit)
		r.Get("/{id}/completions", h.listCompletions)
	})

	r.Get("/healthz", h.healthz)

	for _, ext := range h.registry.All() {
		for name, fn := range ext.Endpoints {
			r.HandleFunc("/ext/"+ext.Name+"/"+name, fn)
		}
	}
}

type habitRequest struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	TargetValue float64 `json:"targetValue"`
}

func (h *Handlers) createHabit(w http.ResponseWriter, r *http.Request) {
	var req habitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrInvalidBody, "request body is not valid JSON")
		return
	}
	if req.Name == "" {
		apierrors.WriteErrorWithField(w, http.StatusBadRequest, apierrors.ErrMissingField, "habit name is required", "name")
		return
	}
	if req.Type == "" {
		req.Type = habit.TypeSimple
	}
	if !habit.ValidType(req.Type) {
		apierrors.WriteErrorWithField(w, http.StatusBadRequest, apierrors.ErrValidationFailed, "unknown habit type", "type")
		return
	}

	user := auth.UserFromContext(r.Context())
	newHabit := &habit.Habit{
		UserID:      user,
		Name:        req.Name,
		Type:        req.Type,
		TargetValue: req.TargetValue,
	}
	if err := h.store.CreateHabit(r.Context(), newHabit); err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrDatabaseError, "failed to create habit")
		return
	}

	h.dispatcher.Dispatch(r.Context(), core.Event{
		Kind:  core.HabitCreated,
		Habit: newHabit,
		User:  user,
	})

	h.writeHabit(w, r, http.StatusCreated, newHabit.ID)
}

func (h *Handlers) listHabits(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	habits, err := h.store.ListHabits(r.Context(), user)
	if err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrDatabaseError, "failed to list habits")
		return
	}
	if habits == nil {
		habits = []*habit.Habit{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"habits": habits})
}

func (h *Handlers) getHabit(w http.ResponseWriter, r *http.Request) {
	found, ok := h.loadHabit(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, found)
}

func (h *Handlers) updateHabit(w http.ResponseWriter, r *http.Request) {
	previous, ok := h.loadHabit(w, r)
	if !ok {
		return
	}

	var req habitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrInvalidBody, "request body is not valid JSON")
		return
	}

	updated := *previous
	if req.Name != "" {
		updated.Name = req.Name
	}
	if req.Type != "" {
		if !habit.ValidType(req.Type) {
			apierrors.WriteErrorWithField(w, http.StatusBadRequest, apierrors.ErrValidationFailed, "unknown habit type", "type")
			return
		}
		updated.Type = req.Type
	}
	if req.TargetValue != 0 {
		updated.TargetValue = req.TargetValue
	}

	if err := h.store.UpdateHabit(r.Context(), &updated); err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrDatabaseError, "failed to update habit")
		return
	}

	h.dispatcher.Dispatch(r.Context(), core.Event{
		Kind:     core.HabitUpdated,
		Habit:    &updated,
		User:     auth.UserFromContext(r.Context()),
		Previous: previous,
	})

	h.writeHabit(w, r, http.StatusOK, updated.ID)
}

func (h *Handlers) deleteHabit(w http.ResponseWriter, r *http.Request) {
	found, ok := h.loadHabit(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteHabit(r.Context(), found.ID); err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrDatabaseError, "failed to delete habit")
		return
	}

	// The row is gone; extensions observe the deletion but have nothing
	// left to write against.
	h.dispatcher.Dispatch(r.Context(), core.Event{
		Kind:  core.HabitDeleted,
		Habit: found,
		User:  auth.UserFromContext(r.Context()),
	})

	w.WriteHeader(http.StatusNoContent)
}

type completionRequest struct {
	Value float64 `json:"value"`
	Note  string  `json:"note"`
}

func (h *Handlers) completeHabit(w http.ResponseWriter, r *http.Request) {
	found, ok := h.loadHabit(w, r)
	if !ok {
		return
	}

	var req completionRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrInvalidBody, "request body is not valid JSON")
			return
		}
	}

	user := auth.UserFromContext(r.Context())
	completion := &habit.Completion{
		HabitID: found.ID,
		UserID:  user,
		Value:   req.Value,
		Note:    req.Note,
	}
	if err := h.store.CreateCompletion(r.Context(), completion); err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrDatabaseError, "failed to record completion")
		return
	}

	h.dispatcher.Dispatch(r.Context(), core.Event{
		Kind:       core.HabitCompleted,
		Habit:      found,
		User:       user,
		Completion: completion,
	})

	writeJSON(w, http.StatusCreated, completion)
}

func (h *Handlers) listCompletions(w http.ResponseWriter, r *http.Request) {
	found, ok := h.loadHabit(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	completions, err := h.store.ListCompletions(r.Context(), found.ID, limit)
	if err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrDatabaseError, "failed to list completions")
		return
	}
	if completions == nil {
		completions = []*habit.Completion{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"completions": completions})
}

// healthz serves the aggregated extension health report.
func (h *Handlers) healthz(w http.ResponseWriter, r *http.Request) {
	report := h.health.CheckAll(r.Context())
	status := http.StatusOK
	if report.Overall == core.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// loadHabit fetches the {id} habit or writes the appropriate error.
func (h *Handlers) loadHabit(w http.ResponseWriter, r *http.Request) (*habit.Habit, bool) {
	id := chi.URLParam(r, "id")
	found, err := h.store.GetHabit(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrNotFound, "habit not found")
		return nil, false
	}
	if err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrDatabaseError, "failed to load habit")
		return nil, false
	}
	return found, true
}

// writeHabit re-reads the habit so the response reflects any integration
// state the dispatch just wrote.
func (h *Handlers) writeHabit(w http.ResponseWriter, r *http.Request, status int, id string) {
	fresh, err := h.store.GetHabit(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrDatabaseError, "failed to load habit")
		return
	}
	writeJSON(w, status, fresh)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("encoding response", slog.String("error", err.Error()))
	}
}
