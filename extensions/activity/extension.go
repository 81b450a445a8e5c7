// ABOUTME: Activity extension stamping the last observed lifecycle event.
// ABOUTME: Built via the fluent builder; exposes a status endpoint.

package activity

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/2389/habitat/extensions/core"
)

const (
	name    = "activity"
	version = "1.0.0"
)

// New builds the activity extension with the fluent builder. Every event
// kind lands in the same flat patch, so this is the simplest possible
// consumer of the dispatch pipeline.
func New(reader core.IntegrationReader) (*core.Extension, error) {
	started := time.Now().UTC()

	stamp := func(ctx context.Context, evt core.Event, data *core.DataManager) (core.HookResult, error) {
		return data.Patch(map[string]any{
			"lastEvent":   string(evt.Kind),
			"lastEventAt": time.Now().UTC().Format(time.RFC3339),
			"lastUser":    evt.User,
		}), nil
	}

	return core.NewBuilder(name, reader).
		SetMetadata(version).
		WithConfig(map[string]string{"events": "all"}).
		OnCreated(stamp).
		OnCompleted(stamp).
		OnUpdated(stamp).
		OnDeleted(stamp).
		AddEndpoint("status", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"extension": name,
				"version":   version,
				"since":     started.Format(time.RFC3339),
			})
		}).
		WithHealthCheck(func(ctx context.Context) (core.HealthStatus, error) {
			return core.HealthStatus{Status: core.StatusHealthy, Message: "activity tracking operational"}, nil
		}).
		Build()
}
