// ABOUTME: Extension descriptor contract for the habitat extension system.
// ABOUTME: Defines hooks, health probes, and optional extra HTTP endpoints.

package core

import (
	"context"
	"net/http"
)

// SupportsAll is the SupportedTypes entry matching every habit type.
const SupportsAll = "all"

// HookFunc handles one lifecycle event for one extension. The context
// carries the dispatcher's per-hook deadline; long-running hooks should
// honor it.
type HookFunc func(ctx context.Context, evt Event) (HookResult, error)

// HealthFunc probes one extension's operational health. A non-nil error
// marks the extension unhealthy regardless of the returned status.
type HealthFunc func(ctx context.Context) (HealthStatus, error)

// Status is an extension health level.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// HealthStatus is what a health probe reports.
type HealthStatus struct {
	Status  Status
	Message string
}

// Extension is the descriptor for one registered extension. Descriptors are
// built once at startup and must not be mutated after registration.
//
// Hooks maps event kinds to handlers; an extension implements only the
// kinds it cares about. Endpoints are extra HTTP handlers the server mounts
// under /ext/<name>/<endpoint>. HealthCheck is optional; an extension
// without one is reported healthy.
type Extension struct {
	Name           string
	Version        string
	SupportedTypes []string
	Config         map[string]string
	Hooks          map[EventKind]HookFunc
	Endpoints      map[string]http.HandlerFunc
	HealthCheck    HealthFunc
}

// Supports reports whether the extension handles habits of the given type.
func (e *Extension) Supports(habitType string) bool {
	for _, t := range e.SupportedTypes {
		if t == SupportsAll || t == habitType {
			return true
		}
	}
	return false
}
