// ABOUTME: Namespace-scoped data access for extension hooks.
// ABOUTME: Reads only the owning extension's slice of a habit's integrations.

package core

import (
	"context"

	"github.com/tidwall/gjson"
)

// IntegrationReader is the read half of IntegrationStore, enough for hooks
// that inspect their own prior state.
type IntegrationReader interface {
	Integration(ctx context.Context, habitID, extension string) ([]byte, error)
}

// DataManager gives one extension's hooks access to their own namespace
// without hardcoding "integrations.<name>" paths. It never exposes another
// extension's data.
type DataManager struct {
	extension string
	reader    IntegrationReader
}

// NewDataManager binds a data manager to one extension's namespace.
func NewDataManager(extension string, reader IntegrationReader) *DataManager {
	return &DataManager{extension: extension, reader: reader}
}

// Extension returns the namespace this manager is bound to.
func (m *DataManager) Extension() string { return m.extension }

// Raw returns the extension's whole namespace content as JSON, or nil when
// the namespace has never been seeded.
func (m *DataManager) Raw(ctx context.Context, habitID string) ([]byte, error) {
	return m.reader.Integration(ctx, habitID, m.extension)
}

// Get reads one dotted path inside the extension's namespace. A missing
// path yields a zero gjson.Result (Exists() == false), not an error.
func (m *DataManager) Get(ctx context.Context, habitID, path string) (gjson.Result, error) {
	raw, err := m.reader.Integration(ctx, habitID, m.extension)
	if err != nil {
		return gjson.Result{}, err
	}
	if len(raw) == 0 {
		return gjson.Result{}, nil
	}
	return gjson.GetBytes(raw, path), nil
}

// Seed builds a namespace-replacing result. Identical to the package-level
// Seed; present so hook bodies read uniformly off the manager.
func (m *DataManager) Seed(blob map[string]any) HookResult {
	return Seed(blob)
}

// Patch builds a path-setting result. Paths are relative to the namespace.
func (m *DataManager) Patch(paths map[string]any) HookResult {
	return Patch(paths)
}
