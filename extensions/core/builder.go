// ABOUTME: Fluent builder for extension descriptors.
// ABOUTME: Pure convenience; builder output must match a hand-built descriptor.

package core

import (
	"context"
	"net/http"
)

// HookHandler is the builder-flavored hook signature. The builder adapts it
// to HookFunc by closing over a DataManager bound to the extension's own
// namespace, so handler bodies never construct paths by hand.
type HookHandler func(ctx context.Context, evt Event, data *DataManager) (HookResult, error)

// Builder assembles an extension descriptor fluently. Build fails if the
// name was never set. Descriptors built here and descriptors assembled by
// hand are behaviorally identical.
type Builder struct {
	name        string
	version     string
	types       []string
	config      map[string]string
	handlers    map[EventKind]HookHandler
	endpoints   map[string]http.HandlerFunc
	healthCheck HealthFunc
	reader      IntegrationReader
}

// NewBuilder starts a builder for the named extension. The reader backs the
// DataManager handed to every hook; pass nil only when no hook reads prior
// state.
func NewBuilder(name string, reader IntegrationReader) *Builder {
	return &Builder{
		name:      name,
		reader:    reader,
		handlers:  make(map[EventKind]HookHandler),
		endpoints: make(map[string]http.HandlerFunc),
	}
}

// SetMetadata sets the extension version.
func (b *Builder) SetMetadata(version string) *Builder {
	b.version = version
	return b
}

// ForTypes scopes the extension to the given habit types. Without it the
// extension receives events for every type.
func (b *Builder) ForTypes(types ...string) *Builder {
	b.types = append(b.types, types...)
	return b
}

// WithConfig attaches opaque configuration.
func (b *Builder) WithConfig(config map[string]string) *Builder {
	b.config = config
	return b
}

// OnCreated registers the handler for habit creation events.
func (b *Builder) OnCreated(h HookHandler) *Builder {
	b.handlers[HabitCreated] = h
	return b
}

// OnCompleted registers the handler for habit completion events.
func (b *Builder) OnCompleted(h HookHandler) *Builder {
	b.handlers[HabitCompleted] = h
	return b
}

// OnUpdated registers the handler for habit update events.
func (b *Builder) OnUpdated(h HookHandler) *Builder {
	b.handlers[HabitUpdated] = h
	return b
}

// OnDeleted registers the handler for habit deletion events.
func (b *Builder) OnDeleted(h HookHandler) *Builder {
	b.handlers[HabitDeleted] = h
	return b
}

// AddEndpoint mounts an extra HTTP handler under /ext/<name>/<endpoint>.
func (b *Builder) AddEndpoint(name string, fn http.HandlerFunc) *Builder {
	b.endpoints[name] = fn
	return b
}

// WithHealthCheck attaches a health probe.
func (b *Builder) WithHealthCheck(fn HealthFunc) *Builder {
	b.healthCheck = fn
	return b
}

// Build produces the descriptor. It fails if the name is empty; all other
// validation happens at registration.
func (b *Builder) Build() (*Extension, error) {
	if b.name == "" {
		return nil, &RegistrationError{Err: ErrEmptyName}
	}

	data := NewDataManager(b.name, b.reader)
	hooks := make(map[EventKind]HookFunc, len(b.handlers))
	for kind, handler := range b.handlers {
		h := handler
		hooks[kind] = func(ctx context.Context, evt Event) (HookResult, error) {
			return h(ctx, evt, data)
		}
	}

	ext := &Extension{
		Name:           b.name,
		Version:        b.version,
		SupportedTypes: b.types,
		Config:         b.config,
		Hooks:          hooks,
		HealthCheck:    b.healthCheck,
	}
	if len(b.endpoints) > 0 {
		ext.Endpoints = b.endpoints
	}
	return ext, nil
}
