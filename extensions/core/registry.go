// ABOUTME: Extension registry built once at startup and injected where needed.
// ABOUTME: Append-only; rejects duplicates and invalid descriptors.

package core

import (
	"strings"
	"sync"
)

// Registry holds registered extension descriptors in registration order.
// It is constructed explicitly at boot and passed to the dispatcher, the
// health aggregator, and the HTTP layer. There is no runtime removal.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Extension
	order  []*Extension
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Extension)}
}

// Register validates and stores a descriptor. It fails with a
// *RegistrationError on an empty or duplicate name, a name containing '.'
// (which would break namespace paths), a nil hook, or a hook keyed by an
// unknown event kind. SupportedTypes defaults to {"all"} when omitted.
func (r *Registry) Register(ext *Extension) error {
	if ext.Name == "" {
		return &RegistrationError{Extension: ext.Name, Err: ErrEmptyName}
	}
	if strings.Contains(ext.Name, ".") {
		return &RegistrationError{Extension: ext.Name, Err: ErrInvalidName}
	}
	for kind, hook := range ext.Hooks {
		if hook == nil {
			return &RegistrationError{Extension: ext.Name, Err: ErrNilHook}
		}
		if !knownEventKind(kind) {
			return &RegistrationError{Extension: ext.Name, Err: ErrUnknownEventKind}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[ext.Name]; exists {
		return &RegistrationError{Extension: ext.Name, Err: ErrDuplicateExtension}
	}
	if len(ext.SupportedTypes) == 0 {
		ext.SupportedTypes = []string{SupportsAll}
	}
	r.byName[ext.Name] = ext
	r.order = append(r.order, ext)
	return nil
}

// Get retrieves an extension by name.
func (r *Registry) Get(name string) (*Extension, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ext, ok := r.byName[name]
	return ext, ok
}

// All returns every registered extension in registration order.
func (r *Registry) All() []*Extension {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Extension, len(r.order))
	copy(out, r.order)
	return out
}

// Resolve returns the extensions applicable to a habit type, in
// registration order. Extensions scoped to "all" always match.
func (r *Registry) Resolve(habitType string) []*Extension {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Extension
	for _, ext := range r.order {
		if ext.Supports(habitType) {
			out = append(out, ext)
		}
	}
	return out
}

// Names returns all registered extension names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.order))
	for _, ext := range r.order {
		names = append(names, ext.Name)
	}
	return names
}

// Len reports the number of registered extensions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func knownEventKind(kind EventKind) bool {
	for _, k := range EventKinds {
		if k == kind {
			return true
		}
	}
	return false
}
