// ABOUTME: Error taxonomy for the extension system.
// ABOUTME: Registration errors are fatal at boot; hook and merge errors never are.

package core

import (
	"errors"
	"fmt"
)

// Registration failure causes. Registration errors must stop startup.
var (
	ErrDuplicateExtension = errors.New("extension name already registered")
	ErrEmptyName          = errors.New("extension name is empty")
	ErrInvalidName        = errors.New("extension name contains '.'")
	ErrNilHook            = errors.New("hook is nil")
	ErrUnknownEventKind   = errors.New("unknown event kind")
)

// RegistrationError wraps a descriptor validation failure.
type RegistrationError struct {
	Extension string
	Err       error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("register extension %q: %v", e.Extension, e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }

// HookError records one hook invocation failure. It is logged by the
// dispatcher and converted to a no-op; it never reaches the CRUD caller.
type HookError struct {
	Extension string
	Event     EventKind
	Err       error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("extension %q hook for %q: %v", e.Extension, e.Event, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }

// MergeError records a failure applying one extension's write. Sibling
// writes from the same dispatch still apply.
type MergeError struct {
	Extension string
	Path      string
	Err       error
}

func (e *MergeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("merge write for extension %q: %v", e.Extension, e.Err)
	}
	return fmt.Sprintf("merge write for extension %q at %q: %v", e.Extension, e.Path, e.Err)
}

func (e *MergeError) Unwrap() error { return e.Err }
