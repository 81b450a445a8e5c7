// ABOUTME: Tagged result type returned by extension hooks.
// ABOUTME: A hook either declines to update or returns a Seed or a Patch.

package core

type resultKind int

const (
	resultNone resultKind = iota
	resultSeed
	resultPatch
)

// HookResult is the outcome of one hook invocation. The two update kinds are
// explicit tags rather than inferred from shape: Seed replaces the whole
// namespace, Patch sets individual paths inside it.
type HookResult struct {
	kind  resultKind
	seed  map[string]any
	patch map[string]any
}

// NoUpdate reports that the hook has nothing to persist.
func NoUpdate() HookResult {
	return HookResult{kind: resultNone}
}

// Seed replaces the extension's entire namespace with blob. Overwrite
// semantics: any prior namespace content is discarded, not merged.
func Seed(blob map[string]any) HookResult {
	return HookResult{kind: resultSeed, seed: blob}
}

// Patch sets each path to its value inside the extension's namespace.
// Paths are dotted and relative to the namespace ("current", "stats.max").
// Each entry is an independent last-write-wins field set, never an increment.
func Patch(paths map[string]any) HookResult {
	return HookResult{kind: resultPatch, patch: paths}
}

// IsUpdate reports whether the result carries anything to persist.
func (r HookResult) IsUpdate() bool {
	return r.kind != resultNone
}

// SeedBlob returns the seed content, if this result is a Seed.
func (r HookResult) SeedBlob() (map[string]any, bool) {
	return r.seed, r.kind == resultSeed
}

// PatchPaths returns the path/value map, if this result is a Patch.
func (r HookResult) PatchPaths() (map[string]any, bool) {
	return r.patch, r.kind == resultPatch
}
