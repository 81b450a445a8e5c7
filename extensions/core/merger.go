// ABOUTME: Turns collected hook results into one atomic write set.
// ABOUTME: Seed replaces a namespace; Patch sets independent paths inside it.

package core

import (
	"sort"
	"strings"
)

// HookUpdate pairs an extension name with its non-empty hook result.
type HookUpdate struct {
	Extension string
	Result    HookResult
}

// WriteOp is one field write against a habit's integrations state.
// When Replace is set, Value becomes the whole namespace content and Path
// is empty. Otherwise Path is dotted and relative to the namespace.
type WriteOp struct {
	Extension string
	Replace   bool
	Path      string
	Value     any
}

// WriteSet is every write produced by one dispatch. The store applies all
// ops in a single transaction.
type WriteSet struct {
	HabitID string
	Ops     []WriteOp
}

// Merger flattens hook updates into write ops. It is stateless.
type Merger struct{}

// Merge builds the write set for one dispatch. Updates must already be in
// registration order; op order follows it, so identical paths resolve
// last-write-wins deterministically.
func (Merger) Merge(habitID string, updates []HookUpdate) WriteSet {
	ws := WriteSet{HabitID: habitID}
	for _, u := range updates {
		if blob, ok := u.Result.SeedBlob(); ok {
			ws.Ops = append(ws.Ops, WriteOp{Extension: u.Extension, Replace: true, Value: blob})
			continue
		}
		if paths, ok := u.Result.PatchPaths(); ok {
			for _, p := range sortedKeys(paths) {
				rel := relativePath(u.Extension, p)
				if rel == "" {
					continue
				}
				ws.Ops = append(ws.Ops, WriteOp{Extension: u.Extension, Path: rel, Value: paths[p]})
			}
		}
	}
	return ws
}

// relativePath strips an optional fully-qualified prefix so hooks may write
// either "count" or "integrations.counter.count" and mean the same field.
func relativePath(ext, path string) string {
	path = strings.TrimPrefix(path, "integrations.")
	path = strings.TrimPrefix(path, ext+".")
	return path
}

// sortedKeys orders patch paths so a write set is reproducible; map
// iteration order is random.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
