// ABOUTME: Reads and applies per-extension integration state on habits.
// ABOUTME: One dispatch's writes commit in a single transaction.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/2389/habitat/extensions/core"
)

// Integration returns the raw JSON stored under one extension's namespace
// for a habit, or nil when the namespace has never been written.
func (s *Store) Integration(ctx context.Context, habitID, extension string) ([]byte, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT integrations FROM habits WHERE id = ?`, habitID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("habit %s: %w", habitID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read integrations: %w", err)
	}

	res := gjson.Get(raw, extension)
	if !res.Exists() {
		return nil, nil
	}
	return []byte(res.Raw), nil
}

// ApplyIntegrations applies every write from one dispatch in a single
// transaction. A malformed op is skipped and reported as a *core.MergeError
// without aborting sibling writes; the transaction still commits whatever
// applied cleanly. Only a whole-transaction failure loses the dispatch.
func (s *Store) ApplyIntegrations(ctx context.Context, ws core.WriteSet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin integrations tx: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx, `SELECT integrations FROM habits WHERE id = ?`, ws.HabitID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("habit %s: %w", ws.HabitID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("read integrations: %w", err)
	}
	if raw == "" {
		raw = "{}"
	}

	blob := []byte(raw)
	var opErrs []error
	for _, op := range ws.Ops {
		next, opErr := applyOp(blob, op)
		if opErr != nil {
			opErrs = append(opErrs, opErr)
			continue
		}
		blob = next
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE habits SET integrations = ?, updated_at = ? WHERE id = ?
	`, string(blob), time.Now().UTC(), ws.HabitID)
	if err != nil {
		return fmt.Errorf("write integrations: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit integrations tx: %w", err)
	}
	return errors.Join(opErrs...)
}

func applyOp(blob []byte, op core.WriteOp) ([]byte, error) {
	if op.Replace {
		seeded, err := json.Marshal(op.Value)
		if err != nil {
			return nil, &core.MergeError{Extension: op.Extension, Err: err}
		}
		next, err := sjson.SetRawBytes(blob, op.Extension, seeded)
		if err != nil {
			return nil, &core.MergeError{Extension: op.Extension, Err: err}
		}
		return next, nil
	}

	next, err := sjson.SetBytes(blob, op.Extension+"."+op.Path, op.Value)
	if err != nil {
		return nil, &core.MergeError{Extension: op.Extension, Path: op.Path, Err: err}
	}
	return next, nil
}
