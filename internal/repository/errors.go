package repository

import (
	"context"
	"errors"

	"github.com/WorkflowDigitalltd/ac-crm/internal/db"
	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrConflict reports a stale write: the row changed between read
	// and write and still exists. Propagated to the caller unresolved.
	ErrConflict = errors.New("concurrent modification")
)

// staleWrite classifies a zero-row update by re-checking existence once:
// a concurrently deleted row surfaces as NotFound, anything else as a
// conflict. table is always a compile-time constant.
func staleWrite(ctx context.Context, pg *db.Postgres, table string, id uuid.UUID) error {
	var exists bool
	err := pg.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM `+table+` WHERE id=$1)`, id).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrConflict
}
