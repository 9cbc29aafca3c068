package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/WaryFriend456/FlowGrid/internal/authz"
	"github.com/WaryFriend456/FlowGrid/internal/errs"
	"github.com/WaryFriend456/FlowGrid/internal/order"
)

// querier is the subset of PgxPool / pgx.Tx needed for chain lookups and
// shift execution.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// chainReader resolves containment links against live rows. With lock set,
// the board row is read FOR UPDATE, which serializes every position-changing
// mutation under that board (and transitively under its lists).
type chainReader struct {
	q    querier
	lock bool
}

var _ authz.ChainReader = chainReader{}

func (c chainReader) BoardOwner(ctx context.Context, boardID uuid.UUID) (uuid.UUID, error) {
	q := `SELECT owner_id FROM boards WHERE id=$1`
	if c.lock {
		q += ` FOR UPDATE`
	}
	var owner uuid.UUID
	if err := c.q.QueryRow(ctx, q, boardID).Scan(&owner); err != nil {
		return uuid.Nil, mapNoRows(err)
	}
	return owner, nil
}

func (c chainReader) ListBoard(ctx context.Context, listID uuid.UUID) (uuid.UUID, error) {
	const q = `SELECT board_id FROM task_lists WHERE id=$1`
	var boardID uuid.UUID
	if err := c.q.QueryRow(ctx, q, listID).Scan(&boardID); err != nil {
		return uuid.Nil, mapNoRows(err)
	}
	return boardID, nil
}

func (c chainReader) CardList(ctx context.Context, cardID uuid.UUID) (uuid.UUID, error) {
	const q = `SELECT list_id FROM cards WHERE id=$1`
	var listID uuid.UUID
	if err := c.q.QueryRow(ctx, q, cardID).Scan(&listID); err != nil {
		return uuid.Nil, mapNoRows(err)
	}
	return listID, nil
}

func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	return err
}

// authorize resolves ownership of ref for caller on q and folds the decision
// into a sentinel error. Mutations pass lock=true so the check and the write
// share the board row lock until commit.
func authorize(ctx context.Context, q querier, caller uuid.UUID, ref authz.ResourceRef, lock bool) error {
	d, err := authz.Resolve(ctx, chainReader{q: q, lock: lock}, caller, ref)
	if err != nil {
		return err
	}
	return d.Err()
}

// applyShift renumbers the planned block of siblings in table (task_lists or
// cards) under the given parent column/id.
func applyShift(ctx context.Context, tx pgx.Tx, table, parentCol string, parentID uuid.UUID, s order.Shift) error {
	if s.Empty() {
		return nil
	}
	q := `UPDATE ` + table + ` SET position = position + $1 WHERE ` + parentCol + `=$2 AND position BETWEEN $3 AND $4`
	_, err := tx.Exec(ctx, q, s.Delta, parentID, s.Lo, s.Hi)
	if isUniqueViolation(err) {
		return errs.ErrOrderConflict
	}
	return err
}
