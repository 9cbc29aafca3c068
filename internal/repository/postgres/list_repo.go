package postgres

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/WaryFriend456/FlowGrid/internal/authz"
	"github.com/WaryFriend456/FlowGrid/internal/errs"
	"github.com/WaryFriend456/FlowGrid/internal/model"
	"github.com/WaryFriend456/FlowGrid/internal/order"
)

// ListRepo implements ListRepository using PostgreSQL. Every mutation locks
// the owning board row while it holds the authorization decision and
// renumbers siblings, so concurrent mutations under one board serialize.
type ListRepo struct{ db *DB }

// NewListRepo constructs a task list repository.
func NewListRepo(db *DB) *ListRepo { return &ListRepo{db: db} }

// ByBoard returns the board's lists with nested cards, ordered by position.
func (r *ListRepo) ByBoard(ctx context.Context, callerID, boardID uuid.UUID) ([]model.TaskList, error) {
	if err := authorize(ctx, r.db.Pool, callerID, authz.BoardRef(boardID), false); err != nil {
		return nil, err
	}

	const ql = `
SELECT id, title, board_id, position
FROM task_lists WHERE board_id=$1
ORDER BY position`
	rows, err := r.db.Pool.Query(ctx, ql, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := []model.TaskList{}
	for rows.Next() {
		var l model.TaskList
		if err := rows.Scan(&l.ID, &l.Title, &l.BoardID, &l.Position); err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	listIdx := map[uuid.UUID]*model.TaskList{}
	for i := range lists {
		listIdx[lists[i].ID] = &lists[i]
	}

	const qc = `
SELECT c.id, c.title, c.description, c.list_id, c.position
FROM cards c
JOIN task_lists l ON l.id = c.list_id
WHERE l.board_id=$1
ORDER BY c.list_id, c.position`
	crows, err := r.db.Pool.Query(ctx, qc, boardID)
	if err != nil {
		return nil, err
	}
	defer crows.Close()
	for crows.Next() {
		var c model.Card
		if err := crows.Scan(&c.ID, &c.Title, &c.Description, &c.ListID, &c.Position); err != nil {
			return nil, err
		}
		if l, ok := listIdx[c.ListID]; ok {
			l.Cards = append(l.Cards, c)
		}
	}
	return lists, crows.Err()
}

// Create appends a new list at the end of the board's order. The board row
// lock taken by the ownership check serializes concurrent appends, so two
// creations under one board get distinct positions.
func (r *ListRepo) Create(ctx context.Context, callerID, boardID uuid.UUID, title string) (*model.TaskList, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	l := &model.TaskList{ID: id, Title: title, BoardID: boardID}

	err = r.db.withTx(ctx, func(tx pgx.Tx) error {
		if err := authorize(ctx, tx, callerID, authz.BoardRef(boardID), true); err != nil {
			return err
		}
		var n int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM task_lists WHERE board_id=$1`, boardID).Scan(&n); err != nil {
			return err
		}
		l.Position = order.Append(n)
		const ins = `INSERT INTO task_lists (id, title, board_id, position) VALUES ($1,$2,$3,$4)`
		_, err := tx.Exec(ctx, ins, l.ID, l.Title, l.BoardID, l.Position)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errs.ErrOrderConflict
		}
		return nil, err
	}
	return l, nil
}

// Rename sets a new title on the list.
func (r *ListRepo) Rename(ctx context.Context, callerID, listID uuid.UUID, title string) error {
	return r.db.withTx(ctx, func(tx pgx.Tx) error {
		if err := authorize(ctx, tx, callerID, authz.ListRef(listID), false); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `UPDATE task_lists SET title=$2 WHERE id=$1`, listID, title)
		return err
	})
}

// Delete removes the list (cards cascade) and closes the position gap by
// shifting later siblings down, all in one transaction.
func (r *ListRepo) Delete(ctx context.Context, callerID, listID uuid.UUID) error {
	return r.db.withTx(ctx, func(tx pgx.Tx) error {
		if err := authorize(ctx, tx, callerID, authz.ListRef(listID), true); err != nil {
			return err
		}
		boardID, pos, n, err := listSlot(ctx, tx, listID)
		if err != nil {
			return err
		}
		shift, err := order.RemovePlan(n, pos)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM task_lists WHERE id=$1`, listID); err != nil {
			return err
		}
		return applyShift(ctx, tx, "task_lists", "board_id", boardID, shift)
	})
}

// Move reassigns the list to position `to`, shifting the displaced block.
func (r *ListRepo) Move(ctx context.Context, callerID, listID uuid.UUID, to int) error {
	return r.db.withTx(ctx, func(tx pgx.Tx) error {
		if err := authorize(ctx, tx, callerID, authz.ListRef(listID), true); err != nil {
			return err
		}
		boardID, pos, n, err := listSlot(ctx, tx, listID)
		if err != nil {
			return err
		}
		shift, err := order.MovePlan(n, pos, to)
		if err != nil {
			return err
		}
		if pos == to {
			return nil
		}
		if err := applyShift(ctx, tx, "task_lists", "board_id", boardID, shift); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `UPDATE task_lists SET position=$2 WHERE id=$1`, listID, to)
		return err
	})
}

// listSlot reads the list's board, its position, and the board's child count.
// The caller already holds the board row lock.
func listSlot(ctx context.Context, tx pgx.Tx, listID uuid.UUID) (boardID uuid.UUID, pos, n int, err error) {
	if err = tx.QueryRow(ctx, `SELECT board_id, position FROM task_lists WHERE id=$1`, listID).Scan(&boardID, &pos); err != nil {
		return uuid.Nil, 0, 0, mapNoRows(err)
	}
	if err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM task_lists WHERE board_id=$1`, boardID).Scan(&n); err != nil {
		return uuid.Nil, 0, 0, err
	}
	return boardID, pos, n, nil
}
