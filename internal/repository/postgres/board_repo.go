package postgres

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/WaryFriend456/FlowGrid/internal/authz"
	"github.com/WaryFriend456/FlowGrid/internal/model"
)

// BoardRepo implements BoardRepository using PostgreSQL.
type BoardRepo struct{ db *DB }

// NewBoardRepo constructs a board repository.
func NewBoardRepo(db *DB) *BoardRepo { return &BoardRepo{db: db} }

// TreeByOwner loads the caller's boards with lists and cards nested, children
// ordered by ascending position. Three queries, assembled in memory.
func (r *BoardRepo) TreeByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Board, error) {
	const qb = `
SELECT id, title, owner_id, created_at
FROM boards WHERE owner_id=$1
ORDER BY created_at, id`
	rows, err := r.db.Pool.Query(ctx, qb, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	boards := []model.Board{}
	idx := map[uuid.UUID]int{}
	for rows.Next() {
		var b model.Board
		if err := rows.Scan(&b.ID, &b.Title, &b.OwnerID, &b.CreatedAt); err != nil {
			return nil, err
		}
		idx[b.ID] = len(boards)
		boards = append(boards, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(boards) == 0 {
		return boards, nil
	}

	const ql = `
SELECT l.id, l.title, l.board_id, l.position
FROM task_lists l
JOIN boards b ON b.id = l.board_id
WHERE b.owner_id=$1
ORDER BY l.board_id, l.position`
	lrows, err := r.db.Pool.Query(ctx, ql, ownerID)
	if err != nil {
		return nil, err
	}
	defer lrows.Close()

	var lists []model.TaskList
	for lrows.Next() {
		var l model.TaskList
		if err := lrows.Scan(&l.ID, &l.Title, &l.BoardID, &l.Position); err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	if err := lrows.Err(); err != nil {
		return nil, err
	}

	// lists is not appended to past this point, so pointers into it are stable
	listIdx := map[uuid.UUID]*model.TaskList{}
	for i := range lists {
		listIdx[lists[i].ID] = &lists[i]
	}

	const qc = `
SELECT c.id, c.title, c.description, c.list_id, c.position
FROM cards c
JOIN task_lists l ON l.id = c.list_id
JOIN boards b ON b.id = l.board_id
WHERE b.owner_id=$1
ORDER BY c.list_id, c.position`
	crows, err := r.db.Pool.Query(ctx, qc, ownerID)
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
	if err := crows.Err(); err != nil {
		return nil, err
	}

	for _, l := range lists {
		bi := idx[l.BoardID]
		boards[bi].Lists = append(boards[bi].Lists, l)
	}
	return boards, nil
}

// Create inserts a new board.
func (r *BoardRepo) Create(ctx context.Context, b *model.Board) error {
	const q = `INSERT INTO boards (id, title, owner_id) VALUES ($1,$2,$3) RETURNING created_at`
	return r.db.Pool.QueryRow(ctx, q, b.ID, b.Title, b.OwnerID).Scan(&b.CreatedAt)
}

// Rename sets a new title after an in-transaction ownership check.
func (r *BoardRepo) Rename(ctx context.Context, callerID, boardID uuid.UUID, title string) error {
	return r.db.withTx(ctx, func(tx pgx.Tx) error {
		if err := authorize(ctx, tx, callerID, authz.BoardRef(boardID), false); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `UPDATE boards SET title=$2 WHERE id=$1`, boardID, title)
		return err
	})
}

// Delete removes the board; descendant lists and cards go with it via
// ON DELETE CASCADE, so no orphan can survive the transaction.
func (r *BoardRepo) Delete(ctx context.Context, callerID, boardID uuid.UUID) error {
	return r.db.withTx(ctx, func(tx pgx.Tx) error {
		if err := authorize(ctx, tx, callerID, authz.BoardRef(boardID), true); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM boards WHERE id=$1`, boardID)
		return err
	})
}
