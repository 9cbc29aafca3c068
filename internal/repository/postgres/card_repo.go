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

// CardRepo implements CardRepository using PostgreSQL. The ownership walk for
// a card passes through its list to the board, whose row lock serializes
// concurrent card mutations under that board.
type CardRepo struct{ db *DB }

// NewCardRepo constructs a card repository.
func NewCardRepo(db *DB) *CardRepo { return &CardRepo{db: db} }

// ByList returns the list's cards ordered by position.
func (r *CardRepo) ByList(ctx context.Context, callerID, listID uuid.UUID) ([]model.Card, error) {
	if err := authorize(ctx, r.db.Pool, callerID, authz.ListRef(listID), false); err != nil {
		return nil, err
	}
	const q = `
SELECT id, title, description, list_id, position
FROM cards WHERE list_id=$1
ORDER BY position`
	rows, err := r.db.Pool.Query(ctx, q, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := []model.Card{}
	for rows.Next() {
		var c model.Card
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.ListID, &c.Position); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// Create appends a new card at the end of the list's order.
func (r *CardRepo) Create(ctx context.Context, callerID, listID uuid.UUID, title, description string) (*model.Card, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	c := &model.Card{ID: id, Title: title, Description: description, ListID: listID}

	err = r.db.withTx(ctx, func(tx pgx.Tx) error {
		if err := authorize(ctx, tx, callerID, authz.ListRef(listID), true); err != nil {
			return err
		}
		var n int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM cards WHERE list_id=$1`, listID).Scan(&n); err != nil {
			return err
		}
		c.Position = order.Append(n)
		const ins = `INSERT INTO cards (id, title, description, list_id, position) VALUES ($1,$2,$3,$4,$5)`
		_, err := tx.Exec(ctx, ins, c.ID, c.Title, c.Description, c.ListID, c.Position)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errs.ErrOrderConflict
		}
		return nil, err
	}
	return c, nil
}

// Update sets title and description on the card.
func (r *CardRepo) Update(ctx context.Context, callerID, cardID uuid.UUID, title, description string) error {
	return r.db.withTx(ctx, func(tx pgx.Tx) error {
		if err := authorize(ctx, tx, callerID, authz.CardRef(cardID), false); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `UPDATE cards SET title=$2, description=$3 WHERE id=$1`, cardID, title, description)
		return err
	})
}

// Delete removes the card and closes the position gap among its siblings.
func (r *CardRepo) Delete(ctx context.Context, callerID, cardID uuid.UUID) error {
	return r.db.withTx(ctx, func(tx pgx.Tx) error {
		if err := authorize(ctx, tx, callerID, authz.CardRef(cardID), true); err != nil {
			return err
		}
		listID, pos, n, err := cardSlot(ctx, tx, cardID)
		if err != nil {
			return err
		}
		shift, err := order.RemovePlan(n, pos)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM cards WHERE id=$1`, cardID); err != nil {
			return err
		}
		return applyShift(ctx, tx, "cards", "list_id", listID, shift)
	})
}

// Move reassigns the card to position `to` within its current list.
func (r *CardRepo) Move(ctx context.Context, callerID, cardID uuid.UUID, to int) error {
	return r.db.withTx(ctx, func(tx pgx.Tx) error {
		if err := authorize(ctx, tx, callerID, authz.CardRef(cardID), true); err != nil {
			return err
		}
		return moveWithinList(ctx, tx, cardID, to)
	})
}

// MoveToList removes the card from its current list and inserts it at
// position `to` in the target list, one atomic unit. Both boards' rows are
// locked by the two ownership checks; the target list must belong to the
// caller as well.
func (r *CardRepo) MoveToList(ctx context.Context, callerID, cardID, targetListID uuid.UUID, to int) error {
	return r.db.withTx(ctx, func(tx pgx.Tx) error {
		if err := authorize(ctx, tx, callerID, authz.CardRef(cardID), true); err != nil {
			return err
		}
		if err := authorize(ctx, tx, callerID, authz.ListRef(targetListID), true); err != nil {
			return err
		}

		srcListID, pos, n, err := cardSlot(ctx, tx, cardID)
		if err != nil {
			return err
		}
		if srcListID == targetListID {
			return moveWithinList(ctx, tx, cardID, to)
		}

		var m int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM cards WHERE list_id=$1`, targetListID).Scan(&m); err != nil {
			return err
		}
		removeShift, err := order.RemovePlan(n, pos)
		if err != nil {
			return err
		}
		insertShift, err := order.InsertPlan(m, to)
		if err != nil {
			return err
		}

		if err := applyShift(ctx, tx, "cards", "list_id", srcListID, removeShift); err != nil {
			return err
		}
		if err := applyShift(ctx, tx, "cards", "list_id", targetListID, insertShift); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `UPDATE cards SET list_id=$2, position=$3 WHERE id=$1`, cardID, targetListID, to)
		if isUniqueViolation(err) {
			return errs.ErrOrderConflict
		}
		return err
	})
}

func moveWithinList(ctx context.Context, tx pgx.Tx, cardID uuid.UUID, to int) error {
	listID, pos, n, err := cardSlot(ctx, tx, cardID)
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
	if err := applyShift(ctx, tx, "cards", "list_id", listID, shift); err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `UPDATE cards SET position=$2 WHERE id=$1`, cardID, to)
	return err
}

// cardSlot reads the card's list, its position, and the list's child count.
func cardSlot(ctx context.Context, tx pgx.Tx, cardID uuid.UUID) (listID uuid.UUID, pos, n int, err error) {
	if err = tx.QueryRow(ctx, `SELECT list_id, position FROM cards WHERE id=$1`, cardID).Scan(&listID, &pos); err != nil {
		return uuid.Nil, 0, 0, mapNoRows(err)
	}
	if err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM cards WHERE list_id=$1`, listID).Scan(&n); err != nil {
		return uuid.Nil, 0, 0, err
	}
	return listID, pos, n, nil
}
