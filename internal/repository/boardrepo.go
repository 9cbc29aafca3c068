package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/WaryFriend456/FlowGrid/internal/model"
)

// Mutating operations take the caller's user ID and run the ownership check
// and the mutation inside one transaction, so the decision can never go stale
// between check and act. Implementations return errs.ErrNotFound /
// errs.ErrForbidden from that in-transaction check.

// BoardRepository stores top-level boards.
type BoardRepository interface {
	// TreeByOwner returns the caller's boards with nested lists and cards,
	// children ordered by ascending position.
	TreeByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Board, error)
	// Create inserts a new board for its owner.
	Create(ctx context.Context, b *model.Board) error
	// Rename sets a new title on a board the caller owns.
	Rename(ctx context.Context, callerID, boardID uuid.UUID, title string) error
	// Delete removes a board the caller owns; lists and cards cascade.
	Delete(ctx context.Context, callerID, boardID uuid.UUID) error
}

// ListRepository stores task lists, keeping positions within each board
// contiguous across create, delete, and move.
type ListRepository interface {
	// ByBoard returns a board's lists with nested cards, ordered by position.
	ByBoard(ctx context.Context, callerID, boardID uuid.UUID) ([]model.TaskList, error)
	// Create appends a new list at the end of the board's current order.
	Create(ctx context.Context, callerID, boardID uuid.UUID, title string) (*model.TaskList, error)
	// Rename sets a new title on a list.
	Rename(ctx context.Context, callerID, listID uuid.UUID, title string) error
	// Delete removes a list and closes the position gap among its siblings.
	Delete(ctx context.Context, callerID, listID uuid.UUID) error
	// Move reassigns a list to position `to` among its siblings.
	Move(ctx context.Context, callerID, listID uuid.UUID, to int) error
}

// CardRepository stores cards, keeping positions within each list contiguous.
type CardRepository interface {
	// ByList returns a list's cards ordered by position.
	ByList(ctx context.Context, callerID, listID uuid.UUID) ([]model.Card, error)
	// Create appends a new card at the end of the list's current order.
	Create(ctx context.Context, callerID, listID uuid.UUID, title, description string) (*model.Card, error)
	// Update sets title and description on a card.
	Update(ctx context.Context, callerID, cardID uuid.UUID, title, description string) error
	// Delete removes a card and closes the position gap among its siblings.
	Delete(ctx context.Context, callerID, cardID uuid.UUID) error
	// Move reassigns a card to position `to` within its current list.
	Move(ctx context.Context, callerID, cardID uuid.UUID, to int) error
	// MoveToList removes a card from its list and inserts it at position `to`
	// in the target list, as one atomic unit.
	MoveToList(ctx context.Context, callerID, cardID, targetListID uuid.UUID, to int) error
}
