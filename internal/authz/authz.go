// Package authz resolves resource ownership for authorization decisions.
//
// Every board, list, and card belongs to exactly one board owner. The
// resolver walks the containment chain (Card -> TaskList -> Board) through a
// ChainReader and compares the owning board's user against the caller. The
// walk lives here, in one place, so repositories and services never re-derive
// it inline.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/WaryFriend456/FlowGrid/internal/errs"
)

// Decision is the tri-state outcome of an authorization check.
type Decision int

const (
	// Authorized: the full chain resolved and the caller owns the board.
	Authorized Decision = iota
	// Forbidden: the full chain resolved to a different owner.
	Forbidden
	// NotFound: some link in the chain is absent.
	NotFound
)

func (d Decision) String() string {
	switch d {
	case Authorized:
		return "authorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not found"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// Kind tags which resource type a ResourceRef points at.
type Kind int

const (
	KindBoard Kind = iota
	KindList
	KindCard
)

// ResourceRef is a typed reference to a board, list, or card by id.
type ResourceRef struct {
	Kind Kind
	ID   uuid.UUID
}

// BoardRef references a board.
func BoardRef(id uuid.UUID) ResourceRef { return ResourceRef{Kind: KindBoard, ID: id} }

// ListRef references a task list.
func ListRef(id uuid.UUID) ResourceRef { return ResourceRef{Kind: KindList, ID: id} }

// CardRef references a card.
func CardRef(id uuid.UUID) ResourceRef { return ResourceRef{Kind: KindCard, ID: id} }

// ChainReader looks up single links of the containment chain. Implementations
// return errs.ErrNotFound when the row is absent; any other error is treated
// as infrastructure failure, not as a decision.
type ChainReader interface {
	// BoardOwner returns the owner of the given board.
	BoardOwner(ctx context.Context, boardID uuid.UUID) (uuid.UUID, error)
	// ListBoard returns the board containing the given task list.
	ListBoard(ctx context.Context, listID uuid.UUID) (uuid.UUID, error)
	// CardList returns the task list containing the given card.
	CardList(ctx context.Context, cardID uuid.UUID) (uuid.UUID, error)
}

// Resolve walks the containment chain of ref upward to its owning board and
// decides whether caller may operate on it. A missing link at any level
// yields NotFound, never an internal error. The check is a pure read; callers
// needing check-then-act atomicity must run it on a transaction-backed
// ChainReader.
func Resolve(ctx context.Context, chain ChainReader, caller uuid.UUID, ref ResourceRef) (Decision, error) {
	id := ref.ID
	switch ref.Kind {
	case KindCard:
		listID, err := chain.CardList(ctx, id)
		if err != nil {
			return decideLookupErr(err)
		}
		id = listID
		fallthrough
	case KindList:
		boardID, err := chain.ListBoard(ctx, id)
		if err != nil {
			return decideLookupErr(err)
		}
		id = boardID
		fallthrough
	case KindBoard:
		owner, err := chain.BoardOwner(ctx, id)
		if err != nil {
			return decideLookupErr(err)
		}
		if owner != caller {
			return Forbidden, nil
		}
		return Authorized, nil
	default:
		return NotFound, fmt.Errorf("unknown resource kind %d", ref.Kind)
	}
}

// Err maps a non-authorized decision to its sentinel error. Forbidden and
// NotFound stay distinguishable: a caller probing another user's resource
// learns it exists, matching the existence-leaking policy of the HTTP API
// (404 vs 403) applied uniformly across all resource types.
func (d Decision) Err() error {
	switch d {
	case Authorized:
		return nil
	case Forbidden:
		return errs.ErrForbidden
	default:
		return errs.ErrNotFound
	}
}

func decideLookupErr(err error) (Decision, error) {
	if errors.Is(err, errs.ErrNotFound) {
		return NotFound, nil
	}
	return NotFound, err
}
