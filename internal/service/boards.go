package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/WaryFriend456/FlowGrid/internal/errs"
	"github.com/WaryFriend456/FlowGrid/internal/model"
	"github.com/WaryFriend456/FlowGrid/internal/repository"
)

// Title length floors. Boards keep the stricter historical minimum.
const (
	minBoardTitle = 3
	minTitle      = 1
)

// BoardService defines the board/list/card operations exposed over HTTP.
// Every call takes the authenticated caller explicitly; there is no ambient
// current-user state anywhere below this line.
type BoardService interface {
	Boards(ctx context.Context, callerID uuid.UUID) ([]model.Board, error)
	CreateBoard(ctx context.Context, callerID uuid.UUID, title string) (*model.Board, error)
	RenameBoard(ctx context.Context, callerID, boardID uuid.UUID, title string) error
	DeleteBoard(ctx context.Context, callerID, boardID uuid.UUID) error

	Lists(ctx context.Context, callerID, boardID uuid.UUID) ([]model.TaskList, error)
	CreateList(ctx context.Context, callerID, boardID uuid.UUID, title string) (*model.TaskList, error)
	RenameList(ctx context.Context, callerID, listID uuid.UUID, title string) error
	DeleteList(ctx context.Context, callerID, listID uuid.UUID) error
	MoveList(ctx context.Context, callerID, listID uuid.UUID, to int) error

	Cards(ctx context.Context, callerID, listID uuid.UUID) ([]model.Card, error)
	CreateCard(ctx context.Context, callerID, listID uuid.UUID, title, description string) (*model.Card, error)
	UpdateCard(ctx context.Context, callerID, cardID uuid.UUID, title, description string) error
	DeleteCard(ctx context.Context, callerID, cardID uuid.UUID) error
	MoveCard(ctx context.Context, callerID, cardID uuid.UUID, to int) error
	MoveCardToList(ctx context.Context, callerID, cardID, targetListID uuid.UUID, to int) error
}

type BoardServiceImpl struct {
	boards repository.BoardRepository
	lists  repository.ListRepository
	cards  repository.CardRepository
}

// NewBoardService constructs BoardService over the three repositories.
func NewBoardService(boards repository.BoardRepository, lists repository.ListRepository, cards repository.CardRepository) *BoardServiceImpl {
	return &BoardServiceImpl{boards: boards, lists: lists, cards: cards}
}

func validTitle(title string, minLen int) (string, error) {
	title = strings.TrimSpace(title)
	if len(title) < minLen {
		return "", fmt.Errorf("%w: title shorter than %d characters", errs.ErrValidation, minLen)
	}
	return title, nil
}

// Boards returns the caller's boards with nested lists and cards.
func (s *BoardServiceImpl) Boards(ctx context.Context, callerID uuid.UUID) ([]model.Board, error) {
	return s.boards.TreeByOwner(ctx, callerID)
}

// CreateBoard creates a board owned by the caller.
func (s *BoardServiceImpl) CreateBoard(ctx context.Context, callerID uuid.UUID, title string) (*model.Board, error) {
	title, err := validTitle(title, minBoardTitle)
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	b := &model.Board{ID: id, Title: title, OwnerID: callerID}
	if err := s.boards.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// RenameBoard retitles a board the caller owns.
func (s *BoardServiceImpl) RenameBoard(ctx context.Context, callerID, boardID uuid.UUID, title string) error {
	title, err := validTitle(title, minBoardTitle)
	if err != nil {
		return err
	}
	return s.boards.Rename(ctx, callerID, boardID, title)
}

// DeleteBoard deletes a board and all its descendants.
func (s *BoardServiceImpl) DeleteBoard(ctx context.Context, callerID, boardID uuid.UUID) error {
	return s.boards.Delete(ctx, callerID, boardID)
}

// Lists returns a board's lists with nested cards, ordered by position.
func (s *BoardServiceImpl) Lists(ctx context.Context, callerID, boardID uuid.UUID) ([]model.TaskList, error) {
	return s.lists.ByBoard(ctx, callerID, boardID)
}

// CreateList appends a list at the end of the board's order.
func (s *BoardServiceImpl) CreateList(ctx context.Context, callerID, boardID uuid.UUID, title string) (*model.TaskList, error) {
	title, err := validTitle(title, minTitle)
	if err != nil {
		return nil, err
	}
	return s.lists.Create(ctx, callerID, boardID, title)
}

// RenameList retitles a list.
func (s *BoardServiceImpl) RenameList(ctx context.Context, callerID, listID uuid.UUID, title string) error {
	title, err := validTitle(title, minTitle)
	if err != nil {
		return err
	}
	return s.lists.Rename(ctx, callerID, listID, title)
}

// DeleteList deletes a list and closes the position gap.
func (s *BoardServiceImpl) DeleteList(ctx context.Context, callerID, listID uuid.UUID) error {
	return s.lists.Delete(ctx, callerID, listID)
}

// MoveList reassigns a list to position `to` among its siblings.
func (s *BoardServiceImpl) MoveList(ctx context.Context, callerID, listID uuid.UUID, to int) error {
	return s.lists.Move(ctx, callerID, listID, to)
}

// Cards returns a list's cards ordered by position.
func (s *BoardServiceImpl) Cards(ctx context.Context, callerID, listID uuid.UUID) ([]model.Card, error) {
	return s.cards.ByList(ctx, callerID, listID)
}

// CreateCard appends a card at the end of the list's order.
func (s *BoardServiceImpl) CreateCard(ctx context.Context, callerID, listID uuid.UUID, title, description string) (*model.Card, error) {
	title, err := validTitle(title, minTitle)
	if err != nil {
		return nil, err
	}
	return s.cards.Create(ctx, callerID, listID, title, strings.TrimSpace(description))
}

// UpdateCard sets title and description on a card.
func (s *BoardServiceImpl) UpdateCard(ctx context.Context, callerID, cardID uuid.UUID, title, description string) error {
	title, err := validTitle(title, minTitle)
	if err != nil {
		return err
	}
	return s.cards.Update(ctx, callerID, cardID, title, strings.TrimSpace(description))
}

// DeleteCard deletes a card and closes the position gap.
func (s *BoardServiceImpl) DeleteCard(ctx context.Context, callerID, cardID uuid.UUID) error {
	return s.cards.Delete(ctx, callerID, cardID)
}

// MoveCard reassigns a card to position `to` within its list.
func (s *BoardServiceImpl) MoveCard(ctx context.Context, callerID, cardID uuid.UUID, to int) error {
	return s.cards.Move(ctx, callerID, cardID, to)
}

// MoveCardToList moves a card into another list at position `to`.
func (s *BoardServiceImpl) MoveCardToList(ctx context.Context, callerID, cardID, targetListID uuid.UUID, to int) error {
	return s.cards.MoveToList(ctx, callerID, cardID, targetListID, to)
}
