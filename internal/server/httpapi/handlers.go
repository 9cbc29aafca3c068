package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/labstack/echo/v4"

	"github.com/WaryFriend456/FlowGrid/internal/errs"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

type titleRequest struct {
	Title string `json:"title"`
}

type cardRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type moveRequest struct {
	To     int        `json:"to"`
	ListID *uuid.UUID `json:"listId,omitempty"`
}

func (s *Server) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return respondErr(c, fmt.Errorf("%w: malformed body", errs.ErrValidation))
	}
	tokens, err := s.auth.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, tokenResponse{
		Token:     tokens.AccessToken,
		ExpiresAt: tokens.ExpiresAt.Format(time.RFC3339),
	})
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return respondErr(c, fmt.Errorf("%w: malformed body", errs.ErrValidation))
	}
	tokens, err := s.auth.LoginWithIP(c.Request().Context(), req.Username, req.Password, c.RealIP())
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, tokenResponse{
		Token:     tokens.AccessToken,
		ExpiresAt: tokens.ExpiresAt.Format(time.RFC3339),
	})
}

func (s *Server) listBoards(c echo.Context) error {
	boards, err := s.boards.Boards(c.Request().Context(), callerID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, boards)
}

func (s *Server) createBoard(c echo.Context) error {
	var req titleRequest
	if err := c.Bind(&req); err != nil {
		return respondErr(c, fmt.Errorf("%w: malformed body", errs.ErrValidation))
	}
	board, err := s.boards.CreateBoard(c.Request().Context(), callerID(c), req.Title)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, board)
}

func (s *Server) renameBoard(c echo.Context) error {
	boardID, err := pathID(c, "boardID")
	if err != nil {
		return respondErr(c, err)
	}
	var req titleRequest
	if err := c.Bind(&req); err != nil {
		return respondErr(c, fmt.Errorf("%w: malformed body", errs.ErrValidation))
	}
	if err := s.boards.RenameBoard(c.Request().Context(), callerID(c), boardID, req.Title); err != nil {
		return respondErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) deleteBoard(c echo.Context) error {
	boardID, err := pathID(c, "boardID")
	if err != nil {
		return respondErr(c, err)
	}
	if err := s.boards.DeleteBoard(c.Request().Context(), callerID(c), boardID); err != nil {
		return respondErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listLists(c echo.Context) error {
	boardID, err := pathID(c, "boardID")
	if err != nil {
		return respondErr(c, err)
	}
	lists, err := s.boards.Lists(c.Request().Context(), callerID(c), boardID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, lists)
}

func (s *Server) createList(c echo.Context) error {
	boardID, err := pathID(c, "boardID")
	if err != nil {
		return respondErr(c, err)
	}
	var req titleRequest
	if err := c.Bind(&req); err != nil {
		return respondErr(c, fmt.Errorf("%w: malformed body", errs.ErrValidation))
	}
	list, err := s.boards.CreateList(c.Request().Context(), callerID(c), boardID, req.Title)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, list)
}

func (s *Server) renameList(c echo.Context) error {
	listID, err := pathID(c, "listID")
	if err != nil {
		return respondErr(c, err)
	}
	var req titleRequest
	if err := c.Bind(&req); err != nil {
		return respondErr(c, fmt.Errorf("%w: malformed body", errs.ErrValidation))
	}
	if err := s.boards.RenameList(c.Request().Context(), callerID(c), listID, req.Title); err != nil {
		return respondErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) deleteList(c echo.Context) error {
	listID, err := pathID(c, "listID")
	if err != nil {
		return respondErr(c, err)
	}
	if err := s.boards.DeleteList(c.Request().Context(), callerID(c), listID); err != nil {
		return respondErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) moveList(c echo.Context) error {
	listID, err := pathID(c, "listID")
	if err != nil {
		return respondErr(c, err)
	}
	var req moveRequest
	if err := c.Bind(&req); err != nil {
		return respondErr(c, fmt.Errorf("%w: malformed body", errs.ErrValidation))
	}
	if err := s.boards.MoveList(c.Request().Context(), callerID(c), listID, req.To); err != nil {
		return respondErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listCards(c echo.Context) error {
	listID, err := pathID(c, "listID")
	if err != nil {
		return respondErr(c, err)
	}
	cards, err := s.boards.Cards(c.Request().Context(), callerID(c), listID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, cards)
}

func (s *Server) createCard(c echo.Context) error {
	listID, err := pathID(c, "listID")
	if err != nil {
		return respondErr(c, err)
	}
	var req cardRequest
	if err := c.Bind(&req); err != nil {
		return respondErr(c, fmt.Errorf("%w: malformed body", errs.ErrValidation))
	}
	card, err := s.boards.CreateCard(c.Request().Context(), callerID(c), listID, req.Title, req.Description)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, card)
}

func (s *Server) updateCard(c echo.Context) error {
	cardID, err := pathID(c, "cardID")
	if err != nil {
		return respondErr(c, err)
	}
	var req cardRequest
	if err := c.Bind(&req); err != nil {
		return respondErr(c, fmt.Errorf("%w: malformed body", errs.ErrValidation))
	}
	if err := s.boards.UpdateCard(c.Request().Context(), callerID(c), cardID, req.Title, req.Description); err != nil {
		return respondErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) deleteCard(c echo.Context) error {
	cardID, err := pathID(c, "cardID")
	if err != nil {
		return respondErr(c, err)
	}
	if err := s.boards.DeleteCard(c.Request().Context(), callerID(c), cardID); err != nil {
		return respondErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// moveCard handles both in-list reordering and cross-list moves: a request
// carrying listId targets that list, otherwise the card stays in its own.
func (s *Server) moveCard(c echo.Context) error {
	cardID, err := pathID(c, "cardID")
	if err != nil {
		return respondErr(c, err)
	}
	var req moveRequest
	if err := c.Bind(&req); err != nil {
		return respondErr(c, fmt.Errorf("%w: malformed body", errs.ErrValidation))
	}
	ctx := c.Request().Context()
	if req.ListID != nil {
		err = s.boards.MoveCardToList(ctx, callerID(c), cardID, *req.ListID, req.To)
	} else {
		err = s.boards.MoveCard(ctx, callerID(c), cardID, req.To)
	}
	if err != nil {
		return respondErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.FromString(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", errs.ErrValidation, name)
	}
	return id, nil
}
