// Package httpapi exposes the FlowGrid REST API over echo.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/WaryFriend456/FlowGrid/internal/errs"
	"github.com/WaryFriend456/FlowGrid/internal/service"
)

// Server wires services into HTTP handlers.
type Server struct {
	auth    service.AuthService
	boards  service.BoardService
	signKey []byte
	issuer  string
	aud     string
}

// New constructs a Server with injected services. signKey, issuer, and aud
// must match the token issuer's configuration.
func New(auth service.AuthService, boards service.BoardService, signKey []byte, issuer, aud string) *Server {
	return &Server{auth: auth, boards: boards, signKey: signKey, issuer: issuer, aud: aud}
}

// Register wires up all API routes on the provided Echo instance.
func (s *Server) Register(e *echo.Echo, logger *zap.Logger) {
	e.Use(RecoverMiddleware(logger))
	e.Use(RequestLogger(logger))

	e.GET("/healthz", s.healthz)

	api := e.Group("/api")
	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)

	authed := api.Group("", s.requireAuth)
	authed.GET("/boards", s.listBoards)
	authed.POST("/boards", s.createBoard)
	authed.PUT("/boards/:boardID", s.renameBoard)
	authed.DELETE("/boards/:boardID", s.deleteBoard)

	authed.GET("/boards/:boardID/lists", s.listLists)
	authed.POST("/boards/:boardID/lists", s.createList)
	authed.PUT("/lists/:listID", s.renameList)
	authed.DELETE("/lists/:listID", s.deleteList)
	authed.PUT("/lists/:listID/move", s.moveList)

	authed.GET("/lists/:listID/cards", s.listCards)
	authed.POST("/lists/:listID/cards", s.createCard)
	authed.PUT("/cards/:cardID", s.updateCard)
	authed.DELETE("/cards/:cardID", s.deleteCard)
	authed.PUT("/cards/:cardID/move", s.moveCard)
}

func (s *Server) healthz(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// respondErr folds sentinel errors into HTTP statuses in one place.
func respondErr(c echo.Context, err error) error {
	var status int
	switch {
	case errors.Is(err, errs.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, errs.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, errs.ErrValidation), errors.Is(err, errs.ErrInvalidPosition):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrOrderConflict), errors.Is(err, errs.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrRateLimited):
		status = http.StatusTooManyRequests
	default:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, errBody("internal error"))
	}
	return c.JSON(status, errBody(err.Error()))
}

func errBody(msg string) map[string]string {
	return map[string]string{"message": msg}
}
