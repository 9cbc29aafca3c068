package httpapi

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/WaryFriend456/FlowGrid/internal/errs"
	"github.com/WaryFriend456/FlowGrid/internal/service"
)

const callerKey = "flowgrid.caller"

// tokenLeeway absorbs minor clock skew between issuer and verifier.
const tokenLeeway = 30 * time.Second

// RequestLogger logs every request with method, path, status, and duration.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote", c.RealIP()),
			)
			return err
		}
	}
}

// RecoverMiddleware converts handler panics into 500 responses.
func RecoverMiddleware(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("panic recovered",
						zap.Any("panic", r),
						zap.ByteString("stack", debug.Stack()),
					)
					err = c.JSON(http.StatusInternalServerError, errBody("internal error"))
				}
			}()
			return next(c)
		}
	}
}

// requireAuth validates the bearer token and stores the caller id in context.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return respondErr(c, fmt.Errorf("%w: missing bearer token", errs.ErrUnauthorized))
		}

		claims := &service.TokenClaims{}
		_, err := jwt.ParseWithClaims(raw, claims,
			func(t *jwt.Token) (any, error) { return s.signKey, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(s.issuer),
			jwt.WithAudience(s.aud),
			jwt.WithLeeway(tokenLeeway),
			jwt.WithExpirationRequired(),
		)
		if err != nil {
			return respondErr(c, fmt.Errorf("%w: %s", errs.ErrUnauthorized, "invalid token"))
		}

		caller, err := uuid.FromString(claims.Subject)
		if err != nil {
			return respondErr(c, fmt.Errorf("%w: %s", errs.ErrUnauthorized, "invalid subject"))
		}

		c.Set(callerKey, caller)
		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}

func callerID(c echo.Context) uuid.UUID {
	id, _ := c.Get(callerKey).(uuid.UUID)
	return id
}
