// Package service contains application services for authentication and boards.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	pkgcrypto "github.com/WaryFriend456/FlowGrid/internal/crypto"
	"github.com/WaryFriend456/FlowGrid/internal/errs"
	"github.com/WaryFriend456/FlowGrid/internal/limiter"
	"github.com/WaryFriend456/FlowGrid/internal/model"
	"github.com/WaryFriend456/FlowGrid/internal/repository"
)

// DefaultRole is assigned to every account at registration.
const DefaultRole = "user"

// AuthService defines registration and login.
type AuthService interface {
	// Register creates a new user with secure password hashing and returns a
	// signed token, so a fresh account is logged in immediately.
	Register(ctx context.Context, username, email, password string) (model.Tokens, error)
	// LoginWithIP applies rate limiting and authenticates the user.
	LoginWithIP(ctx context.Context, username, password, ip string) (model.Tokens, error)
}

// TokenClaims is the JWT payload issued on register/login.
type TokenClaims struct {
	jwt.RegisteredClaims
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
}

// TokenConfig carries signing parameters for issued tokens.
type TokenConfig struct {
	Key      []byte
	Issuer   string
	Audience string
	TTL      time.Duration
}

type AuthServiceImpl struct {
	users repository.UserRepository
	tok   TokenConfig
	lim   limiter.Limiter
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, tok TokenConfig, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, tok: tok, lim: lim}
}

// Register creates the account with a per-user salt and the default role.
func (s *AuthServiceImpl) Register(ctx context.Context, username, email, password string) (model.Tokens, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return model.Tokens{}, fmt.Errorf("%w: empty username/email", errs.ErrValidation)
	}
	if len(password) < 8 {
		return model.Tokens{}, fmt.Errorf("%w: password too short", errs.ErrValidation)
	}

	uid, err := uuid.NewV4()
	if err != nil {
		return model.Tokens{}, err
	}
	hash, salt, err := pkgcrypto.NewCredential(password)
	if err != nil {
		return model.Tokens{}, err
	}

	u := &model.User{
		ID:       uid,
		Username: username,
		Email:    email,
		PwdHash:  hash,
		SaltAuth: salt,
		Roles:    []string{DefaultRole},
	}
	if err := s.users.Create(ctx, u); err != nil {
		return model.Tokens{}, err
	}
	return s.issueToken(u)
}

// LoginWithIP authenticates with rate limiting by (username, ip).
func (s *AuthServiceImpl) LoginWithIP(ctx context.Context, username, password, ip string) (model.Tokens, error) {
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, username, ipHash)
	if err != nil {
		return model.Tokens{}, err
	}
	if !allowed {
		return model.Tokens{}, errs.ErrRateLimited
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil || !pkgcrypto.Verify(password, u.SaltAuth, u.PwdHash) {
		if blocked, _, ferr := s.lim.Failure(ctx, username, ipHash); ferr == nil && blocked {
			return model.Tokens{}, errs.ErrRateLimited
		}
		// mask whether the user exists; wrong name and wrong password read the same
		if err != nil && !errors.Is(err, errs.ErrNotFound) {
			return model.Tokens{}, err
		}
		return model.Tokens{}, errs.ErrUnauthorized
	}

	// best-effort counter reset
	_ = s.lim.Success(ctx, username, ipHash)

	return s.issueToken(u)
}

// issueToken signs an HS256 JWT carrying the user's id, email, and username.
func (s *AuthServiceImpl) issueToken(u *model.User) (model.Tokens, error) {
	now := time.Now()
	exp := now.Add(s.tok.TTL)
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			Issuer:    s.tok.Issuer,
			Audience:  jwt.ClaimStrings{s.tok.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Email:    u.Email,
		Username: u.Username,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.tok.Key)
	if err != nil {
		return model.Tokens{}, err
	}
	return model.Tokens{AccessToken: signed, ExpiresAt: exp}, nil
}
