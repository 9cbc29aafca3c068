// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/WaryFriend456/FlowGrid/internal/model"
)

// UserRepository provides account storage for the identity layer.
type UserRepository interface {
	// Create inserts a new user together with its initial roles.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByUsername loads a user by username.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// AssignRole grants a role to a user; granting an already-held role is a no-op.
	AssignRole(ctx context.Context, userID uuid.UUID, role string) error
}
