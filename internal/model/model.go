// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Tokens collects an issued access token and its expiry.
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time
}

// User represents an account stored on the server. Password material never
// leaves the auth service in plaintext.
type User struct {
	ID        uuid.UUID // PK
	Username  string    // unique
	Email     string
	PwdHash   []byte // Argon2id(password, SaltAuth)
	SaltAuth  []byte // per-user auth salt
	Roles     []string
	CreatedAt time.Time
}

// Board is a top-level container owned by exactly one user. Ownership never
// transfers; authorization for all descendants derives from OwnerID.
type Board struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	OwnerID   uuid.UUID  `json:"-"`
	CreatedAt time.Time  `json:"createdAt"`
	Lists     []TaskList `json:"lists,omitempty"`
}

// TaskList is an ordered child of a board. Position is zero-based and
// contiguous among the lists of one board.
type TaskList struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	BoardID  uuid.UUID `json:"boardId"`
	Position int       `json:"position"`
	Cards    []Card    `json:"cards,omitempty"`
}

// Card is an ordered child of a task list.
type Card struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ListID      uuid.UUID `json:"listId"`
	Position    int       `json:"position"`
}
