package postgres

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/WaryFriend456/FlowGrid/internal/errs"
	"github.com/WaryFriend456/FlowGrid/internal/model"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a user row and its initial roles in one transaction.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	err := r.db.withTx(ctx, func(tx pgx.Tx) error {
		const ins = `INSERT INTO users (id, username, email, pwd_hash, salt_auth) VALUES ($1,$2,$3,$4,$5)`
		if _, err := tx.Exec(ctx, ins, u.ID, u.Username, u.Email, u.PwdHash, u.SaltAuth); err != nil {
			return err
		}
		const role = `INSERT INTO user_roles (user_id, role) VALUES ($1,$2) ON CONFLICT DO NOTHING`
		for _, rl := range u.Roles {
			if _, err := tx.Exec(ctx, role, u.ID, rl); err != nil {
				return err
			}
		}
		return nil
	})
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByID selects a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const q = `SELECT id, username, email, pwd_hash, salt_auth, created_at FROM users WHERE id=$1`
	return r.getOne(ctx, q, id)
}

// GetByUsername selects a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = `SELECT id, username, email, pwd_hash, salt_auth, created_at FROM users WHERE username=$1`
	return r.getOne(ctx, q, username)
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg any) (*model.User, error) {
	var u model.User
	err := r.db.Pool.QueryRow(ctx, q, arg).Scan(&u.ID, &u.Username, &u.Email, &u.PwdHash, &u.SaltAuth, &u.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}

	const roles = `SELECT role FROM user_roles WHERE user_id=$1 ORDER BY role`
	rows, err := r.db.Pool.Query(ctx, roles, u.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		u.Roles = append(u.Roles, role)
	}
	return &u, rows.Err()
}

// AssignRole grants a role; already-held roles are left untouched.
func (r *UserRepo) AssignRole(ctx context.Context, userID uuid.UUID, role string) error {
	const q = `INSERT INTO user_roles (user_id, role) VALUES ($1,$2) ON CONFLICT DO NOTHING`
	_, err := r.db.Pool.Exec(ctx, q, userID, role)
	return err
}
