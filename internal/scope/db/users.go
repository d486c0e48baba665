package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// RoleAdmin is the role allowed to edit content.
const RoleAdmin = "admin"

// UserRepo reads the application's users table.
type UserRepo struct {
	q Querier
}

// NewUserRepo creates a user repository.
func NewUserRepo(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Role returns the role of the user with the given auth id.
func (r *UserRepo) Role(ctx context.Context, userID string) (string, error) {
	var role *string
	err := r.q.QueryRow(ctx, `SELECT role FROM users WHERE id = $1`, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return "", fmt.Errorf("user %s: %w", userID, err)
	}
	if role == nil {
		return "", nil
	}
	return *role, nil
}
