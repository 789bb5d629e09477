package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cobsari123-dotcom/marcket-app2/pkg/database"
	apperrors "github.com/cobsari123-dotcom/marcket-app2/pkg/errors"
)

// Each statement reads a single nullable column of users.
const (
	getFCMTokenSQL = `SELECT fcm_token FROM users WHERE id = $1`
	getFullNameSQL = `SELECT full_name FROM users WHERE id = $1`
	getEmailSQL    = `SELECT email FROM users WHERE id = $1`
)

// UserRepository reads user profile fields from PostgreSQL.
type UserRepository struct {
	pool database.DBTX
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool database.DBTX) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetFCMToken returns the user's current push token, or "" if unset.
func (r *UserRepository) GetFCMToken(ctx context.Context, userID string) (string, error) {
	return r.column(ctx, "GetUserFCMToken", getFCMTokenSQL, userID)
}

// GetFullName returns the user's display name, or "" if unset.
func (r *UserRepository) GetFullName(ctx context.Context, userID string) (string, error) {
	return r.column(ctx, "GetUserFullName", getFullNameSQL, userID)
}

// GetEmail returns the user's email, or "" if unset.
func (r *UserRepository) GetEmail(ctx context.Context, userID string) (string, error) {
	return r.column(ctx, "GetUserEmail", getEmailSQL, userID)
}

func (r *UserRepository) column(ctx context.Context, op, query, userID string) (_ string, err error) {
	ctx, end := database.TraceQuery(ctx, op, query)
	defer func() { end(err) }()

	var v *string
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&v); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NotFound("user", userID)
		}
		return "", fmt.Errorf("%s %s: %w", op, userID, err)
	}
	return deref(v), nil
}
