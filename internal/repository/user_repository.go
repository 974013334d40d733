package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/evently/venue-booking/internal/model"
	"github.com/evently/venue-booking/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, email, password_hash, first_name, last_name, role, is_active, created_at, updated_at`

// Create inserts a user and returns its ID.  The password is hashed
// here so plaintext never reaches SQL logs.
func (r *UserRepo) Create(ctx context.Context, email, password, firstName, lastName, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, first_name, last_name, role) VALUES (?,?,?,?,?)",
		email, hash, firstName, lastName, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// EmailByID returns just the email of an active user; used by the
// notification consumer to address messages.
func (r *UserRepo) EmailByID(ctx context.Context, id uint64) (string, error) {
	var email string
	err := r.DB.QueryRowContext(ctx,
		"SELECT email FROM users WHERE id=? AND is_active=1 LIMIT 1", id).Scan(&email)
	return email, err
}

// Deactivate soft-deletes an account.  The users row is kept with
// is_active=0, every refresh token is revoked, the user's pending
// reservations are rejected (payments failed) and any spaces they own
// drop out of the public catalog.  Runs as one transaction.
func (r *UserRepo) Deactivate(ctx context.Context, reservations *ReservationRepo, userID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"UPDATE users SET is_active=0 WHERE id=? AND is_active=1", userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	if _, err = tx.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL", userID); err != nil {
		return err
	}
	if err = reservations.RejectAllPendingForUserTx(ctx, tx, userID, "account deleted"); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		"UPDATE spaces SET status=? WHERE owner_id=?", model.SpaceStatusRejected, userID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
