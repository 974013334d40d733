package repository

import (
	"context"
	"database/sql"

	"github.com/evently/venue-booking/internal/model"
)

// RoleRepo resolves the effective role of a user.  The schema grew in
// layers: auth_roles is the current assignment table, users_roles is a
// legacy table some installations still populate, and the JWT claim is
// the last word when neither table has a row.  ResolveRole walks that
// chain in precedence order.
type RoleRepo struct{ DB *sql.DB }

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{DB: db} }

// RoleResolver is the lookup used by the identity middleware; it is an
// interface so handlers can be tested without a database.
type RoleResolver interface {
	ResolveRole(ctx context.Context, userID uint64, claimRole string) string
}

// roleLookup returns a role name or an error when no assignment
// exists.  sql.ErrNoRows and transport errors are treated the same:
// the chain moves on to the next source.
type roleLookup func() (string, error)

// ResolveRole returns the first role found in auth_roles, then
// users_roles, then the token claim.  Unknown or empty values collapse
// to the default "user" role; lookup errors are treated as missing
// rows rather than failing the request.
func (r *RoleRepo) ResolveRole(ctx context.Context, userID uint64, claimRole string) string {
	return resolveRoleChain(claimRole,
		func() (string, error) {
			var role string
			err := r.DB.QueryRowContext(ctx,
				`SELECT r.name FROM auth_roles ar JOIN roles r ON r.id = ar.role_id WHERE ar.user_id=? LIMIT 1`,
				userID).Scan(&role)
			return role, err
		},
		func() (string, error) {
			var role string
			err := r.DB.QueryRowContext(ctx,
				`SELECT r.name FROM users_roles ur JOIN roles r ON r.id = ur.role_id WHERE ur.user_id=? LIMIT 1`,
				userID).Scan(&role)
			return role, err
		},
	)
}

func resolveRoleChain(claimRole string, lookups ...roleLookup) string {
	for _, lookup := range lookups {
		role, err := lookup()
		if err != nil {
			continue
		}
		if normalized, ok := normalizeRole(role); ok {
			return normalized
		}
	}
	if normalized, ok := normalizeRole(claimRole); ok {
		return normalized
	}
	return model.RoleUser
}

func normalizeRole(role string) (string, bool) {
	switch role {
	case model.RoleUser, model.RoleOwner, model.RoleSuperadmin:
		return role, true
	}
	return "", false
}
