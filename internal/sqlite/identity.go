package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/ganot/rollcall/internal/identity"
	"github.com/ganot/rollcall/internal/repository"
)

// IdentityResolver resolves bearer tokens against the api_keys table.
// This is the concrete edge of the external trust boundary: everything
// past it trusts the (callerId, role) pair without re-verification.
type IdentityResolver struct {
	db *DB
}

// NewIdentityResolver creates a new IdentityResolver
func NewIdentityResolver(db *DB) *IdentityResolver {
	return &IdentityResolver{db: db}
}

// ResolveIdentity maps a bearer token to a caller identity
func (r *IdentityResolver) ResolveIdentity(ctx context.Context, token string) (identity.Identity, error) {
	var id identity.Identity
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, role FROM api_keys WHERE key_hash = ?`, HashKey(token),
	).Scan(&id.UserID, &id.Role)
	if err == sql.ErrNoRows {
		return identity.Identity{}, repository.ErrNotFound
	}
	if err != nil {
		return identity.Identity{}, fmt.Errorf("failed to resolve identity: %w", err)
	}
	if !id.Role.Valid() {
		return identity.Identity{}, repository.ErrNotFound
	}
	return id, nil
}

// HashKey returns the stored digest for an api key.
func HashKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
