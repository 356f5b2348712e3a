package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
)

// APIKeyRepository stores hashed operator API keys.
type APIKeyRepository struct {
	db queryer
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Create stores the hash of token under description.
func (r *APIKeyRepository) Create(ctx context.Context, token, description string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, description) VALUES (?, ?)`,
		HashToken(token), description,
	)
	if err != nil {
		return writeError(err, "create api key")
	}
	return nil
}

// ResolveKey returns the description of the key matching token and stamps
// its last use.
func (r *APIKeyRepository) ResolveKey(ctx context.Context, token string) (string, error) {
	hash := HashToken(token)
	var description sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT description FROM api_keys WHERE key_hash = ?`, hash).Scan(&description)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("invalid token")
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = CURRENT_TIMESTAMP WHERE key_hash = ?`, hash); err != nil {
		return "", fmt.Errorf("failed to touch api key: %w", err)
	}
	if !description.Valid || description.String == "" {
		return "operator", nil
	}
	return description.String, nil
}

// HashToken returns the hex SHA-256 of token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
