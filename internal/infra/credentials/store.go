package credentials

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// ProviderAI is the token slot for the image edit/generation service.
	ProviderAI = "ai"
	// ProviderBilling is the token slot for the balance service.
	ProviderBilling = "billing"
)

// Store reads and writes integration tokens from the database. It is
// the fallback when the corresponding env var is empty.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Token returns the stored token for a provider, or empty when none is
// configured.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.pool.QueryRow(ctx, `
SELECT token FROM integration_tokens WHERE provider = $1;
`, provider)
	var token string
	if err := row.Scan(&token); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(token), nil
}

// SetToken upserts the token for a provider.
func (s *Store) SetToken(ctx context.Context, provider, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("credentials: token is required")
	}
	_, err := s.pool.Exec(ctx, `
INSERT INTO integration_tokens (provider, token)
VALUES ($1, $2)
ON CONFLICT (provider) DO UPDATE SET token = EXCLUDED.token;
`, provider, token)
	return err
}
