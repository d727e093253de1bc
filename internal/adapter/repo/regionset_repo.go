package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"banner-editor/internal/domain"
)

// RegionSetRepositoryPG persists validated clickable-region sets.
type RegionSetRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewRegionSetRepository constructs the repository.
func NewRegionSetRepository(pool *pgxpool.Pool) *RegionSetRepositoryPG {
	return &RegionSetRepositoryPG{pool: pool}
}

// Save stores a region set snapshot and returns its id. Each save is a
// new row so earlier snapshots stay retrievable.
func (r *RegionSetRepositoryPG) Save(ctx context.Context, bannerID, bannerContext string, regionsJSON []byte) (string, error) {
	id := uuid.NewString()
	_, err := r.pool.Exec(ctx, `
INSERT INTO region_sets (id, banner_id, context, regions)
VALUES ($1, $2, $3, $4);
`, id, bannerID, bannerContext, regionsJSON)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Latest returns the most recent region set for a banner context, or
// domain.ErrNotFound when none has been saved.
func (r *RegionSetRepositoryPG) Latest(ctx context.Context, bannerID, bannerContext string) (*domain.RegionSet, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, banner_id, context, regions, created_at
FROM region_sets
WHERE banner_id = $1 AND context = $2
ORDER BY created_at DESC
LIMIT 1;
`, bannerID, bannerContext)

	var set domain.RegionSet
	if err := row.Scan(&set.ID, &set.BannerID, &set.Context, &set.RegionsJSON, &set.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &set, nil
}
