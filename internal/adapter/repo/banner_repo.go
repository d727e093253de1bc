package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"banner-editor/internal/domain"
)

// BannerRepositoryPG persists banner records using PostgreSQL.
type BannerRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewBannerRepository constructs a new banner repository instance.
func NewBannerRepository(pool *pgxpool.Pool) *BannerRepositoryPG {
	return &BannerRepositoryPG{pool: pool}
}

// GetByID returns the banner, or domain.ErrNotFound when absent.
func (r *BannerRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Banner, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, owner_id, title, desktop_image_url, desktop_asset_id, mobile_image_url, mobile_asset_id, created_at, updated_at
FROM banners
WHERE id = $1;
`, id)

	var b domain.Banner
	if err := row.Scan(&b.ID, &b.OwnerID, &b.Title, &b.DesktopImageURL, &b.DesktopAssetID, &b.MobileImageURL, &b.MobileAssetID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Save upserts the banner record.
func (r *BannerRepositoryPG) Save(ctx context.Context, b *domain.Banner) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO banners (id, owner_id, title, desktop_image_url, desktop_asset_id, mobile_image_url, mobile_asset_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
    title = EXCLUDED.title,
    desktop_image_url = EXCLUDED.desktop_image_url,
    desktop_asset_id = EXCLUDED.desktop_asset_id,
    mobile_image_url = EXCLUDED.mobile_image_url,
    mobile_asset_id = EXCLUDED.mobile_asset_id,
    updated_at = NOW();
`, b.ID, b.OwnerID, b.Title, b.DesktopImageURL, b.DesktopAssetID, b.MobileImageURL, b.MobileAssetID)
	return err
}

// UpdateImage updates the current image reference for one context.
func (r *BannerRepositoryPG) UpdateImage(ctx context.Context, id, bannerContext, imageURL, assetID string) error {
	query := `
UPDATE banners
SET desktop_image_url = $2, desktop_asset_id = $3, updated_at = NOW()
WHERE id = $1;
`
	if bannerContext == "mobile" {
		query = `
UPDATE banners
SET mobile_image_url = $2, mobile_asset_id = $3, updated_at = NOW()
WHERE id = $1;
`
	}
	tag, err := r.pool.Exec(ctx, query, id, imageURL, assetID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
