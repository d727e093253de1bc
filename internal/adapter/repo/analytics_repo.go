package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"banner-editor/internal/domain"
)

// AnalyticsRepositoryPG records session events using PostgreSQL.
type AnalyticsRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository constructs the repository.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepositoryPG {
	return &AnalyticsRepositoryPG{pool: pool}
}

// RecordSessionOpen stores a session-open event. Failures here must not
// block the editing flow, callers log and continue.
func (r *AnalyticsRepositoryPG) RecordSessionOpen(ctx context.Context, ev domain.SessionEvent) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO session_events (session_id, country, locale, image_width, image_height, dual_mode)
VALUES ($1, $2, $3, $4, $5, $6);
`, ev.SessionID, ev.Country, ev.Locale, ev.ImageWidth, ev.ImageHeight, ev.DualMode)
	return err
}

// CountByCountry returns session-open counts per country for dashboards.
func (r *AnalyticsRepositoryPG) CountByCountry(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
SELECT country, COUNT(*)
FROM session_events
GROUP BY country;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var country string
		var n int
		if err := rows.Scan(&country, &n); err != nil {
			return nil, err
		}
		counts[country] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
