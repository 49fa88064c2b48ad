package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// LocationRepositoryPG implements domain.LocationRepository using PostgreSQL.
// The table is append-only; rows are never updated.
type LocationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewLocationRepository creates a new location repository backed by PostgreSQL.
func NewLocationRepository(pool *pgxpool.Pool) *LocationRepositoryPG {
	return &LocationRepositoryPG{pool: pool}
}

// Insert appends a position sample. Near-identical timestamps are not
// deduplicated: every report produces a new row.
func (r *LocationRepositoryPG) Insert(ctx context.Context, sample *domain.LocationSample) error {
	row := r.pool.QueryRow(ctx, `
INSERT INTO schedule_locations (schedule_id, collector_id, lat, lng, heading, speed_kmh, recorded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at;
`, sample.ScheduleID, sample.CollectorID, sample.Lat, sample.Lng, sample.Heading, sample.SpeedKmh, sample.RecordedAt)
	return row.Scan(&sample.ID, &sample.CreatedAt)
}

// Recent returns the newest limit samples reordered oldest-first. Clients
// may deliver pings out of order, so recorded_at (not insertion order)
// governs presentation.
func (r *LocationRepositoryPG) Recent(ctx context.Context, scheduleID string, limit int) ([]domain.LocationSample, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, schedule_id, collector_id, lat, lng, heading, speed_kmh, recorded_at, created_at
FROM (
	SELECT id, schedule_id, collector_id, lat, lng, heading, speed_kmh, recorded_at, created_at
	FROM schedule_locations
	WHERE schedule_id = $1
	ORDER BY recorded_at DESC, id DESC
	LIMIT $2
) newest
ORDER BY recorded_at ASC, id ASC;
`, scheduleID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.LocationSample
	for rows.Next() {
		var sample domain.LocationSample
		if err := rows.Scan(
			&sample.ID,
			&sample.ScheduleID,
			&sample.CollectorID,
			&sample.Lat,
			&sample.Lng,
			&sample.Heading,
			&sample.SpeedKmh,
			&sample.RecordedAt,
			&sample.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Latest returns the most recent sample, or nil when none exist. The
// bigserial id tie-breaks samples sharing a recorded_at.
func (r *LocationRepositoryPG) Latest(ctx context.Context, scheduleID string) (*domain.LocationSample, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, schedule_id, collector_id, lat, lng, heading, speed_kmh, recorded_at, created_at
FROM schedule_locations
WHERE schedule_id = $1
ORDER BY recorded_at DESC, id DESC
LIMIT 1;
`, scheduleID)

	var sample domain.LocationSample
	if err := row.Scan(
		&sample.ID,
		&sample.ScheduleID,
		&sample.CollectorID,
		&sample.Lat,
		&sample.Lng,
		&sample.Heading,
		&sample.SpeedKmh,
		&sample.RecordedAt,
		&sample.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &sample, nil
}
