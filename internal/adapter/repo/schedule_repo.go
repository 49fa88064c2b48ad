package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// ScheduleRepositoryPG implements domain.ScheduleRepository using PostgreSQL.
type ScheduleRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewScheduleRepository creates a new schedule repository backed by PostgreSQL.
func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepositoryPG {
	return &ScheduleRepositoryPG{pool: pool}
}

// Create inserts a schedule together with its material lines in one
// transaction.
func (r *ScheduleRepositoryPG) Create(ctx context.Context, schedule *domain.Schedule) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `
INSERT INTO schedules (id, user_id, status, scheduled_at, notes, pickup_address_text, pickup_lat, pickup_lng)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`, schedule.ID, schedule.DonorID, schedule.Status, schedule.ScheduledAt, schedule.Notes,
		schedule.PickupAddressText, schedule.PickupLat, schedule.PickupLng)
	if err != nil {
		return err
	}

	for i, m := range schedule.Materials {
		_, err = tx.Exec(ctx, `
INSERT INTO schedule_materials (schedule_id, material_id, quantity_kg, position)
VALUES ($1, $2, $3, $4);
`, schedule.ID, m.Material.ID, m.QuantityKg, i)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

const scheduleColumns = `
s.id, s.user_id, s.collector_id, s.status, s.scheduled_at, s.notes,
s.pickup_address_text, s.pickup_lat, s.pickup_lng, s.created_at, s.updated_at,
d.name AS donor_name, COALESCE(c.name, '') AS collector_name`

const scheduleJoins = `
FROM schedules s
JOIN users d ON d.id = s.user_id
LEFT JOIN users c ON c.id = s.collector_id`

// GetByID fetches a schedule, its display names and its material lines.
func (r *ScheduleRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Schedule, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+scheduleColumns+scheduleJoins+` WHERE s.id = $1;`, id)
	schedule, err := scanSchedule(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadMaterials(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// List returns schedules matching the filter, newest first. Material lines
// are loaded per schedule; listings are capped so the N+1 stays bounded.
func (r *ScheduleRepositoryPG) List(ctx context.Context, filter domain.ScheduleFilter) ([]domain.Schedule, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.DonorID != "" {
		conds = append(conds, "s.user_id = "+arg(filter.DonorID))
	}
	if filter.CollectorID != "" {
		conds = append(conds, "s.collector_id = "+arg(filter.CollectorID))
	}
	if filter.Status != "" {
		conds = append(conds, "s.status = "+arg(filter.Status))
	}
	if filter.UnclaimedOnly {
		conds = append(conds, "s.collector_id IS NULL")
	}

	query := `SELECT ` + scheduleColumns + scheduleJoins
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	query += " ORDER BY s.created_at DESC LIMIT " + arg(limit) + ";"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Schedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range items {
		if err := r.loadMaterials(ctx, &items[i]); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// ClaimPending is the race-prevention mechanism: a single conditional
// UPDATE keyed on "still pending and unassigned". When two collectors race,
// exactly one write matches a row; the loser sees false.
func (r *ScheduleRepositoryPG) ClaimPending(ctx context.Context, scheduleID, collectorID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
UPDATE schedules
SET status = $3, collector_id = $2, updated_at = NOW()
WHERE id = $1 AND collector_id IS NULL AND status = $4;
`, scheduleID, collectorID, domain.StatusAccepted, domain.StatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateStatusFrom moves status conditionally on the expected from-status,
// so a concurrent transition that lost observes zero rows instead of
// silently overwriting the winner.
func (r *ScheduleRepositoryPG) UpdateStatusFrom(ctx context.Context, scheduleID string, from, to domain.Status) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
UPDATE schedules
SET status = $3, updated_at = NOW()
WHERE id = $1 AND status = $2;
`, scheduleID, from, to)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ScheduleRepositoryPG) loadMaterials(ctx context.Context, schedule *domain.Schedule) error {
	rows, err := r.pool.Query(ctx, `
SELECT m.id, m.name_pt, m.name_en, m.description_pt, m.description_en, sm.quantity_kg
FROM schedule_materials sm
JOIN materials m ON m.id = sm.material_id
WHERE sm.schedule_id = $1
ORDER BY sm.position;
`, schedule.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	schedule.Materials = nil
	for rows.Next() {
		var sm domain.ScheduleMaterial
		if err := rows.Scan(
			&sm.Material.ID,
			&sm.Material.NamePT,
			&sm.Material.NameEN,
			&sm.Material.DescriptionPT,
			&sm.Material.DescriptionEN,
			&sm.QuantityKg,
		); err != nil {
			return err
		}
		schedule.Materials = append(schedule.Materials, sm)
	}
	return rows.Err()
}

func scanSchedule(row pgx.Row) (*domain.Schedule, error) {
	var schedule domain.Schedule
	if err := row.Scan(
		&schedule.ID,
		&schedule.DonorID,
		&schedule.CollectorID,
		&schedule.Status,
		&schedule.ScheduledAt,
		&schedule.Notes,
		&schedule.PickupAddressText,
		&schedule.PickupLat,
		&schedule.PickupLng,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
		&schedule.DonorName,
		&schedule.CollectorName,
	); err != nil {
		return nil, err
	}
	return &schedule, nil
}
