package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// MaterialRepositoryPG implements domain.MaterialRepository using PostgreSQL.
type MaterialRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewMaterialRepository creates a new material repository backed by PostgreSQL.
func NewMaterialRepository(pool *pgxpool.Pool) *MaterialRepositoryPG {
	return &MaterialRepositoryPG{pool: pool}
}

const materialColumns = `id, name_pt, name_en, description_pt, description_en`

// List returns the full materials catalog ordered by Portuguese name.
func (r *MaterialRepositoryPG) List(ctx context.Context) ([]domain.Material, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+materialColumns+`
FROM materials
ORDER BY name_pt;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMaterials(rows)
}

// GetByIDs returns the materials matching the given ids; missing ids are
// simply absent from the result.
func (r *MaterialRepositoryPG) GetByIDs(ctx context.Context, ids []string) ([]domain.Material, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `
SELECT `+materialColumns+`
FROM materials
WHERE id = ANY($1);
`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMaterials(rows)
}

func scanMaterials(rows pgx.Rows) ([]domain.Material, error) {
	var items []domain.Material
	for rows.Next() {
		var m domain.Material
		if err := rows.Scan(&m.ID, &m.NamePT, &m.NameEN, &m.DescriptionPT, &m.DescriptionEN); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
