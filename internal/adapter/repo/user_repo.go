package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// UserRepositoryPG implements domain.UserRepository using PostgreSQL. The
// user rows themselves are owned by the identity service; this repo only
// reads them for display names and saved addresses.
type UserRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new user repository backed by PostgreSQL.
func NewUserRepository(pool *pgxpool.Pool) *UserRepositoryPG {
	return &UserRepositoryPG{pool: pool}
}

// GetByID fetches a user by its identifier.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, name, email, role, COALESCE(phone, ''),
       COALESCE(address_street, ''), COALESCE(address_number, ''),
       COALESCE(address_neighborhood, ''), COALESCE(address_city, ''),
       COALESCE(address_state, ''), COALESCE(address_zip, ''),
       address_lat, address_lng, created_at, updated_at
FROM users
WHERE id = $1;
`, id)

	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Role,
		&user.Phone,
		&user.AddressStreet,
		&user.AddressNumber,
		&user.AddressNeighborhood,
		&user.AddressCity,
		&user.AddressState,
		&user.AddressZip,
		&user.AddressLat,
		&user.AddressLng,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
