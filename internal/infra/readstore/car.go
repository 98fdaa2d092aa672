package readstore

import (
	"context"

	"iverr-backend/internal/infra"
	"iverr-backend/internal/infra/db"
	"iverr-backend/internal/usecase/shared"

	"github.com/google/uuid"
)

// CarReadStore serves ownership lookups on the read path.
type CarReadStore struct {
	db db.DBTX
}

func NewCarReadStore(db db.DBTX) *CarReadStore {
	return &CarReadStore{db: db}
}

func (r *CarReadStore) FindByID(ctx context.Context, id uuid.UUID) (*shared.CarSnapshot, error) {
	row := r.db.QueryRow(ctx, `SELECT id, owner_id, name FROM cars WHERE id = $1`, id)

	var car shared.CarSnapshot
	if err := row.Scan(&car.ID, &car.OwnerID, &car.Name); err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("car not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find car", err)
	}
	return &car, nil
}
