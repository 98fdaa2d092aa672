package repository

import (
	"context"

	"iverr-backend/internal/infra"
	"iverr-backend/internal/infra/db"
	"iverr-backend/internal/usecase/shared"

	"github.com/google/uuid"
)

type CarRepository struct{}

func NewCarRepository() *CarRepository {
	return &CarRepository{}
}

// LockByID takes the per-car row lock. Every writer that touches a car's
// date-range space goes through here first, which serializes the
// check-then-insert sequence against concurrent bookings for the same car.
func (r *CarRepository) LockByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.CarSnapshot, error) {
	row := dbtx.QueryRow(ctx, `
		SELECT id, owner_id, name FROM cars WHERE id = $1 FOR UPDATE`,
		id,
	)
	return scanCar(row)
}

func (r *CarRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.CarSnapshot, error) {
	row := dbtx.QueryRow(ctx, `SELECT id, owner_id, name FROM cars WHERE id = $1`, id)
	return scanCar(row)
}

func scanCar(row rowScanner) (*shared.CarSnapshot, error) {
	var car shared.CarSnapshot
	if err := row.Scan(&car.ID, &car.OwnerID, &car.Name); err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("car not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find car", err)
	}
	return &car, nil
}
