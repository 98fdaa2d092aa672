package repository

import (
	"context"
	"time"

	"iverr-backend/internal/domain/booking"
	"iverr-backend/internal/domain/calendar"
	"iverr-backend/internal/infra"
	"iverr-backend/internal/infra/db"

	"github.com/google/uuid"
)

type CalendarRepository struct{}

func NewCalendarRepository() *CalendarRepository {
	return &CalendarRepository{}
}

const blockColumns = `id, car_id, start_date, end_date, status, special_price_cents, created_at, updated_at`

func (r *CalendarRepository) Create(ctx context.Context, dbtx db.DBTX, blk *calendar.Block) error {
	_, err := dbtx.Exec(ctx, `
		INSERT INTO calendar_blocks (id, car_id, start_date, end_date, status, special_price_cents)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		blk.ID(), blk.CarID(), blk.Dates().PickDate(), blk.Dates().ReturnDate(),
		string(blk.Status()), blk.SpecialPrice(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create calendar block", err)
	}
	return nil
}

func (r *CalendarRepository) Update(ctx context.Context, dbtx db.DBTX, blk *calendar.Block) error {
	tag, err := dbtx.Exec(ctx, `
		UPDATE calendar_blocks SET
			start_date = $2, end_date = $3, status = $4, special_price_cents = $5, updated_at = now()
		WHERE id = $1`,
		blk.ID(), blk.Dates().PickDate(), blk.Dates().ReturnDate(),
		string(blk.Status()), blk.SpecialPrice(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update calendar block", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("calendar block not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CalendarRepository) Delete(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error {
	tag, err := dbtx.Exec(ctx, `DELETE FROM calendar_blocks WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete calendar block", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("calendar block not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CalendarRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*calendar.Block, error) {
	row := dbtx.QueryRow(ctx, `SELECT `+blockColumns+` FROM calendar_blocks WHERE id = $1`, id)
	blk, err := scanBlock(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("calendar block not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find calendar block by ID", err)
	}
	return blk, nil
}

func (r *CalendarRepository) FindBookedBlock(ctx context.Context, dbtx db.DBTX, carID uuid.UUID, dates booking.DateRange) (*calendar.Block, error) {
	row := dbtx.QueryRow(ctx, `
		SELECT `+blockColumns+` FROM calendar_blocks
		WHERE car_id = $1 AND status = 'booked' AND start_date = $2 AND end_date = $3
		LIMIT 1`,
		carID, dates.PickDate(), dates.ReturnDate(),
	)
	blk, err := scanBlock(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booked block not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booked block", err)
	}
	return blk, nil
}

// DeleteBookedBlock is a no-op when the ledger already drifted; delete must
// not fail just because the projection was edited out-of-band.
func (r *CalendarRepository) DeleteBookedBlock(ctx context.Context, dbtx db.DBTX, carID uuid.UUID, dates booking.DateRange) error {
	_, err := dbtx.Exec(ctx, `
		DELETE FROM calendar_blocks
		WHERE car_id = $1 AND status = 'booked' AND start_date = $2 AND end_date = $3`,
		carID, dates.PickDate(), dates.ReturnDate(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to delete booked block", err)
	}
	return nil
}

func scanBlock(row rowScanner) (*calendar.Block, error) {
	var (
		id, carID            uuid.UUID
		startDate, endDate   time.Time
		status               string
		specialPrice         *int64
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &carID, &startDate, &endDate, &status, &specialPrice, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	dates, err := booking.NewDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	return calendar.ReconstructBlock(
		id, carID, dates, calendar.BlockStatus(status), specialPrice, createdAt, updatedAt,
	), nil
}
