package commands

import (
	"context"
	"time"

	"iverr-backend/internal/domain/booking"
	"iverr-backend/internal/domain/calendar"
	"iverr-backend/internal/infra"
	"iverr-backend/internal/pkg/errs"
	"iverr-backend/internal/pkg/metrics"
	"iverr-backend/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrBlockNotFound = errs.New("calendar block not found")

type SaveBlockCommand struct {
	BlockID           *uuid.UUID // nil creates a new block
	CarID             uuid.UUID
	StartDate         time.Time
	EndDate           time.Time
	Status            calendar.BlockStatus
	SpecialPriceCents *int64
}

type CalendarCommands interface {
	SaveBlock(ctx context.Context, actor shared.Actor, cmd SaveBlockCommand) (uuid.UUID, error)
	DeleteBlock(ctx context.Context, actor shared.Actor, blockID uuid.UUID) error
}

type calendarCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewCalendarCommands(uow shared.UnitOfWork) CalendarCommands {
	return &calendarCommandsImpl{uow: uow}
}

// SaveBlock creates or revises a manually managed block. Owners block out
// dates without a booking this way; a manual "booked" span competes with real
// bookings and goes through the same overlap gate.
func (c *calendarCommandsImpl) SaveBlock(ctx context.Context, actor shared.Actor, cmd SaveBlockCommand) (uuid.UUID, error) {
	dates, err := booking.NewDateRange(cmd.StartDate, cmd.EndDate)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrValidation)
	}

	var blockID uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		car, err := tx.Cars().LockByID(ctx, tx.DB(), cmd.CarID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrCarNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !actor.IsAdmin() && actor.ID != car.OwnerID {
			return ErrForbidden
		}

		if cmd.Status == calendar.StatusBooked {
			conflictID, err := tx.Bookings().FindConflicting(ctx, tx.DB(), cmd.CarID, dates, nil)
			if err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			if conflictID != nil {
				metrics.IncBookingConflict()
				return &ConflictError{ConflictingBookingID: *conflictID}
			}
		}

		if cmd.BlockID != nil {
			blk, err := tx.Calendar().FindByID(ctx, tx.DB(), *cmd.BlockID)
			if err != nil {
				if infra.IsKind(err, infra.KindNotFound) {
					return ErrBlockNotFound
				}
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			if blk.CarID() != cmd.CarID {
				return ErrForbidden
			}
			if err := blk.Revise(dates, cmd.Status, cmd.SpecialPriceCents); err != nil {
				return errs.Mark(err, ErrValidation)
			}
			if err := tx.Calendar().Update(ctx, tx.DB(), blk); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			blockID = blk.ID()
			return nil
		}

		blk, err := calendar.NewBlock(cmd.CarID, dates, cmd.Status, cmd.SpecialPriceCents)
		if err != nil {
			return errs.Mark(err, ErrValidation)
		}
		if err := tx.Calendar().Create(ctx, tx.DB(), blk); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		blockID = blk.ID()
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return blockID, nil
}

func (c *calendarCommandsImpl) DeleteBlock(ctx context.Context, actor shared.Actor, blockID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		blk, err := tx.Calendar().FindByID(ctx, tx.DB(), blockID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBlockNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		car, err := tx.Cars().FindByID(ctx, tx.DB(), blk.CarID())
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrCarNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !actor.IsAdmin() && actor.ID != car.OwnerID {
			return ErrForbidden
		}

		if err := tx.Calendar().Delete(ctx, tx.DB(), blockID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}
