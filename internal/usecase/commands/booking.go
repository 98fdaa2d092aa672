package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"iverr-backend/internal/domain/booking"
	"iverr-backend/internal/domain/calendar"
	"iverr-backend/internal/events"
	"iverr-backend/internal/infra"
	"iverr-backend/internal/pkg/clock"
	"iverr-backend/internal/pkg/errs"
	"iverr-backend/internal/pkg/metrics"
	"iverr-backend/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrValidation              = errs.New("validation failed")
	ErrCarNotFound             = errs.New("car not found")
	ErrBookingNotFound         = errs.New("booking not found")
	ErrForbidden               = errs.New("not allowed to manage this booking")
	ErrBookingConflict         = errs.New("booking dates conflict")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// ConflictError carries the identifier of the booking already holding the
// range, so callers can build a useful message without string parsing.
// errors.Is(err, ErrBookingConflict) matches it.
type ConflictError struct {
	ConflictingBookingID uuid.UUID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("booking dates conflict with booking %s", e.ConflictingBookingID)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrBookingConflict
}

type CreateBookingCommand struct {
	CarID            uuid.UUID
	Status           booking.Status
	PickDate         time.Time
	PickTime         string
	ReturnDate       time.Time
	ReturnTime       string
	PickupCity       string
	DropOffCity      string
	RentPriceCents   int64
	TotalPriceCents  int64
	DiscountCents    int64
	InsuranceCents   int64
	ServiceFeeCents  int64
	PaymentMethod    string
}

type UpdateBookingCommand struct {
	Patch    booking.Patch
	Document *booking.DocumentPatch
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, actor shared.Actor, cmd CreateBookingCommand) (uuid.UUID, error)
	UpdateBooking(ctx context.Context, actor shared.Actor, bookingID uuid.UUID, cmd UpdateBookingCommand) error
	DeleteBooking(ctx context.Context, actor shared.Actor, bookingID uuid.UUID) error
	IssuePickupCode(ctx context.Context, actor shared.Actor, bookingID uuid.UUID) (booking.HandoverCode, error)
	IssueDropoffCode(ctx context.Context, actor shared.Actor, bookingID uuid.UUID) (booking.HandoverCode, error)
}

type bookingCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewBookingCommands(uow shared.UnitOfWork, clock clock.Clock) BookingCommands {
	return &bookingCommandsImpl{uow: uow, clock: clock}
}

// CreateBooking grants the requested interval or fails atomically. The per-car
// row lock is held from before the overlap check until commit, so two racing
// requests for the same car serialize and the loser sees the winner's row.
func (c *bookingCommandsImpl) CreateBooking(ctx context.Context, actor shared.Actor, cmd CreateBookingCommand) (uuid.UUID, error) {
	dates, err := booking.NewDateRange(cmd.PickDate, cmd.ReturnDate)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrValidation)
	}

	entity, err := booking.NewBooking(booking.NewBookingParams{
		CarID:         cmd.CarID,
		UserID:        actor.ID,
		Status:        cmd.Status,
		Dates:         dates,
		PickTime:      cmd.PickTime,
		ReturnTime:    cmd.ReturnTime,
		PickupCity:    cmd.PickupCity,
		DropOffCity:   cmd.DropOffCity,
		RentPrice:     booking.NewMoney(cmd.RentPriceCents),
		TotalPrice:    booking.NewMoney(cmd.TotalPriceCents),
		Discount:      booking.NewMoney(cmd.DiscountCents),
		InsuranceFee:  booking.NewMoney(cmd.InsuranceCents),
		ServiceFee:    booking.NewMoney(cmd.ServiceFeeCents),
		PaymentMethod: cmd.PaymentMethod,
	})
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrValidation)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		car, err := tx.Cars().LockByID(ctx, tx.DB(), cmd.CarID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrCarNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		conflictID, err := tx.Bookings().FindConflicting(ctx, tx.DB(), cmd.CarID, dates, nil)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if conflictID != nil {
			metrics.IncBookingConflict()
			return &ConflictError{ConflictingBookingID: *conflictID}
		}

		if err := tx.Bookings().Create(ctx, tx.DB(), entity); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Calendar().Create(ctx, tx.DB(), calendar.NewBookedBlock(entity)); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		return c.appendBookingEvent(ctx, tx, events.TopicBookingCreated, entity, car.OwnerID)
	})
	if err != nil {
		return uuid.Nil, err
	}

	metrics.IncBookingCreated()
	return entity.ID(), nil
}

// UpdateBooking applies a partial patch. The conflict check re-runs only when
// the effective date range actually changed, and always excludes the booking's
// own id so a no-op date edit cannot conflict with itself.
func (c *bookingCommandsImpl) UpdateBooking(ctx context.Context, actor shared.Actor, bookingID uuid.UUID, cmd UpdateBookingCommand) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, car, err := c.loadForWrite(ctx, tx, bookingID, cmd.Patch.TouchesDates())
		if err != nil {
			return err
		}
		if !actor.MayManageBooking(entity.UserID(), car.OwnerID) {
			return ErrForbidden
		}

		oldDates := entity.Dates()
		rangeChanged, err := entity.Apply(cmd.Patch)
		if err != nil {
			return errs.Mark(err, ErrValidation)
		}

		if rangeChanged {
			excludeID := entity.ID()
			conflictID, err := tx.Bookings().FindConflicting(ctx, tx.DB(), entity.CarID(), entity.Dates(), &excludeID)
			if err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			if conflictID != nil {
				metrics.IncBookingConflict()
				return &ConflictError{ConflictingBookingID: *conflictID}
			}
		}

		if err := tx.Bookings().Update(ctx, tx.DB(), entity); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if rangeChanged {
			if err := c.syncCalendar(ctx, tx, entity, oldDates); err != nil {
				return err
			}
		}

		if cmd.Document != nil && !cmd.Document.IsEmpty() {
			if err := tx.Documents().Upsert(ctx, tx.DB(), entity.ID(), *cmd.Document); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		return c.appendBookingEvent(ctx, tx, events.TopicBookingUpdated, entity, car.OwnerID)
	})
}

func (c *bookingCommandsImpl) DeleteBooking(ctx context.Context, actor shared.Actor, bookingID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, car, err := c.loadForWrite(ctx, tx, bookingID, false)
		if err != nil {
			return err
		}
		if !actor.MayManageBooking(entity.UserID(), car.OwnerID) {
			return ErrForbidden
		}

		// The booking exclusively owns its document row and its ledger entry.
		if err := tx.Documents().DeleteByBookingID(ctx, tx.DB(), entity.ID()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Calendar().DeleteBookedBlock(ctx, tx.DB(), entity.CarID(), entity.Dates()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Bookings().Delete(ctx, tx.DB(), entity.ID()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (c *bookingCommandsImpl) IssuePickupCode(ctx context.Context, actor shared.Actor, bookingID uuid.UUID) (booking.HandoverCode, error) {
	return c.issueCode(ctx, actor, bookingID, (*booking.Booking).AssignPickupCode)
}

func (c *bookingCommandsImpl) IssueDropoffCode(ctx context.Context, actor shared.Actor, bookingID uuid.UUID) (booking.HandoverCode, error) {
	return c.issueCode(ctx, actor, bookingID, (*booking.Booking).AssignDropoffCode)
}

func (c *bookingCommandsImpl) issueCode(ctx context.Context, actor shared.Actor, bookingID uuid.UUID, assign func(*booking.Booking, booking.HandoverCode)) (booking.HandoverCode, error) {
	var code booking.HandoverCode
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, car, err := c.loadForWrite(ctx, tx, bookingID, false)
		if err != nil {
			return err
		}
		if !actor.MayManageBooking(entity.UserID(), car.OwnerID) {
			return ErrForbidden
		}

		code = booking.NewHandoverCode()
		assign(entity, code)

		if err := tx.Bookings().Update(ctx, tx.DB(), entity); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// loadForWrite fetches the booking and its car, taking the per-car lock when
// the caller is about to move the booking's date range.
func (c *bookingCommandsImpl) loadForWrite(ctx context.Context, tx shared.Tx, bookingID uuid.UUID, lockCar bool) (*booking.Booking, *shared.CarSnapshot, error) {
	entity, err := tx.Bookings().FindByID(ctx, tx.DB(), bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, ErrBookingNotFound
		}
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	var car *shared.CarSnapshot
	if lockCar {
		car, err = tx.Cars().LockByID(ctx, tx.DB(), entity.CarID())
	} else {
		car, err = tx.Cars().FindByID(ctx, tx.DB(), entity.CarID())
	}
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, ErrCarNotFound
		}
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return entity, car, nil
}

// syncCalendar keeps the ledger in lock-step with the booking. The block that
// mirrored the old range is moved in place; if out-of-band edits removed it, a
// fresh one is created instead of failing the whole update.
func (c *bookingCommandsImpl) syncCalendar(ctx context.Context, tx shared.Tx, entity *booking.Booking, oldDates booking.DateRange) error {
	blk, err := tx.Calendar().FindBookedBlock(ctx, tx.DB(), entity.CarID(), oldDates)
	if err != nil {
		if !infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Calendar().Create(ctx, tx.DB(), calendar.NewBookedBlock(entity)); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	}

	blk.Reassign(entity.Dates())
	if err := tx.Calendar().Update(ctx, tx.DB(), blk); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (c *bookingCommandsImpl) appendBookingEvent(ctx context.Context, tx shared.Tx, topic string, entity *booking.Booking, ownerID uuid.UUID) error {
	var event events.BookingEvent
	pickDate := entity.Dates().PickDate().Format(time.DateOnly)
	returnDate := entity.Dates().ReturnDate().Format(time.DateOnly)
	if topic == events.TopicBookingCreated {
		event = events.NewBookingCreated(entity.ID(), entity.CarID(), entity.UserID(), ownerID,
			pickDate, entity.PickTime(), returnDate, entity.ReturnTime())
	} else {
		event = events.NewBookingUpdated(entity.ID(), entity.CarID(), entity.UserID(), ownerID,
			pickDate, entity.PickTime(), returnDate, entity.ReturnTime())
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if err := tx.Outbox().Append(ctx, tx.DB(), topic, payload, c.clock.Now()); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}
