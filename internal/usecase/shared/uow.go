package shared

import (
	"context"
	"time"

	"iverr-backend/internal/domain/booking"
	"iverr-backend/internal/domain/calendar"
	"iverr-backend/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
}

type Tx interface {
	Bookings() BookingRepository
	Calendar() CalendarRepository
	Documents() DocumentRepository
	Outbox() OutboxRepository
	Cars() CarRepository
	DB() db.DBTX
}

type BookingRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, b *booking.Booking) error
	Update(ctx context.Context, dbtx db.DBTX, b *booking.Booking) error
	Delete(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*booking.Booking, error)
	// FindConflicting returns the id of the first booking for the car whose
	// inclusive date range overlaps dates, skipping excludeID when non-nil.
	FindConflicting(ctx context.Context, dbtx db.DBTX, carID uuid.UUID, dates booking.DateRange, excludeID *uuid.UUID) (*uuid.UUID, error)
}

type CalendarRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, blk *calendar.Block) error
	Update(ctx context.Context, dbtx db.DBTX, blk *calendar.Block) error
	Delete(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*calendar.Block, error)
	// FindBookedBlock locates the booked block mirroring a booking's exact
	// range, used by the repair-or-create sync on update.
	FindBookedBlock(ctx context.Context, dbtx db.DBTX, carID uuid.UUID, dates booking.DateRange) (*calendar.Block, error)
	DeleteBookedBlock(ctx context.Context, dbtx db.DBTX, carID uuid.UUID, dates booking.DateRange) error
}

type DocumentRepository interface {
	Upsert(ctx context.Context, dbtx db.DBTX, bookingID uuid.UUID, patch booking.DocumentPatch) error
	DeleteByBookingID(ctx context.Context, dbtx db.DBTX, bookingID uuid.UUID) error
}

type OutboxRepository interface {
	Append(ctx context.Context, dbtx db.DBTX, topic string, payload []byte, runAt time.Time) error
}

type CarRepository interface {
	// LockByID takes the per-car row lock that serializes the
	// check-then-insert sequence for a car's date-range space.
	LockByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*CarSnapshot, error)
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*CarSnapshot, error)
}
