package queries

import (
	"context"
	"time"

	"iverr-backend/internal/usecase/shared"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID            uuid.UUID `json:"id"`
	CarID         uuid.UUID `json:"car_id"`
	CarName       string    `json:"car_name"`
	UserID        uuid.UUID `json:"user_id"`
	Status        string    `json:"status"`
	PickDate      time.Time `json:"pick_date"`
	PickTime      string    `json:"pick_time"`
	ReturnDate    time.Time `json:"return_date"`
	ReturnTime    string    `json:"return_time"`
	PickupCity    string    `json:"pickup_city"`
	DropOffCity   string    `json:"dropoff_city"`
	RentPrice     int64     `json:"rent_price_cents"`
	TotalPrice    int64     `json:"total_price_cents"`
	Discount      int64     `json:"discount_cents"`
	InsuranceFee  int64     `json:"insurance_fee_cents"`
	ServiceFee    int64     `json:"service_fee_cents"`
	PaymentMethod string    `json:"payment_method"`
	PickupOTP     *string   `json:"pickup_otp,omitempty"`
	DropoffOTP    *string   `json:"dropoff_otp,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type BlockView struct {
	ID           uuid.UUID `json:"id"`
	CarID        uuid.UUID `json:"car_id"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Status       string    `json:"status"`
	SpecialPrice *int64    `json:"special_price_cents,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BookingFilter narrows ListBookings. Zero values mean "no filter".
type BookingFilter struct {
	CarID     *uuid.UUID
	UserID    *uuid.UUID
	Status    *string
	StartDate *time.Time
	EndDate   *time.Time
}

type BlockFilter struct {
	CarID     *uuid.UUID
	Status    *string
	StartDate *time.Time
	EndDate   *time.Time
}

type BookingViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByFilter(ctx context.Context, filter BookingFilter) ([]*BookingView, error)
}

type BlockViewRepo interface {
	FindByFilter(ctx context.Context, filter BlockFilter) ([]*BlockView, error)
}

type BookingQueries interface {
	// GetByID enforces the renter/owner/admin visibility rule for the actor.
	GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*BookingView, error)
	// GetByIDSystem bypasses visibility for internal read-after-write paths.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error)
	List(ctx context.Context, actor shared.Actor, filter BookingFilter) ([]*BookingView, error)
}

type CalendarQueries interface {
	ListBlocks(ctx context.Context, filter BlockFilter) ([]*BlockView, error)
}

type CarDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*shared.CarSnapshot, error)
}

type bookingQueriesImpl struct {
	repo BookingViewRepo
	cars CarDirectory
}

func NewBookingQueries(repo BookingViewRepo, cars CarDirectory) BookingQueries {
	return &bookingQueriesImpl{repo: repo, cars: cars}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*BookingView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.ID != view.UserID {
		car, err := q.cars.FindByID(ctx, view.CarID)
		if err != nil || actor.ID != car.OwnerID {
			return nil, ErrNotVisible
		}
	}
	return view, nil
}

func (q *bookingQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	return q.repo.FindByID(ctx, id)
}

// List scopes non-admin callers to their own bookings, mirroring the write
// side's ownership rule on the read path.
func (q *bookingQueriesImpl) List(ctx context.Context, actor shared.Actor, filter BookingFilter) ([]*BookingView, error) {
	if !actor.IsAdmin() {
		userID := actor.ID
		filter.UserID = &userID
	}
	return q.repo.FindByFilter(ctx, filter)
}

type calendarQueriesImpl struct {
	repo BlockViewRepo
}

func NewCalendarQueries(repo BlockViewRepo) CalendarQueries {
	return &calendarQueriesImpl{repo: repo}
}

func (q *calendarQueriesImpl) ListBlocks(ctx context.Context, filter BlockFilter) ([]*BlockView, error) {
	return q.repo.FindByFilter(ctx, filter)
}
