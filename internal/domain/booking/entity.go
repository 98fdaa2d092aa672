package booking

import (
	"errors"
	"time"

	"iverr-backend/internal/pkg/patch"

	"github.com/google/uuid"
)

var (
	ErrMissingCar       = errors.New("car is required")
	ErrMissingRenter    = errors.New("renter is required")
	ErrMissingStatus    = errors.New("status is required")
	ErrInvalidTimeOfDay = errors.New("invalid time of day")
)

// Money is an amount in cents. Pricing computation is out of scope here; the
// engine stores whatever the caller computed.
type Money struct {
	cents int64
}

func NewMoney(cents int64) Money {
	return Money{cents: cents}
}

func (m Money) Cents() int64 {
	return m.cents
}

// Booking is one renter holding one car for one contiguous date span.
type Booking struct {
	id            uuid.UUID
	carID         uuid.UUID
	userID        uuid.UUID
	status        Status
	dates         DateRange
	pickTime      string
	returnTime    string
	pickupCity    string
	dropOffCity   string
	rentPrice     Money
	totalPrice    Money
	discount      Money
	insuranceFee  Money
	serviceFee    Money
	paymentMethod string
	pickupCode    *HandoverCode
	dropoffCode   *HandoverCode
	createdAt     time.Time
	updatedAt     time.Time
}

type NewBookingParams struct {
	CarID         uuid.UUID
	UserID        uuid.UUID
	Status        Status
	Dates         DateRange
	PickTime      string
	ReturnTime    string
	PickupCity    string
	DropOffCity   string
	RentPrice     Money
	TotalPrice    Money
	Discount      Money
	InsuranceFee  Money
	ServiceFee    Money
	PaymentMethod string
}

func NewBooking(p NewBookingParams) (*Booking, error) {
	if p.CarID == uuid.Nil {
		return nil, ErrMissingCar
	}
	if p.UserID == uuid.Nil {
		return nil, ErrMissingRenter
	}
	if p.Status == "" {
		return nil, ErrMissingStatus
	}
	if err := validateTimeOfDay(p.PickTime); err != nil {
		return nil, err
	}
	if err := validateTimeOfDay(p.ReturnTime); err != nil {
		return nil, err
	}

	return &Booking{
		id:            uuid.New(),
		carID:         p.CarID,
		userID:        p.UserID,
		status:        p.Status,
		dates:         p.Dates,
		pickTime:      p.PickTime,
		returnTime:    p.ReturnTime,
		pickupCity:    p.PickupCity,
		dropOffCity:   p.DropOffCity,
		rentPrice:     p.RentPrice,
		totalPrice:    p.TotalPrice,
		discount:      p.Discount,
		insuranceFee:  p.InsuranceFee,
		serviceFee:    p.ServiceFee,
		paymentMethod: p.PaymentMethod,
	}, nil
}

func ReconstructBooking(
	id, carID, userID uuid.UUID,
	status Status,
	dates DateRange,
	pickTime, returnTime, pickupCity, dropOffCity string,
	rentPrice, totalPrice, discount, insuranceFee, serviceFee Money,
	paymentMethod string,
	pickupCode, dropoffCode *HandoverCode,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		carID:         carID,
		userID:        userID,
		status:        status,
		dates:         dates,
		pickTime:      pickTime,
		returnTime:    returnTime,
		pickupCity:    pickupCity,
		dropOffCity:   dropOffCity,
		rentPrice:     rentPrice,
		totalPrice:    totalPrice,
		discount:      discount,
		insuranceFee:  insuranceFee,
		serviceFee:    serviceFee,
		paymentMethod: paymentMethod,
		pickupCode:    pickupCode,
		dropoffCode:   dropoffCode,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// Patch carries the fields a caller wants to change. Nil means "keep the
// current value"; the distinction between absent and zero is what makes
// partial updates safe.
type Patch struct {
	Status        *Status
	PickDate      *time.Time
	PickTime      *string
	ReturnDate    *time.Time
	ReturnTime    *string
	PickupCity    *string
	DropOffCity   *string
	RentPrice     *Money
	TotalPrice    *Money
	Discount      *Money
	InsuranceFee  *Money
	ServiceFee    *Money
	PaymentMethod *string
}

func (p Patch) TouchesDates() bool {
	return p.PickDate != nil || p.ReturnDate != nil
}

// Apply mutates the booking in place and reports whether the effective date
// range changed, so the caller knows whether to re-run the overlap check.
func (b *Booking) Apply(p Patch) (rangeChanged bool, err error) {
	newRange, err := NewDateRange(
		patch.Coalesce(p.PickDate, b.dates.PickDate()),
		patch.Coalesce(p.ReturnDate, b.dates.ReturnDate()),
	)
	if err != nil {
		return false, err
	}
	if p.PickTime != nil {
		if err := validateTimeOfDay(*p.PickTime); err != nil {
			return false, err
		}
	}
	if p.ReturnTime != nil {
		if err := validateTimeOfDay(*p.ReturnTime); err != nil {
			return false, err
		}
	}
	if p.Status != nil && *p.Status == "" {
		return false, ErrMissingStatus
	}

	rangeChanged = !newRange.Equal(b.dates)
	b.dates = newRange
	b.status = patch.Coalesce(p.Status, b.status)
	b.pickTime = patch.Coalesce(p.PickTime, b.pickTime)
	b.returnTime = patch.Coalesce(p.ReturnTime, b.returnTime)
	b.pickupCity = patch.Coalesce(p.PickupCity, b.pickupCity)
	b.dropOffCity = patch.Coalesce(p.DropOffCity, b.dropOffCity)
	b.rentPrice = patch.Coalesce(p.RentPrice, b.rentPrice)
	b.totalPrice = patch.Coalesce(p.TotalPrice, b.totalPrice)
	b.discount = patch.Coalesce(p.Discount, b.discount)
	b.insuranceFee = patch.Coalesce(p.InsuranceFee, b.insuranceFee)
	b.serviceFee = patch.Coalesce(p.ServiceFee, b.serviceFee)
	b.paymentMethod = patch.Coalesce(p.PaymentMethod, b.paymentMethod)
	return rangeChanged, nil
}

// AssignPickupCode overwrites any previously issued code. Reissuing is allowed;
// the old code simply stops matching.
func (b *Booking) AssignPickupCode(code HandoverCode) {
	b.pickupCode = &code
}

func (b *Booking) AssignDropoffCode(code HandoverCode) {
	b.dropoffCode = &code
}

func (b *Booking) IsHeldBy(userID uuid.UUID) bool {
	return b.userID == userID
}

func (b *Booking) ID() uuid.UUID              { return b.id }
func (b *Booking) CarID() uuid.UUID           { return b.carID }
func (b *Booking) UserID() uuid.UUID          { return b.userID }
func (b *Booking) Status() Status             { return b.status }
func (b *Booking) Dates() DateRange           { return b.dates }
func (b *Booking) PickTime() string           { return b.pickTime }
func (b *Booking) ReturnTime() string         { return b.returnTime }
func (b *Booking) PickupCity() string         { return b.pickupCity }
func (b *Booking) DropOffCity() string        { return b.dropOffCity }
func (b *Booking) RentPrice() Money           { return b.rentPrice }
func (b *Booking) TotalPrice() Money          { return b.totalPrice }
func (b *Booking) Discount() Money            { return b.discount }
func (b *Booking) InsuranceFee() Money        { return b.insuranceFee }
func (b *Booking) ServiceFee() Money          { return b.serviceFee }
func (b *Booking) PaymentMethod() string      { return b.paymentMethod }
func (b *Booking) PickupCode() *HandoverCode  { return b.pickupCode }
func (b *Booking) DropoffCode() *HandoverCode { return b.dropoffCode }
func (b *Booking) CreatedAt() time.Time       { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time       { return b.updatedAt }

func validateTimeOfDay(v string) error {
	if _, err := time.Parse("15:04:05", v); err == nil {
		return nil
	}
	if _, err := time.Parse("15:04", v); err == nil {
		return nil
	}
	return ErrInvalidTimeOfDay
}
