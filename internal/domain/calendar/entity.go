// Package calendar holds the per-car availability ledger. Blocks with status
// "booked" are a projection of bookings and are written in lock-step with
// them; owners may also create manual "blocked" spans without a booking.
package calendar

import (
	"errors"
	"time"

	"iverr-backend/internal/domain/booking"

	"github.com/google/uuid"
)

type BlockStatus string

const (
	StatusAvailable BlockStatus = "available"
	StatusBooked    BlockStatus = "booked"
	StatusBlocked   BlockStatus = "blocked"
)

var (
	ErrMissingCar    = errors.New("car is required")
	ErrInvalidStatus = errors.New("invalid block status")
	ErrNegativePrice = errors.New("special price cannot be negative")
)

func (s BlockStatus) IsValid() bool {
	switch s {
	case StatusAvailable, StatusBooked, StatusBlocked:
		return true
	}
	return false
}

// Block is one blocked or specially-priced date span for a car.
type Block struct {
	id           uuid.UUID
	carID        uuid.UUID
	dates        booking.DateRange
	status       BlockStatus
	specialPrice *int64 // cents; nil means no override
	createdAt    time.Time
	updatedAt    time.Time
}

func NewBlock(carID uuid.UUID, dates booking.DateRange, status BlockStatus, specialPrice *int64) (*Block, error) {
	if carID == uuid.Nil {
		return nil, ErrMissingCar
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if specialPrice != nil && *specialPrice < 0 {
		return nil, ErrNegativePrice
	}
	return &Block{
		id:           uuid.New(),
		carID:        carID,
		dates:        dates,
		status:       status,
		specialPrice: specialPrice,
	}, nil
}

// NewBookedBlock projects a booking into its ledger entry.
func NewBookedBlock(b *booking.Booking) *Block {
	return &Block{
		id:     uuid.New(),
		carID:  b.CarID(),
		dates:  b.Dates(),
		status: StatusBooked,
	}
}

func ReconstructBlock(
	id, carID uuid.UUID,
	dates booking.DateRange,
	status BlockStatus,
	specialPrice *int64,
	createdAt, updatedAt time.Time,
) *Block {
	return &Block{
		id:           id,
		carID:        carID,
		dates:        dates,
		status:       status,
		specialPrice: specialPrice,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// Reassign moves the block to a new date span, keeping status and price.
func (b *Block) Reassign(dates booking.DateRange) {
	b.dates = dates
}

// Revise rewrites a manually managed block.
func (b *Block) Revise(dates booking.DateRange, status BlockStatus, specialPrice *int64) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	if specialPrice != nil && *specialPrice < 0 {
		return ErrNegativePrice
	}
	b.dates = dates
	b.status = status
	b.specialPrice = specialPrice
	return nil
}

func (b *Block) ID() uuid.UUID            { return b.id }
func (b *Block) CarID() uuid.UUID         { return b.carID }
func (b *Block) Dates() booking.DateRange { return b.dates }
func (b *Block) Status() BlockStatus      { return b.status }
func (b *Block) SpecialPrice() *int64     { return b.specialPrice }
func (b *Block) CreatedAt() time.Time     { return b.createdAt }
func (b *Block) UpdatedAt() time.Time     { return b.updatedAt }
