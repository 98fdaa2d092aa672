//go:build unit

package builder

import (
	"time"

	dombooking "iverr-backend/internal/domain/booking"
	reqdto "iverr-backend/internal/handler/dto/request"
	"iverr-backend/internal/usecase/commands"
	"iverr-backend/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	CarID           uuid.UUID
	CarName         string
	UserID          uuid.UUID
	Status          string
	PickDate        time.Time
	PickTime        string
	ReturnDate      time.Time
	ReturnTime      string
	PickupCity      string
	DropOffCity     string
	RentPriceCents  int64
	TotalPriceCents int64
	DiscountCents   int64
	InsuranceCents  int64
	ServiceFeeCents int64
	PaymentMethod   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Now()
	return &BookingBuilder{
		CarID:           uuid.New(),
		CarName:         "Test Car",
		UserID:          uuid.New(),
		Status:          "pending",
		PickDate:        time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		PickTime:        "10:00:00",
		ReturnDate:      time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		ReturnTime:      "18:00:00",
		PickupCity:      "Yerevan",
		DropOffCity:     "Yerevan",
		RentPriceCents:  50000,
		TotalPriceCents: 62000,
		DiscountCents:   0,
		InsuranceCents:  7000,
		ServiceFeeCents: 5000,
		PaymentMethod:   "card",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	dates, err := dombooking.NewDateRange(b.PickDate, b.ReturnDate)
	if err != nil {
		return nil, err
	}
	return dombooking.NewBooking(dombooking.NewBookingParams{
		CarID:         b.CarID,
		UserID:        b.UserID,
		Status:        dombooking.Status(b.Status),
		Dates:         dates,
		PickTime:      b.PickTime,
		ReturnTime:    b.ReturnTime,
		PickupCity:    b.PickupCity,
		DropOffCity:   b.DropOffCity,
		RentPrice:     dombooking.NewMoney(b.RentPriceCents),
		TotalPrice:    dombooking.NewMoney(b.TotalPriceCents),
		Discount:      dombooking.NewMoney(b.DiscountCents),
		InsuranceFee:  dombooking.NewMoney(b.InsuranceCents),
		ServiceFee:    dombooking.NewMoney(b.ServiceFeeCents),
		PaymentMethod: b.PaymentMethod,
	})
}

func (b *BookingBuilder) BuildCreateCommand() commands.CreateBookingCommand {
	return commands.CreateBookingCommand{
		CarID:           b.CarID,
		Status:          dombooking.Status(b.Status),
		PickDate:        b.PickDate,
		PickTime:        b.PickTime,
		ReturnDate:      b.ReturnDate,
		ReturnTime:      b.ReturnTime,
		PickupCity:      b.PickupCity,
		DropOffCity:     b.DropOffCity,
		RentPriceCents:  b.RentPriceCents,
		TotalPriceCents: b.TotalPriceCents,
		DiscountCents:   b.DiscountCents,
		InsuranceCents:  b.InsuranceCents,
		ServiceFeeCents: b.ServiceFeeCents,
		PaymentMethod:   b.PaymentMethod,
	}
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		CarID:           b.CarID,
		Status:          b.Status,
		PickDate:        b.PickDate.Format(time.DateOnly),
		PickTime:        b.PickTime,
		ReturnDate:      b.ReturnDate.Format(time.DateOnly),
		ReturnTime:      b.ReturnTime,
		PickupCity:      b.PickupCity,
		DropOffCity:     b.DropOffCity,
		RentPriceCents:  b.RentPriceCents,
		TotalPriceCents: b.TotalPriceCents,
		DiscountCents:   b.DiscountCents,
		InsuranceCents:  b.InsuranceCents,
		ServiceFeeCents: b.ServiceFeeCents,
		PaymentMethod:   b.PaymentMethod,
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	return &queries.BookingView{
		ID:            uuid.New(),
		CarID:         b.CarID,
		CarName:       b.CarName,
		UserID:        b.UserID,
		Status:        b.Status,
		PickDate:      b.PickDate,
		PickTime:      b.PickTime,
		ReturnDate:    b.ReturnDate,
		ReturnTime:    b.ReturnTime,
		PickupCity:    b.PickupCity,
		DropOffCity:   b.DropOffCity,
		RentPrice:     b.RentPriceCents,
		TotalPrice:    b.TotalPriceCents,
		Discount:      b.DiscountCents,
		InsuranceFee:  b.InsuranceCents,
		ServiceFee:    b.ServiceFeeCents,
		PaymentMethod: b.PaymentMethod,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
