package request

import (
	"time"

	"iverr-backend/internal/domain/booking"
	"iverr-backend/internal/pkg/errs"
	"iverr-backend/internal/usecase/commands"

	"github.com/google/uuid"
)

var errInvalidDate = errs.New("invalid date, expected YYYY-MM-DD")

type CreateBookingRequest struct {
	CarID           uuid.UUID `json:"car_id" binding:"required"`
	Status          string    `json:"status" binding:"required"`
	PickDate        string    `json:"pick_date" binding:"required"`
	PickTime        string    `json:"pick_time" binding:"required"`
	ReturnDate      string    `json:"return_date" binding:"required"`
	ReturnTime      string    `json:"return_time" binding:"required"`
	PickupCity      string    `json:"pickup_city" binding:"required"`
	DropOffCity     string    `json:"dropoff_city" binding:"required"`
	RentPriceCents  int64     `json:"rent_price_cents"`
	TotalPriceCents int64     `json:"total_price_cents"`
	DiscountCents   int64     `json:"discount_cents"`
	InsuranceCents  int64     `json:"insurance_fee_cents"`
	ServiceFeeCents int64     `json:"service_fee_cents"`
	PaymentMethod   string    `json:"payment_method" binding:"required"`
}

func (r CreateBookingRequest) ToCommand() (commands.CreateBookingCommand, error) {
	pickDate, err := parseDate(r.PickDate)
	if err != nil {
		return commands.CreateBookingCommand{}, err
	}
	returnDate, err := parseDate(r.ReturnDate)
	if err != nil {
		return commands.CreateBookingCommand{}, err
	}

	return commands.CreateBookingCommand{
		CarID:           r.CarID,
		Status:          booking.Status(r.Status),
		PickDate:        pickDate,
		PickTime:        r.PickTime,
		ReturnDate:      returnDate,
		ReturnTime:      r.ReturnTime,
		PickupCity:      r.PickupCity,
		DropOffCity:     r.DropOffCity,
		RentPriceCents:  r.RentPriceCents,
		TotalPriceCents: r.TotalPriceCents,
		DiscountCents:   r.DiscountCents,
		InsuranceCents:  r.InsuranceCents,
		ServiceFeeCents: r.ServiceFeeCents,
		PaymentMethod:   r.PaymentMethod,
	}, nil
}

type BookingDocumentsRequest struct {
	CarPickDocs     *[]string `json:"car_pick_docs,omitempty"`
	PersonPickDocs  *[]string `json:"person_pick_docs,omitempty"`
	CarDropDocs     *[]string `json:"car_drop_docs,omitempty"`
	PersonDropDocs  *[]string `json:"person_drop_docs,omitempty"`
	PickDescription *string   `json:"pick_description,omitempty"`
	DropDescription *string   `json:"drop_description,omitempty"`
}

// UpdateBookingRequest is a partial update: absent fields stay unchanged.
type UpdateBookingRequest struct {
	Status          *string                  `json:"status,omitempty"`
	PickDate        *string                  `json:"pick_date,omitempty"`
	PickTime        *string                  `json:"pick_time,omitempty"`
	ReturnDate      *string                  `json:"return_date,omitempty"`
	ReturnTime      *string                  `json:"return_time,omitempty"`
	PickupCity      *string                  `json:"pickup_city,omitempty"`
	DropOffCity     *string                  `json:"dropoff_city,omitempty"`
	RentPriceCents  *int64                   `json:"rent_price_cents,omitempty"`
	TotalPriceCents *int64                   `json:"total_price_cents,omitempty"`
	DiscountCents   *int64                   `json:"discount_cents,omitempty"`
	InsuranceCents  *int64                   `json:"insurance_fee_cents,omitempty"`
	ServiceFeeCents *int64                   `json:"service_fee_cents,omitempty"`
	PaymentMethod   *string                  `json:"payment_method,omitempty"`
	Documents       *BookingDocumentsRequest `json:"documents,omitempty"`
}

func (r UpdateBookingRequest) ToCommand() (commands.UpdateBookingCommand, error) {
	var p booking.Patch

	if r.Status != nil {
		status := booking.Status(*r.Status)
		p.Status = &status
	}
	if r.PickDate != nil {
		d, err := parseDate(*r.PickDate)
		if err != nil {
			return commands.UpdateBookingCommand{}, err
		}
		p.PickDate = &d
	}
	if r.ReturnDate != nil {
		d, err := parseDate(*r.ReturnDate)
		if err != nil {
			return commands.UpdateBookingCommand{}, err
		}
		p.ReturnDate = &d
	}
	p.PickTime = r.PickTime
	p.ReturnTime = r.ReturnTime
	p.PickupCity = r.PickupCity
	p.DropOffCity = r.DropOffCity
	p.RentPrice = moneyPtr(r.RentPriceCents)
	p.TotalPrice = moneyPtr(r.TotalPriceCents)
	p.Discount = moneyPtr(r.DiscountCents)
	p.InsuranceFee = moneyPtr(r.InsuranceCents)
	p.ServiceFee = moneyPtr(r.ServiceFeeCents)
	p.PaymentMethod = r.PaymentMethod

	cmd := commands.UpdateBookingCommand{Patch: p}
	if r.Documents != nil {
		cmd.Document = &booking.DocumentPatch{
			CarPickDocs:     r.Documents.CarPickDocs,
			PersonPickDocs:  r.Documents.PersonPickDocs,
			CarDropDocs:     r.Documents.CarDropDocs,
			PersonDropDocs:  r.Documents.PersonDropDocs,
			PickDescription: r.Documents.PickDescription,
			DropDescription: r.Documents.DropDescription,
		}
	}
	return cmd, nil
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, errs.Mark(err, errInvalidDate)
	}
	return d, nil
}

func moneyPtr(cents *int64) *booking.Money {
	if cents == nil {
		return nil
	}
	m := booking.NewMoney(*cents)
	return &m
}
