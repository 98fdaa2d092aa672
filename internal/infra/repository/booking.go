package repository

import (
	"context"
	"time"

	"iverr-backend/internal/domain/booking"
	"iverr-backend/internal/infra"
	"iverr-backend/internal/infra/db"

	"github.com/google/uuid"
)

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

const bookingColumns = `
	id, car_id, user_id, status,
	pick_date, pick_time::text, return_date, return_time::text,
	pickup_city, dropoff_city,
	rent_price_cents, total_price_cents, discount_cents,
	insurance_fee_cents, service_fee_cents, payment_method,
	pickup_otp, dropoff_otp, created_at, updated_at`

func (r *BookingRepository) Create(ctx context.Context, dbtx db.DBTX, b *booking.Booking) error {
	_, err := dbtx.Exec(ctx, `
		INSERT INTO bookings (
			id, car_id, user_id, status,
			pick_date, pick_time, return_date, return_time,
			pickup_city, dropoff_city,
			rent_price_cents, total_price_cents, discount_cents,
			insurance_fee_cents, service_fee_cents, payment_method,
			pickup_otp, dropoff_otp
		) VALUES ($1, $2, $3, $4, $5, $6::time, $7, $8::time, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		b.ID(), b.CarID(), b.UserID(), b.Status().String(),
		b.Dates().PickDate(), b.PickTime(), b.Dates().ReturnDate(), b.ReturnTime(),
		b.PickupCity(), b.DropOffCity(),
		b.RentPrice().Cents(), b.TotalPrice().Cents(), b.Discount().Cents(),
		b.InsuranceFee().Cents(), b.ServiceFee().Cents(), b.PaymentMethod(),
		codeToPtr(b.PickupCode()), codeToPtr(b.DropoffCode()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) Update(ctx context.Context, dbtx db.DBTX, b *booking.Booking) error {
	tag, err := dbtx.Exec(ctx, `
		UPDATE bookings SET
			car_id = $2, status = $3,
			pick_date = $4, pick_time = $5::time, return_date = $6, return_time = $7::time,
			pickup_city = $8, dropoff_city = $9,
			rent_price_cents = $10, total_price_cents = $11, discount_cents = $12,
			insurance_fee_cents = $13, service_fee_cents = $14, payment_method = $15,
			pickup_otp = $16, dropoff_otp = $17,
			updated_at = now()
		WHERE id = $1`,
		b.ID(), b.CarID(), b.Status().String(),
		b.Dates().PickDate(), b.PickTime(), b.Dates().ReturnDate(), b.ReturnTime(),
		b.PickupCity(), b.DropOffCity(),
		b.RentPrice().Cents(), b.TotalPrice().Cents(), b.Discount().Cents(),
		b.InsuranceFee().Cents(), b.ServiceFee().Cents(), b.PaymentMethod(),
		codeToPtr(b.PickupCode()), codeToPtr(b.DropoffCode()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error {
	tag, err := dbtx.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	row := dbtx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)

	entity, err := scanBooking(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	return entity, nil
}

// FindConflicting implements the inclusive-boundary overlap predicate:
// existing.pick_date <= candidate.return AND existing.return_date >= candidate.pick.
// Status is deliberately not part of the predicate; see the Status doc comment
// in the booking domain package.
func (r *BookingRepository) FindConflicting(ctx context.Context, dbtx db.DBTX, carID uuid.UUID, dates booking.DateRange, excludeID *uuid.UUID) (*uuid.UUID, error) {
	row := dbtx.QueryRow(ctx, `
		SELECT id FROM bookings
		WHERE car_id = $1
		  AND pick_date <= $3
		  AND return_date >= $2
		  AND ($4::uuid IS NULL OR id <> $4)
		LIMIT 1`,
		carID, dates.PickDate(), dates.ReturnDate(), excludeID,
	)

	var id uuid.UUID
	if err := row.Scan(&id); err != nil {
		if infra.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to check booking conflicts", err)
	}
	return &id, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*booking.Booking, error) {
	var (
		id, carID, userID       uuid.UUID
		status                  string
		pickDate, returnDate    time.Time
		pickTime, returnTime    string
		pickupCity, dropOffCity string
		rent, total, discount   int64
		insurance, service      int64
		paymentMethod           string
		pickupOTP, dropoffOTP   *string
		createdAt, updatedAt    time.Time
	)

	err := row.Scan(
		&id, &carID, &userID, &status,
		&pickDate, &pickTime, &returnDate, &returnTime,
		&pickupCity, &dropOffCity,
		&rent, &total, &discount, &insurance, &service, &paymentMethod,
		&pickupOTP, &dropoffOTP, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	dates, err := booking.NewDateRange(pickDate, returnDate)
	if err != nil {
		return nil, err
	}

	return booking.ReconstructBooking(
		id, carID, userID,
		booking.Status(status),
		dates,
		pickTime, returnTime, pickupCity, dropOffCity,
		booking.NewMoney(rent), booking.NewMoney(total), booking.NewMoney(discount),
		booking.NewMoney(insurance), booking.NewMoney(service),
		paymentMethod,
		ptrToCode(pickupOTP), ptrToCode(dropoffOTP),
		createdAt, updatedAt,
	), nil
}

func codeToPtr(code *booking.HandoverCode) *string {
	if code == nil {
		return nil
	}
	s := code.String()
	return &s
}

func ptrToCode(s *string) *booking.HandoverCode {
	if s == nil {
		return nil
	}
	c := booking.HandoverCode(*s)
	return &c
}
