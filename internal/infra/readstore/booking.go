package readstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"iverr-backend/internal/domain/booking"
	"iverr-backend/internal/infra"
	"iverr-backend/internal/infra/db"
	"iverr-backend/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(db db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: db}
}

const bookingViewColumns = `
	b.id, b.car_id, c.name, b.user_id, b.status,
	b.pick_date, b.pick_time::text, b.return_date, b.return_time::text,
	b.pickup_city, b.dropoff_city,
	b.rent_price_cents, b.total_price_cents, b.discount_cents,
	b.insurance_fee_cents, b.service_fee_cents, b.payment_method,
	b.pickup_otp, b.dropoff_otp, b.created_at, b.updated_at`

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+bookingViewColumns+`
		FROM bookings b
		JOIN cars c ON c.id = b.car_id
		WHERE b.id = $1`,
		id,
	)

	view, err := scanBookingView(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	return view, nil
}

func (r *BookingReadStore) FindByFilter(ctx context.Context, filter queries.BookingFilter) ([]*queries.BookingView, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.CarID != nil {
		add("b.car_id = $%d", *filter.CarID)
	}
	if filter.UserID != nil {
		add("b.user_id = $%d", *filter.UserID)
	}
	if filter.Status != nil {
		add("b.status = $%d", *filter.Status)
	}
	if filter.StartDate != nil {
		add("b.return_date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("b.pick_date <= $%d", *filter.EndDate)
	}

	query := `
		SELECT ` + bookingViewColumns + `
		FROM bookings b
		JOIN cars c ON c.id = b.car_id`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY b.pick_date, b.created_at"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	var result []*queries.BookingView
	for rows.Next() {
		view, err := scanBookingView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read bookings", err)
	}
	return result, nil
}

// RangesByCar feeds the availability query: the date ranges of all bookings
// for the car whose inclusive range touches the window.
func (r *BookingReadStore) RangesByCar(ctx context.Context, carID uuid.UUID, window booking.DateRange) ([]booking.DateRange, error) {
	rows, err := r.db.Query(ctx, `
		SELECT pick_date, return_date FROM bookings
		WHERE car_id = $1 AND pick_date <= $3 AND return_date >= $2
		ORDER BY pick_date`,
		carID, window.PickDate(), window.ReturnDate(),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list booking ranges", err)
	}
	defer rows.Close()

	var ranges []booking.DateRange
	for rows.Next() {
		var pickDate, returnDate time.Time
		if err := rows.Scan(&pickDate, &returnDate); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking range", err)
		}
		dates, err := booking.NewDateRange(pickDate, returnDate)
		if err != nil {
			return nil, infra.WrapRepoErr("stored booking range is invalid", err)
		}
		ranges = append(ranges, dates)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking ranges", err)
	}
	return ranges, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookingView(row rowScanner) (*queries.BookingView, error) {
	var view queries.BookingView
	err := row.Scan(
		&view.ID, &view.CarID, &view.CarName, &view.UserID, &view.Status,
		&view.PickDate, &view.PickTime, &view.ReturnDate, &view.ReturnTime,
		&view.PickupCity, &view.DropOffCity,
		&view.RentPrice, &view.TotalPrice, &view.Discount,
		&view.InsuranceFee, &view.ServiceFee, &view.PaymentMethod,
		&view.PickupOTP, &view.DropoffOTP, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &view, nil
}
