package queries

import (
	"context"
	"sort"
	"time"

	"iverr-backend/internal/domain/booking"
	"iverr-backend/internal/pkg/clock"
	"iverr-backend/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrNotVisible = errs.New("booking not visible to caller")

// DefaultAvailabilityWindowDays is used when the caller gives no range.
const DefaultAvailabilityWindowDays = 30

// BookingRangeRepo is the read port of the availability service. It returns
// the date ranges of all bookings for a car that overlap the window.
type BookingRangeRepo interface {
	RangesByCar(ctx context.Context, carID uuid.UUID, window booking.DateRange) ([]booking.DateRange, error)
}

type AvailabilityQueries interface {
	// ListBlockedDates answers "which dates are taken for this car" for
	// calendar UIs. Nil bounds default to [today, today+30d].
	ListBlockedDates(ctx context.Context, carID uuid.UUID, rangeStart, rangeEnd *time.Time) ([]time.Time, error)
}

type availabilityQueriesImpl struct {
	repo  BookingRangeRepo
	clock clock.Clock
}

func NewAvailabilityQueries(repo BookingRangeRepo, clock clock.Clock) AvailabilityQueries {
	return &availabilityQueriesImpl{repo: repo, clock: clock}
}

// ListBlockedDates reads bookings, not the calendar ledger: the ledger is a
// projection that can drift under out-of-band edits, and the availability
// answer must stay true to the source of record.
func (q *availabilityQueriesImpl) ListBlockedDates(ctx context.Context, carID uuid.UUID, rangeStart, rangeEnd *time.Time) ([]time.Time, error) {
	start := q.clock.Now()
	if rangeStart != nil {
		start = *rangeStart
	}
	end := start.AddDate(0, 0, DefaultAvailabilityWindowDays)
	if rangeEnd != nil {
		end = *rangeEnd
	}

	window, err := booking.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}

	ranges, err := q.repo.RangesByCar(ctx, carID, window)
	if err != nil {
		return nil, err
	}

	blocked := make(map[time.Time]struct{})
	for _, r := range ranges {
		clamped, ok := r.ClampTo(window)
		if !ok {
			continue
		}
		for _, day := range clamped.Days() {
			blocked[day] = struct{}{}
		}
	}

	dates := make([]time.Time, 0, len(blocked))
	for day := range blocked {
		dates = append(dates, day)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}
