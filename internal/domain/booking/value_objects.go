package booking

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

var ErrInvalidDateRange = errors.New("pick date must not be after return date")

// DateRange is a contiguous, inclusive span of calendar days. Both bounds are
// date-only values (truncated to UTC midnight); time-of-day lives on the
// booking itself and never participates in overlap checks.
type DateRange struct {
	pickDate   time.Time
	returnDate time.Time
}

func NewDateRange(pickDate, returnDate time.Time) (DateRange, error) {
	pick := truncateToDay(pickDate)
	ret := truncateToDay(returnDate)
	if pick.After(ret) {
		return DateRange{}, ErrInvalidDateRange
	}
	return DateRange{pickDate: pick, returnDate: ret}, nil
}

func (r DateRange) PickDate() time.Time {
	return r.pickDate
}

func (r DateRange) ReturnDate() time.Time {
	return r.returnDate
}

// Overlaps uses inclusive boundaries on both ends: a booking returning on the
// same day another one picks up is a conflict. Back-to-back same-day handover
// is deliberately not supported.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.pickDate.After(other.returnDate) && !r.returnDate.Before(other.pickDate)
}

func (r DateRange) Equal(other DateRange) bool {
	return r.pickDate.Equal(other.pickDate) && r.returnDate.Equal(other.returnDate)
}

// ClampTo intersects the range with a query window. The second return value is
// false when the two do not intersect at all.
func (r DateRange) ClampTo(window DateRange) (DateRange, bool) {
	if !r.Overlaps(window) {
		return DateRange{}, false
	}
	start := r.pickDate
	if window.pickDate.After(start) {
		start = window.pickDate
	}
	end := r.returnDate
	if window.returnDate.Before(end) {
		end = window.returnDate
	}
	return DateRange{pickDate: start, returnDate: end}, true
}

// Days enumerates every calendar day in the range, both bounds included.
func (r DateRange) Days() []time.Time {
	var days []time.Time
	for d := r.pickDate; !d.After(r.returnDate); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// HandoverCode is a 6-digit numeric string read aloud at pickup or drop-off to
// confirm the physical handover. Not a security token.
type HandoverCode string

func NewHandoverCode() HandoverCode {
	return HandoverCode(fmt.Sprintf("%06d", rand.IntN(1000000)))
}

func (c HandoverCode) String() string {
	return string(c)
}
