//go:build unit

package commands_test

import (
	"context"
	"sync"
	"time"

	"iverr-backend/internal/domain/booking"
	"iverr-backend/internal/domain/calendar"
	"iverr-backend/internal/infra"
	"iverr-backend/internal/infra/db"
	"iverr-backend/internal/pkg/clock"
	"iverr-backend/internal/usecase/shared"

	"github.com/google/uuid"
)

type outboxEntry struct {
	Topic   string
	Payload []byte
	RunAt   time.Time
}

// fakeState is the in-memory database shared by the fake repositories. The
// fake unit of work snapshots it before each transaction and restores it on
// failure, so tests can assert all-or-nothing behavior.
type fakeState struct {
	bookings map[uuid.UUID]*booking.Booking
	blocks   map[uuid.UUID]*calendar.Block
	docs     map[uuid.UUID]booking.DocumentPatch
	deleted  map[uuid.UUID]bool
	outbox   []outboxEntry
	cars     map[uuid.UUID]shared.CarSnapshot

	lockCalls     int
	conflictCalls int

	failBookingCreate  error
	failBookingUpdate  error
	failCalendarCreate error
}

func newFakeState() *fakeState {
	return &fakeState{
		bookings: make(map[uuid.UUID]*booking.Booking),
		blocks:   make(map[uuid.UUID]*calendar.Block),
		docs:     make(map[uuid.UUID]booking.DocumentPatch),
		deleted:  make(map[uuid.UUID]bool),
		cars:     make(map[uuid.UUID]shared.CarSnapshot),
	}
}

func (s *fakeState) addCar(car shared.CarSnapshot) {
	s.cars[car.ID] = car
}

func (s *fakeState) addBooking(b *booking.Booking) {
	s.bookings[b.ID()] = cloneBooking(b)
}

func (s *fakeState) addBlock(blk *calendar.Block) {
	s.blocks[blk.ID()] = cloneBlock(blk)
}

func (s *fakeState) snapshot() *fakeState {
	snap := newFakeState()
	for id, b := range s.bookings {
		snap.bookings[id] = cloneBooking(b)
	}
	for id, blk := range s.blocks {
		snap.blocks[id] = cloneBlock(blk)
	}
	for id, doc := range s.docs {
		snap.docs[id] = doc
	}
	for id, d := range s.deleted {
		snap.deleted[id] = d
	}
	snap.outbox = append([]outboxEntry(nil), s.outbox...)
	for id, car := range s.cars {
		snap.cars[id] = car
	}
	return snap
}

func (s *fakeState) restore(snap *fakeState) {
	s.bookings = snap.bookings
	s.blocks = snap.blocks
	s.docs = snap.docs
	s.deleted = snap.deleted
	s.outbox = snap.outbox
	s.cars = snap.cars
}

func cloneBooking(b *booking.Booking) *booking.Booking {
	return booking.ReconstructBooking(
		b.ID(), b.CarID(), b.UserID(),
		b.Status(), b.Dates(),
		b.PickTime(), b.ReturnTime(), b.PickupCity(), b.DropOffCity(),
		b.RentPrice(), b.TotalPrice(), b.Discount(), b.InsuranceFee(), b.ServiceFee(),
		b.PaymentMethod(),
		b.PickupCode(), b.DropoffCode(),
		b.CreatedAt(), b.UpdatedAt(),
	)
}

func cloneBlock(blk *calendar.Block) *calendar.Block {
	return calendar.ReconstructBlock(
		blk.ID(), blk.CarID(), blk.Dates(), blk.Status(), blk.SpecialPrice(),
		blk.CreatedAt(), blk.UpdatedAt(),
	)
}

func testClock() clock.Clock {
	return clock.NewMockClock(time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC))
}

func notFound(msg string) error {
	return infra.WrapRepoErr(msg, nil, infra.KindNotFound)
}

// ---- unit of work ----

type fakeUoW struct {
	mu    sync.Mutex
	state *fakeState
}

func newFakeUoW(state *fakeState) *fakeUoW {
	return &fakeUoW{state: state}
}

// Within serializes transactions with a mutex, standing in for the per-car
// row lock the real store takes.
func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	snap := u.state.snapshot()
	if err := fn(ctx, &fakeTx{state: u.state}); err != nil {
		u.state.restore(snap)
		return err
	}
	return nil
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

type fakeTx struct {
	state *fakeState
}

func (t *fakeTx) Bookings() shared.BookingRepository   { return &fakeBookingRepo{t.state} }
func (t *fakeTx) Calendar() shared.CalendarRepository  { return &fakeCalendarRepo{t.state} }
func (t *fakeTx) Documents() shared.DocumentRepository { return &fakeDocumentRepo{t.state} }
func (t *fakeTx) Outbox() shared.OutboxRepository      { return &fakeOutboxRepo{t.state} }
func (t *fakeTx) Cars() shared.CarRepository           { return &fakeCarRepo{t.state} }
func (t *fakeTx) DB() db.DBTX                          { return nil }

// ---- repositories ----

type fakeBookingRepo struct {
	state *fakeState
}

func (r *fakeBookingRepo) Create(_ context.Context, _ db.DBTX, b *booking.Booking) error {
	if err := r.state.failBookingCreate; err != nil {
		return err
	}
	r.state.bookings[b.ID()] = cloneBooking(b)
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, _ db.DBTX, b *booking.Booking) error {
	if err := r.state.failBookingUpdate; err != nil {
		return err
	}
	if _, ok := r.state.bookings[b.ID()]; !ok {
		return notFound("booking not found")
	}
	r.state.bookings[b.ID()] = cloneBooking(b)
	return nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	if _, ok := r.state.bookings[id]; !ok {
		return notFound("booking not found")
	}
	delete(r.state.bookings, id)
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	b, ok := r.state.bookings[id]
	if !ok {
		return nil, notFound("booking not found")
	}
	return cloneBooking(b), nil
}

func (r *fakeBookingRepo) FindConflicting(_ context.Context, _ db.DBTX, carID uuid.UUID, dates booking.DateRange, excludeID *uuid.UUID) (*uuid.UUID, error) {
	r.state.conflictCalls++
	for id, b := range r.state.bookings {
		if b.CarID() != carID {
			continue
		}
		if excludeID != nil && id == *excludeID {
			continue
		}
		if b.Dates().Overlaps(dates) {
			found := id
			return &found, nil
		}
	}
	return nil, nil
}

type fakeCalendarRepo struct {
	state *fakeState
}

func (r *fakeCalendarRepo) Create(_ context.Context, _ db.DBTX, blk *calendar.Block) error {
	if err := r.state.failCalendarCreate; err != nil {
		return err
	}
	r.state.blocks[blk.ID()] = cloneBlock(blk)
	return nil
}

func (r *fakeCalendarRepo) Update(_ context.Context, _ db.DBTX, blk *calendar.Block) error {
	if _, ok := r.state.blocks[blk.ID()]; !ok {
		return notFound("calendar block not found")
	}
	r.state.blocks[blk.ID()] = cloneBlock(blk)
	return nil
}

func (r *fakeCalendarRepo) Delete(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	if _, ok := r.state.blocks[id]; !ok {
		return notFound("calendar block not found")
	}
	delete(r.state.blocks, id)
	return nil
}

func (r *fakeCalendarRepo) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*calendar.Block, error) {
	blk, ok := r.state.blocks[id]
	if !ok {
		return nil, notFound("calendar block not found")
	}
	return cloneBlock(blk), nil
}

func (r *fakeCalendarRepo) FindBookedBlock(_ context.Context, _ db.DBTX, carID uuid.UUID, dates booking.DateRange) (*calendar.Block, error) {
	for _, blk := range r.state.blocks {
		if blk.CarID() == carID && blk.Status() == calendar.StatusBooked && blk.Dates().Equal(dates) {
			return cloneBlock(blk), nil
		}
	}
	return nil, notFound("booked block not found")
}

func (r *fakeCalendarRepo) DeleteBookedBlock(_ context.Context, _ db.DBTX, carID uuid.UUID, dates booking.DateRange) error {
	for id, blk := range r.state.blocks {
		if blk.CarID() == carID && blk.Status() == calendar.StatusBooked && blk.Dates().Equal(dates) {
			delete(r.state.blocks, id)
			return nil
		}
	}
	return nil
}

type fakeDocumentRepo struct {
	state *fakeState
}

func (r *fakeDocumentRepo) Upsert(_ context.Context, _ db.DBTX, bookingID uuid.UUID, patch booking.DocumentPatch) error {
	r.state.docs[bookingID] = patch
	return nil
}

func (r *fakeDocumentRepo) DeleteByBookingID(_ context.Context, _ db.DBTX, bookingID uuid.UUID) error {
	delete(r.state.docs, bookingID)
	r.state.deleted[bookingID] = true
	return nil
}

type fakeOutboxRepo struct {
	state *fakeState
}

func (r *fakeOutboxRepo) Append(_ context.Context, _ db.DBTX, topic string, payload []byte, runAt time.Time) error {
	r.state.outbox = append(r.state.outbox, outboxEntry{Topic: topic, Payload: payload, RunAt: runAt})
	return nil
}

type fakeCarRepo struct {
	state *fakeState
}

func (r *fakeCarRepo) LockByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*shared.CarSnapshot, error) {
	r.state.lockCalls++
	return r.find(id)
}

func (r *fakeCarRepo) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*shared.CarSnapshot, error) {
	return r.find(id)
}

func (r *fakeCarRepo) find(id uuid.UUID) (*shared.CarSnapshot, error) {
	car, ok := r.state.cars[id]
	if !ok {
		return nil, notFound("car not found")
	}
	return &car, nil
}
