//go:build unit

package queries_test

import (
	"context"
	"testing"

	"iverr-backend/internal/domain/user"
	"iverr-backend/internal/usecase/queries"
	"iverr-backend/internal/usecase/shared"
	"iverr-backend/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubViewRepo struct {
	views      map[uuid.UUID]*queries.BookingView
	lastFilter queries.BookingFilter
}

func (s *stubViewRepo) FindByID(_ context.Context, id uuid.UUID) (*queries.BookingView, error) {
	view, ok := s.views[id]
	if !ok {
		return nil, queries.ErrNotVisible
	}
	return view, nil
}

func (s *stubViewRepo) FindByFilter(_ context.Context, filter queries.BookingFilter) ([]*queries.BookingView, error) {
	s.lastFilter = filter
	var out []*queries.BookingView
	for _, view := range s.views {
		if filter.UserID != nil && view.UserID != *filter.UserID {
			continue
		}
		out = append(out, view)
	}
	return out, nil
}

type stubCarDirectory struct {
	cars map[uuid.UUID]*shared.CarSnapshot
}

func (s *stubCarDirectory) FindByID(_ context.Context, id uuid.UUID) (*shared.CarSnapshot, error) {
	car, ok := s.cars[id]
	if !ok {
		return nil, queries.ErrNotVisible
	}
	return car, nil
}

func newViewFixture() (*stubViewRepo, *stubCarDirectory, *queries.BookingView, uuid.UUID) {
	ownerID := uuid.New()
	view := builder.NewBookingBuilder().BuildView()
	repo := &stubViewRepo{views: map[uuid.UUID]*queries.BookingView{view.ID: view}}
	cars := &stubCarDirectory{cars: map[uuid.UUID]*shared.CarSnapshot{
		view.CarID: {ID: view.CarID, OwnerID: ownerID, Name: view.CarName},
	}}
	return repo, cars, view, ownerID
}

func TestGetBookingByID(t *testing.T) {
	t.Run("renter sees own booking", func(t *testing.T) {
		repo, cars, view, _ := newViewFixture()
		q := queries.NewBookingQueries(repo, cars)

		got, err := q.GetByID(context.Background(), shared.Actor{ID: view.UserID, Role: user.RoleRenter}, view.ID)
		require.NoError(t, err)
		assert.Equal(t, view.ID, got.ID)
	})

	t.Run("car owner sees bookings of own car", func(t *testing.T) {
		repo, cars, view, ownerID := newViewFixture()
		q := queries.NewBookingQueries(repo, cars)

		_, err := q.GetByID(context.Background(), shared.Actor{ID: ownerID, Role: user.RoleOwner}, view.ID)
		assert.NoError(t, err)
	})

	t.Run("admin sees everything", func(t *testing.T) {
		repo, cars, view, _ := newViewFixture()
		q := queries.NewBookingQueries(repo, cars)

		_, err := q.GetByID(context.Background(), shared.Actor{ID: uuid.New(), Role: user.RoleAdmin}, view.ID)
		assert.NoError(t, err)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		repo, cars, view, _ := newViewFixture()
		q := queries.NewBookingQueries(repo, cars)

		_, err := q.GetByID(context.Background(), shared.Actor{ID: uuid.New(), Role: user.RoleRenter}, view.ID)
		assert.ErrorIs(t, err, queries.ErrNotVisible)
	})
}

func TestListBookings(t *testing.T) {
	t.Run("non-admin is scoped to own bookings", func(t *testing.T) {
		repo, cars, view, _ := newViewFixture()
		q := queries.NewBookingQueries(repo, cars)

		actor := shared.Actor{ID: view.UserID, Role: user.RoleRenter}
		got, err := q.List(context.Background(), actor, queries.BookingFilter{})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.NotNil(t, repo.lastFilter.UserID)
		assert.Equal(t, actor.ID, *repo.lastFilter.UserID)
	})

	t.Run("admin filter passes through unscoped", func(t *testing.T) {
		repo, cars, _, _ := newViewFixture()
		q := queries.NewBookingQueries(repo, cars)

		_, err := q.List(context.Background(), shared.Actor{ID: uuid.New(), Role: user.RoleAdmin}, queries.BookingFilter{})
		require.NoError(t, err)
		assert.Nil(t, repo.lastFilter.UserID)
	})
}
