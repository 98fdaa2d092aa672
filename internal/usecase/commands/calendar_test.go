//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"iverr-backend/internal/domain/calendar"
	"iverr-backend/internal/domain/user"
	"iverr-backend/internal/usecase/commands"
	"iverr-backend/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type calendarFixture struct {
	state *fakeState
	cmds  commands.CalendarCommands
	car   shared.CarSnapshot
	owner shared.Actor
}

func newCalendarFixture() *calendarFixture {
	state := newFakeState()
	car := shared.CarSnapshot{ID: uuid.New(), OwnerID: uuid.New(), Name: "Test Car"}
	state.addCar(car)
	return &calendarFixture{
		state: state,
		cmds:  commands.NewCalendarCommands(newFakeUoW(state)),
		car:   car,
		owner: shared.Actor{ID: car.OwnerID, Role: user.RoleOwner},
	}
}

func saveCmd(carID uuid.UUID, start, end time.Time, status calendar.BlockStatus) commands.SaveBlockCommand {
	return commands.SaveBlockCommand{
		CarID:     carID,
		StartDate: start,
		EndDate:   end,
		Status:    status,
	}
}

func TestSaveBlock(t *testing.T) {
	t.Run("owner creates a manual block", func(t *testing.T) {
		f := newCalendarFixture()
		price := int64(9900)

		cmd := saveCmd(f.car.ID, date(2026, 3, 1), date(2026, 3, 5), calendar.StatusBlocked)
		cmd.SpecialPriceCents = &price

		id, err := f.cmds.SaveBlock(context.Background(), f.owner, cmd)
		require.NoError(t, err)

		blk, ok := f.state.blocks[id]
		require.True(t, ok)
		assert.Equal(t, calendar.StatusBlocked, blk.Status())
		require.NotNil(t, blk.SpecialPrice())
		assert.Equal(t, price, *blk.SpecialPrice())
	})

	t.Run("admin may manage any car", func(t *testing.T) {
		f := newCalendarFixture()
		admin := shared.Actor{ID: uuid.New(), Role: user.RoleAdmin}

		_, err := f.cmds.SaveBlock(context.Background(), admin, saveCmd(f.car.ID, date(2026, 3, 1), date(2026, 3, 5), calendar.StatusAvailable))
		assert.NoError(t, err)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		f := newCalendarFixture()
		stranger := shared.Actor{ID: uuid.New(), Role: user.RoleOwner}

		_, err := f.cmds.SaveBlock(context.Background(), stranger, saveCmd(f.car.ID, date(2026, 3, 1), date(2026, 3, 5), calendar.StatusBlocked))
		assert.ErrorIs(t, err, commands.ErrForbidden)
		assert.Empty(t, f.state.blocks)
	})

	t.Run("manual booked block goes through the overlap gate", func(t *testing.T) {
		f := newCalendarFixture()
		cmds := commands.NewBookingCommands(newFakeUoW(f.state), testClock())

		existingID, err := cmds.CreateBooking(context.Background(),
			shared.Actor{ID: uuid.New(), Role: user.RoleRenter},
			createCmd(f.car.ID, date(2026, 3, 2), date(2026, 3, 4)))
		require.NoError(t, err)

		_, err = f.cmds.SaveBlock(context.Background(), f.owner, saveCmd(f.car.ID, date(2026, 3, 1), date(2026, 3, 5), calendar.StatusBooked))
		require.Error(t, err)
		assert.ErrorIs(t, err, commands.ErrBookingConflict)

		var conflict *commands.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, existingID, conflict.ConflictingBookingID)
	})

	t.Run("update revises an existing block in place", func(t *testing.T) {
		f := newCalendarFixture()

		id, err := f.cmds.SaveBlock(context.Background(), f.owner, saveCmd(f.car.ID, date(2026, 3, 1), date(2026, 3, 5), calendar.StatusBlocked))
		require.NoError(t, err)

		cmd := saveCmd(f.car.ID, date(2026, 3, 10), date(2026, 3, 12), calendar.StatusAvailable)
		cmd.BlockID = &id

		updatedID, err := f.cmds.SaveBlock(context.Background(), f.owner, cmd)
		require.NoError(t, err)
		assert.Equal(t, id, updatedID)
		assert.Len(t, f.state.blocks, 1)

		blk := f.state.blocks[id]
		assert.Equal(t, date(2026, 3, 10), blk.Dates().PickDate())
		assert.Equal(t, calendar.StatusAvailable, blk.Status())
	})

	t.Run("update of unknown block", func(t *testing.T) {
		f := newCalendarFixture()
		missing := uuid.New()

		cmd := saveCmd(f.car.ID, date(2026, 3, 1), date(2026, 3, 5), calendar.StatusBlocked)
		cmd.BlockID = &missing

		_, err := f.cmds.SaveBlock(context.Background(), f.owner, cmd)
		assert.ErrorIs(t, err, commands.ErrBlockNotFound)
	})
}

func TestDeleteBlock(t *testing.T) {
	t.Run("owner deletes a block", func(t *testing.T) {
		f := newCalendarFixture()

		id, err := f.cmds.SaveBlock(context.Background(), f.owner, saveCmd(f.car.ID, date(2026, 3, 1), date(2026, 3, 5), calendar.StatusBlocked))
		require.NoError(t, err)

		require.NoError(t, f.cmds.DeleteBlock(context.Background(), f.owner, id))
		assert.Empty(t, f.state.blocks)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		f := newCalendarFixture()

		id, err := f.cmds.SaveBlock(context.Background(), f.owner, saveCmd(f.car.ID, date(2026, 3, 1), date(2026, 3, 5), calendar.StatusBlocked))
		require.NoError(t, err)

		stranger := shared.Actor{ID: uuid.New(), Role: user.RoleOwner}
		err = f.cmds.DeleteBlock(context.Background(), stranger, id)
		assert.ErrorIs(t, err, commands.ErrForbidden)
		assert.Len(t, f.state.blocks, 1)
	})
}
