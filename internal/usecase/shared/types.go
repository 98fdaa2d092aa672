package shared

import (
	"iverr-backend/internal/domain/user"

	"github.com/google/uuid"
)

// CarSnapshot is the write-side view of the car directory: just enough to
// validate existence and resolve the owner for authorization and routing.
type CarSnapshot struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Name    string
}

// Actor is the already-authenticated caller of a mutating operation.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role.IsAdmin()
}

// MayManageBooking applies the ownership rule: the booking's renter, the
// car's owner, or an admin.
func (a Actor) MayManageBooking(renterID, carOwnerID uuid.UUID) bool {
	return a.IsAdmin() || a.ID == renterID || a.ID == carOwnerID
}
