// Package events defines the payloads written to the outbox and published to
// the notification broker. They carry enough for downstream consumers to
// notify the car owner without querying the primary database.
package events

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	TopicBookingCreated = "booking.created"
	TopicBookingUpdated = "booking.updated"
)

type BookingEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	CarID      uuid.UUID `json:"car_id"`
	RenterID   uuid.UUID `json:"renter_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	PickDate   string    `json:"pick_date"`
	PickTime   string    `json:"pick_time"`
	ReturnDate string    `json:"return_date"`
	ReturnTime string    `json:"return_time"`
	Summary    string    `json:"summary"`
}

func NewBookingCreated(bookingID, carID, renterID, ownerID uuid.UUID, pickDate, pickTime, returnDate, returnTime string) BookingEvent {
	return BookingEvent{
		BookingID:  bookingID,
		CarID:      carID,
		RenterID:   renterID,
		OwnerID:    ownerID,
		PickDate:   pickDate,
		PickTime:   pickTime,
		ReturnDate: returnDate,
		ReturnTime: returnTime,
		Summary: fmt.Sprintf("Your car has a new booking. Pick-up: %s at %s, return: %s at %s.",
			pickDate, pickTime, returnDate, returnTime),
	}
}

func NewBookingUpdated(bookingID, carID, renterID, ownerID uuid.UUID, pickDate, pickTime, returnDate, returnTime string) BookingEvent {
	return BookingEvent{
		BookingID:  bookingID,
		CarID:      carID,
		RenterID:   renterID,
		OwnerID:    ownerID,
		PickDate:   pickDate,
		PickTime:   pickTime,
		ReturnDate: returnDate,
		ReturnTime: returnTime,
		Summary: fmt.Sprintf("Your booking was updated. New pick-up: %s at %s, new return: %s at %s.",
			pickDate, pickTime, returnDate, returnTime),
	}
}
