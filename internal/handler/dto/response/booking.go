package response

import (
	"time"

	"iverr-backend/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID            uuid.UUID `json:"id"`
	CarID         uuid.UUID `json:"carId"`
	CarName       string    `json:"carName"`
	UserID        uuid.UUID `json:"userId"`
	Status        string    `json:"status"`
	PickDate      string    `json:"pickDate"`
	PickTime      string    `json:"pickTime"`
	ReturnDate    string    `json:"returnDate"`
	ReturnTime    string    `json:"returnTime"`
	PickupCity    string    `json:"pickupCity"`
	DropOffCity   string    `json:"dropOffCity"`
	RentPrice     int64     `json:"rentPriceCents"`
	TotalPrice    int64     `json:"totalPriceCents"`
	Discount      int64     `json:"discountCents"`
	InsuranceFee  int64     `json:"insuranceFeeCents"`
	ServiceFee    int64     `json:"serviceFeeCents"`
	PaymentMethod string    `json:"paymentMethod"`
	PickupOTP     *string   `json:"pickupOtp,omitempty"`
	DropoffOTP    *string   `json:"dropoffOtp,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type HandoverCodeResponse struct {
	Code string `json:"code"`
}

type IDResponse struct {
	ID uuid.UUID `json:"id"`
}

func FromBookingView(rm *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:            rm.ID,
		CarID:         rm.CarID,
		CarName:       rm.CarName,
		UserID:        rm.UserID,
		Status:        rm.Status,
		PickDate:      rm.PickDate.Format(time.DateOnly),
		PickTime:      rm.PickTime,
		ReturnDate:    rm.ReturnDate.Format(time.DateOnly),
		ReturnTime:    rm.ReturnTime,
		PickupCity:    rm.PickupCity,
		DropOffCity:   rm.DropOffCity,
		RentPrice:     rm.RentPrice,
		TotalPrice:    rm.TotalPrice,
		Discount:      rm.Discount,
		InsuranceFee:  rm.InsuranceFee,
		ServiceFee:    rm.ServiceFee,
		PaymentMethod: rm.PaymentMethod,
		PickupOTP:     rm.PickupOTP,
		DropoffOTP:    rm.DropoffOTP,
		CreatedAt:     rm.CreatedAt,
		UpdatedAt:     rm.UpdatedAt,
	}
}
