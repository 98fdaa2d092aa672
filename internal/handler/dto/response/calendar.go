package response

import (
	"time"

	"iverr-backend/internal/usecase/queries"

	"github.com/google/uuid"
)

type BlockResponse struct {
	ID           uuid.UUID `json:"id"`
	CarID        uuid.UUID `json:"carId"`
	StartDate    string    `json:"startDate"`
	EndDate      string    `json:"endDate"`
	Status       string    `json:"status"`
	SpecialPrice *int64    `json:"specialPriceCents,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type AvailabilityResponse struct {
	CarID        uuid.UUID `json:"carId"`
	BlockedDates []string  `json:"blockedDates"`
}

func FromBlockView(rm *queries.BlockView) *BlockResponse {
	return &BlockResponse{
		ID:           rm.ID,
		CarID:        rm.CarID,
		StartDate:    rm.StartDate.Format(time.DateOnly),
		EndDate:      rm.EndDate.Format(time.DateOnly),
		Status:       rm.Status,
		SpecialPrice: rm.SpecialPrice,
		CreatedAt:    rm.CreatedAt,
		UpdatedAt:    rm.UpdatedAt,
	}
}

func FromBlockedDates(carID uuid.UUID, dates []time.Time) *AvailabilityResponse {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(time.DateOnly)
	}
	return &AvailabilityResponse{CarID: carID, BlockedDates: out}
}
