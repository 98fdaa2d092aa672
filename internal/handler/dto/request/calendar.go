package request

import (
	"iverr-backend/internal/domain/calendar"
	"iverr-backend/internal/usecase/commands"

	"github.com/google/uuid"
)

type SaveBlockRequest struct {
	CarID             uuid.UUID `json:"car_id" binding:"required"`
	StartDate         string    `json:"start_date" binding:"required"`
	EndDate           string    `json:"end_date" binding:"required"`
	Status            string    `json:"status" binding:"required"`
	SpecialPriceCents *int64    `json:"special_price_cents,omitempty"`
}

func (r SaveBlockRequest) ToCommand(blockID *uuid.UUID) (commands.SaveBlockCommand, error) {
	startDate, err := parseDate(r.StartDate)
	if err != nil {
		return commands.SaveBlockCommand{}, err
	}
	endDate, err := parseDate(r.EndDate)
	if err != nil {
		return commands.SaveBlockCommand{}, err
	}

	return commands.SaveBlockCommand{
		BlockID:           blockID,
		CarID:             r.CarID,
		StartDate:         startDate,
		EndDate:           endDate,
		Status:            calendar.BlockStatus(r.Status),
		SpecialPriceCents: r.SpecialPriceCents,
	}, nil
}
