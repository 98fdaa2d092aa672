package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"iverr-backend/internal/domain/booking"
	reqdto "iverr-backend/internal/handler/dto/request"
	resdto "iverr-backend/internal/handler/dto/response"
	"iverr-backend/internal/handler/middleware"
	"iverr-backend/internal/usecase/commands"
	"iverr-backend/internal/usecase/queries"
	"iverr-backend/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	commands commands.BookingCommands
	queries  queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, qrys queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		commands: cmds,
		queries:  qrys,
	}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	cmd, err := req.ToCommand()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.commands.CreateBooking(c.Request.Context(), actor, cmd)
	if err != nil {
		respondCommandError(c, err)
		return
	}

	view, err := h.queries.GetByIDSystem(c.Request.Context(), id)
	if err != nil {
		// The booking is committed; fall back to its id.
		c.JSON(http.StatusCreated, resdto.IDResponse{ID: id})
		return
	}
	c.JSON(http.StatusCreated, resdto.FromBookingView(view))
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID format"})
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		// Hide existence from callers without visibility.
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

func (h *BookingHandler) ListBookings(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	filter, err := bookingFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	views, err := h.queries.List(c.Request.Context(), actor, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]*resdto.BookingResponse, len(views))
	for i, view := range views {
		response[i] = resdto.FromBookingView(view)
	}
	c.JSON(http.StatusOK, response)
}

func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID format"})
		return
	}

	var req reqdto.UpdateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	cmd, err := req.ToCommand()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.commands.UpdateBooking(c.Request.Context(), actor, id, cmd); err != nil {
		respondCommandError(c, err)
		return
	}

	view, err := h.queries.GetByIDSystem(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusOK, resdto.IDResponse{ID: id})
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID format"})
		return
	}

	if err := h.commands.DeleteBooking(c.Request.Context(), actor, id); err != nil {
		respondCommandError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) IssuePickupCode(c *gin.Context) {
	h.issueCode(c, h.commands.IssuePickupCode)
}

func (h *BookingHandler) IssueDropoffCode(c *gin.Context) {
	h.issueCode(c, h.commands.IssueDropoffCode)
}

func (h *BookingHandler) issueCode(c *gin.Context, issue func(ctx context.Context, actor shared.Actor, bookingID uuid.UUID) (booking.HandoverCode, error)) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID format"})
		return
	}

	code, err := issue(c.Request.Context(), actor, id)
	if err != nil {
		respondCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.HandoverCodeResponse{Code: code.String()})
}

func bookingFilterFromQuery(c *gin.Context) (queries.BookingFilter, error) {
	var filter queries.BookingFilter

	if carIDStr := c.Query("car_id"); carIDStr != "" {
		carID, err := uuid.Parse(carIDStr)
		if err != nil {
			return queries.BookingFilter{}, errors.New("invalid car_id format")
		}
		filter.CarID = &carID
	}
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}
	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.DateOnly, fromStr)
		if err != nil {
			return queries.BookingFilter{}, errors.New("invalid from date, expected YYYY-MM-DD")
		}
		filter.StartDate = &from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(time.DateOnly, toStr)
		if err != nil {
			return queries.BookingFilter{}, errors.New("invalid to date, expected YYYY-MM-DD")
		}
		filter.EndDate = &to
	}
	return filter, nil
}

func respondCommandError(c *gin.Context, err error) {
	var conflict *commands.ConflictError

	switch {
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":                "Booking dates conflict with an existing booking",
			"conflictingBookingId": conflict.ConflictingBookingID,
		})
	case errors.Is(err, commands.ErrCarNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Car not found"})
	case errors.Is(err, commands.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case errors.Is(err, commands.ErrBlockNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Calendar block not found"})
	case errors.Is(err, commands.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to manage this booking"})
	case errors.Is(err, commands.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Domain validation failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
