package api

import (
	"errors"
	"net/http"
	"time"

	reqdto "iverr-backend/internal/handler/dto/request"
	resdto "iverr-backend/internal/handler/dto/response"
	"iverr-backend/internal/handler/middleware"
	"iverr-backend/internal/usecase/commands"
	"iverr-backend/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CalendarHandler struct {
	commands     commands.CalendarCommands
	queries      queries.CalendarQueries
	availability queries.AvailabilityQueries
}

func NewCalendarHandler(cmds commands.CalendarCommands, qrys queries.CalendarQueries, avail queries.AvailabilityQueries) *CalendarHandler {
	return &CalendarHandler{
		commands:     cmds,
		queries:      qrys,
		availability: avail,
	}
}

func (h *CalendarHandler) CreateBlock(c *gin.Context) {
	h.saveBlock(c, nil)
}

func (h *CalendarHandler) UpdateBlock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid block ID format"})
		return
	}
	h.saveBlock(c, &id)
}

func (h *CalendarHandler) saveBlock(c *gin.Context, blockID *uuid.UUID) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.SaveBlockRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	cmd, err := req.ToCommand(blockID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.commands.SaveBlock(c.Request.Context(), actor, cmd)
	if err != nil {
		respondCommandError(c, err)
		return
	}

	status := http.StatusOK
	if blockID == nil {
		status = http.StatusCreated
	}
	c.JSON(status, resdto.IDResponse{ID: id})
}

func (h *CalendarHandler) DeleteBlock(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid block ID format"})
		return
	}

	if err := h.commands.DeleteBlock(c.Request.Context(), actor, id); err != nil {
		respondCommandError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CalendarHandler) ListBlocks(c *gin.Context) {
	filter, err := blockFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	views, err := h.queries.ListBlocks(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]*resdto.BlockResponse, len(views))
	for i, view := range views {
		response[i] = resdto.FromBlockView(view)
	}
	c.JSON(http.StatusOK, response)
}

// GetAvailability is public: browsing renters check a car's calendar before
// authenticating.
func (h *CalendarHandler) GetAvailability(c *gin.Context) {
	carID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid car ID format"})
		return
	}

	var rangeStart, rangeEnd *time.Time
	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.DateOnly, fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, expected YYYY-MM-DD"})
			return
		}
		rangeStart = &from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(time.DateOnly, toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, expected YYYY-MM-DD"})
			return
		}
		rangeEnd = &to
	}

	dates, err := h.availability.ListBlockedDates(c.Request.Context(), carID, rangeStart, rangeEnd)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid availability range"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromBlockedDates(carID, dates))
}

func blockFilterFromQuery(c *gin.Context) (queries.BlockFilter, error) {
	var filter queries.BlockFilter

	if carIDStr := c.Query("car_id"); carIDStr != "" {
		carID, err := uuid.Parse(carIDStr)
		if err != nil {
			return queries.BlockFilter{}, errors.New("invalid car_id format")
		}
		filter.CarID = &carID
	}
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}
	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.DateOnly, fromStr)
		if err != nil {
			return queries.BlockFilter{}, errors.New("invalid from date, expected YYYY-MM-DD")
		}
		filter.StartDate = &from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(time.DateOnly, toStr)
		if err != nil {
			return queries.BlockFilter{}, errors.New("invalid to date, expected YYYY-MM-DD")
		}
		filter.EndDate = &to
	}
	return filter, nil
}
