//go:build unit

package api_test

import (
	"context"
	"net/http"
	"testing"

	"iverr-backend/internal/domain/booking"
	"iverr-backend/internal/domain/user"
	"iverr-backend/internal/handler/api"
	resdto "iverr-backend/internal/handler/dto/response"
	"iverr-backend/internal/usecase/commands"
	"iverr-backend/internal/usecase/queries"
	"iverr-backend/internal/usecase/shared"
	"iverr-backend/tests/common/builder"
	commonhttp "iverr-backend/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type stubBookingCommands struct {
	createFn  func(ctx context.Context, actor shared.Actor, cmd commands.CreateBookingCommand) (uuid.UUID, error)
	updateFn  func(ctx context.Context, actor shared.Actor, id uuid.UUID, cmd commands.UpdateBookingCommand) error
	deleteFn  func(ctx context.Context, actor shared.Actor, id uuid.UUID) error
	pickupFn  func(ctx context.Context, actor shared.Actor, id uuid.UUID) (booking.HandoverCode, error)
	dropoffFn func(ctx context.Context, actor shared.Actor, id uuid.UUID) (booking.HandoverCode, error)
}

func (s *stubBookingCommands) CreateBooking(ctx context.Context, actor shared.Actor, cmd commands.CreateBookingCommand) (uuid.UUID, error) {
	return s.createFn(ctx, actor, cmd)
}

func (s *stubBookingCommands) UpdateBooking(ctx context.Context, actor shared.Actor, id uuid.UUID, cmd commands.UpdateBookingCommand) error {
	return s.updateFn(ctx, actor, id, cmd)
}

func (s *stubBookingCommands) DeleteBooking(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubBookingCommands) IssuePickupCode(ctx context.Context, actor shared.Actor, id uuid.UUID) (booking.HandoverCode, error) {
	return s.pickupFn(ctx, actor, id)
}

func (s *stubBookingCommands) IssueDropoffCode(ctx context.Context, actor shared.Actor, id uuid.UUID) (booking.HandoverCode, error) {
	return s.dropoffFn(ctx, actor, id)
}

type stubBookingQueries struct {
	getFn    func(ctx context.Context, actor shared.Actor, id uuid.UUID) (*queries.BookingView, error)
	getSysFn func(ctx context.Context, id uuid.UUID) (*queries.BookingView, error)
	listFn   func(ctx context.Context, actor shared.Actor, filter queries.BookingFilter) ([]*queries.BookingView, error)
}

func (s *stubBookingQueries) GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*queries.BookingView, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubBookingQueries) GetByIDSystem(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	return s.getSysFn(ctx, id)
}

func (s *stubBookingQueries) List(ctx context.Context, actor shared.Actor, filter queries.BookingFilter) ([]*queries.BookingView, error) {
	return s.listFn(ctx, actor, filter)
}

type BookingHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	commands *stubBookingCommands
	queries  *stubBookingQueries
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.commands = &stubBookingCommands{}
	s.queries = &stubBookingQueries{}
	handler := api.NewBookingHandler(s.commands, s.queries)

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("user_id", uuid.New())
		c.Set("user_role", user.RoleRenter)
		c.Next()
	}

	s.router.POST("/bookings", authMiddleware, handler.CreateBooking)
	s.router.GET("/bookings/:id", authMiddleware, handler.GetBooking)
	s.router.PATCH("/bookings/:id", authMiddleware, handler.UpdateBooking)
	s.router.DELETE("/bookings/:id", authMiddleware, handler.DeleteBooking)
	s.router.POST("/bookings/:id/pickup-code", authMiddleware, handler.IssuePickupCode)
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) TestCreateBooking() {
	view := builder.NewBookingBuilder().BuildView()
	s.commands.createFn = func(_ context.Context, _ shared.Actor, _ commands.CreateBookingCommand) (uuid.UUID, error) {
		return view.ID, nil
	}
	s.queries.getSysFn = func(_ context.Context, id uuid.UUID) (*queries.BookingView, error) {
		return view, nil
	}

	reqBody := builder.NewBookingBuilder().BuildCreateRequestDTO()
	w := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings", reqBody, "token")

	s.Equal(http.StatusCreated, w.Code)

	var resp resdto.BookingResponse
	commonhttp.DecodeResponseBody(s.T(), w.Body, &resp)
	s.Equal(view.ID, resp.ID)
	s.Equal(view.CarName, resp.CarName)
}

func (s *BookingHandlerTestSuite) TestCreateBookingConflict() {
	conflictingID := uuid.New()
	s.commands.createFn = func(_ context.Context, _ shared.Actor, _ commands.CreateBookingCommand) (uuid.UUID, error) {
		return uuid.Nil, &commands.ConflictError{ConflictingBookingID: conflictingID}
	}

	reqBody := builder.NewBookingBuilder().BuildCreateRequestDTO()
	w := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings", reqBody, "token")

	s.Equal(http.StatusConflict, w.Code)

	var resp struct {
		ConflictingBookingID uuid.UUID `json:"conflictingBookingId"`
	}
	commonhttp.DecodeResponseBody(s.T(), w.Body, &resp)
	s.Equal(conflictingID, resp.ConflictingBookingID)
}

func (s *BookingHandlerTestSuite) TestCreateBookingValidation() {
	s.commands.createFn = func(_ context.Context, _ shared.Actor, _ commands.CreateBookingCommand) (uuid.UUID, error) {
		return uuid.Nil, commands.ErrValidation
	}

	reqBody := builder.NewBookingBuilder().BuildCreateRequestDTO()
	w := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings", reqBody, "token")

	s.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (s *BookingHandlerTestSuite) TestCreateBookingBadDate() {
	reqBody := builder.NewBookingBuilder().BuildCreateRequestDTO()
	reqBody.PickDate = "10-01-2026"

	w := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings", reqBody, "token")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *BookingHandlerTestSuite) TestCreateBookingUnauthorized() {
	reqBody := builder.NewBookingBuilder().BuildCreateRequestDTO()
	w := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings", reqBody, "")
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *BookingHandlerTestSuite) TestGetBooking() {
	view := builder.NewBookingBuilder().BuildView()
	s.queries.getFn = func(_ context.Context, _ shared.Actor, id uuid.UUID) (*queries.BookingView, error) {
		if id == view.ID {
			return view, nil
		}
		return nil, queries.ErrNotVisible
	}

	w := commonhttp.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+view.ID.String(), nil, "token")
	s.Equal(http.StatusOK, w.Code)

	// Visibility failures read as absence
	w = commonhttp.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+uuid.NewString(), nil, "token")
	s.Equal(http.StatusNotFound, w.Code)

	w = commonhttp.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/not-a-uuid", nil, "token")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *BookingHandlerTestSuite) TestUpdateBookingForbidden() {
	s.commands.updateFn = func(_ context.Context, _ shared.Actor, _ uuid.UUID, _ commands.UpdateBookingCommand) error {
		return commands.ErrForbidden
	}

	body := map[string]any{"status": "confirmed"}
	w := commonhttp.PerformRequest(s.T(), s.router, http.MethodPatch, "/bookings/"+uuid.NewString(), body, "token")
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *BookingHandlerTestSuite) TestDeleteBooking() {
	s.commands.deleteFn = func(_ context.Context, _ shared.Actor, _ uuid.UUID) error {
		return nil
	}

	w := commonhttp.PerformRequest(s.T(), s.router, http.MethodDelete, "/bookings/"+uuid.NewString(), nil, "token")
	s.Equal(http.StatusNoContent, w.Code)
}

func (s *BookingHandlerTestSuite) TestIssuePickupCode() {
	s.commands.pickupFn = func(_ context.Context, _ shared.Actor, _ uuid.UUID) (booking.HandoverCode, error) {
		return booking.HandoverCode("123456"), nil
	}

	w := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/"+uuid.NewString()+"/pickup-code", nil, "token")
	s.Equal(http.StatusOK, w.Code)

	var resp resdto.HandoverCodeResponse
	commonhttp.DecodeResponseBody(s.T(), w.Body, &resp)
	s.Equal("123456", resp.Code)
}
