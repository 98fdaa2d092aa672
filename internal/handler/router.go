package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"iverr-backend/internal/handler/api"
	"iverr-backend/internal/handler/middleware"
	"iverr-backend/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, bookingHandler *api.BookingHandler, calendarHandler *api.CalendarHandler, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, bookingHandler, calendarHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, bookingHandler *api.BookingHandler, calendarHandler *api.CalendarHandler, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := engine.Group("/api")
	{
		cars := apiGroup.Group("/cars")
		{
			addRoutes(cars, []route{
				{Method: http.MethodGet, Path: "/:id/availability", Handler: calendarHandler.GetAvailability},
			})
		}

		bookings := apiGroup.Group("/bookings")
		bookings.Use(authMiddleware.RequireAuth())
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.CreateBooking},
				{Method: http.MethodGet, Path: "", Handler: bookingHandler.ListBookings},
				{Method: http.MethodGet, Path: "/:id", Handler: bookingHandler.GetBooking},
				{Method: http.MethodPatch, Path: "/:id", Handler: bookingHandler.UpdateBooking},
				{Method: http.MethodDelete, Path: "/:id", Handler: bookingHandler.DeleteBooking},
				{Method: http.MethodPost, Path: "/:id/pickup-code", Handler: bookingHandler.IssuePickupCode},
				{Method: http.MethodPost, Path: "/:id/dropoff-code", Handler: bookingHandler.IssueDropoffCode},
			})
		}

		blocks := apiGroup.Group("/calendar-blocks")
		{
			addRoutes(blocks, []route{
				{Method: http.MethodGet, Path: "", Handler: calendarHandler.ListBlocks},
			})

			authRequired := blocks.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "", Handler: calendarHandler.CreateBlock},
				{Method: http.MethodPut, Path: "/:id", Handler: calendarHandler.UpdateBlock},
				{Method: http.MethodDelete, Path: "/:id", Handler: calendarHandler.DeleteBlock},
			})
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
