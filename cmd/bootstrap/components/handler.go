package components

import (
	"iverr-backend/internal/handler"
	"iverr-backend/internal/handler/api"
	"iverr-backend/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewCalendarHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
