package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes mounts the API, health and metrics endpoints on e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	api.POST("/shipping/quote", s.QuoteShipping)

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/payment", s.InitiatePayment)
	api.PATCH("/orders/:id/status", s.AdvanceOrder)
	api.POST("/orders/:id/confirm-delivery", s.ConfirmDelivery)

	api.POST("/payments/verify", s.VerifyPayment)
	api.POST("/payments/webhook", s.PaymentWebhook)

	api.POST("/admin/escrow/release", s.ReleaseEscrow)
	if s.getReleasableHandler != nil {
		api.GET("/admin/escrow/releasable", s.GetReleasableOrders)
	}
}
