package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// Server translates HTTP requests into commands and queries.
type Server struct {
	// Command handlers
	createOrderHandler     commands.CreateOrderCommandHandler
	initiatePaymentHandler commands.InitiatePaymentCommandHandler
	verifyPaymentHandler   commands.VerifyPaymentCommandHandler
	advanceOrderHandler    commands.AdvanceOrderCommandHandler
	confirmDeliveryHandler commands.ConfirmDeliveryCommandHandler
	releaseEscrowHandler   commands.ReleaseEscrowCommandHandler

	// Query handlers
	getOrderHandler         queries.GetOrderQueryHandler
	getShippingQuoteHandler queries.GetShippingQuoteQueryHandler
	// nil without a database
	getReleasableHandler *queries.GetReleasableOrdersQueryHandler

	webhookSecret string
	now           func() time.Time
}

type Handlers struct {
	CreateOrder      commands.CreateOrderCommandHandler
	InitiatePayment  commands.InitiatePaymentCommandHandler
	VerifyPayment    commands.VerifyPaymentCommandHandler
	AdvanceOrder     commands.AdvanceOrderCommandHandler
	ConfirmDelivery  commands.ConfirmDeliveryCommandHandler
	ReleaseEscrow    commands.ReleaseEscrowCommandHandler
	GetOrder         queries.GetOrderQueryHandler
	GetShippingQuote queries.GetShippingQuoteQueryHandler
	GetReleasable    *queries.GetReleasableOrdersQueryHandler
}

// NewServer creates a server. webhookSecret signs gateway webhooks.
func NewServer(h Handlers, webhookSecret string) *Server {
	return &Server{
		createOrderHandler:      h.CreateOrder,
		initiatePaymentHandler:  h.InitiatePayment,
		verifyPaymentHandler:    h.VerifyPayment,
		advanceOrderHandler:     h.AdvanceOrder,
		confirmDeliveryHandler:  h.ConfirmDelivery,
		releaseEscrowHandler:    h.ReleaseEscrow,
		getOrderHandler:         h.GetOrder,
		getShippingQuoteHandler: h.GetShippingQuote,
		getReleasableHandler:    h.GetReleasable,
		webhookSecret:           webhookSecret,
		now:                     time.Now,
	}
}

// QuoteShipping handles POST /api/v1/shipping/quote - prices a cart without storing anything.
func (s *Server) QuoteShipping(ctx echo.Context) error {
	var req ShippingQuoteRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	point, addressID, vendorIDs, err := req.toDomain()
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetShippingQuoteQuery(point, addressID, vendorIDs, req.Subtotal, req.PromoCode, s.now())
	if err != nil {
		return writeError(ctx, err)
	}

	quote, err := s.getShippingQuoteHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, quote)
}

// CreateOrder handles POST /api/v1/orders - checks out the caller's cart.
func (s *Server) CreateOrder(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	if actor.Role() != order.RoleCustomer {
		return writeError(ctx, order.ErrActorNotAllowed)
	}

	var req CreateOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	items, address, addressID, err := req.toDomain()
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), actor.ID(), items, address, addressID, req.PromoCode, req.Notes)
	if err != nil {
		return writeError(ctx, err)
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return writeOrder(ctx, http.StatusCreated, created)
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	orderID, err := pathOrderID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID, actor)
	if err != nil {
		return writeError(ctx, err)
	}

	resp, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	ctx.Response().Header().Set("ETag", etag(resp.Version))
	return ctx.JSON(http.StatusOK, resp)
}

// InitiatePayment handles POST /api/v1/orders/:id/payment - opens a gateway checkout.
func (s *Server) InitiatePayment(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	orderID, err := pathOrderID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var req InitiatePaymentRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewInitiatePaymentCommand(orderID, actor, req.Email)
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.initiatePaymentHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, PaymentSessionResponse{
		AuthorizationURL: result.AuthorizationURL,
		Reference:        result.Reference,
	})
}

// VerifyPayment handles POST /api/v1/payments/verify - the customer-facing callback.
func (s *Server) VerifyPayment(ctx echo.Context) error {
	var req VerifyPaymentRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	return s.verify(ctx, req.Reference)
}

func (s *Server) verify(ctx echo.Context, reference string) error {
	cmd, err := commands.NewVerifyPaymentCommand(reference)
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.verifyPaymentHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, PaymentVerificationResponse{
		OrderID:       result.OrderID.String(),
		Status:        result.Status.String(),
		PaymentStatus: result.PaymentStatus.String(),
	})
}

// AdvanceOrder handles PATCH /api/v1/orders/:id/status. An If-Match header
// carrying the order version makes the update conditional.
func (s *Server) AdvanceOrder(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	orderID, err := pathOrderID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	expected, err := ifMatch(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var req AdvanceOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewAdvanceOrderCommand(orderID, target, req.Message, actor, expected)
	if err != nil {
		return writeError(ctx, err)
	}

	updated, err := s.advanceOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return writeOrder(ctx, http.StatusOK, updated)
}

// ConfirmDelivery handles POST /api/v1/orders/:id/confirm-delivery.
func (s *Server) ConfirmDelivery(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	orderID, err := pathOrderID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewConfirmDeliveryCommand(orderID, actor)
	if err != nil {
		return writeError(ctx, err)
	}

	updated, err := s.confirmDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return writeOrder(ctx, http.StatusOK, updated)
}

// GetReleasableOrders handles GET /api/v1/admin/escrow/releasable.
func (s *Server) GetReleasableOrders(ctx echo.Context) error {
	if err := requireAdmin(ctx); err != nil {
		return writeError(ctx, err)
	}

	limit := defaultBatchSize
	if raw := ctx.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(ctx, "limit must be an integer")
		}
		limit = n
	}

	query, err := queries.NewGetReleasableOrdersQuery(s.now(), limit)
	if err != nil {
		return writeError(ctx, err)
	}

	orders, err := s.getReleasableHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orders)
}

// ReleaseEscrow handles POST /api/v1/admin/escrow/release - runs one sweep now.
func (s *Server) ReleaseEscrow(ctx echo.Context) error {
	if err := requireAdmin(ctx); err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewReleaseEscrowCommand(s.now(), defaultBatchSize)
	if err != nil {
		return writeError(ctx, err)
	}

	released, err := s.releaseEscrowHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, ReleaseEscrowResponse{Released: released})
}

const defaultBatchSize = 100

func pathOrderID(ctx echo.Context) (kernel.UUID, error) {
	return parseUUID("order id", ctx.Param("id"))
}

func ifMatch(ctx echo.Context) (*int64, error) {
	raw := strings.TrimSpace(ctx.Request().Header.Get("If-Match"))
	if raw == "" || raw == "*" {
		return nil, nil
	}
	raw = strings.TrimPrefix(raw, "W/")
	v, err := strconv.ParseInt(strings.Trim(raw, `"`), 10, 64)
	if err != nil {
		return nil, errInvalidIfMatch
	}
	return &v, nil
}

func etag(version int64) string {
	return `"` + strconv.FormatInt(version, 10) + `"`
}

func writeOrder(ctx echo.Context, code int, o *order.Order) error {
	ctx.Response().Header().Set("ETag", etag(o.Version()))
	return ctx.JSON(code, queries.NewOrderResponse(o))
}
