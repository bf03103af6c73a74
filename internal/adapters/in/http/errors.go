package http

import (
	"errors"
	"net/http"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/promo"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

var (
	errUnauthenticated  = errors.New("caller identity is missing or invalid")
	errInvalidIfMatch   = errs.NewValueIsInvalidError("If-Match")
	errInvalidSignature = errors.New("webhook signature is invalid")
)

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusFor maps an error returned by a handler to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errUnauthenticated), errors.Is(err, errInvalidSignature):
		return http.StatusUnauthorized
	case errors.Is(err, order.ErrActorNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict
	case errors.Is(err, order.ErrPaymentRequired):
		return http.StatusPaymentRequired
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrInvalidState),
		errors.Is(err, order.ErrAlreadyConfirmed),
		errors.Is(err, order.ErrAlreadyPaid),
		errors.Is(err, order.ErrEscrowNotHeld):
		return http.StatusUnprocessableEntity
	case errors.Is(err, promo.ErrPromoInvalid),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(ctx echo.Context, err error) error {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		ctx.Logger().Error(err)
		msg = "Internal server error"
	}
	return ctx.JSON(code, Error{Code: code, Message: msg})
}

func badRequest(ctx echo.Context, msg string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: msg})
}
