package http

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

const headerSignature = "X-Paystack-Signature"

type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

// PaymentWebhook handles POST /api/v1/payments/webhook. The body must be signed
// with HMAC-SHA512 under the gateway secret. Only charge.success is acted on, and
// only after verifying the reference with the gateway again.
func (s *Server) PaymentWebhook(ctx echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(ctx.Request().Body, 1<<20))
	if err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if !validSignature(s.webhookSecret, body, ctx.Request().Header.Get(headerSignature)) {
		return writeError(ctx, errInvalidSignature)
	}

	var event webhookEvent
	if err = json.Unmarshal(body, &event); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if event.Event != "charge.success" {
		return ctx.NoContent(http.StatusOK)
	}

	return s.verify(ctx, event.Data.Reference)
}

func validSignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	want, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), want)
}
