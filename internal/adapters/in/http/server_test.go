package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"marketplace/internal/adapters/out/memory"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/promo"
	"marketplace/internal/core/domain/model/shipping"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "sk_test_secret"

type fakeGateway struct {
	mu       sync.Mutex
	sessions map[string]ports.PaymentRequest
	paid     map[string]bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessions: map[string]ports.PaymentRequest{}, paid: map[string]bool{}}
}

func (g *fakeGateway) Initiate(_ context.Context, req ports.PaymentRequest) (ports.PaymentSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions[req.Reference] = req
	return ports.PaymentSession{AuthorizationURL: "https://checkout.test/" + req.Reference, Reference: req.Reference}, nil
}

func (g *fakeGateway) Verify(_ context.Context, reference string) (ports.PaymentVerification, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	req, ok := g.sessions[reference]
	if !ok {
		return ports.PaymentVerification{}, errors.New("unknown reference")
	}
	return ports.PaymentVerification{
		Reference: reference,
		OrderID:   req.OrderID.String(),
		Amount:    req.Amount,
		Paid:      g.paid[reference],
	}, nil
}

func (g *fakeGateway) pay(reference string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.paid[reference] = true
}

type nopDispatcher struct{}

func (nopDispatcher) Notify(context.Context, ports.Notification) error { return nil }

type storeFactory struct{ store *memory.OrderStore }

func (f storeFactory) Create() commands.OrderUoW { return f.store.Create() }

type testEnv struct {
	e        *echo.Echo
	gateway  *fakeGateway
	customer kernel.UUID
	vendor   kernel.UUID
	admin    kernel.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := memory.NewOrderStore()
	factory := storeFactory{store: store}
	gateway := newFakeGateway()
	notifier := commands.NewOrderNotifier(nopDispatcher{}, logger)

	code, err := promo.NewCode("FREESHIP", promo.DiscountFree, 0, true, nil)
	require.NoError(t, err)
	calculator := services.NewShippingCalculator(
		memory.NewLocations(),
		services.NewPromoCodeValidator(memory.NewPromoCodes(code)),
		services.NewDistanceResolver(),
		services.NewShippingPricer(shipping.DefaultTariff()),
		logger,
	)

	srv := NewServer(Handlers{
		CreateOrder:      commands.NewCreateOrderCommandHandler(factory, calculator, notifier),
		InitiatePayment:  commands.NewInitiatePaymentCommandHandler(factory, gateway),
		VerifyPayment:    commands.NewVerifyPaymentCommandHandler(factory, gateway, notifier, logger),
		AdvanceOrder:     commands.NewAdvanceOrderCommandHandler(factory, notifier),
		ConfirmDelivery:  commands.NewConfirmDeliveryCommandHandler(factory),
		ReleaseEscrow:    commands.NewReleaseEscrowCommandHandler(factory, services.NewSettlementClock(), logger),
		GetOrder:         queries.NewGetOrderQueryHandler(store.Create().OrderRepository()),
		GetShippingQuote: queries.NewGetShippingQuoteQueryHandler(calculator),
	}, testSecret)

	e := echo.New()
	srv.RegisterRoutes(e)

	return &testEnv{
		e:        e,
		gateway:  gateway,
		customer: kernel.NewUUID(),
		vendor:   kernel.NewUUID(),
		admin:    kernel.NewUUID(),
	}
}

func (env *testEnv) do(method, path string, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func as(id kernel.UUID, role string) map[string]string {
	return map[string]string{headerUserID: id.String(), headerRole: role}
}

func (env *testEnv) checkoutBody() string {
	return `{
		"items": [
			{"product_id": "` + kernel.NewUUID().String() + `", "vendor_id": "` + env.vendor.String() + `",
			 "product_name": "Ankara fabric", "quantity": 2, "unit_price": 5000}
		],
		"shipping_address": {"full_name": "Ada Obi", "phone": "+2348000000000", "street": "1 Marina",
			"city": "Lagos", "state": "Lagos"},
		"notes": "leave at the gate"
	}`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (env *testEnv) createOrder(t *testing.T) queries.OrderResponse {
	t.Helper()
	rec := env.do(http.MethodPost, "/api/v1/orders", env.checkoutBody(), as(env.customer, "customer"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[queries.OrderResponse](t, rec)
}

func (env *testEnv) payOrder(t *testing.T, orderID string) {
	t.Helper()
	rec := env.do(http.MethodPost, "/api/v1/orders/"+orderID+"/payment",
		`{"email":"ada@example.com"}`, as(env.customer, "customer"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	session := decode[PaymentSessionResponse](t, rec)

	env.gateway.pay(session.Reference)
	rec = env.do(http.MethodPost, "/api/v1/payments/verify", `{"reference":"`+session.Reference+`"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestServer_OrderLifecycle(t *testing.T) {
	env := newTestEnv(t)

	created := env.createOrder(t)
	assert.Equal(t, "pending_payment", created.Status)
	assert.Equal(t, int64(10000), created.Subtotal)
	assert.Equal(t, int64(3000), created.ShippingFee)
	assert.Equal(t, int64(13000), created.Total)
	assert.Equal(t, int64(1), created.Version)

	// a vendor cannot ship an unpaid order
	rec := env.do(http.MethodPatch, "/api/v1/orders/"+created.ID+"/status",
		`{"status":"shipped"}`, as(env.vendor, "vendor"))
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)

	env.payOrder(t, created.ID)

	rec = env.do(http.MethodGet, "/api/v1/orders/"+created.ID, "", as(env.customer, "customer"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `"2"`, rec.Header().Get("ETag"))
	paid := decode[queries.OrderResponse](t, rec)
	assert.Equal(t, "payment_confirmed", paid.Status)
	assert.Equal(t, "paid", paid.PaymentStatus)
	assert.Equal(t, "held", paid.EscrowStatus)

	vendor := as(env.vendor, "vendor")
	vendor["If-Match"] = `"1"`
	rec = env.do(http.MethodPatch, "/api/v1/orders/"+created.ID+"/status", `{"status":"processing"}`, vendor)
	assert.Equal(t, http.StatusConflict, rec.Code)

	vendor["If-Match"] = `"2"`
	rec = env.do(http.MethodPatch, "/api/v1/orders/"+created.ID+"/status", `{"status":"delivered"}`, vendor)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	delivered := decode[queries.OrderResponse](t, rec)
	assert.Equal(t, "delivered", delivered.Status)
	assert.NotNil(t, delivered.AutoReleaseAt)

	rec = env.do(http.MethodPatch, "/api/v1/orders/"+created.ID+"/status", `{"status":"shipped"}`, as(env.vendor, "vendor"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(http.MethodPost, "/api/v1/orders/"+created.ID+"/confirm-delivery", "", as(env.customer, "customer"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	confirmed := decode[queries.OrderResponse](t, rec)
	assert.Equal(t, "released", confirmed.EscrowStatus)
	assert.NotNil(t, confirmed.ConfirmedAt)

	rec = env.do(http.MethodPost, "/api/v1/orders/"+created.ID+"/confirm-delivery", "", as(env.customer, "customer"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestServer_GetOrder_Visibility(t *testing.T) {
	env := newTestEnv(t)
	created := env.createOrder(t)

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{name: "owner", headers: as(env.customer, "customer"), want: http.StatusOK},
		{name: "vendor on the order", headers: as(env.vendor, "vendor"), want: http.StatusOK},
		{name: "admin", headers: as(env.admin, "admin"), want: http.StatusOK},
		{name: "other customer", headers: as(kernel.NewUUID(), "customer"), want: http.StatusNotFound},
		{name: "anonymous", headers: nil, want: http.StatusUnauthorized},
		{name: "system role is not accepted", headers: as(env.admin, "system"), want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodGet, "/api/v1/orders/"+created.ID, "", tt.headers)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}

	rec := env.do(http.MethodGet, "/api/v1/orders/not-a-uuid", "", as(env.customer, "customer"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_CreateOrder_Errors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/orders", env.checkoutBody(), as(env.vendor, "vendor"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodPost, "/api/v1/orders", `{"items":[]}`, as(env.customer, "customer"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	withPromo := strings.Replace(env.checkoutBody(), `"notes"`, `"promo_code": "NOPE", "notes"`, 1)
	rec = env.do(http.MethodPost, "/api/v1/orders", withPromo, as(env.customer, "customer"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "code not found")
}

func TestServer_QuoteShipping(t *testing.T) {
	env := newTestEnv(t)
	body := `{"vendor_ids":["` + env.vendor.String() + `"],"subtotal":120000,"promo_code":"freeship"}`

	rec := env.do(http.MethodPost, "/api/v1/shipping/quote", body, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	quote := decode[queries.ShippingQuoteResponse](t, rec)
	assert.Equal(t, int64(3000), quote.BaseFee)
	assert.Equal(t, int64(0), quote.FinalFee)
	assert.True(t, quote.PromoApplied)
	assert.Nil(t, quote.DistanceKm)

	rec = env.do(http.MethodPost, "/api/v1/shipping/quote", `{"vendor_ids":[],"subtotal":1}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_PaymentWebhook(t *testing.T) {
	env := newTestEnv(t)
	created := env.createOrder(t)

	rec := env.do(http.MethodPost, "/api/v1/orders/"+created.ID+"/payment",
		`{"email":"ada@example.com"}`, as(env.customer, "customer"))
	require.Equal(t, http.StatusOK, rec.Code)
	session := decode[PaymentSessionResponse](t, rec)
	env.gateway.pay(session.Reference)

	payload := `{"event":"charge.success","data":{"reference":"` + session.Reference + `"}}`

	rec = env.do(http.MethodPost, "/api/v1/payments/webhook", payload,
		map[string]string{headerSignature: sign("wrong", payload)})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	for range 2 {
		rec = env.do(http.MethodPost, "/api/v1/payments/webhook", payload,
			map[string]string{headerSignature: sign(testSecret, payload)})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		result := decode[PaymentVerificationResponse](t, rec)
		assert.Equal(t, "payment_confirmed", result.Status)
	}

	ignored := `{"event":"transfer.success","data":{"reference":"x"}}`
	rec = env.do(http.MethodPost, "/api/v1/payments/webhook", ignored,
		map[string]string{headerSignature: sign(testSecret, ignored)})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_InitiatePayment_NotOwner(t *testing.T) {
	env := newTestEnv(t)
	created := env.createOrder(t)

	rec := env.do(http.MethodPost, "/api/v1/orders/"+created.ID+"/payment",
		`{"email":"x@example.com"}`, as(kernel.NewUUID(), "customer"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestServer_AdvanceOrder_ForeignVendor(t *testing.T) {
	env := newTestEnv(t)
	created := env.createOrder(t)
	env.payOrder(t, created.ID)

	rec := env.do(http.MethodPatch, "/api/v1/orders/"+created.ID+"/status",
		`{"status":"processing"}`, as(kernel.NewUUID(), "vendor"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/orders/"+created.ID, "", as(env.customer, "customer"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "payment_confirmed", decode[queries.OrderResponse](t, rec).Status)

	rec = env.do(http.MethodPatch, "/api/v1/orders/"+created.ID+"/status",
		`{"status":"processing"}`, as(env.admin, "admin"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestServer_ReleaseEscrow_AdminOnly(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/admin/escrow/release", "", as(env.customer, "customer"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodPost, "/api/v1/admin/escrow/release", "", as(env.admin, "admin"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"released":0}`, rec.Body.String())

	rec = env.do(http.MethodGet, "/api/v1/admin/escrow/releasable", "", as(env.admin, "admin"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "marketplace_orders_created_total")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: order.ErrInvalidTransition, want: http.StatusUnprocessableEntity},
		{err: order.ErrPaymentRequired, want: http.StatusPaymentRequired},
		{err: promo.ErrPromoExpired, want: http.StatusBadRequest},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func sign(secret, body string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}
