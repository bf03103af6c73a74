package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/shipping"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllReleasable(ctx context.Context, now time.Time, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) Initiate(ctx context.Context, req ports.PaymentRequest) (ports.PaymentSession, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.PaymentSession), args.Error(1)
}

func (m *MockPaymentGateway) Verify(ctx context.Context, reference string) (ports.PaymentVerification, error) {
	args := m.Called(ctx, reference)
	return args.Get(0).(ports.PaymentVerification), args.Error(1)
}

type MockNotificationDispatcher struct{ mock.Mock }

func (m *MockNotificationDispatcher) Notify(ctx context.Context, n ports.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockShippingCalculator struct{ mock.Mock }

func (m *MockShippingCalculator) Calculate(ctx context.Context, req services.ShippingRequest) (shipping.Quote, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(shipping.Quote), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newNotifier(d ports.NotificationDispatcher) *commands.OrderNotifier {
	return commands.NewOrderNotifier(d, discardLogger())
}

// uowWith wires a factory that hands out a single unit of work over repo.
func uowWith(repo ports.OrderRepository) (*MockOrderUoWFactory, *MockOrderUoW) {
	uow := new(MockOrderUoW)
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("OrderRepository").Return(repo)
	uow.On("Commit", mock.Anything).Return(nil)
	uow.On("Rollback", mock.Anything).Return(nil)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow)
	return factory, uow
}

// testVendorID owns the items of every testOrder.
var testVendorID = kernel.NewUUID()

func testOrder(t *testing.T, customerID kernel.UUID) *order.Order {
	t.Helper()
	quote, err := shipping.NewQuote(1500, 0, nil, "", "")
	require.NoError(t, err)
	item, err := order.NewItem(kernel.NewUUID(), testVendorID, "Leather bag", nil, 2, 15000)
	require.NoError(t, err)
	addr, err := order.NewShippingAddress("Ada Obi", "+2348000000000", "5 Allen Ave", "Ikeja", "Lagos", nil, nil)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), customerID, []order.Item{item}, addr, quote, "", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	return o
}

func testPaidOrder(t *testing.T, customerID kernel.UUID) *order.Order {
	t.Helper()
	o := testOrder(t, customerID)
	require.NoError(t, o.ConfirmPayment("ref-paid", time.Now().Add(-time.Hour)))
	return o
}

func mustActor(t *testing.T, id kernel.UUID, role order.ActorRole) order.Actor {
	t.Helper()
	a, err := order.NewActor(id, role)
	require.NoError(t, err)
	return a
}
