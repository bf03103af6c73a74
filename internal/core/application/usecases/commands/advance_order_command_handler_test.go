package commands_test

import (
	"errors"
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdvanceOrderCommandHandler_Handle(t *testing.T) {
	vendor := mustActor(t, testVendorID, order.RoleVendor)

	t.Run("should advance, persist and notify", func(t *testing.T) {
		ctx := t.Context()
		o := testPaidOrder(t, kernel.NewUUID())
		cmd, _ := commands.NewAdvanceOrderCommand(o.ID(), order.Shipped, "Handed to courier", vendor, nil)

		repo := new(MockOrderRepository)
		factory, uow := uowWith(repo)
		dispatcher := new(MockNotificationDispatcher)
		mock.InOrder(
			repo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
			repo.On("Update", ctx, o).Return(nil).Once(),
			dispatcher.On("Notify", ctx, mock.MatchedBy(func(n ports.Notification) bool {
				return n.Metadata["status"] == "shipped" && n.Category == order.NotificationCategory
			})).Return(nil).Once(),
		)

		updated, err := commands.NewAdvanceOrderCommandHandler(factory, newNotifier(dispatcher)).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, order.Shipped, updated.Status())
		uow.AssertCalled(t, "Commit", ctx)
		repo.AssertExpectations(t)
		dispatcher.AssertExpectations(t)
	})

	t.Run("should reject a stale If-Match version", func(t *testing.T) {
		ctx := t.Context()
		o := testPaidOrder(t, kernel.NewUUID())
		stale := o.Version() + 1
		cmd, _ := commands.NewAdvanceOrderCommand(o.ID(), order.Processing, "", vendor, &stale)

		repo := new(MockOrderRepository)
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
		factory, _ := uowWith(repo)

		_, err := commands.NewAdvanceOrderCommandHandler(factory, newNotifier(new(MockNotificationDispatcher))).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		assert.Equal(t, order.PaymentConfirmed, o.Status())
	})

	t.Run("should return domain errors without writing", func(t *testing.T) {
		ctx := t.Context()
		o := testOrder(t, kernel.NewUUID())
		cmd, _ := commands.NewAdvanceOrderCommand(o.ID(), order.Processing, "", vendor, nil)

		repo := new(MockOrderRepository)
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
		factory, uow := uowWith(repo)

		_, err := commands.NewAdvanceOrderCommandHandler(factory, newNotifier(new(MockNotificationDispatcher))).Handle(ctx, cmd)

		require.ErrorIs(t, err, order.ErrPaymentRequired)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("should reject a vendor who sells nothing in the order", func(t *testing.T) {
		ctx := t.Context()
		o := testPaidOrder(t, kernel.NewUUID())
		stranger := mustActor(t, kernel.NewUUID(), order.RoleVendor)
		cmd, _ := commands.NewAdvanceOrderCommand(o.ID(), order.Processing, "", stranger, nil)

		repo := new(MockOrderRepository)
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
		factory, uow := uowWith(repo)

		_, err := commands.NewAdvanceOrderCommandHandler(factory, newNotifier(new(MockNotificationDispatcher))).Handle(ctx, cmd)

		require.ErrorIs(t, err, order.ErrActorNotAllowed)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("should pass not found through", func(t *testing.T) {
		ctx := t.Context()
		id := kernel.NewUUID()
		cmd, _ := commands.NewAdvanceOrderCommand(id, order.Processing, "", vendor, nil)

		repo := new(MockOrderRepository)
		repo.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("order", id)).Once()
		factory, _ := uowWith(repo)

		_, err := commands.NewAdvanceOrderCommandHandler(factory, newNotifier(new(MockNotificationDispatcher))).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should stop on begin failure", func(t *testing.T) {
		ctx := t.Context()
		cmd, _ := commands.NewAdvanceOrderCommand(kernel.NewUUID(), order.Processing, "", vendor, nil)

		uow := new(MockOrderUoW)
		factory := new(MockOrderUoWFactory)
		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
		)

		_, err := commands.NewAdvanceOrderCommandHandler(factory, nil).Handle(ctx, cmd)

		require.EqualError(t, err, "begin error")
	})
}

func TestNewAdvanceOrderCommand(t *testing.T) {
	bad := int64(0)

	_, err := commands.NewAdvanceOrderCommand(kernel.NewUUID(), order.Status(77), "", order.SystemActor(), &bad)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}
