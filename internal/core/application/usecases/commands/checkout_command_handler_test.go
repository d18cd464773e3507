package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"shipbook/internal/core/application/usecases/commands"
	"shipbook/internal/core/domain/model/booking"
	"shipbook/internal/core/domain/model/kernel"
	"shipbook/internal/core/domain/model/order"
	"shipbook/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type checkoutFixture struct {
	sessions  *fakeSessionStore
	uow       *MockOrderUoW
	repo      *MockOrderRepository
	factory   *MockOrderUoWFactory
	gateway   *MockPaymentGateway
	publisher *MockOrderEventPublisher
	handler   commands.CheckoutCommandHandler
	bookingID kernel.UUID
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	f := &checkoutFixture{
		sessions:  newFakeSessionStore(),
		uow:       new(MockOrderUoW),
		repo:      new(MockOrderRepository),
		factory:   new(MockOrderUoWFactory),
		gateway:   new(MockPaymentGateway),
		publisher: new(MockOrderEventPublisher),
		bookingID: kernel.NewUUID(),
	}

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", mock.Anything).Return(nil)
	f.uow.On("Commit", mock.Anything).Return(nil)
	f.uow.On("Rollback", mock.Anything).Return(nil)
	f.uow.On("OrderRepository").Return(f.repo)

	f.handler = commands.NewCheckoutCommandHandler(
		f.sessions, f.factory, f.gateway, f.publisher, discardLogger(), "inr",
	)

	require.NoError(t, f.sessions.Add(context.Background(), draftInReview(t, f.bookingID)))
	return f
}

func (f *checkoutFixture) command(t *testing.T) commands.CheckoutCommand {
	t.Helper()
	cmd, err := commands.NewCheckoutCommand(f.bookingID)
	require.NoError(t, err)
	return cmd
}

func TestCheckoutCommandHandler_HappyPath(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	var created *order.Order
	f.repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*order.Order)
		}).
		Return(nil)
	f.repo.On("Update", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
	f.publisher.On("PublishOrderChanged", mock.Anything, mock.Anything).Return(nil)

	intent := ports.PaymentIntent{ID: "pi_42", ClientSecret: "cs_42"}
	createCall := f.gateway.On("CreateIntent", mock.Anything, mock.Anything, mock.Anything, "inr").
		Return(intent, nil)
	openCall := f.gateway.On("OpenCheckout", mock.Anything, intent).
		Return(ports.CheckoutResult{Outcome: ports.CheckoutCompleted, Evidence: "ev_42"}, nil)
	verifyCall := f.gateway.On("Verify", mock.Anything, "pi_42").
		Return(ports.VerificationSucceeded, nil)
	mock.InOrder(createCall, openCall, verifyCall)

	resp, err := f.handler.Handle(ctx, f.command(t))

	require.NoError(t, err)
	assert.Equal(t, commands.CheckoutOutcomeConfirmed, resp.Outcome)

	require.NotNil(t, created)
	assert.Equal(t, order.Confirmed, created.Status())
	assert.True(t, resp.OrderID.IsEqual(created.ID()))
	assert.Equal(t, "pi_42", created.PaymentIntentID())
	assert.True(t, f.bookingID.IsEqual(created.BookingID()))
	assert.Positive(t, created.Amount())

	// created, then confirmed
	f.publisher.AssertNumberOfCalls(t, "PublishOrderChanged", 2)
	// attach intent, then confirm
	f.repo.AssertNumberOfCalls(t, "Update", 2)

	// confirmed sessions are removed
	_, err = f.sessions.Get(ctx, f.bookingID)
	require.Error(t, err)
}

func TestCheckoutCommandHandler_OrderExistsBeforeGatewayIsTouched(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	orderPersisted := false
	f.repo.On("Add", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { orderPersisted = true }).
		Return(nil)
	f.publisher.On("PublishOrderChanged", mock.Anything, mock.Anything).Return(nil)
	f.gateway.On("CreateIntent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			assert.True(t, orderPersisted, "intent created before order was persisted")
		}).
		Return(ports.PaymentIntent{}, errors.New("provider down"))
	f.repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	_, err := f.handler.Handle(ctx, f.command(t))
	require.Error(t, err)
}

func TestCheckoutCommandHandler_DismissedCheckoutCompensates(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	var created *order.Order
	f.repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*order.Order)
		}).
		Return(nil)
	f.repo.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("PublishOrderChanged", mock.Anything, mock.Anything).Return(nil)

	intent := ports.PaymentIntent{ID: "pi_dismiss"}
	f.gateway.On("CreateIntent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(intent, nil)
	f.gateway.On("OpenCheckout", mock.Anything, intent).
		Return(ports.CheckoutResult{Outcome: ports.CheckoutDismissed}, nil)

	resp, err := f.handler.Handle(ctx, f.command(t))

	require.NoError(t, err)
	assert.Equal(t, commands.CheckoutOutcomeCancelled, resp.Outcome)
	assert.Equal(t, "payment dismissed by payer", resp.CancelReason)

	require.NotNil(t, created)
	assert.Equal(t, order.Cancelled, created.Status())
	assert.Equal(t, "payment dismissed by payer", created.CancelReason())

	// verification never ran for a dismissed checkout
	f.gateway.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)

	// session survives and is back in collecting so the user can retry
	draft, err := f.sessions.Get(ctx, f.bookingID)
	require.NoError(t, err)
	assert.Equal(t, booking.StageCollecting, draft.Stage())
}

func TestCheckoutCommandHandler_VerificationRejectedCompensates(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	var created *order.Order
	f.repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*order.Order)
		}).
		Return(nil)
	f.repo.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("PublishOrderChanged", mock.Anything, mock.Anything).Return(nil)

	intent := ports.PaymentIntent{ID: "pi_rej"}
	f.gateway.On("CreateIntent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(intent, nil)
	f.gateway.On("OpenCheckout", mock.Anything, intent).
		Return(ports.CheckoutResult{Outcome: ports.CheckoutCompleted, Evidence: "ev"}, nil)
	f.gateway.On("Verify", mock.Anything, "pi_rej").
		Return(ports.VerificationRejected, nil)

	resp, err := f.handler.Handle(ctx, f.command(t))

	require.NoError(t, err)
	assert.Equal(t, commands.CheckoutOutcomeCancelled, resp.Outcome)
	assert.Equal(t, "payment verification failed", resp.CancelReason)
	assert.Equal(t, order.Cancelled, created.Status())
}

func TestCheckoutCommandHandler_CompensationFailureIsSurfaced(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	f.repo.On("Add", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("PublishOrderChanged", mock.Anything, mock.Anything).Return(nil)

	intent := ports.PaymentIntent{ID: "pi_x"}
	f.gateway.On("CreateIntent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(intent, nil)

	// first update attaches the intent, every later one is the compensation
	f.repo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()
	f.repo.On("Update", mock.Anything, mock.Anything).Return(errors.New("db gone"))

	f.gateway.On("OpenCheckout", mock.Anything, intent).
		Return(ports.CheckoutResult{Outcome: ports.CheckoutDismissed}, nil)

	_, err := f.handler.Handle(ctx, f.command(t))

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrCompensationFailed)
}

func TestCheckoutCommandHandler_UnreachableVerificationLeavesOrderPending(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	var created *order.Order
	f.repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*order.Order)
		}).
		Return(nil)
	f.repo.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("PublishOrderChanged", mock.Anything, mock.Anything).Return(nil)

	intent := ports.PaymentIntent{ID: "pi_slow"}
	f.gateway.On("CreateIntent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(intent, nil)
	f.gateway.On("OpenCheckout", mock.Anything, intent).
		Return(ports.CheckoutResult{Outcome: ports.CheckoutCompleted, Evidence: "ev"}, nil)
	f.gateway.On("Verify", mock.Anything, "pi_slow").
		Return(ports.VerificationUnknown, errors.New("timeout"))

	resp, err := f.handler.Handle(ctx, f.command(t))

	require.NoError(t, err)
	assert.Equal(t, commands.CheckoutOutcomeAwaitingSettlement, resp.Outcome)
	assert.Equal(t, order.Pending, created.Status())
}

func TestCheckoutCommandHandler_RequiresReviewStage(t *testing.T) {
	ctx := context.Background()
	sessions := newFakeSessionStore()
	bookingID := kernel.NewUUID()

	draft, err := booking.NewDraft(bookingID)
	require.NoError(t, err)
	require.NoError(t, sessions.Add(ctx, draft))

	handler := commands.NewCheckoutCommandHandler(
		sessions, new(MockOrderUoWFactory), new(MockPaymentGateway),
		new(MockOrderEventPublisher), discardLogger(), "inr",
	)

	cmd, err := commands.NewCheckoutCommand(bookingID)
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)
	require.Error(t, err)
}

func TestCheckoutCommandHandler_InvalidCommandRejected(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.handler.Handle(context.Background(), commands.CheckoutCommand{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be created via NewCheckoutCommand constructor")
}
