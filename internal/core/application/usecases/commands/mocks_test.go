package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"shipbook/internal/core/application/usecases/commands"
	"shipbook/internal/core/domain/model/address"
	"shipbook/internal/core/domain/model/booking"
	"shipbook/internal/core/domain/model/kernel"
	"shipbook/internal/core/domain/model/order"
	"shipbook/internal/core/domain/services"
	"shipbook/internal/core/ports"
	"shipbook/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeSessionStore is a functional in-memory session store for handler
// tests. Mutations run the closure against the stored draft directly, which
// a call-recording mock cannot do.
type fakeSessionStore struct {
	mu     sync.Mutex
	drafts map[kernel.UUID]*booking.Draft
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{drafts: make(map[kernel.UUID]*booking.Draft)}
}

func (s *fakeSessionStore) Add(_ context.Context, draft *booking.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drafts[draft.ID()]; ok {
		return errs.NewValueIsInvalidError("bookingID")
	}
	s.drafts[draft.ID()] = draft
	return nil
}

func (s *fakeSessionStore) Get(_ context.Context, id kernel.UUID) (*booking.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("booking", id.String())
	}
	return draft, nil
}

func (s *fakeSessionStore) Mutate(_ context.Context, id kernel.UUID, fn func(*booking.Draft) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[id]
	if !ok {
		return errs.NewObjectNotFoundError("booking", id.String())
	}
	return fn(draft)
}

func (s *fakeSessionStore) Delete(_ context.Context, id kernel.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, id)
	return nil
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, cutoff)
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

func (m *MockPaymentGateway) CreateIntent(ctx context.Context, orderID kernel.UUID, amount float64, currency string) (ports.PaymentIntent, error) {
	args := m.Called(ctx, orderID, amount, currency)
	return args.Get(0).(ports.PaymentIntent), args.Error(1)
}

func (m *MockPaymentGateway) OpenCheckout(ctx context.Context, intent ports.PaymentIntent) (ports.CheckoutResult, error) {
	args := m.Called(ctx, intent)
	return args.Get(0).(ports.CheckoutResult), args.Error(1)
}

func (m *MockPaymentGateway) Verify(ctx context.Context, intentID string) (ports.VerificationStatus, error) {
	args := m.Called(ctx, intentID)
	return args.Get(0).(ports.VerificationStatus), args.Error(1)
}

type MockOrderEventPublisher struct{ mock.Mock }

func (m *MockOrderEventPublisher) PublishOrderChanged(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

func bookableAddress(t *testing.T, city string, lat, lng float64) address.Address {
	t.Helper()

	a, err := address.NewAddress("14 Harbour Line", city, "TN", "600001")
	require.NoError(t, err)

	p, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	a, err = a.WithGeo(p)
	require.NoError(t, err)

	a, err = a.WithContact("R. Iyer", "9876543210")
	require.NoError(t, err)
	return a
}

func testParcel(t *testing.T) booking.Parcel {
	t.Helper()

	p, err := booking.NewParcel("documents", 2, false)
	require.NoError(t, err)
	return p
}

func testSelection(t *testing.T) booking.RateSelection {
	t.Helper()

	sel, err := booking.NewCarrierSelection("carrier-7", booking.Rate{PerKm: 10, PerKg: 40})
	require.NoError(t, err)
	return sel
}

// draftInReview builds a draft that has passed details submission and rate
// selection and is ready to check out.
func draftInReview(t *testing.T, id kernel.UUID) *booking.Draft {
	t.Helper()

	draft, err := booking.NewDraft(id)
	require.NoError(t, err)

	pickup := bookableAddress(t, "Chennai", 13.08, 80.27)
	delivery := bookableAddress(t, "Bangalore", 12.97, 77.59)
	require.NoError(t, draft.SubmitDetails(pickup, delivery, testParcel(t)))

	sel := testSelection(t)
	quote, err := services.NewPricingEngine().BuildQuote(pickup, delivery, 2, sel)
	require.NoError(t, err)
	require.NoError(t, draft.Select(sel, quote))

	return draft
}
