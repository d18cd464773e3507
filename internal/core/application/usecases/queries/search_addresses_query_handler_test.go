package queries_test

import (
	"context"
	"errors"
	"testing"

	"shipbook/internal/core/application/usecases/queries"
	"shipbook/internal/core/domain/model/address"
	"shipbook/internal/core/domain/model/kernel"
	"shipbook/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGeocoder struct{ mock.Mock }

func (m *MockGeocoder) ForwardSearch(ctx context.Context, query string, limit int) ([]ports.AddressCandidate, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.AddressCandidate), args.Error(1)
}

func (m *MockGeocoder) ReverseLookup(ctx context.Context, position kernel.GeoPoint) (ports.AddressCandidate, error) {
	args := m.Called(ctx, position)
	return args.Get(0).(ports.AddressCandidate), args.Error(1)
}

type MockCustomerDirectory struct{ mock.Mock }

func (m *MockCustomerDirectory) SavedAddresses(ctx context.Context, customerID kernel.UUID) ([]address.Address, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]address.Address), args.Error(1)
}

func savedChennaiAddress(t *testing.T) address.Address {
	t.Helper()
	a, err := address.NewAddress("12 Marina Beach Rd", "Chennai", "TN", "600001")
	require.NoError(t, err)
	return a
}

func chennaiCandidates() []ports.AddressCandidate {
	pos, _ := kernel.NewGeoPoint(13.08, 80.27)
	return []ports.AddressCandidate{
		{DisplayName: "Chennai Central, Park Town, Chennai, Tamil Nadu, India", City: "Chennai", State: "TN", Pincode: "600003", Position: pos},
	}
}

func TestSearchAddressesQueryHandler_SavedMatchesPrecedeRemote(t *testing.T) {
	ctx := context.Background()
	customerID := kernel.NewUUID()
	geocoder := new(MockGeocoder)
	directory := new(MockCustomerDirectory)

	directory.On("SavedAddresses", mock.Anything, customerID).
		Return([]address.Address{savedChennaiAddress(t)}, nil)
	geocoder.On("ForwardSearch", mock.Anything, "Chennai", mock.Anything).
		Return(chennaiCandidates(), nil)

	handler := queries.NewSearchAddressesQueryHandler(geocoder, directory)
	query, err := queries.NewSearchAddressesQuery(customerID, "pickup", "Chennai")
	require.NoError(t, err)

	resp, err := handler.Handle(ctx, query)

	require.NoError(t, err)
	assert.False(t, resp.Superseded)
	assert.False(t, resp.RemoteDegraded)
	require.Len(t, resp.Suggestions, 2)
	assert.Equal(t, queries.SuggestionSourceSaved, resp.Suggestions[0].Source)
	assert.Equal(t, "12 Marina Beach Rd", resp.Suggestions[0].DisplayName)
	assert.Equal(t, queries.SuggestionSourceRemote, resp.Suggestions[1].Source)
	assert.Equal(t, "Chennai Central, Park Town, Chennai", resp.Suggestions[1].DisplayName)
	assert.Equal(t, 0, resp.Suggestions[0].Rank)
	assert.Equal(t, 1, resp.Suggestions[1].Rank)
}

func TestSearchAddressesQueryHandler_ShortQuerySkipsRemote(t *testing.T) {
	ctx := context.Background()
	customerID := kernel.NewUUID()
	geocoder := new(MockGeocoder)
	directory := new(MockCustomerDirectory)

	directory.On("SavedAddresses", mock.Anything, customerID).
		Return([]address.Address{savedChennaiAddress(t)}, nil)

	handler := queries.NewSearchAddressesQueryHandler(geocoder, directory)
	query, err := queries.NewSearchAddressesQuery(customerID, "pickup", "Ch")
	require.NoError(t, err)

	resp, err := handler.Handle(ctx, query)

	require.NoError(t, err)
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, queries.SuggestionSourceSaved, resp.Suggestions[0].Source)
	geocoder.AssertNotCalled(t, "ForwardSearch", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchAddressesQueryHandler_RemoteFailureDegradesToSavedOnly(t *testing.T) {
	ctx := context.Background()
	customerID := kernel.NewUUID()
	geocoder := new(MockGeocoder)
	directory := new(MockCustomerDirectory)

	directory.On("SavedAddresses", mock.Anything, customerID).
		Return([]address.Address{savedChennaiAddress(t)}, nil)
	geocoder.On("ForwardSearch", mock.Anything, "Chennai", mock.Anything).
		Return(nil, errors.New("rate limited"))

	handler := queries.NewSearchAddressesQueryHandler(geocoder, directory)
	query, err := queries.NewSearchAddressesQuery(customerID, "pickup", "Chennai")
	require.NoError(t, err)

	resp, err := handler.Handle(ctx, query)

	require.NoError(t, err)
	assert.True(t, resp.RemoteDegraded)
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, queries.SuggestionSourceSaved, resp.Suggestions[0].Source)
}

func TestSearchAddressesQueryHandler_NonMatchingSavedFilteredOut(t *testing.T) {
	ctx := context.Background()
	customerID := kernel.NewUUID()
	geocoder := new(MockGeocoder)
	directory := new(MockCustomerDirectory)

	other, err := address.NewAddress("4 MG Road", "Bangalore", "KA", "560001")
	require.NoError(t, err)

	directory.On("SavedAddresses", mock.Anything, customerID).
		Return([]address.Address{savedChennaiAddress(t), other}, nil)
	geocoder.On("ForwardSearch", mock.Anything, "chennai", mock.Anything).
		Return([]ports.AddressCandidate{}, nil)

	handler := queries.NewSearchAddressesQueryHandler(geocoder, directory)
	query, err := queries.NewSearchAddressesQuery(customerID, "pickup", "chennai")
	require.NoError(t, err)

	resp, err := handler.Handle(ctx, query)

	require.NoError(t, err)
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, "Chennai", resp.Suggestions[0].City)
}

// A slower earlier search resolving after a newer one must come back marked
// Superseded so its results never reach the suggestion list.
func TestSearchAddressesQueryHandler_SupersededSearchIsDiscarded(t *testing.T) {
	ctx := context.Background()
	customerID := kernel.NewUUID()
	geocoder := new(MockGeocoder)
	directory := new(MockCustomerDirectory)

	directory.On("SavedAddresses", mock.Anything, customerID).
		Return([]address.Address{}, nil)

	chenStarted := make(chan struct{})
	releaseChen := make(chan struct{})
	pos, _ := kernel.NewGeoPoint(13.0, 80.2)

	geocoder.On("ForwardSearch", mock.Anything, "Chen", mock.Anything).
		Run(func(mock.Arguments) {
			close(chenStarted)
			<-releaseChen
		}).
		Return([]ports.AddressCandidate{
			{DisplayName: "Chengalpattu, Tamil Nadu, India", City: "Chengalpattu", State: "TN", Position: pos},
		}, nil)
	geocoder.On("ForwardSearch", mock.Anything, "Chennai", mock.Anything).
		Return(chennaiCandidates(), nil)

	handler := queries.NewSearchAddressesQueryHandler(geocoder, directory)

	chenQuery, err := queries.NewSearchAddressesQuery(customerID, "pickup", "Chen")
	require.NoError(t, err)
	chennaiQuery, err := queries.NewSearchAddressesQuery(customerID, "pickup", "Chennai")
	require.NoError(t, err)

	var chenResp queries.SearchAddressesQueryResponse
	var chenErr error
	chenDone := make(chan struct{})
	go func() {
		chenResp, chenErr = handler.Handle(ctx, chenQuery)
		close(chenDone)
	}()

	<-chenStarted
	chennaiResp, err := handler.Handle(ctx, chennaiQuery)
	require.NoError(t, err)

	close(releaseChen)
	<-chenDone

	require.NoError(t, chenErr)
	assert.True(t, chenResp.Superseded)
	assert.Empty(t, chenResp.Suggestions)

	assert.False(t, chennaiResp.Superseded)
	require.Len(t, chennaiResp.Suggestions, 1)
	assert.Equal(t, "Chennai", chennaiResp.Suggestions[0].City)
}

// Supersede tracking is scoped per suggestion list: a search by another
// customer finishing while this one is in flight must not discard it.
func TestSearchAddressesQueryHandler_OtherCustomerSearchDoesNotSupersede(t *testing.T) {
	ctx := context.Background()
	customerA := kernel.NewUUID()
	customerB := kernel.NewUUID()
	geocoder := new(MockGeocoder)
	directory := new(MockCustomerDirectory)

	directory.On("SavedAddresses", mock.Anything, mock.Anything).
		Return([]address.Address{}, nil)

	chennaiStarted := make(chan struct{})
	releaseChennai := make(chan struct{})
	mumbaiPos, _ := kernel.NewGeoPoint(19.08, 72.88)

	geocoder.On("ForwardSearch", mock.Anything, "Chennai", mock.Anything).
		Run(func(mock.Arguments) {
			close(chennaiStarted)
			<-releaseChennai
		}).
		Return(chennaiCandidates(), nil)
	geocoder.On("ForwardSearch", mock.Anything, "Mumbai", mock.Anything).
		Return([]ports.AddressCandidate{
			{DisplayName: "Mumbai, Maharashtra, India", City: "Mumbai", State: "MH", Position: mumbaiPos},
		}, nil)

	handler := queries.NewSearchAddressesQueryHandler(geocoder, directory)

	chennaiQuery, err := queries.NewSearchAddressesQuery(customerA, "pickup", "Chennai")
	require.NoError(t, err)
	mumbaiQuery, err := queries.NewSearchAddressesQuery(customerB, "pickup", "Mumbai")
	require.NoError(t, err)

	var chennaiResp queries.SearchAddressesQueryResponse
	var chennaiErr error
	chennaiDone := make(chan struct{})
	go func() {
		chennaiResp, chennaiErr = handler.Handle(ctx, chennaiQuery)
		close(chennaiDone)
	}()

	<-chennaiStarted
	mumbaiResp, err := handler.Handle(ctx, mumbaiQuery)
	require.NoError(t, err)
	assert.False(t, mumbaiResp.Superseded)

	close(releaseChennai)
	<-chennaiDone

	require.NoError(t, chennaiErr)
	assert.False(t, chennaiResp.Superseded)
	require.Len(t, chennaiResp.Suggestions, 1)
	assert.Equal(t, "Chennai", chennaiResp.Suggestions[0].City)
}

// The same customer's pickup and delivery fields are independent lists.
func TestSearchAddressesQueryHandler_OtherFieldSearchDoesNotSupersede(t *testing.T) {
	ctx := context.Background()
	customerID := kernel.NewUUID()
	geocoder := new(MockGeocoder)
	directory := new(MockCustomerDirectory)

	directory.On("SavedAddresses", mock.Anything, customerID).
		Return([]address.Address{}, nil)

	pickupStarted := make(chan struct{})
	releasePickup := make(chan struct{})
	bangalorePos, _ := kernel.NewGeoPoint(12.97, 77.59)

	geocoder.On("ForwardSearch", mock.Anything, "Chennai", mock.Anything).
		Run(func(mock.Arguments) {
			close(pickupStarted)
			<-releasePickup
		}).
		Return(chennaiCandidates(), nil)
	geocoder.On("ForwardSearch", mock.Anything, "Bangalore", mock.Anything).
		Return([]ports.AddressCandidate{
			{DisplayName: "Bangalore, Karnataka, India", City: "Bangalore", State: "KA", Position: bangalorePos},
		}, nil)

	handler := queries.NewSearchAddressesQueryHandler(geocoder, directory)

	pickupQuery, err := queries.NewSearchAddressesQuery(customerID, "pickup", "Chennai")
	require.NoError(t, err)
	deliveryQuery, err := queries.NewSearchAddressesQuery(customerID, "delivery", "Bangalore")
	require.NoError(t, err)

	var pickupResp queries.SearchAddressesQueryResponse
	var pickupErr error
	pickupDone := make(chan struct{})
	go func() {
		pickupResp, pickupErr = handler.Handle(ctx, pickupQuery)
		close(pickupDone)
	}()

	<-pickupStarted
	deliveryResp, err := handler.Handle(ctx, deliveryQuery)
	require.NoError(t, err)
	assert.False(t, deliveryResp.Superseded)

	close(releasePickup)
	<-pickupDone

	require.NoError(t, pickupErr)
	assert.False(t, pickupResp.Superseded)
	require.Len(t, pickupResp.Suggestions, 1)
	assert.Equal(t, "Chennai", pickupResp.Suggestions[0].City)
}

func TestSearchAddressesQueryHandler_InvalidQueryRejected(t *testing.T) {
	handler := queries.NewSearchAddressesQueryHandler(new(MockGeocoder), new(MockCustomerDirectory))

	_, err := handler.Handle(context.Background(), queries.SearchAddressesQuery{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be created via NewSearchAddressesQuery constructor")
}

func TestNewSearchAddressesQuery_Validation(t *testing.T) {
	t.Run("empty_text", func(t *testing.T) {
		_, err := queries.NewSearchAddressesQuery(kernel.NewUUID(), "pickup", "")
		require.ErrorIs(t, err, queries.ErrQueryTextIsRequired)
	})

	t.Run("empty_customer", func(t *testing.T) {
		_, err := queries.NewSearchAddressesQuery(kernel.UUID{}, "pickup", "Chennai")
		require.Error(t, err)
	})

	t.Run("empty_list_id", func(t *testing.T) {
		_, err := queries.NewSearchAddressesQuery(kernel.NewUUID(), "", "Chennai")
		require.ErrorIs(t, err, queries.ErrListIDIsRequired)
	})
}
