package geocode_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"shipbook/internal/adapters/out/geocode"
	"shipbook/internal/core/domain/model/kernel"
	"shipbook/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ForwardSearch_ParsesCandidates(t *testing.T) {
	var gotQuery, gotLimit string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		gotQuery = r.URL.Query().Get("q")
		gotLimit = r.URL.Query().Get("limit")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{
				"display_name": "Anna Salai, Chennai, Tamil Nadu, 600002, India",
				"lat": "13.0631",
				"lon": "80.2641",
				"address": {
					"city": "Chennai",
					"state": "Tamil Nadu",
					"postcode": "600002"
				}
			},
			{
				"display_name": "Anna Nagar, Madurai, Tamil Nadu, India",
				"lat": "9.9252",
				"lon": "78.1198",
				"address": {
					"town": "Madurai",
					"state": "Tamil Nadu"
				}
			}
		]`))
	}))
	defer server.Close()

	client := geocode.NewClient(server.URL)

	candidates, err := client.ForwardSearch(context.Background(), "anna", 5)

	require.NoError(t, err)
	assert.Equal(t, "anna", gotQuery)
	assert.Equal(t, "5", gotLimit)
	require.Len(t, candidates, 2)

	assert.Equal(t, "Anna Salai, Chennai, Tamil Nadu, 600002, India", candidates[0].DisplayName)
	assert.Equal(t, "Chennai", candidates[0].City)
	assert.Equal(t, "Tamil Nadu", candidates[0].State)
	assert.Equal(t, "600002", candidates[0].Pincode)
	assert.InDelta(t, 13.0631, candidates[0].Position.Lat(), 1e-9)
	assert.InDelta(t, 80.2641, candidates[0].Position.Lng(), 1e-9)

	// town is used when no city is labelled
	assert.Equal(t, "Madurai", candidates[1].City)
	assert.Empty(t, candidates[1].Pincode)
}

func Test_ForwardSearch_SkipsResultsWithoutCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"display_name": "Nowhere", "lat": "", "lon": ""},
			{"display_name": "Somewhere", "lat": "13.05", "lon": "80.25", "address": {"city": "Chennai"}}
		]`))
	}))
	defer server.Close()

	client := geocode.NewClient(server.URL)

	candidates, err := client.ForwardSearch(context.Background(), "where", 5)

	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Somewhere", candidates[0].DisplayName)
}

func Test_ForwardSearch_ServerErrorIsProviderUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := geocode.NewClient(server.URL)

	_, err := client.ForwardSearch(context.Background(), "anna", 5)

	require.ErrorIs(t, err, errs.ErrProviderUnavailable)
}

func Test_ForwardSearch_UnreachableHostIsProviderUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listens anymore

	client := geocode.NewClient(server.URL)

	_, err := client.ForwardSearch(context.Background(), "anna", 5)

	require.ErrorIs(t, err, errs.ErrProviderUnavailable)
}

func Test_ReverseLookup_ResolvesPosition(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "13.0631", r.URL.Query().Get("lat"))
		assert.Equal(t, "80.2641", r.URL.Query().Get("lon"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"display_name": "Anna Salai, Chennai, Tamil Nadu, 600002, India",
			"lat": "13.0631",
			"lon": "80.2641",
			"address": {"city": "Chennai", "state": "Tamil Nadu", "postcode": "600002"}
		}`))
	}))
	defer server.Close()

	client := geocode.NewClient(server.URL)
	position, err := kernel.NewGeoPoint(13.0631, 80.2641)
	require.NoError(t, err)

	candidate, err := client.ReverseLookup(context.Background(), position)

	require.NoError(t, err)
	assert.Equal(t, "Chennai", candidate.City)
	assert.Equal(t, "600002", candidate.Pincode)
}

func Test_ReverseLookup_NothingAtPositionIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error": "Unable to geocode"}`))
	}))
	defer server.Close()

	client := geocode.NewClient(server.URL)
	position, err := kernel.NewGeoPoint(0.0001, 0.0001)
	require.NoError(t, err)

	_, err = client.ReverseLookup(context.Background(), position)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func Test_ReverseLookup_CancelledContextAborts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := geocode.NewClient(server.URL)
	position, err := kernel.NewGeoPoint(13.0631, 80.2641)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.ReverseLookup(ctx, position)

	require.Error(t, err)
}
