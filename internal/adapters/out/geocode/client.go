// Package geocode is an HTTP client for a Nominatim-compatible geocoding
// service, implementing the ports.Geocoder interface.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"shipbook/internal/core/domain/model/kernel"
	"shipbook/internal/core/ports"
	"shipbook/internal/pkg/errs"
)

const (
	providerName = "geocoder"

	defaultTimeout = 10 * time.Second
)

// Client talks to a forward/reverse geocoding endpoint over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a geocoder client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// NewClientWithHTTPClient allows injecting an http.Client, used in tests.
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// geocodeResult is the provider's wire format for one match.
type geocodeResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Error       string `json:"error"`
	Address     struct {
		City     string `json:"city"`
		Town     string `json:"town"`
		Village  string `json:"village"`
		State    string `json:"state"`
		Postcode string `json:"postcode"`
	} `json:"address"`
}

// ForwardSearch returns up to limit candidates for a free-text query, best
// match first. Results the provider returns without usable coordinates are
// skipped.
func (c *Client) ForwardSearch(ctx context.Context, query string, limit int) ([]ports.AddressCandidate, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("limit", strconv.Itoa(limit))

	var results []geocodeResult
	if err := c.getJSON(ctx, "/search", params, &results); err != nil {
		return nil, err
	}

	candidates := make([]ports.AddressCandidate, 0, len(results))
	for _, r := range results {
		candidate, err := r.toCandidate()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

// ReverseLookup resolves a position to the nearest address. Returns
// errs.ObjectNotFoundError when the provider knows nothing at that point.
func (c *Client) ReverseLookup(ctx context.Context, position kernel.GeoPoint) (ports.AddressCandidate, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(position.Lat(), 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(position.Lng(), 'f', -1, 64))
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")

	var result geocodeResult
	if err := c.getJSON(ctx, "/reverse", params, &result); err != nil {
		return ports.AddressCandidate{}, err
	}

	if result.Error != "" || result.DisplayName == "" {
		return ports.AddressCandidate{}, errs.NewObjectNotFoundError(
			"address",
			fmt.Sprintf("%f,%f", position.Lat(), position.Lng()),
		)
	}

	return result.toCandidate()
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+path+"?"+params.Encode(),
		nil,
	)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.NewProviderUnavailableError(providerName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errs.NewProviderUnavailableError(
			providerName,
			fmt.Errorf("unexpected status %d", resp.StatusCode),
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.NewProviderUnavailableError(providerName, err)
	}
	return nil
}

func (r geocodeResult) toCandidate() (ports.AddressCandidate, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return ports.AddressCandidate{}, errs.NewValueIsInvalidErrorWithCause("lat", err)
	}
	lng, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return ports.AddressCandidate{}, errs.NewValueIsInvalidErrorWithCause("lon", err)
	}

	position, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return ports.AddressCandidate{}, err
	}

	return ports.AddressCandidate{
		DisplayName: r.DisplayName,
		City:        r.cityName(),
		State:       r.Address.State,
		Pincode:     r.Address.Postcode,
		Position:    position,
	}, nil
}

// cityName picks the most specific locality the provider labelled.
func (r geocodeResult) cityName() string {
	switch {
	case r.Address.City != "":
		return r.Address.City
	case r.Address.Town != "":
		return r.Address.Town
	default:
		return r.Address.Village
	}
}
