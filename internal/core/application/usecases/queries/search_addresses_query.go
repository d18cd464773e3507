// Package queries contains read-side operations of the booking core.
// Query handlers never mutate aggregates; they either assemble suggestion
// lists from ports or read projections straight from the database.
package queries

import (
	"errors"

	"shipbook/internal/core/domain/model/kernel"
	"shipbook/internal/pkg/guard"
)

var (
	ErrSearchAddressesQueryIsNotConstructed = errors.New(
		"SearchAddressesQuery must be created via NewSearchAddressesQuery constructor",
	)
	ErrQueryTextIsRequired = errors.New("query text is required")
	ErrListIDIsRequired    = errors.New("suggestion list id is required")
)

// MinRemoteQueryChars is the minimum query length that triggers a remote
// geocoder lookup. Shorter queries filter saved addresses only.
const MinRemoteQueryChars = 3

// SuggestionSource tells where an address suggestion came from.
type SuggestionSource string

const (
	SuggestionSourceSaved  SuggestionSource = "saved"
	SuggestionSourceRemote SuggestionSource = "remote"
)

// AddressSuggestion is one entry of a search result list. Suggestions are
// ephemeral: they exist for the lifetime of a single search interaction and
// are never persisted.
type AddressSuggestion struct {
	Source      SuggestionSource
	Rank        int
	DisplayName string
	City        string
	State       string
	Pincode     string
	Position    kernel.GeoPoint
	HasPosition bool
}

// SearchAddressesQuery requests address suggestions for free text typed by
// a customer into one suggestion list.
type SearchAddressesQuery struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID
	listID     string
	text       string

	guard guard.ConstructorGuard
}

// NewSearchAddressesQuery creates a search query. The customer id scopes the
// saved-address filter. The list id names the suggestion list being filled
// (the pickup field and the delivery field are different lists): successive
// searches supersede each other only within the same list, so concurrent
// searches by other customers or into other fields never interfere.
func NewSearchAddressesQuery(customerID kernel.UUID, listID, text string) (SearchAddressesQuery, error) {
	query := SearchAddressesQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		query.setCustomerID(customerID),
		query.setListID(listID),
		query.setText(text),
	); err != nil {
		return SearchAddressesQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q SearchAddressesQuery) Validate() error {
	return q.guard.Validate(ErrSearchAddressesQueryIsNotConstructed)
}

// CustomerID returns the customer whose saved addresses are searched.
func (q SearchAddressesQuery) CustomerID() kernel.UUID {
	return q.customerID
}

// ListID returns the suggestion list this search fills.
func (q SearchAddressesQuery) ListID() string {
	return q.listID
}

// Text returns the raw search text.
func (q SearchAddressesQuery) Text() string {
	return q.text
}

func (q *SearchAddressesQuery) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	q.customerID = customerID
	return nil
}

func (q *SearchAddressesQuery) setListID(listID string) error {
	if listID == "" {
		return ErrListIDIsRequired
	}

	q.listID = listID
	return nil
}

func (q *SearchAddressesQuery) setText(text string) error {
	if text == "" {
		return ErrQueryTextIsRequired
	}

	q.text = text
	return nil
}

// SearchAddressesQueryResponse is the outcome of one search. When Superseded
// is set a newer search started while this one was in flight: the caller must
// discard the response without touching the suggestion list. RemoteDegraded
// reports that the geocoder could not be reached and only saved matches are
// present.
type SearchAddressesQueryResponse struct {
	Suggestions    []AddressSuggestion
	Superseded     bool
	RemoteDegraded bool
}
