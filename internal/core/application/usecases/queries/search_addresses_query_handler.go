package queries

import (
	"context"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"shipbook/internal/core/domain/model/address"
	"shipbook/internal/core/domain/model/kernel"
	"shipbook/internal/core/ports"
)

// defaultSuggestionLimit caps how many remote candidates one search requests.
const defaultSuggestionLimit = 10

// SearchAddressesQueryHandler merges a customer's saved addresses with live
// geocoder results into a ranked suggestion list. Saved matches always
// precede remote matches and are never replaced by them.
//
// Successive searches race against a generation counter held per suggestion
// list, keyed by customer and list id: each Handle call claims the next
// generation of its list before doing any I/O, and a response whose
// generation is no longer current comes back marked Superseded. This makes
// "last search wins" an explicit property instead of relying on response
// ordering, while searches into other lists (other customers, or the same
// customer's other address field) proceed independently.
type SearchAddressesQueryHandler struct {
	geocoder  ports.Geocoder
	directory ports.CustomerDirectory
	limit     int

	generations sync.Map // suggestionListKey to *atomic.Uint64
}

// suggestionListKey identifies one suggestion list for supersede tracking.
type suggestionListKey struct {
	customerID kernel.UUID
	listID     string
}

// NewSearchAddressesQueryHandler creates a search handler. A single instance
// serves all customers and lists concurrently.
func NewSearchAddressesQueryHandler(
	geocoder ports.Geocoder,
	directory ports.CustomerDirectory,
) *SearchAddressesQueryHandler {
	return &SearchAddressesQueryHandler{
		geocoder:  geocoder,
		directory: directory,
		limit:     defaultSuggestionLimit,
	}
}

// Handle runs one search. Saved addresses are filtered synchronously by
// case-insensitive substring match; a remote lookup is issued only when the
// text has at least MinRemoteQueryChars characters. A failing remote lookup
// degrades the result to saved-only matches instead of failing the search.
func (h *SearchAddressesQueryHandler) Handle(
	ctx context.Context,
	query SearchAddressesQuery,
) (SearchAddressesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return SearchAddressesQueryResponse{}, err
	}

	counter := h.listGeneration(suggestionListKey{
		customerID: query.CustomerID(),
		listID:     query.ListID(),
	})
	gen := counter.Add(1)

	saved, err := h.directory.SavedAddresses(ctx, query.CustomerID())
	if err != nil {
		return SearchAddressesQueryResponse{}, err
	}

	suggestions := make([]AddressSuggestion, 0, len(saved))
	for _, a := range saved {
		if !a.MatchesQuery(query.Text()) {
			continue
		}
		suggestions = append(suggestions, savedSuggestion(a, len(suggestions)))
	}

	degraded := false
	if utf8.RuneCountInString(query.Text()) >= MinRemoteQueryChars {
		candidates, remoteErr := h.geocoder.ForwardSearch(ctx, query.Text(), h.limit)
		if remoteErr != nil {
			degraded = true
		} else {
			for _, c := range candidates {
				suggestions = append(suggestions, remoteSuggestion(c, len(suggestions)))
			}
		}
	}

	if counter.Load() != gen {
		return SearchAddressesQueryResponse{Superseded: true}, nil
	}

	return SearchAddressesQueryResponse{
		Suggestions:    suggestions,
		RemoteDegraded: degraded,
	}, nil
}

func (h *SearchAddressesQueryHandler) listGeneration(key suggestionListKey) *atomic.Uint64 {
	if counter, ok := h.generations.Load(key); ok {
		return counter.(*atomic.Uint64)
	}

	counter, _ := h.generations.LoadOrStore(key, new(atomic.Uint64))
	return counter.(*atomic.Uint64)
}

func savedSuggestion(a address.Address, rank int) AddressSuggestion {
	s := AddressSuggestion{
		Source:      SuggestionSourceSaved,
		Rank:        rank,
		DisplayName: a.Line(),
		City:        a.City(),
		State:       a.State(),
		Pincode:     a.Pincode(),
	}

	if geo, ok := a.Geo(); ok {
		s.Position = geo
		s.HasPosition = true
	}

	return s
}

func remoteSuggestion(c ports.AddressCandidate, rank int) AddressSuggestion {
	return AddressSuggestion{
		Source:      SuggestionSourceRemote,
		Rank:        rank,
		DisplayName: address.ShortLine(c.DisplayName),
		City:        c.City,
		State:       c.State,
		Pincode:     c.Pincode,
		Position:    c.Position,
		HasPosition: true,
	}
}
