// Package http exposes the booking flow over a REST API.
package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"shipbook/internal/adapters/out/devicefix"
	"shipbook/internal/core/application/usecases/commands"
	"shipbook/internal/core/application/usecases/queries"
	"shipbook/internal/core/domain/model/address"
	"shipbook/internal/core/domain/model/booking"
	"shipbook/internal/core/domain/model/kernel"
	"shipbook/internal/core/ports"
	"shipbook/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	startBookingHandler  commands.StartBookingCommandHandler
	submitDetailsHandler commands.SubmitDetailsCommandHandler
	selectRateHandler    commands.SelectRateCommandHandler
	checkoutHandler      *commands.CheckoutCommandHandler
	verifyPaymentHandler *commands.VerifyPaymentCommandHandler

	// Query handlers
	searchAddressesHandler *queries.SearchAddressesQueryHandler
	deviceLocationHandler  queries.ResolveDeviceLocationQueryHandler
	mapPointHandler        queries.ResolveMapPointQueryHandler
	getOrderHandler        queries.GetOrderQueryHandler
	pendingOrdersHandler   queries.GetPendingOrdersQueryHandler
}

// NewServer creates an HTTP server with the required command and query
// handlers.
func NewServer(
	startBookingHandler commands.StartBookingCommandHandler,
	submitDetailsHandler commands.SubmitDetailsCommandHandler,
	selectRateHandler commands.SelectRateCommandHandler,
	checkoutHandler *commands.CheckoutCommandHandler,
	verifyPaymentHandler *commands.VerifyPaymentCommandHandler,
	searchAddressesHandler *queries.SearchAddressesQueryHandler,
	deviceLocationHandler queries.ResolveDeviceLocationQueryHandler,
	mapPointHandler queries.ResolveMapPointQueryHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	pendingOrdersHandler queries.GetPendingOrdersQueryHandler,
) *Server {
	return &Server{
		startBookingHandler:    startBookingHandler,
		submitDetailsHandler:   submitDetailsHandler,
		selectRateHandler:      selectRateHandler,
		checkoutHandler:        checkoutHandler,
		verifyPaymentHandler:   verifyPaymentHandler,
		searchAddressesHandler: searchAddressesHandler,
		deviceLocationHandler:  deviceLocationHandler,
		mapPointHandler:        mapPointHandler,
		getOrderHandler:        getOrderHandler,
		pendingOrdersHandler:   pendingOrdersHandler,
	}
}

// RegisterRoutes binds every endpoint on the given echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	e.POST("/bookings", s.StartBooking)
	e.PUT("/bookings/:id/details", s.SubmitDetails)
	e.POST("/bookings/:id/selection", s.SelectRate)
	e.POST("/bookings/:id/checkout", s.Checkout)

	e.GET("/addresses/search", s.SearchAddresses)
	e.GET("/addresses/device-location", s.ResolveDeviceLocation)
	e.GET("/addresses/map-point", s.ResolveMapPoint)

	e.GET("/orders/:id", s.GetOrder)
	e.GET("/orders/pending", s.GetPendingOrders)
	e.POST("/orders/:id/verify-payment", s.VerifyPayment)
}

// Error is the JSON error body every endpoint uses.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// StartBooking handles POST /bookings - opens a new booking session.
func (s *Server) StartBooking(ctx echo.Context) error {
	bookingID := kernel.NewUUID()

	cmd, err := commands.NewStartBookingCommand(bookingID)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.startBookingHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{
		"bookingId": bookingID.String(),
	})
}

// AddressRequest is one endpoint of a booking in a request body.
type AddressRequest struct {
	Line         string   `json:"line"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Pincode      string   `json:"pincode"`
	ContactName  string   `json:"contactName"`
	ContactPhone string   `json:"contactPhone"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
}

// ParcelRequest is the package profile in a request body.
type ParcelRequest struct {
	Kind     string   `json:"kind"`
	WeightKg float64  `json:"weightKg"`
	Fragile  bool     `json:"fragile"`
	LengthCm *float64 `json:"lengthCm"`
	WidthCm  *float64 `json:"widthCm"`
	HeightCm *float64 `json:"heightCm"`
}

// SubmitDetailsRequest is the body of PUT /bookings/:id/details.
type SubmitDetailsRequest struct {
	Pickup   AddressRequest `json:"pickup"`
	Delivery AddressRequest `json:"delivery"`
	Parcel   ParcelRequest  `json:"parcel"`
}

// SubmitDetails handles PUT /bookings/:id/details.
func (s *Server) SubmitDetails(ctx echo.Context) error {
	bookingID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	var req SubmitDetailsRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	pickup, err := req.Pickup.toDomain()
	if err != nil {
		return s.fail(ctx, err)
	}
	delivery, err := req.Delivery.toDomain()
	if err != nil {
		return s.fail(ctx, err)
	}
	parcel, err := req.Parcel.toDomain()
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewSubmitDetailsCommand(bookingID, pickup, delivery, parcel)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.submitDetailsHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SelectRateRequest is the body of POST /bookings/:id/selection.
type SelectRateRequest struct {
	Kind            string  `json:"kind"`
	RefID           string  `json:"refId"`
	PerKm           float64 `json:"perKm"`
	PerKg           float64 `json:"perKg"`
	DiscountPercent float64 `json:"discountPercent"`
}

// QuoteResponse is the priced quote returned after a rate selection.
type QuoteResponse struct {
	DistanceKm     float64 `json:"distanceKm"`
	EtaDays        string  `json:"etaDays"`
	Selection      string  `json:"selection"`
	DistanceCharge float64 `json:"distanceCharge"`
	WeightCharge   float64 `json:"weightCharge"`
	GroupDiscount  float64 `json:"groupDiscount"`
	Tax            float64 `json:"tax"`
	Total          float64 `json:"total"`
}

// SelectRate handles POST /bookings/:id/selection - prices the booking for
// the chosen carrier or group rate.
func (s *Server) SelectRate(ctx echo.Context) error {
	bookingID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	var req SelectRateRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	rate := booking.Rate{PerKm: req.PerKm, PerKg: req.PerKg}

	var selection booking.RateSelection
	switch req.Kind {
	case "carrier":
		selection, err = booking.NewCarrierSelection(req.RefID, rate)
	case "group":
		selection, err = booking.NewGroupSelection(req.RefID, rate, req.DiscountPercent)
	default:
		err = errs.NewValueIsInvalidError("kind")
	}
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewSelectRateCommand(bookingID, selection)
	if err != nil {
		return s.fail(ctx, err)
	}

	quote, err := s.selectRateHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	breakdown := quote.Breakdown().Rounded()
	return ctx.JSON(http.StatusOK, QuoteResponse{
		DistanceKm:     quote.DistanceKm(),
		EtaDays:        quote.EtaDays(),
		Selection:      quote.Selection(),
		DistanceCharge: breakdown.DistanceCharge,
		WeightCharge:   breakdown.WeightCharge,
		GroupDiscount:  breakdown.GroupDiscount,
		Tax:            breakdown.Tax,
		Total:          breakdown.Total,
	})
}

// CheckoutResponse is the outcome of a checkout attempt. Warning is set
// only when the payment failed and the automatic order cancellation failed
// too; the order is then left pending for the stale-order sweep.
type CheckoutResponse struct {
	OrderID      string `json:"orderId,omitempty"`
	Outcome      string `json:"outcome"`
	CancelReason string `json:"cancelReason,omitempty"`
	Warning      string `json:"warning,omitempty"`
}

// Checkout handles POST /bookings/:id/checkout - runs the payment stage.
func (s *Server) Checkout(ctx echo.Context) error {
	bookingID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	cmd, err := commands.NewCheckoutCommand(bookingID)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.checkoutHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		if errors.Is(err, commands.ErrCompensationFailed) {
			return ctx.JSON(http.StatusBadGateway, CheckoutResponse{
				Outcome: "failed",
				Warning: err.Error(),
			})
		}
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, CheckoutResponse{
		OrderID:      result.OrderID.String(),
		Outcome:      result.Outcome,
		CancelReason: result.CancelReason,
	})
}

// VerifyPayment handles POST /orders/:id/verify-payment - re-checks a
// payment whose verification was unreachable during checkout.
func (s *Server) VerifyPayment(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	cmd, err := commands.NewVerifyPaymentCommand(orderID)
	if err != nil {
		return s.fail(ctx, err)
	}

	if _, err := s.verifyPaymentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SuggestionResponse is one address suggestion in a search result.
type SuggestionResponse struct {
	Source      string   `json:"source"`
	Rank        int      `json:"rank"`
	DisplayName string   `json:"displayName"`
	City        string   `json:"city,omitempty"`
	State       string   `json:"state,omitempty"`
	Pincode     string   `json:"pincode,omitempty"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
}

// SearchAddressesResponse is the body of GET /addresses/search.
type SearchAddressesResponse struct {
	Suggestions    []SuggestionResponse `json:"suggestions"`
	RemoteDegraded bool                 `json:"remoteDegraded"`
}

// SearchAddresses handles GET /addresses/search - merges saved and remote
// address suggestions for typed text. Superseded results (a newer search
// started while this one was in flight) return 204 so stale suggestion
// lists never reach the screen.
func (s *Server) SearchAddresses(ctx echo.Context) error {
	customerID, err := kernel.UUIDFromString(ctx.QueryParam("customerId"))
	if err != nil {
		return s.fail(ctx, errs.NewValueIsInvalidErrorWithCause("customerId", err))
	}

	// The field param names the suggestion list being filled (e.g. "pickup"
	// or "delivery") so concurrent searches into other fields or by other
	// customers never supersede this one.
	field := ctx.QueryParam("field")
	if field == "" {
		return s.fail(ctx, errs.NewValueIsRequiredError("field"))
	}

	query, err := queries.NewSearchAddressesQuery(customerID, field, ctx.QueryParam("q"))
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.searchAddressesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	if result.Superseded {
		return ctx.NoContent(http.StatusNoContent)
	}

	suggestions := make([]SuggestionResponse, len(result.Suggestions))
	for i, sg := range result.Suggestions {
		item := SuggestionResponse{
			Source:      string(sg.Source),
			Rank:        sg.Rank,
			DisplayName: sg.DisplayName,
			City:        sg.City,
			State:       sg.State,
			Pincode:     sg.Pincode,
		}
		if sg.HasPosition {
			lat, lng := sg.Position.Lat(), sg.Position.Lng()
			item.Lat, item.Lng = &lat, &lng
		}
		suggestions[i] = item
	}

	return ctx.JSON(http.StatusOK, SearchAddressesResponse{
		Suggestions:    suggestions,
		RemoteDegraded: result.RemoteDegraded,
	})
}

// ResolvedAddressResponse is an address produced from a device position or
// a map pick.
type ResolvedAddressResponse struct {
	Line      string   `json:"line"`
	City      string   `json:"city,omitempty"`
	State     string   `json:"state,omitempty"`
	Pincode   string   `json:"pincode,omitempty"`
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`
	AccuracyM float64  `json:"accuracyM,omitempty"`
	Precise   bool     `json:"precise"`
}

// ResolveDeviceLocation handles GET /addresses/device-location. The GPS
// hardware is on the caller's device, so the device reports either its fix
// (lat, lng, accuracyM) or a failure reason, and the server resolves it to
// an address.
func (s *Server) ResolveDeviceLocation(ctx echo.Context) error {
	reqCtx, err := s.deviceFixContext(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	query := queries.NewResolveDeviceLocationQuery()

	result, err := s.deviceLocationHandler.Handle(reqCtx, query)
	if err != nil {
		return s.fail(ctx, err)
	}

	resp := resolvedAddressResponse(result.Address)
	resp.AccuracyM = result.AccuracyM
	resp.Precise = result.Precise
	return ctx.JSON(http.StatusOK, resp)
}

// ResolveMapPoint handles GET /addresses/map-point.
func (s *Server) ResolveMapPoint(ctx echo.Context) error {
	lat, err := strconvFloat(ctx.QueryParam("lat"), "lat")
	if err != nil {
		return s.fail(ctx, err)
	}
	lng, err := strconvFloat(ctx.QueryParam("lng"), "lng")
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewResolveMapPointQuery(lat, lng)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.mapPointHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	resp := resolvedAddressResponse(result.Address)
	resp.Precise = true
	return ctx.JSON(http.StatusOK, resp)
}

// OrderResponse is the body of GET /orders/:id.
type OrderResponse struct {
	ID              string  `json:"id"`
	BookingID       string  `json:"bookingId"`
	Status          string  `json:"status"`
	Amount          float64 `json:"amount"`
	PaymentIntentID string  `json:"paymentIntentId,omitempty"`
	CancelReason    string  `json:"cancelReason,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	PickupCity      string  `json:"pickupCity"`
	DeliveryCity    string  `json:"deliveryCity"`
	EtaDays         string  `json:"etaDays"`
}

// GetOrder handles GET /orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OrderResponse{
		ID:              result.ID.String(),
		BookingID:       result.BookingID.String(),
		Status:          result.Status,
		Amount:          result.Amount,
		PaymentIntentID: result.PaymentIntentID,
		CancelReason:    result.CancelReason,
		CreatedAt:       result.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		PickupCity:      result.PickupCity,
		DeliveryCity:    result.DeliveryCity,
		EtaDays:         result.EtaDays,
	})
}

// PendingOrderResponse is one row of GET /orders/pending.
type PendingOrderResponse struct {
	ID           string  `json:"id"`
	Amount       float64 `json:"amount"`
	CreatedAt    string  `json:"createdAt"`
	PickupCity   string  `json:"pickupCity"`
	DeliveryCity string  `json:"deliveryCity"`
}

// GetPendingOrders handles GET /orders/pending.
func (s *Server) GetPendingOrders(ctx echo.Context) error {
	query := queries.NewGetPendingOrdersQuery()

	result, err := s.pendingOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]PendingOrderResponse, len(result))
	for i, row := range result {
		response[i] = PendingOrderResponse{
			ID:           row.ID.String(),
			Amount:       row.Amount,
			CreatedAt:    row.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
			PickupCity:   row.PickupCity,
			DeliveryCity: row.DeliveryCity,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// deviceFixContext translates the device's query parameters into a context
// the location provider can read.
func (s *Server) deviceFixContext(ctx echo.Context) (context.Context, error) {
	reqCtx := ctx.Request().Context()

	switch ctx.QueryParam("failure") {
	case "":
	case "permission-denied":
		return devicefix.WithFailure(reqCtx, ports.ErrLocationPermissionDenied), nil
	case "unavailable":
		return devicefix.WithFailure(reqCtx, ports.ErrLocationUnavailable), nil
	case "timeout":
		return devicefix.WithFailure(reqCtx, ports.ErrLocationTimeout), nil
	default:
		return nil, errs.NewValueIsInvalidError("failure")
	}

	lat, err := strconvFloat(ctx.QueryParam("lat"), "lat")
	if err != nil {
		return nil, err
	}
	lng, err := strconvFloat(ctx.QueryParam("lng"), "lng")
	if err != nil {
		return nil, err
	}
	accuracy, err := strconvFloat(ctx.QueryParam("accuracyM"), "accuracyM")
	if err != nil {
		return nil, err
	}

	position, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return nil, err
	}

	return devicefix.WithFix(reqCtx, ports.PositionFix{
		Position:  position,
		AccuracyM: accuracy,
	}), nil
}

// fail maps application errors onto HTTP statuses.
func (s *Server) fail(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrPermissionDenied),
		errors.Is(err, ports.ErrLocationPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, errs.ErrProviderUnavailable),
		errors.Is(err, ports.ErrLocationUnavailable),
		errors.Is(err, ports.ErrLocationTimeout):
		status = http.StatusServiceUnavailable
	}

	return ctx.JSON(status, Error{Code: status, Message: err.Error()})
}

func resolvedAddressResponse(a address.Address) ResolvedAddressResponse {
	resp := ResolvedAddressResponse{
		Line:    a.Line(),
		City:    a.City(),
		State:   a.State(),
		Pincode: a.Pincode(),
	}
	if geo, ok := a.Geo(); ok {
		lat, lng := geo.Lat(), geo.Lng()
		resp.Lat, resp.Lng = &lat, &lng
	}
	return resp
}

func (r AddressRequest) toDomain() (address.Address, error) {
	a, err := address.NewAddress(r.Line, r.City, r.State, r.Pincode)
	if err != nil {
		return address.Address{}, err
	}

	if r.Lat != nil && r.Lng != nil {
		geo, geoErr := kernel.NewGeoPoint(*r.Lat, *r.Lng)
		if geoErr != nil {
			return address.Address{}, geoErr
		}
		a, err = a.WithGeo(geo)
		if err != nil {
			return address.Address{}, err
		}
	}

	if r.ContactName != "" || r.ContactPhone != "" {
		a, err = a.WithContact(r.ContactName, r.ContactPhone)
		if err != nil {
			return address.Address{}, err
		}
	}

	return a, nil
}

func (r ParcelRequest) toDomain() (booking.Parcel, error) {
	parcel, err := booking.NewParcel(r.Kind, r.WeightKg, r.Fragile)
	if err != nil {
		return booking.Parcel{}, err
	}

	if r.LengthCm != nil && r.WidthCm != nil && r.HeightCm != nil {
		parcel, err = parcel.WithDimensions(*r.LengthCm, *r.WidthCm, *r.HeightCm)
		if err != nil {
			return booking.Parcel{}, err
		}
	}

	return parcel, nil
}

func strconvFloat(raw, param string) (float64, error) {
	if raw == "" {
		return 0, errs.NewValueIsRequiredError(param)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return value, nil
}
