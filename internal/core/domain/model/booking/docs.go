// Package booking contains the in-progress booking draft and its value
// objects: the package profile (Parcel), the carrier-or-group choice
// (RateSelection), the derived price/ETA (RouteQuote), and the Stage state
// machine that gates the collect → quote → review → pay sequence.
//
// A Draft is owned by exactly one booking session for its whole lifetime.
// Nothing here persists; the durable Order aggregate snapshots the draft
// when payment begins.
package booking
