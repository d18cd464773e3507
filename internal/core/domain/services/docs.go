// Package services provides the domain services of the booking core.
// Currently that is the PricingEngine, which turns two endpoints, a package
// weight, and a carrier/group choice into a deterministic route quote.
package services
