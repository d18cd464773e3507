// Package address contains the postal address value object shared by address
// resolution, pricing, and the booking orchestrator, plus the short-line
// synthesis rule for geocoder display strings.
package address
