// Package services provides domain services that work across aggregates of the
// dispatch domain.
//
// The package includes:
//   - OfferMatcher: picks the next pending request to offer to an idle courier
//   - PositionSimulator: interpolates a simulated courier position along a leg
//   - Track: the per-leg progress driven by PositionSimulator
//
// Services are stateless values; callers own and serialize the aggregates they pass in.
package services
