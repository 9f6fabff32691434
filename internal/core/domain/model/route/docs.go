// Package route holds Path, the ordered polyline a courier follows along a leg,
// and the deterministic L-shaped path used when no routing service answers.
package route
