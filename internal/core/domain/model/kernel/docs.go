// Package kernel provides the shared value objects of the dispatch domain.
//
// The package includes:
//   - UUID: identifier for delivery requests and couriers
//   - Location: a validated WGS84 coordinate pair with haversine distance
//   - Address: the structured postal address typed by a user
//   - Precision: the confidence tier of a resolved coordinate (exact > street > neighborhood > city)
//   - Place: a resolved Address (location, display name, precision)
//
// All types are immutable values. Their zero values are invalid and fail Validate,
// which lets aggregates tell "not set" apart from "set".
package kernel
