// Package courier provides the Courier aggregate: identity, last known position and
// online availability of a person delivering requests.
//
// Business rules:
//   - Courier must have a valid UUID, a non-empty name and a valid location
//   - New couriers start offline
//   - Busy is derived from the assigned requests, not stored on the courier
package courier
