// Package delivery holds the delivery request aggregate and its lifecycle.
//
// The package includes:
//   - Request: the aggregate root, carrying the two stops, payment terms, status and courier
//   - Status: the linear state machine PENDING -> ACCEPTED -> PICKED_UP -> ARRIVED_DESTINATION -> DELIVERED
//   - Leg: the derived origin -> destination pair the courier is moving along
//   - Recipient, PaymentMethod, Payer: value objects
//
// Key business rules:
//   - A request starts PENDING and can only move to the direct successor of its status
//   - A failed transition leaves the request unchanged and returns *errs.InvalidTransitionError
//   - Accepting requires a courier and both stops resolved
//   - Addresses can be edited only while PENDING, and an edit drops the stop's coordinates
//   - Requests are never deleted; DELIVERED is a permanent record
package delivery
