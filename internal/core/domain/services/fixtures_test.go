package services_test

import (
	"testing"
	"time"

	"courier-dispatch/internal/core/domain/model/courier"
	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/domain/model/session"

	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newResolvedRequest(t *testing.T, createdAt time.Time) *delivery.Request {
	t.Helper()

	recipient, err := delivery.NewRecipient("Maria", "")
	require.NoError(t, err)

	r, err := delivery.NewRequest(
		kernel.NewUUID(), "Box", recipient,
		kernel.NewAddress("Rua X", "100", "", "Y"),
		kernel.NewAddress("Rua Z", "5", "", "Y"),
		delivery.PaymentCash, delivery.PayerRecipient, createdAt,
	)
	require.NoError(t, err)

	pickup, err := kernel.NewPlace(kernel.MustNewLocation(0, 0), "pickup", kernel.PrecisionExact)
	require.NoError(t, err)
	dropoff, err := kernel.NewPlace(kernel.MustNewLocation(0, 1), "dropoff", kernel.PrecisionStreet)
	require.NoError(t, err)
	require.NoError(t, r.ResolveStop(delivery.StopPickup, pickup))
	require.NoError(t, r.ResolveStop(delivery.StopDropoff, dropoff))
	return r
}

func newOnlineCourier(t *testing.T) (*courier.Courier, *session.Session) {
	t.Helper()

	c, err := courier.NewCourier(kernel.NewUUID(), "Rider", kernel.MustNewLocation(1, 1))
	require.NoError(t, err)
	c.GoOnline()

	s, err := session.NewSession(c.ID(), baseTime)
	require.NoError(t, err)
	return c, s
}
