package services_test

import (
	"testing"
	"time"

	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfferMatcher_Match(t *testing.T) {
	matcher := services.NewOfferMatcher()

	t.Run("offers the oldest pending request", func(t *testing.T) {
		c, s := newOnlineCourier(t)
		newest := newResolvedRequest(t, baseTime.Add(2*time.Minute))
		oldest := newResolvedRequest(t, baseTime)
		middle := newResolvedRequest(t, baseTime.Add(time.Minute))

		got, err := matcher.Match(c, false, s, []*delivery.Request{newest, oldest, middle})

		require.NoError(t, err)
		assert.True(t, got.IsEqual(oldest))
	})

	t.Run("ties are broken by id", func(t *testing.T) {
		c, s := newOnlineCourier(t)
		a := newResolvedRequest(t, baseTime)
		b := newResolvedRequest(t, baseTime)
		want := a
		if b.ID().Compare(a.ID()) < 0 {
			want = b
		}

		got, err := matcher.Match(c, false, s, []*delivery.Request{a, b})
		require.NoError(t, err)
		assert.True(t, got.IsEqual(want))

		got, err = matcher.Match(c, false, s, []*delivery.Request{b, a})
		require.NoError(t, err)
		assert.True(t, got.IsEqual(want))
	})

	t.Run("skips declined requests", func(t *testing.T) {
		c, s := newOnlineCourier(t)
		declined := newResolvedRequest(t, baseTime)
		next := newResolvedRequest(t, baseTime.Add(time.Second))
		require.NoError(t, s.Decline(declined.ID()))

		got, err := matcher.Match(c, false, s, []*delivery.Request{declined, next})

		require.NoError(t, err)
		assert.True(t, got.IsEqual(next))
	})

	t.Run("skips requests that are no longer pending", func(t *testing.T) {
		c, s := newOnlineCourier(t)
		taken := newResolvedRequest(t, baseTime)
		require.NoError(t, taken.Accept(kernel.NewUUID()))

		_, err := matcher.Match(c, false, s, []*delivery.Request{taken})

		require.ErrorIs(t, err, services.ErrNoPendingRequest)
	})

	t.Run("every pending request declined", func(t *testing.T) {
		c, s := newOnlineCourier(t)
		r := newResolvedRequest(t, baseTime)
		require.NoError(t, s.Decline(r.ID()))

		_, err := matcher.Match(c, false, s, []*delivery.Request{r})

		require.ErrorIs(t, err, services.ErrNoPendingRequest)
	})

	t.Run("busy courier gets nothing", func(t *testing.T) {
		c, s := newOnlineCourier(t)

		_, err := matcher.Match(c, true, s, []*delivery.Request{newResolvedRequest(t, baseTime)})

		require.ErrorIs(t, err, services.ErrCourierUnavailable)
	})

	t.Run("offline courier gets nothing", func(t *testing.T) {
		c, s := newOnlineCourier(t)
		c.GoOffline()

		_, err := matcher.Match(c, false, s, []*delivery.Request{newResolvedRequest(t, baseTime)})
		require.ErrorIs(t, err, services.ErrCourierUnavailable)

		c.GoOnline()
		_, err = matcher.Match(c, false, nil, []*delivery.Request{newResolvedRequest(t, baseTime)})
		require.ErrorIs(t, err, services.ErrCourierUnavailable)
	})

	t.Run("input order is not mutated", func(t *testing.T) {
		c, s := newOnlineCourier(t)
		newer := newResolvedRequest(t, baseTime.Add(time.Minute))
		older := newResolvedRequest(t, baseTime)
		pending := []*delivery.Request{newer, older}

		_, err := matcher.Match(c, false, s, pending)

		require.NoError(t, err)
		assert.True(t, pending[0].IsEqual(newer))
	})
}
