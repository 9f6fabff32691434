package osrm_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"courier-dispatch/internal/adapters/out/osrm"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/pkg/httpx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, handler http.HandlerFunc) *osrm.Router {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return osrm.NewRouter(httpx.NewClient(), srv.URL)
}

func TestRouter_Route(t *testing.T) {
	// Arrange
	var path, geometries string
	router := newRouter(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		geometries = r.URL.Query().Get("geometries")
		_, _ = w.Write([]byte(`{"code":"Ok","routes":[{"geometry":{"coordinates":[[0,0],[0.5,0.1],[1,1]]}}]}`))
	})

	// Act
	points, err := router.Route(t.Context(), kernel.MustNewLocation(0, 0), kernel.MustNewLocation(1, 1))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "/route/v1/driving/0.000000,0.000000;1.000000,1.000000", path)
	assert.Equal(t, "geojson", geometries)
	require.Len(t, points, 3)
	assert.InDelta(t, 0.1, points[1].Lat(), 1e-9)
	assert.InDelta(t, 0.5, points[1].Lng(), 1e-9)
}

func TestRouter_Route_NoRouteCode(t *testing.T) {
	// Arrange
	router := newRouter(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":"NoRoute","message":"Impossible route between points"}`))
	})

	// Act
	_, err := router.Route(t.Context(), kernel.MustNewLocation(0, 0), kernel.MustNewLocation(1, 1))

	// Assert
	require.ErrorContains(t, err, "NoRoute")
}

func TestRouter_Route_EmptyRoutes(t *testing.T) {
	// Arrange
	router := newRouter(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":"Ok","routes":[]}`))
	})

	// Act
	points, err := router.Route(t.Context(), kernel.MustNewLocation(0, 0), kernel.MustNewLocation(1, 1))

	// Assert
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestRouter_Route_TransportError(t *testing.T) {
	// Arrange
	router := newRouter(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	// Act
	_, err := router.Route(t.Context(), kernel.MustNewLocation(0, 0), kernel.MustNewLocation(1, 1))

	// Assert
	var statusErr *httpx.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.Code)
}
