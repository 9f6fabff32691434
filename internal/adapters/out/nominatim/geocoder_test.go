package nominatim_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"courier-dispatch/internal/adapters/out/nominatim"
	"courier-dispatch/internal/pkg/errs"
	"courier-dispatch/internal/pkg/httpx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, body string, seen *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			http.NotFound(w, r)
			return
		}
		if seen != nil {
			*seen = r.URL.Query().Get("q")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGeocoder_Search_ReturnsFirstHit(t *testing.T) {
	// Arrange
	var query string
	srv := newServer(t, `[
		{"lat":"-23.5613","lon":"-46.6565","display_name":"Avenida Paulista, 1000, Sao Paulo"},
		{"lat":"0","lon":"0","display_name":"ignored"}
	]`, &query)
	geocoder := nominatim.NewGeocoder(httpx.NewClient(), srv.URL+"/")

	// Act
	hit, err := geocoder.Search(t.Context(), "Avenida Paulista, 1000, Sao Paulo")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Avenida Paulista, 1000, Sao Paulo", query)
	assert.InDelta(t, -23.5613, hit.Location.Lat(), 1e-9)
	assert.InDelta(t, -46.6565, hit.Location.Lng(), 1e-9)
	assert.Equal(t, "Avenida Paulista, 1000, Sao Paulo", hit.DisplayName)
}

func TestGeocoder_Search_EmptyResultIsNotFound(t *testing.T) {
	// Arrange
	srv := newServer(t, `[]`, nil)
	geocoder := nominatim.NewGeocoder(httpx.NewClient(), srv.URL)

	// Act
	_, err := geocoder.Search(t.Context(), "Nowhere")

	// Assert
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGeocoder_Search_MalformedCoordinates(t *testing.T) {
	// Arrange
	srv := newServer(t, `[{"lat":"north","lon":"-46.6","display_name":"x"}]`, nil)
	geocoder := nominatim.NewGeocoder(httpx.NewClient(), srv.URL)

	// Act
	_, err := geocoder.Search(t.Context(), "Rua A")

	// Assert
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestGeocoder_Search_ServerError(t *testing.T) {
	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	geocoder := nominatim.NewGeocoder(httpx.NewClient(), srv.URL)

	// Act
	_, err := geocoder.Search(t.Context(), "Rua A")

	// Assert
	var statusErr *httpx.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.NotErrorIs(t, err, errs.ErrObjectNotFound)
}
