// Package nominatim implements ports.Geocoder over the OpenStreetMap Nominatim search API.
package nominatim

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/ports"
	"courier-dispatch/internal/pkg/errs"
	"courier-dispatch/internal/pkg/httpx"
)

// DefaultBaseURL is the public instance. Its usage policy allows one request per second
// and requires an identifying User-Agent.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

var _ ports.Geocoder = (*Geocoder)(nil)

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type Geocoder struct {
	client  *httpx.Client
	baseURL string
}

// NewGeocoder creates a Geocoder. An empty baseURL selects DefaultBaseURL.
func NewGeocoder(client *httpx.Client, baseURL string) *Geocoder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Geocoder{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Search returns the best match for query. An empty result list is reported as
// an errs.ObjectNotFoundError.
func (g *Geocoder) Search(ctx context.Context, query string) (ports.GeocodeHit, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", "1")

	var results []searchResult
	if err := g.client.GetJSON(ctx, g.baseURL+"/search", params, &results); err != nil {
		return ports.GeocodeHit{}, fmt.Errorf("nominatim search: %w", err)
	}
	if len(results) == 0 {
		return ports.GeocodeHit{}, errs.NewObjectNotFoundError("geocode", query)
	}

	location, err := parseLocation(results[0].Lat, results[0].Lon)
	if err != nil {
		return ports.GeocodeHit{}, fmt.Errorf("nominatim search: %w", err)
	}
	return ports.GeocodeHit{
		Location:    location,
		DisplayName: results[0].DisplayName,
	}, nil
}

func parseLocation(lat, lon string) (kernel.Location, error) {
	latValue, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return kernel.Location{}, errs.NewValueIsInvalidErrorWithCause("lat", err)
	}
	lonValue, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return kernel.Location{}, errs.NewValueIsInvalidErrorWithCause("lon", err)
	}
	return kernel.NewLocation(latValue, lonValue)
}
