// Package ors talks to OpenRouteService. It provides both a ports.Geocoder
// (/geocode/search) and a ports.Router (/v2/directions).
//
// GeoJSON positions are [lng, lat]; every conversion to kernel.Location goes through
// toLocation so the axis order is handled in one place.
package ors

import (
	"fmt"
	"strings"

	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/pkg/errs"
	"courier-dispatch/internal/pkg/httpx"
)

const (
	DefaultBaseURL = "https://api.openrouteservice.org"
	DefaultProfile = "driving-car"
)

// Client carries what both ORS endpoints share. The API key is sent by the httpx.Client
// as the Authorization header.
type Client struct {
	http    *httpx.Client
	baseURL string
}

func NewClient(http *httpx.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    http,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func toLocation(position []float64) (kernel.Location, error) {
	if len(position) < 2 {
		return kernel.Location{}, errs.NewValueIsInvalidErrorWithCause("coordinates",
			fmt.Errorf("expected [lng, lat], got %d values", len(position)))
	}
	return kernel.NewLocation(position[1], position[0])
}

func formatPosition(l kernel.Location) string {
	return fmt.Sprintf("%f,%f", l.Lng(), l.Lat())
}
