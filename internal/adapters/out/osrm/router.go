// Package osrm implements ports.Router over the OSRM HTTP route service.
package osrm

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/ports"
	"courier-dispatch/internal/pkg/errs"
	"courier-dispatch/internal/pkg/httpx"
)

const DefaultBaseURL = "https://router.project-osrm.org"

var _ ports.Router = (*Router)(nil)

type routeResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

type Router struct {
	client  *httpx.Client
	baseURL string
}

func NewRouter(client *httpx.Client, baseURL string) *Router {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Router{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Route asks for the full driving geometry between two points. A response whose code
// is not "Ok" is an error; "Ok" with no routes yields an empty slice.
func (r *Router) Route(ctx context.Context, origin, destination kernel.Location) ([]kernel.Location, error) {
	endpoint := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f",
		r.baseURL, origin.Lng(), origin.Lat(), destination.Lng(), destination.Lat())

	params := url.Values{}
	params.Set("overview", "full")
	params.Set("geometries", "geojson")

	var decoded routeResponse
	if err := r.client.GetJSON(ctx, endpoint, params, &decoded); err != nil {
		return nil, fmt.Errorf("osrm route: %w", err)
	}
	if decoded.Code != "Ok" {
		return nil, fmt.Errorf("osrm route: %s: %s", decoded.Code, decoded.Message)
	}
	if len(decoded.Routes) == 0 {
		return []kernel.Location{}, nil
	}

	coords := decoded.Routes[0].Geometry.Coordinates
	points := make([]kernel.Location, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			return nil, errs.NewValueIsInvalidErrorWithCause("coordinates",
				fmt.Errorf("expected [lng, lat], got %d values", len(c)))
		}
		p, err := kernel.NewLocation(c[1], c[0])
		if err != nil {
			return nil, fmt.Errorf("osrm route: %w", err)
		}
		points = append(points, p)
	}
	return points, nil
}
