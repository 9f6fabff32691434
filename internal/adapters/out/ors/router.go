package ors

import (
	"context"
	"fmt"
	"net/url"

	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/ports"
)

var _ ports.Router = (*Router)(nil)

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

type Router struct {
	client  *Client
	profile string
}

// NewRouter creates a Router for the given travel profile; empty means DefaultProfile.
func NewRouter(client *Client, profile string) *Router {
	if profile == "" {
		profile = DefaultProfile
	}
	return &Router{client: client, profile: profile}
}

// Route returns the LineString of the first feature. No feature yields an empty slice.
func (r *Router) Route(ctx context.Context, origin, destination kernel.Location) ([]kernel.Location, error) {
	params := url.Values{}
	params.Set("start", formatPosition(origin))
	params.Set("end", formatPosition(destination))

	var decoded directionsResponse
	endpoint := r.client.baseURL + "/v2/directions/" + url.PathEscape(r.profile)
	if err := r.client.http.GetJSON(ctx, endpoint, params, &decoded); err != nil {
		return nil, fmt.Errorf("ors directions: %w", err)
	}
	if len(decoded.Features) == 0 {
		return []kernel.Location{}, nil
	}

	coords := decoded.Features[0].Geometry.Coordinates
	points := make([]kernel.Location, 0, len(coords))
	for _, c := range coords {
		p, err := toLocation(c)
		if err != nil {
			return nil, fmt.Errorf("ors directions: %w", err)
		}
		points = append(points, p)
	}
	return points, nil
}
