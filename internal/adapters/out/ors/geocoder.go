package ors

import (
	"context"
	"fmt"
	"net/url"

	"courier-dispatch/internal/core/ports"
	"courier-dispatch/internal/pkg/errs"
)

var _ ports.Geocoder = (*Geocoder)(nil)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label string `json:"label"`
		} `json:"properties"`
	} `json:"features"`
}

type Geocoder struct {
	client *Client
}

func NewGeocoder(client *Client) *Geocoder {
	return &Geocoder{client: client}
}

func (g *Geocoder) Search(ctx context.Context, query string) (ports.GeocodeHit, error) {
	params := url.Values{}
	params.Set("text", query)
	params.Set("size", "1")

	var decoded geocodeResponse
	if err := g.client.http.GetJSON(ctx, g.client.baseURL+"/geocode/search", params, &decoded); err != nil {
		return ports.GeocodeHit{}, fmt.Errorf("ors geocode: %w", err)
	}
	if len(decoded.Features) == 0 {
		return ports.GeocodeHit{}, errs.NewObjectNotFoundError("geocode", query)
	}

	feature := decoded.Features[0]
	location, err := toLocation(feature.Geometry.Coordinates)
	if err != nil {
		return ports.GeocodeHit{}, fmt.Errorf("ors geocode %q: %w", query, err)
	}
	return ports.GeocodeHit{
		Location:    location,
		DisplayName: feature.Properties.Label,
	}, nil
}
