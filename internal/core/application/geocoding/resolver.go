package geocoding

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/ports"
	"courier-dispatch/internal/pkg/errs"
)

// OutcomeNotFound is reported to the Recorder when no tier matched.
const OutcomeNotFound = "not_found"

// ErrAddressNotFound is returned when no tier of the cascade produced a match.
var ErrAddressNotFound = errs.NewObjectNotFoundError("address", "no geocoding tier matched")

var ErrGeocoderIsRequired = errs.NewValueIsRequiredError("geocoder")

// Recorder counts resolution outcomes by precision tier name or OutcomeNotFound.
type Recorder interface {
	ObserveResolution(outcome string)
}

type tier struct {
	precision kernel.Precision
	fields    func(kernel.Address) []string
}

// tiers are tried strictly in this order. The exact tier leaves the neighborhood out on
// purpose: geocoders often fail exact lookups that include it.
var tiers = []tier{
	{
		precision: kernel.PrecisionExact,
		fields:    func(a kernel.Address) []string { return []string{a.Street(), a.Number(), a.City()} },
	},
	{
		precision: kernel.PrecisionStreet,
		fields:    func(a kernel.Address) []string { return []string{a.Street(), a.City()} },
	},
	{
		precision: kernel.PrecisionNeighborhood,
		fields:    func(a kernel.Address) []string { return []string{a.Neighborhood(), a.City()} },
	},
	{
		precision: kernel.PrecisionCity,
		fields:    func(a kernel.Address) []string { return []string{a.City()} },
	},
}

type Option func(*Resolver)

// WithRegion appends a region (for example a country name) to every query.
func WithRegion(region string) Option {
	return func(r *Resolver) {
		r.region = strings.TrimSpace(region)
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(r *Resolver) {
		r.recorder = recorder
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// Resolver turns a structured address into a Place using a four-tier cascade of
// geocoder queries of decreasing precision.
type Resolver struct {
	geocoder ports.Geocoder
	region   string
	recorder Recorder
	logger   *slog.Logger
}

func NewResolver(geocoder ports.Geocoder, opts ...Option) (*Resolver, error) {
	if geocoder == nil {
		return nil, ErrGeocoderIsRequired
	}

	r := &Resolver{
		geocoder: geocoder,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "geo_resolver")

	return r, nil
}

// Resolve tries, in order:
//
//	street, number, city -> exact
//	street, city         -> street
//	neighborhood, city   -> neighborhood
//	city                 -> city
//
// The first hit wins and no further query is issued. A tier is skipped when one of its
// fields is empty. Geocoder errors and "no match" both fall through to the next tier.
// Without a city no query is issued at all. When every tier comes up empty the call
// fails with ErrAddressNotFound.
func (r *Resolver) Resolve(ctx context.Context, address kernel.Address) (kernel.Place, error) {
	if err := address.Validate(); err != nil {
		return kernel.Place{}, err
	}
	if address.City() == "" {
		r.observe(OutcomeNotFound)
		return kernel.Place{}, ErrAddressNotFound
	}

	for _, t := range tiers {
		if err := ctx.Err(); err != nil {
			return kernel.Place{}, errors.Join(ErrAddressNotFound, err)
		}

		fields := t.fields(address)
		if !allPresent(fields) {
			continue
		}

		query := r.query(fields)
		hit, err := r.geocoder.Search(ctx, query)
		if err != nil {
			r.logger.DebugContext(ctx, "geocoding tier came up empty",
				"precision", t.precision.String(), "query", query, "error", err)
			continue
		}

		displayName := hit.DisplayName
		if displayName == "" {
			displayName = query
		}

		place, err := kernel.NewPlace(hit.Location, displayName, t.precision)
		if err != nil {
			r.logger.WarnContext(ctx, "geocoder returned an unusable hit",
				"precision", t.precision.String(), "query", query, "error", err)
			continue
		}

		r.observe(t.precision.String())
		r.logger.DebugContext(ctx, "address resolved",
			"precision", t.precision.String(), "query", query, "location", hit.Location.String())
		return place, nil
	}

	r.observe(OutcomeNotFound)
	return kernel.Place{}, ErrAddressNotFound
}

func (r *Resolver) query(fields []string) string {
	if r.region != "" {
		fields = append(fields, r.region)
	}
	return strings.Join(fields, ", ")
}

func (r *Resolver) observe(outcome string) {
	if r.recorder != nil {
		r.recorder.ObserveResolution(outcome)
	}
}

func allPresent(fields []string) bool {
	for _, f := range fields {
		if f == "" {
			return false
		}
	}
	return true
}
