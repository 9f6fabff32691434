// Package geocoding resolves structured addresses into places.
//
// Resolver runs the four-tier cascade (exact, street, neighborhood, city) against a
// ports.Geocoder and reports the precision of the tier that matched. CachedGeocoder
// is an optional ports.Geocoder decorator backed by a ports.GeocodeCache.
package geocoding
