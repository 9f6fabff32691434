// Package ports declares the interfaces the application core needs from the outside:
// storage for requests, couriers and sessions, the geocoding and routing services,
// a geocode cache and the event bus.
package ports
