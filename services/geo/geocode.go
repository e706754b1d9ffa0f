// Package geo stands in for the mapping provider. A production build would
// call Mapbox or OpenStreetMap here; the static geocoder returns the canned
// addresses the map picker would resolve.
package geo

import (
	"context"
	"fmt"
	"hash/fnv"
)

// PointSelection is a point picked on the map.
type PointSelection struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Geocoder resolves a map selection to a street address.
type Geocoder interface {
	Geocode(ctx context.Context, point PointSelection) (string, error)
}

// StaticGeocoder maps any point deterministically onto a fixed address list.
type StaticGeocoder struct {
	Addresses []string
}

// NewStaticGeocoder returns a geocoder seeded with the service-area addresses.
func NewStaticGeocoder() *StaticGeocoder {
	return &StaticGeocoder{
		Addresses: []string{
			"123 Main St, Health City, CA 90210",
			"456 Hospital Ave, Health City, CA 90210",
			"789 Park Lane, Health City, CA 90210",
		},
	}
}

// Geocode picks an address for the point. Same point, same address.
func (g *StaticGeocoder) Geocode(_ context.Context, point PointSelection) (string, error) {
	h := fnv.New32a()
	fmt.Fprintf(h, "%.3f,%.3f", point.Latitude, point.Longitude)
	return g.Addresses[int(h.Sum32())%len(g.Addresses)], nil
}
