package geocode

import (
	"fmt"
	"strconv"
)

// nominatimResult mirrors a single entry of a Nominatim /search response:
// lon/lat arrive as strings, and the country lives under address.
type nominatimResult struct {
	Lon     string `json:"lon"`
	Lat     string `json:"lat"`
	Address struct {
		Country string `json:"country"`
	} `json:"address"`
}

func (n nominatimResult) toResult() (Result, error) {
	lon, err := strconv.ParseFloat(n.Lon, 64)
	if err != nil {
		return Result{}, fmt.Errorf("geocode: parse lon %q: %w", n.Lon, err)
	}
	lat, err := strconv.ParseFloat(n.Lat, 64)
	if err != nil {
		return Result{}, fmt.Errorf("geocode: parse lat %q: %w", n.Lat, err)
	}
	return Result{Lon: lon, Lat: lat, Country: n.Address.Country}, nil
}
