package ingest

import (
	"context"
	"strconv"
	"strings"

	"github.com/gotidy/ptr"

	"freightcore/pkg/domain"
	"freightcore/pkg/logger"
)

// FlightRow is one scheduled flight lane. DistanceKm is nil when the
// optional distance_km column is absent or empty.
type FlightRow struct {
	DepartureAirport string
	ArrivalAirport   string
	CostPerKg        float64
	TimeHr           float64
	DistanceKm       *float64
}

// ShippingRow is one scheduled shipping lane; TravelDays is converted
// to hours by the Network Builder (time_hr = days * 24).
type ShippingRow struct {
	DeparturePort string
	ArrivalPort   string
	CostPerKg     float64
	TravelDays    float64
}

// LocationRow is one known location with pre-resolved coordinates,
// used to seed the Geocoder's in-memory tier ahead of live lookups.
type LocationRow struct {
	City    string
	Country string
	Type    domain.LocationType
	Lat     float64
	Lon     float64
	Code    string
}

// ContainerRow is one container class's capacity for a transport mode.
type ContainerRow struct {
	Mode       domain.Mode
	Type       string
	CapacityKg float64
}

// LoadFlights reads and validates flight rows from source. A row missing
// a required column is skipped with a logged warning.
func LoadFlights(ctx context.Context, source TableSource) ([]FlightRow, error) {
	rows, err := source.Rows(ctx)
	if err != nil {
		return nil, err
	}

	idx := headerIndex(rows[0])
	depCol, depOK := idx["departure_airport"]
	arrCol, arrOK := idx["arrival_airport"]
	costCol, costOK := idx["cost"]
	timeCol, timeOK := idx["travel_time"]
	distCol, distOK := idx["distance_km"]

	var out []FlightRow
	for i, row := range rows[1:] {
		dep, ok1 := cell(row, depCol, depOK)
		arr, ok2 := cell(row, arrCol, arrOK)
		costStr, ok3 := cell(row, costCol, costOK)
		timeStr, ok4 := cell(row, timeCol, timeOK)
		if !ok1 || !ok2 || !ok3 || !ok4 || dep == "" || arr == "" {
			logger.Warn("ingest: skipping flight row with missing column", "row", i+2)
			continue
		}
		cost, err1 := strconv.ParseFloat(strings.TrimSpace(costStr), 64)
		travelTime, err2 := strconv.ParseFloat(strings.TrimSpace(timeStr), 64)
		if err1 != nil || err2 != nil {
			logger.Warn("ingest: skipping flight row with unparsable numeric column", "row", i+2)
			continue
		}

		fr := FlightRow{DepartureAirport: dep, ArrivalAirport: arr, CostPerKg: cost, TimeHr: travelTime}
		if distStr, ok := cell(row, distCol, distOK); ok && strings.TrimSpace(distStr) != "" {
			if dist, err := strconv.ParseFloat(strings.TrimSpace(distStr), 64); err == nil {
				fr.DistanceKm = ptr.Of(dist)
			}
		}
		out = append(out, fr)
	}
	return out, nil
}

// LoadShipping reads and validates shipping rows from source.
func LoadShipping(ctx context.Context, source TableSource) ([]ShippingRow, error) {
	rows, err := source.Rows(ctx)
	if err != nil {
		return nil, err
	}

	idx := headerIndex(rows[0])
	depCol, depOK := idx["departure_port"]
	arrCol, arrOK := idx["arrival_port"]
	costCol, costOK := idx["cost"]
	timeCol, timeOK := idx["travel_time"]

	var out []ShippingRow
	for i, row := range rows[1:] {
		dep, ok1 := cell(row, depCol, depOK)
		arr, ok2 := cell(row, arrCol, arrOK)
		costStr, ok3 := cell(row, costCol, costOK)
		timeStr, ok4 := cell(row, timeCol, timeOK)
		if !ok1 || !ok2 || !ok3 || !ok4 || dep == "" || arr == "" {
			logger.Warn("ingest: skipping shipping row with missing column", "row", i+2)
			continue
		}
		cost, err1 := strconv.ParseFloat(strings.TrimSpace(costStr), 64)
		days, err2 := strconv.ParseFloat(strings.TrimSpace(timeStr), 64)
		if err1 != nil || err2 != nil {
			logger.Warn("ingest: skipping shipping row with unparsable numeric column", "row", i+2)
			continue
		}
		out = append(out, ShippingRow{DeparturePort: dep, ArrivalPort: arr, CostPerKg: cost, TravelDays: days})
	}
	return out, nil
}

// LoadLocations reads and validates location rows from source.
func LoadLocations(ctx context.Context, source TableSource) ([]LocationRow, error) {
	rows, err := source.Rows(ctx)
	if err != nil {
		return nil, err
	}

	idx := headerIndex(rows[0])
	cityCol, cityOK := idx["city"]
	countryCol, countryOK := idx["country"]
	typeCol, typeOK := idx["type"]
	latCol, latOK := idx["lat"]
	lonCol, lonOK := idx["lon"]
	codeCol, codeOK := idx["code"]

	var out []LocationRow
	for i, row := range rows[1:] {
		city, ok1 := cell(row, cityCol, cityOK)
		country, ok2 := cell(row, countryCol, countryOK)
		typeStr, ok3 := cell(row, typeCol, typeOK)
		latStr, ok4 := cell(row, latCol, latOK)
		lonStr, ok5 := cell(row, lonCol, lonOK)
		if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || city == "" {
			logger.Warn("ingest: skipping location row with missing column", "row", i+2)
			continue
		}
		lat, err1 := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
		lon, err2 := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
		if err1 != nil || err2 != nil {
			logger.Warn("ingest: skipping location row with unparsable coordinates", "row", i+2)
			continue
		}

		loc := LocationRow{City: city, Country: country, Lat: lat, Lon: lon, Type: parseLocationType(typeStr)}
		if code, ok := cell(row, codeCol, codeOK); ok {
			loc.Code = code
		}
		out = append(out, loc)
	}
	return out, nil
}

// LoadContainers reads and validates container rows from source.
func LoadContainers(ctx context.Context, source TableSource) ([]ContainerRow, error) {
	rows, err := source.Rows(ctx)
	if err != nil {
		return nil, err
	}

	idx := headerIndex(rows[0])
	modeCol, modeOK := idx["transportmode"]
	typeCol, typeOK := idx["containertype"]
	capCol, capOK := idx["weightcapacity(kg)"]

	var out []ContainerRow
	for i, row := range rows[1:] {
		modeStr, ok1 := cell(row, modeCol, modeOK)
		typeStr, ok2 := cell(row, typeCol, typeOK)
		capStr, ok3 := cell(row, capCol, capOK)
		if !ok1 || !ok2 || !ok3 || modeStr == "" {
			logger.Warn("ingest: skipping container row with missing column", "row", i+2)
			continue
		}
		cap, err := strconv.ParseFloat(strings.TrimSpace(capStr), 64)
		if err != nil {
			logger.Warn("ingest: skipping container row with unparsable capacity", "row", i+2)
			continue
		}
		out = append(out, ContainerRow{Mode: parseMode(modeStr), Type: typeStr, CapacityKg: cap})
	}
	return out, nil
}

func parseLocationType(s string) domain.LocationType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "airport":
		return domain.LocationAirport
	case "port", "seaport":
		return domain.LocationSeaport
	default:
		return domain.LocationCity
	}
}

func parseMode(s string) domain.Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "air":
		return domain.ModeAir
	case "sea":
		return domain.ModeSea
	default:
		return domain.ModeRoad
	}
}
