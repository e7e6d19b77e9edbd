// Package network assembles the directed multigraph a single planning
// request reasons over: flight and shipping lanes from tabular input,
// annotated with resolved countries, plus road edges to in-country hubs
// and the direct source-destination leg when feasible.
package network

import (
	"context"

	"freightcore/geocode"
	"freightcore/ingest"
	"freightcore/pkg/config"
	"freightcore/pkg/domain"
	"freightcore/pkg/logger"
	"freightcore/pkg/metrics"
	"freightcore/pkg/telemetry"
	"freightcore/roadrouter"
)

// Builder wires a Geocoder and a road-router Client into the network
// assembly steps in a fixed order: flights, shipping, endpoints, then road attachment.
type Builder struct {
	geocoder *geocode.Geocoder
	roads    *roadrouter.Client
	roadCfg  config.RoadRouterConfig
}

// New builds a Builder from its required collaborators.
func New(geocoder *geocode.Geocoder, roads *roadrouter.Client, roadCfg config.RoadRouterConfig) *Builder {
	return &Builder{geocoder: geocoder, roads: roads, roadCfg: roadCfg}
}

// Build assembles the graph for one source/destination planning request.
func (b *Builder) Build(
	ctx context.Context,
	flights []ingest.FlightRow,
	shipping []ingest.ShippingRow,
	locations []ingest.LocationRow,
	source, destination string,
) (*domain.Graph, error) {
	return telemetry.StageValue(ctx, "BuildNetwork", func(ctx context.Context) (*domain.Graph, error) {
		g := domain.NewGraph()

		b.seedKnownLocations(locations)

		for _, row := range flights {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := b.ensureLocation(ctx, g, row.DepartureAirport, domain.LocationAirport); err != nil {
				continue
			}
			if err := b.ensureLocation(ctx, g, row.ArrivalAirport, domain.LocationAirport); err != nil {
				continue
			}
			g.AddEdge(&domain.Edge{
				From: row.DepartureAirport,
				To:   row.ArrivalAirport,
				Mode: domain.ModeAir,
				Air: domain.AirFields{
					CostPerKg:  row.CostPerKg,
					TimeHr:     row.TimeHr,
					DistanceKm: row.DistanceKm,
				},
			})
		}

		for _, row := range shipping {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := b.ensureLocation(ctx, g, row.DeparturePort, domain.LocationSeaport); err != nil {
				continue
			}
			if err := b.ensureLocation(ctx, g, row.ArrivalPort, domain.LocationSeaport); err != nil {
				continue
			}
			g.AddEdge(&domain.Edge{
				From: row.DeparturePort,
				To:   row.ArrivalPort,
				Mode: domain.ModeSea,
				Sea: domain.SeaFields{
					CostPerKg: row.CostPerKg,
					TimeHr:    row.TravelDays * 24,
				},
			})
		}

		if err := b.ensureLocation(ctx, g, source, domain.LocationCity); err != nil {
			return nil, err
		}
		if err := b.ensureLocation(ctx, g, destination, domain.LocationCity); err != nil {
			return nil, err
		}

		srcLoc, _ := g.Location(source)
		dstLoc, _ := g.Location(destination)

		b.addDirectRoadIfFeasible(ctx, g, srcLoc, dstLoc)
		b.connectHubsToSource(ctx, g, srcLoc)
		b.connectHubsToDestination(ctx, g, dstLoc)

		stats := domain.CalculateGraphStatistics(g)
		metrics.Get().RecordNetworkSize(
			map[string]int{"city": stats.CityCount, "airport": stats.AirportCount, "port": stats.SeaportCount},
			map[string]int{"road": stats.RoadEdgeCount, "air": stats.AirEdgeCount, "sea": stats.SeaEdgeCount},
		)

		if report, err := domain.CheckConnectivity(g, source); err == nil {
			metrics.Get().RecordNetworkConnectivity(report.Reachable, report.Total)
			logger.Info("network: connectivity diagnostic",
				"source", source, "reachable", report.Reachable, "total", report.Total)
		} else {
			logger.Warn("network: connectivity diagnostic failed", "error", err)
		}

		telemetry.SetAttributes(ctx, telemetry.NetworkAttributes(stats.LocationCount, stats.EdgeCount, source, destination)...)

		return g, nil
	})
}

// seedKnownLocations preloads the geocoder's in-memory tier with
// previously-resolved coordinates so flight/shipping endpoints that
// appear in the location table skip a live lookup entirely.
func (b *Builder) seedKnownLocations(locations []ingest.LocationRow) {
	for _, row := range locations {
		b.geocoder.Seed(row.City, geocode.Result{Lon: row.Lon, Lat: row.Lat, Country: row.Country})
	}
}

// ensureLocation resolves name via the Geocoder and registers it in g with
// locType if not already present.
func (b *Builder) ensureLocation(ctx context.Context, g *domain.Graph, name string, locType domain.LocationType) error {
	if _, ok := g.Location(name); ok {
		return nil
	}
	res, err := b.geocoder.Resolve(ctx, name)
	if err != nil {
		return err
	}
	g.AddLocation(&domain.Location{Name: name, Country: res.Country, Lon: res.Lon, Lat: res.Lat, Type: locType})
	return nil
}

// countryEligible is the cheap pre-check before spending a road query:
// same country is always eligible; cross-country requires a shared known
// continent (distance is checked afterward against the real OSRM result).
func countryEligible(countrySrc, countryDst string) bool {
	if countrySrc == countryDst {
		return true
	}
	cSrc, okSrc := domain.Continent(countrySrc)
	cDst, okDst := domain.Continent(countryDst)
	return okSrc && okDst && cSrc == cDst
}

func (b *Builder) addDirectRoadIfFeasible(ctx context.Context, g *domain.Graph, src, dst *domain.Location) {
	if src == nil || dst == nil || !countryEligible(src.Country, dst.Country) {
		return
	}
	res, err := b.roads.Route(ctx, src.Lon, src.Lat, dst.Lon, dst.Lat)
	if err != nil || !res.Success {
		return
	}
	if !domain.FeasibleRoad(src.Country, dst.Country, res.DistanceKm, b.roadCfg.MaxFeasibleKm) {
		return
	}
	g.AddEdge(roadEdge(src.Name, dst.Name, res))
}

func (b *Builder) connectHubsToSource(ctx context.Context, g *domain.Graph, src *domain.Location) {
	if src == nil {
		return
	}
	hubs := inCountryHubs(g, src.Country)
	queries := make([]roadrouter.Query, 0, len(hubs))
	for _, hub := range hubs {
		queries = append(queries, roadrouter.Query{Key: hub.Name, SrcLon: src.Lon, SrcLat: src.Lat, DstLon: hub.Lon, DstLat: hub.Lat})
	}
	results := b.roads.FetchMany(ctx, queries)
	for _, hub := range hubs {
		res, ok := results[hub.Name]
		if !ok || !domain.FeasibleRoad(src.Country, hub.Country, res.DistanceKm, b.roadCfg.MaxFeasibleKm) {
			continue
		}
		g.AddEdge(roadEdge(src.Name, hub.Name, res))
	}
}

func (b *Builder) connectHubsToDestination(ctx context.Context, g *domain.Graph, dst *domain.Location) {
	if dst == nil {
		return
	}
	hubs := inCountryHubs(g, dst.Country)
	queries := make([]roadrouter.Query, 0, len(hubs))
	for _, hub := range hubs {
		queries = append(queries, roadrouter.Query{Key: hub.Name, SrcLon: hub.Lon, SrcLat: hub.Lat, DstLon: dst.Lon, DstLat: dst.Lat})
	}
	results := b.roads.FetchMany(ctx, queries)
	for _, hub := range hubs {
		res, ok := results[hub.Name]
		if !ok || !domain.FeasibleRoad(hub.Country, dst.Country, res.DistanceKm, b.roadCfg.MaxFeasibleKm) {
			continue
		}
		g.AddEdge(roadEdge(hub.Name, dst.Name, res))
	}
}

func inCountryHubs(g *domain.Graph, country string) []*domain.Location {
	hubs := g.LocationsByTypeAndCountry(domain.LocationAirport, country)
	hubs = append(hubs, g.LocationsByTypeAndCountry(domain.LocationSeaport, country)...)
	return hubs
}

func roadEdge(from, to string, res roadrouter.Result) *domain.Edge {
	return &domain.Edge{
		From: from,
		To:   to,
		Mode: domain.ModeRoad,
		Road: domain.RoadFields{
			DistanceKm: res.DistanceKm,
			TimeHr:     res.TimeHr,
			FuelCost:   res.FuelCost,
			TollCost:   res.TollCost,
			DriverWage: res.DriverWage,
			TotalCost:  res.TotalCost,
			Geometry:   res.Geometry,
		},
	}
}
