// Package enumerate produces candidate route node sequences from a built
// network, constrained to three realistic multi-modal templates
// of movement: direct road, air bridge, sea bridge.
package enumerate

import (
	"context"
	"sort"

	"freightcore/pkg/domain"
	"freightcore/pkg/metrics"
	"freightcore/pkg/telemetry"
)

// Enumerator walks a Graph's edges to produce candidate Routes.
type Enumerator struct{}

// New returns an Enumerator. It carries no state: every call is a pure
// function of the graph, source, and destination passed to Enumerate.
func New() *Enumerator {
	return &Enumerator{}
}

// Enumerate returns up to maxRoutes candidate Routes between source and
// destination, in template order (direct road, air bridge, sea bridge),
// truncated once maxRoutes is reached.
func (e *Enumerator) Enumerate(ctx context.Context, g *domain.Graph, source, destination string, maxRoutes int) []domain.Route {
	routes, _ := telemetry.StageValue(ctx, "Enumerate", func(ctx context.Context) ([]domain.Route, error) {
		var routes []domain.Route

		if _, ok := g.Edge(source, destination); ok {
			routes = appendCapped(routes, domain.NewRoute(source, destination), maxRoutes)
		}

		srcLoc, srcOK := g.Location(source)
		dstLoc, dstOK := g.Location(destination)
		if !srcOK || !dstOK {
			return routes, nil
		}

		routes = e.bridge(g, source, destination, srcLoc.Country, dstLoc.Country, domain.LocationAirport, domain.ModeAir, routes, maxRoutes)
		routes = e.bridge(g, source, destination, srcLoc.Country, dstLoc.Country, domain.LocationSeaport, domain.ModeSea, routes, maxRoutes)

		return routes, nil
	})
	metrics.Get().RecordRoutesEnumerated("3", len(routes))
	return routes
}

// bridge appends the two-hub template (src -> hub_src -> hub_dst -> dst)
// for the given hub type and connecting mode, stopping once maxRoutes
// candidates have accumulated.
func (e *Enumerator) bridge(
	g *domain.Graph,
	source, destination, srcCountry, dstCountry string,
	hubType domain.LocationType,
	mode domain.Mode,
	routes []domain.Route,
	maxRoutes int,
) []domain.Route {
	if len(routes) >= maxRoutes {
		return routes
	}

	// Hub lists come out of a map; sort by name so two builds of the same
	// graph enumerate (and truncate) identically.
	srcHubs := g.LocationsByTypeAndCountry(hubType, srcCountry)
	dstHubs := g.LocationsByTypeAndCountry(hubType, dstCountry)
	sort.Slice(srcHubs, func(i, j int) bool { return srcHubs[i].Name < srcHubs[j].Name })
	sort.Slice(dstHubs, func(i, j int) bool { return dstHubs[i].Name < dstHubs[j].Name })

	for _, srcHub := range srcHubs {
		if _, ok := g.Edge(source, srcHub.Name); !ok {
			continue
		}
		for _, dstHub := range dstHubs {
			if _, ok := g.Edge(dstHub.Name, destination); !ok {
				continue
			}
			bridgeEdge, ok := g.Edge(srcHub.Name, dstHub.Name)
			if !ok || bridgeEdge.Mode != mode {
				continue
			}
			routes = appendCapped(routes, domain.NewRoute(source, srcHub.Name, dstHub.Name, destination), maxRoutes)
			if len(routes) >= maxRoutes {
				return routes
			}
		}
	}
	return routes
}

func appendCapped(routes []domain.Route, r domain.Route, maxRoutes int) []domain.Route {
	if len(routes) >= maxRoutes {
		return routes
	}
	return append(routes, r)
}
