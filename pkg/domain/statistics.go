package domain

// GraphStatistics summarizes a built network for logging/diagnostics.
type GraphStatistics struct {
	LocationCount int
	EdgeCount     int
	AirportCount  int
	SeaportCount  int
	CityCount     int
	RoadEdgeCount int
	AirEdgeCount  int
	SeaEdgeCount  int
}

// CalculateGraphStatistics computes per-type counts over the graph.
func CalculateGraphStatistics(g *Graph) GraphStatistics {
	stats := GraphStatistics{
		LocationCount: g.LocationCount(),
		EdgeCount:     g.EdgeCount(),
	}

	stats.AirportCount = len(g.LocationsByType(LocationAirport))
	stats.SeaportCount = len(g.LocationsByType(LocationSeaport))
	stats.CityCount = len(g.LocationsByType(LocationCity))

	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, e := range g.edges {
		switch e.Mode {
		case ModeRoad:
			stats.RoadEdgeCount++
		case ModeAir:
			stats.AirEdgeCount++
		case ModeSea:
			stats.SeaEdgeCount++
		}
	}

	return stats
}
