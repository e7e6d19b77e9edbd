package domain

import "testing"

func TestCalculateGraphStatistics(t *testing.T) {
	g := NewGraph()
	g.AddLocation(&Location{Name: "BOM", Country: "India", Type: LocationAirport})
	g.AddLocation(&Location{Name: "JFK", Country: "USA", Type: LocationAirport})
	g.AddLocation(&Location{Name: "MUN", Country: "India", Type: LocationSeaport})
	g.AddLocation(&Location{Name: "Mumbai", Country: "India", Type: LocationCity})
	g.AddLocation(&Location{Name: "Delhi", Country: "India", Type: LocationCity})

	g.AddEdge(&Edge{From: "Mumbai", To: "Delhi", Mode: ModeRoad})
	g.AddEdge(&Edge{From: "BOM", To: "JFK", Mode: ModeAir})
	g.AddEdge(&Edge{From: "MUN", To: "BOM", Mode: ModeSea})
	g.AddEdge(&Edge{From: "Delhi", To: "Mumbai", Mode: ModeRoad})

	stats := CalculateGraphStatistics(g)

	if stats.LocationCount != 5 {
		t.Errorf("LocationCount = %d, want 5", stats.LocationCount)
	}
	if stats.EdgeCount != 4 {
		t.Errorf("EdgeCount = %d, want 4", stats.EdgeCount)
	}
	if stats.AirportCount != 2 {
		t.Errorf("AirportCount = %d, want 2", stats.AirportCount)
	}
	if stats.SeaportCount != 1 {
		t.Errorf("SeaportCount = %d, want 1", stats.SeaportCount)
	}
	if stats.CityCount != 2 {
		t.Errorf("CityCount = %d, want 2", stats.CityCount)
	}
	if stats.RoadEdgeCount != 2 {
		t.Errorf("RoadEdgeCount = %d, want 2", stats.RoadEdgeCount)
	}
	if stats.AirEdgeCount != 1 {
		t.Errorf("AirEdgeCount = %d, want 1", stats.AirEdgeCount)
	}
	if stats.SeaEdgeCount != 1 {
		t.Errorf("SeaEdgeCount = %d, want 1", stats.SeaEdgeCount)
	}
}

func TestCalculateGraphStatisticsEmptyGraph(t *testing.T) {
	stats := CalculateGraphStatistics(NewGraph())

	if stats.LocationCount != 0 || stats.EdgeCount != 0 {
		t.Errorf("empty graph should report zero counts, got %+v", stats)
	}
}
