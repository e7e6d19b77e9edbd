package enumerate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightcore/pkg/domain"
)

func buildGraph() *domain.Graph {
	g := domain.NewGraph()
	g.AddLocation(&domain.Location{Name: "Mumbai", Country: "India", Type: domain.LocationCity})
	g.AddLocation(&domain.Location{Name: "Houston", Country: "USA", Type: domain.LocationCity})
	g.AddLocation(&domain.Location{Name: "BOM", Country: "India", Type: domain.LocationAirport})
	g.AddLocation(&domain.Location{Name: "IAH", Country: "USA", Type: domain.LocationAirport})
	g.AddLocation(&domain.Location{Name: "Jebel Ali", Country: "India", Type: domain.LocationSeaport})
	g.AddLocation(&domain.Location{Name: "Port of Houston", Country: "USA", Type: domain.LocationSeaport})

	g.AddEdge(&domain.Edge{From: "Mumbai", To: "BOM", Mode: domain.ModeRoad})
	g.AddEdge(&domain.Edge{From: "IAH", To: "Houston", Mode: domain.ModeRoad})
	g.AddEdge(&domain.Edge{From: "BOM", To: "IAH", Mode: domain.ModeAir})

	g.AddEdge(&domain.Edge{From: "Mumbai", To: "Jebel Ali", Mode: domain.ModeRoad})
	g.AddEdge(&domain.Edge{From: "Port of Houston", To: "Houston", Mode: domain.ModeRoad})
	g.AddEdge(&domain.Edge{From: "Jebel Ali", To: "Port of Houston", Mode: domain.ModeSea})

	return g
}

func TestEnumerate_AirAndSeaBridges(t *testing.T) {
	g := buildGraph()
	e := New()

	routes := e.Enumerate(context.Background(), g, "Mumbai", "Houston", 20)
	require.Len(t, routes, 2)

	keys := map[string]bool{}
	for _, r := range routes {
		keys[r.Key()] = true
	}
	assert.True(t, keys[domain.NewRoute("Mumbai", "BOM", "IAH", "Houston").Key()])
	assert.True(t, keys[domain.NewRoute("Mumbai", "Jebel Ali", "Port of Houston", "Houston").Key()])
}

func TestEnumerate_DirectRoad(t *testing.T) {
	g := domain.NewGraph()
	g.AddLocation(&domain.Location{Name: "Mumbai", Country: "India", Type: domain.LocationCity})
	g.AddLocation(&domain.Location{Name: "Delhi", Country: "India", Type: domain.LocationCity})
	g.AddEdge(&domain.Edge{From: "Mumbai", To: "Delhi", Mode: domain.ModeRoad})

	e := New()
	routes := e.Enumerate(context.Background(), g, "Mumbai", "Delhi", 20)
	require.Len(t, routes, 1)
	assert.Equal(t, []string{"Mumbai", "Delhi"}, routes[0].Nodes)
}

func TestEnumerate_MaxRoutesCap(t *testing.T) {
	g := buildGraph()
	e := New()

	routes := e.Enumerate(context.Background(), g, "Mumbai", "Houston", 1)
	assert.Len(t, routes, 1)
}

func TestEnumerate_NoCandidates(t *testing.T) {
	g := domain.NewGraph()
	g.AddLocation(&domain.Location{Name: "A", Country: "India", Type: domain.LocationCity})
	g.AddLocation(&domain.Location{Name: "B", Country: "USA", Type: domain.LocationCity})

	e := New()
	routes := e.Enumerate(context.Background(), g, "A", "B", 20)
	assert.Empty(t, routes)
}
