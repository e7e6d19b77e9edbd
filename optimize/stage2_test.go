package optimize

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightcore/evaluate"
	"freightcore/pkg/domain"
)

// buildHubGraph wires two alternate airports on each side of an air bridge
// so the Tabu Search has genuine same-type substitutions to try.
func buildHubGraph() *domain.Graph {
	g := domain.NewGraph()
	g.AddLocation(&domain.Location{Name: "Mumbai", Type: domain.LocationCity, Country: "India"})
	g.AddLocation(&domain.Location{Name: "Houston", Type: domain.LocationCity, Country: "USA"})
	g.AddLocation(&domain.Location{Name: "BOM", Type: domain.LocationAirport, Country: "India"})
	g.AddLocation(&domain.Location{Name: "DEL", Type: domain.LocationAirport, Country: "India"})
	g.AddLocation(&domain.Location{Name: "IAH", Type: domain.LocationAirport, Country: "USA"})
	g.AddLocation(&domain.Location{Name: "DFW", Type: domain.LocationAirport, Country: "USA"})

	g.AddEdge(&domain.Edge{From: "Mumbai", To: "BOM", Mode: domain.ModeRoad, Road: domain.RoadFields{DistanceKm: 20, TimeHr: 1, TotalCost: 50}})
	g.AddEdge(&domain.Edge{From: "Mumbai", To: "DEL", Mode: domain.ModeRoad, Road: domain.RoadFields{DistanceKm: 1400, TimeHr: 20, TotalCost: 15000}})
	g.AddEdge(&domain.Edge{From: "IAH", To: "Houston", Mode: domain.ModeRoad, Road: domain.RoadFields{DistanceKm: 30, TimeHr: 1, TotalCost: 60}})
	g.AddEdge(&domain.Edge{From: "DFW", To: "Houston", Mode: domain.ModeRoad, Road: domain.RoadFields{DistanceKm: 400, TimeHr: 5, TotalCost: 2000}})

	g.AddEdge(&domain.Edge{From: "BOM", To: "IAH", Mode: domain.ModeAir, Air: domain.AirFields{CostPerKg: 3.0, TimeHr: 18}})
	g.AddEdge(&domain.Edge{From: "BOM", To: "DFW", Mode: domain.ModeAir, Air: domain.AirFields{CostPerKg: 1.0, TimeHr: 15}}) // cheaper neighbor
	g.AddEdge(&domain.Edge{From: "DEL", To: "IAH", Mode: domain.ModeAir, Air: domain.AirFields{CostPerKg: 2.5, TimeHr: 17}})

	return g
}

func TestStage2_Neighbors_SubstitutesSameTypeHub(t *testing.T) {
	g := buildHubGraph()
	stage2 := NewStage2(testOptimizerConfig(), evaluate.New())

	route := domain.NewRoute("Mumbai", "BOM", "IAH", "Houston")
	neighbors := stage2.neighbors(g, route, 100, domain.GoodsStandard)

	require.NotEmpty(t, neighbors)
	keys := map[string]bool{}
	for _, n := range neighbors {
		keys[n.Route.Key()] = true
	}
	assert.True(t, keys[domain.NewRoute("Mumbai", "BOM", "DFW", "Houston").Key()])
}

func TestStage2_TabuSearchOne_FindsCheaperNeighbor(t *testing.T) {
	g := buildHubGraph()
	ev := evaluate.New()
	stage2 := NewStage2(testOptimizerConfig(), ev)

	start := ev.Evaluate(g, domain.NewRoute("Mumbai", "BOM", "IAH", "Houston"), 100, domain.GoodsStandard)
	require.True(t, start.Valid)

	best := stage2.tabuSearchOne(g, start, 100, domain.GoodsStandard, domain.PriorityCost)

	assert.LessOrEqual(t, best.TotalCost, start.TotalCost)
}

func TestStage2_Refine_PreservesCandidateCount(t *testing.T) {
	g := buildHubGraph()
	ev := evaluate.New()
	stage2 := NewStage2(testOptimizerConfig(), ev)

	routes := []domain.RouteEval{
		ev.Evaluate(g, domain.NewRoute("Mumbai", "BOM", "IAH", "Houston"), 100, domain.GoodsStandard),
		ev.Evaluate(g, domain.NewRoute("Mumbai", "DEL", "IAH", "Houston"), 100, domain.GoodsStandard),
	}

	out := stage2.Refine(context.Background(), g, routes, 100, domain.GoodsStandard, domain.PriorityCost)
	assert.Len(t, out, 2)
}

func TestTabuList_FIFOEviction(t *testing.T) {
	tl := newTabuList(2)
	tl.push("a")
	tl.push("b")
	tl.push("c")

	assert.False(t, tl.contains("a"))
	assert.True(t, tl.contains("b"))
	assert.True(t, tl.contains("c"))
}
