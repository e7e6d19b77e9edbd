package rank

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightcore/pkg/domain"
)

func routeEval(key string, cost, timeHr, emissions float64) domain.RouteEval {
	return domain.RouteEval{
		Route:          domain.NewRoute(key, key+"-dst"),
		Valid:          true,
		TotalCost:      cost,
		TotalTime:      timeHr,
		TotalEmissions: emissions,
	}
}

func TestPreFilter_DropsFarOutliers(t *testing.T) {
	evals := []domain.RouteEval{
		routeEval("cheap", 100, 10, 5),
		routeEval("mid", 200, 10, 5),
		routeEval("upper", 280, 10, 5),
		routeEval("expensive", 1000, 10, 5), // > 3x min_cost, dropped by cost priority
	}

	r := New()
	out := r.PreFilter(context.Background(), evals, domain.PriorityCost)

	require.Len(t, out, 3)
	keys := map[string]bool{}
	for _, e := range out {
		keys[e.Route.Key()] = true
	}
	assert.False(t, keys[evals[3].Route.Key()])
}

func TestPreFilter_TopsUpToMinResultsWhenThresholdIsTooStrict(t *testing.T) {
	evals := []domain.RouteEval{
		routeEval("a", 100, 10, 5),
		routeEval("b", 1000, 10, 5),
		routeEval("c", 2000, 10, 5),
		routeEval("d", 3000, 10, 5),
	}

	r := New()
	out := r.PreFilter(context.Background(), evals, domain.PriorityCost)

	// The 3x cost threshold keeps only "a"; the next-cheapest come back.
	require.Len(t, out, 3)
	keys := map[string]bool{}
	for _, e := range out {
		keys[e.Route.Key()] = true
	}
	assert.True(t, keys[evals[0].Route.Key()])
	assert.True(t, keys[evals[1].Route.Key()])
	assert.True(t, keys[evals[2].Route.Key()])
}

func TestPreFilter_ExcludesInvalidRoutes(t *testing.T) {
	invalid := domain.Invalid(domain.NewRoute("x", "y"), domain.GoodsStandard)
	evals := []domain.RouteEval{routeEval("a", 100, 10, 5), invalid}

	r := New()
	out := r.PreFilter(context.Background(), evals, domain.PriorityCost)
	for _, e := range out {
		assert.NotEqual(t, invalid.Route.Key(), e.Route.Key())
	}
}

func TestPreFilter_EmptyInput(t *testing.T) {
	r := New()
	assert.Empty(t, r.PreFilter(context.Background(), nil, domain.PriorityCost))
}

func TestRank_CostPriority_SortsAscending(t *testing.T) {
	evals := []domain.RouteEval{
		routeEval("a", 300, 10, 5),
		routeEval("b", 100, 20, 5),
		routeEval("c", 200, 15, 5),
	}

	r := New()
	out := r.Rank(context.Background(), evals, evals, domain.PriorityCost)

	require.Len(t, out, 3)
	assert.Equal(t, "b", out[0].Route.Nodes[0])
	assert.Equal(t, "c", out[1].Route.Nodes[0])
	assert.Equal(t, "a", out[2].Route.Nodes[0])
}

func TestRank_CapsResultAtThree(t *testing.T) {
	evals := []domain.RouteEval{
		routeEval("a", 100, 10, 5),
		routeEval("b", 110, 10, 5),
		routeEval("c", 120, 10, 5),
		routeEval("d", 130, 10, 5),
		routeEval("e", 140, 10, 5),
	}

	r := New()
	out := r.Rank(context.Background(), evals, evals, domain.PriorityCost)
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].Route.Nodes[0])
}

func TestRank_DeduplicatesByRouteKey(t *testing.T) {
	evals := []domain.RouteEval{
		routeEval("a", 100, 10, 5),
		routeEval("a", 100, 10, 5),
		routeEval("b", 200, 10, 5),
	}

	r := New()
	out := r.Rank(context.Background(), evals, evals, domain.PriorityCost)

	keys := map[string]int{}
	for _, e := range out {
		keys[e.Route.Key()]++
	}
	for _, count := range keys {
		assert.Equal(t, 1, count)
	}
}

func TestRank_TopsUpFromEvaluatedSetWhenRefinementCollapses(t *testing.T) {
	// The optimizer collapsed everything onto one route; the final list is
	// completed from the pre-optimizer evaluated set.
	refined := []domain.RouteEval{routeEval("winner", 100, 10, 5)}
	allEvaluated := []domain.RouteEval{
		routeEval("winner", 100, 10, 5),
		routeEval("runner-up", 150, 10, 5),
		routeEval("third", 200, 10, 5),
		routeEval("fourth", 250, 10, 5),
	}

	r := New()
	out := r.Rank(context.Background(), refined, allEvaluated, domain.PriorityCost)

	require.Len(t, out, 3)
	assert.Equal(t, "winner", out[0].Route.Nodes[0])
	assert.Equal(t, "runner-up", out[1].Route.Nodes[0])
	assert.Equal(t, "third", out[2].Route.Nodes[0])
}

func TestRank_BalancedPriority_UsesWeightedNormalizedScore(t *testing.T) {
	evals := []domain.RouteEval{
		routeEval("cheap-slow", 100, 100, 20),
		routeEval("expensive-fast", 200, 10, 10),
	}

	r := New()
	out := r.Rank(context.Background(), evals, evals, domain.PriorityBalanced)
	require.Len(t, out, 2)
	// Min-max normalization makes the cost and time terms cancel (0.4 each
	// way); expensive-fast's lower emissions give it 0.4 against 0.6 under
	// the 0.4/0.4/0.2 weighting.
	assert.Equal(t, "expensive-fast", out[0].Route.Nodes[0])
}

func TestRank_EmissionsPriority_PrefersSeaLikeCandidate(t *testing.T) {
	evals := []domain.RouteEval{
		routeEval("air-bridge", 500, 20, 250.75), // fast but emission-heavy
		routeEval("sea-bridge", 400, 480, 12.55), // slow but clean
	}

	r := New()
	out := r.Rank(context.Background(), evals, evals, domain.PriorityEmissions)

	require.Len(t, out, 2)
	assert.Equal(t, "sea-bridge", out[0].Route.Nodes[0])
	assert.LessOrEqual(t, out[0].TotalEmissions, out[1].TotalEmissions)
}

func TestRank_InvalidRoutesExcluded(t *testing.T) {
	invalid := domain.Invalid(domain.NewRoute("x", "y"), domain.GoodsStandard)
	evals := []domain.RouteEval{routeEval("a", 100, 10, 5), invalid}

	r := New()
	out := r.Rank(context.Background(), evals, evals, domain.PriorityCost)
	for _, e := range out {
		assert.NotEqual(t, invalid.Route.Key(), e.Route.Key())
	}
}

func TestRank_EmptyInput(t *testing.T) {
	r := New()
	out := r.Rank(context.Background(), nil, nil, domain.PriorityCost)
	assert.Empty(t, out)
}
