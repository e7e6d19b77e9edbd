// Package rank bounds the optimizer's search space and orders its output:
// PreFilter drops outlier candidates before the population search runs,
// and Rank deduplicates and sorts the refined routes into the final list
// a caller sees.
package rank

import (
	"context"
	"sort"

	"freightcore/pkg/domain"
	"freightcore/pkg/metrics"
	"freightcore/pkg/telemetry"
)

// minResults is the floor the ranker tops up to before giving up; the
// final list is also capped at the same count.
const minResults = 3

// Ranker has no state: every call is a pure function of its arguments.
type Ranker struct{}

// New returns a Ranker.
func New() *Ranker {
	return &Ranker{}
}

// PreFilter drops candidates outside the priority-parameterized thresholds
// before the optimizer runs, so the population search and Tabu refinement
// only spend effort on plausible routes. If the thresholds leave fewer
// than minResults candidates, the lowest-ranked missing ones are added
// back until minResults exist or the set is exhausted.
func (r *Ranker) PreFilter(ctx context.Context, evals []domain.RouteEval, priority domain.Priority) []domain.RouteEval {
	result, _ := telemetry.StageValue(ctx, "PreFilter", func(ctx context.Context) ([]domain.RouteEval, error) {
		valid := filterValid(evals)
		if len(valid) == 0 {
			return nil, nil
		}

		filtered := preFilter(valid, priority)
		return topUp(filtered, valid, priority, minResults), nil
	})
	return result
}

// Rank deduplicates the optimizer's refined routes by route key, tops up
// to minResults from allEvaluated (the pre-optimizer evaluated set) when
// refinement collapsed too many candidates, and returns at most
// minResults routes sorted by priority.
func (r *Ranker) Rank(ctx context.Context, refined, allEvaluated []domain.RouteEval, priority domain.Priority) []domain.RouteEval {
	result, _ := telemetry.StageValue(ctx, "Rank", func(ctx context.Context) ([]domain.RouteEval, error) {
		deduped := dedupe(filterValid(refined))
		if len(deduped) < minResults {
			deduped = topUp(deduped, filterValid(allEvaluated), priority, minResults)
		}

		sortByPriority(deduped, priority)
		if len(deduped) > minResults {
			deduped = deduped[:minResults]
		}
		return deduped, nil
	})
	metrics.Get().RecordRoutesRanked(string(priority), len(result))
	return result
}

func filterValid(evals []domain.RouteEval) []domain.RouteEval {
	out := make([]domain.RouteEval, 0, len(evals))
	for _, e := range evals {
		if e.Valid {
			out = append(out, e)
		}
	}
	return out
}

// preFilter keeps routes within the priority-parameterized threshold of the
// best observed value for that metric.
func preFilter(valid []domain.RouteEval, priority domain.Priority) []domain.RouteEval {
	minCost, minTime, minEmissions := mins(valid)

	out := make([]domain.RouteEval, 0, len(valid))
	for _, e := range valid {
		var keep bool
		switch priority {
		case domain.PriorityCost:
			keep = e.TotalCost <= 3*minCost
		case domain.PriorityTime:
			keep = e.TotalTime <= 2*minTime
		case domain.PriorityEmissions:
			keep = e.TotalEmissions <= 8*minEmissions
		default:
			keep = e.TotalCost <= 5*minCost || e.TotalTime <= 3*minTime || e.TotalEmissions <= 5*minEmissions
		}
		if keep {
			out = append(out, e)
		}
	}
	return out
}

// topUp adds back the lowest-ranked missing candidates from all, sorted by
// priority, until current reaches min entries or all is exhausted.
func topUp(current, all []domain.RouteEval, priority domain.Priority, min int) []domain.RouteEval {
	if len(current) >= min {
		return current
	}

	present := make(map[string]bool, len(current))
	for _, e := range current {
		present[e.Route.Key()] = true
	}

	sorted := append([]domain.RouteEval(nil), all...)
	sortByPriority(sorted, priority)

	out := append([]domain.RouteEval(nil), current...)
	for _, e := range sorted {
		if len(out) >= min {
			break
		}
		if present[e.Route.Key()] {
			continue
		}
		out = append(out, e)
		present[e.Route.Key()] = true
	}
	return out
}

func dedupe(routes []domain.RouteEval) []domain.RouteEval {
	seen := make(map[string]bool, len(routes))
	out := make([]domain.RouteEval, 0, len(routes))
	for _, e := range routes {
		key := e.Route.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}

func sortByPriority(routes []domain.RouteEval, priority domain.Priority) {
	switch priority {
	case domain.PriorityCost:
		sort.Slice(routes, func(i, j int) bool { return routes[i].TotalCost < routes[j].TotalCost })
	case domain.PriorityTime:
		sort.Slice(routes, func(i, j int) bool { return routes[i].TotalTime < routes[j].TotalTime })
	case domain.PriorityEmissions:
		sort.Slice(routes, func(i, j int) bool { return routes[i].TotalEmissions < routes[j].TotalEmissions })
	default:
		minCost, minTime, minEmissions := mins(routes)
		maxCost, maxTime, maxEmissions := maxs(routes)
		score := func(e domain.RouteEval) float64 {
			return 0.4*normalize(e.TotalCost, minCost, maxCost) +
				0.4*normalize(e.TotalTime, minTime, maxTime) +
				0.2*normalize(e.TotalEmissions, minEmissions, maxEmissions)
		}
		sort.Slice(routes, func(i, j int) bool { return score(routes[i]) < score(routes[j]) })
	}
}

func normalize(x, min, max float64) float64 {
	if max-min < domain.Epsilon {
		return 0
	}
	return (x - min) / (max - min)
}

func mins(routes []domain.RouteEval) (minCost, minTime, minEmissions float64) {
	minCost, minTime, minEmissions = domain.Infinity, domain.Infinity, domain.Infinity
	for _, e := range routes {
		minCost = domain.Min(minCost, e.TotalCost)
		minTime = domain.Min(minTime, e.TotalTime)
		minEmissions = domain.Min(minEmissions, e.TotalEmissions)
	}
	return minCost, minTime, minEmissions
}

func maxs(routes []domain.RouteEval) (maxCost, maxTime, maxEmissions float64) {
	for _, e := range routes {
		maxCost = domain.Max(maxCost, e.TotalCost)
		maxTime = domain.Max(maxTime, e.TotalTime)
		maxEmissions = domain.Max(maxEmissions, e.TotalEmissions)
	}
	return maxCost, maxTime, maxEmissions
}
