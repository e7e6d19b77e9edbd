// Package evaluate computes per-leg and per-route cost, time, distance,
// and emissions for a candidate Route, applying goods-type multipliers
// and customs surcharges. Evaluation is CPU-bound and carries no
// collaborators of its own; it reads only the Graph it is given.
package evaluate

import (
	"context"
	"math"

	"freightcore/pkg/domain"
	"freightcore/pkg/telemetry"
)

// Evaluator evaluates Routes against a Graph. It holds no state: every
// call is a pure function of its arguments.
type Evaluator struct{}

// New returns an Evaluator.
func New() *Evaluator {
	return &Evaluator{}
}

// EvaluateAll evaluates every route in routes against g, wrapping the
// batch in a single tracer span.
func (e *Evaluator) EvaluateAll(ctx context.Context, g *domain.Graph, routes []domain.Route, weightKg float64, goodsType domain.GoodsType) []domain.RouteEval {
	evals, _ := telemetry.StageValue(ctx, "Evaluate", func(ctx context.Context) ([]domain.RouteEval, error) {
		out := make([]domain.RouteEval, 0, len(routes))
		for _, r := range routes {
			out = append(out, e.Evaluate(g, r, weightKg, goodsType))
		}
		return out, nil
	})
	return evals
}

// Evaluate computes the RouteEval for a single route. A route with
// a missing consecutive edge is reported invalid with infinite cost/time,
// treated as an internal invariant breach, not a caller error.
func (e *Evaluator) Evaluate(g *domain.Graph, route domain.Route, weightKg float64, goodsType domain.GoodsType) domain.RouteEval {
	legs := make([]domain.LegEval, 0, route.Len()-1)
	modes := make(map[domain.Mode]bool)

	var totalCost, totalTime, totalDistance, totalEmissions float64
	valid := true

	route.Pairs(func(from, to string) {
		if !valid {
			return
		}
		edge, ok := g.Edge(from, to)
		if !ok {
			valid = false
			return
		}

		leg := e.evaluateLeg(g, edge, weightKg, goodsType)
		legs = append(legs, leg)
		modes[leg.Mode] = true

		totalCost += leg.Total
		totalTime += leg.TimeHr
		totalEmissions += leg.Emissions
		if leg.Mode == domain.ModeRoad {
			totalDistance += leg.DistanceKm
		}
	})

	if !valid {
		return domain.Invalid(route, goodsType)
	}

	goodsScore := 0.0
	if goodsType != domain.GoodsStandard {
		goodsScore = goodsType.Multiplier() * math.Sqrt(totalTime) * 10
	}

	return domain.RouteEval{
		Route:          route,
		Valid:          true,
		TotalCost:      totalCost,
		TotalTime:      totalTime,
		TotalDistance:  totalDistance,
		TotalEmissions: totalEmissions,
		GoodsType:      goodsType,
		GoodsScore:     goodsScore,
		Legs:           legs,
		Modes:          modes,
	}
}

func (e *Evaluator) evaluateLeg(g *domain.Graph, edge *domain.Edge, weightKg float64, goodsType domain.GoodsType) domain.LegEval {
	var baseCost, timeHr, distanceKm float64

	switch edge.Mode {
	case domain.ModeRoad:
		baseCost = edge.Road.TotalCost
		timeHr = edge.Road.TimeHr
		distanceKm = edge.Road.DistanceKm
	case domain.ModeAir:
		baseCost = edge.Air.CostPerKg * weightKg
		timeHr = edge.Air.TimeHr
		if edge.Air.DistanceKm != nil {
			distanceKm = *edge.Air.DistanceKm
		} else {
			distanceKm = timeHr * domain.AirSpeedKmPerHour
		}
	case domain.ModeSea:
		baseCost = edge.Sea.CostPerKg * weightKg
		timeHr = edge.Sea.TimeHr
		if edge.Sea.DistanceKm != nil {
			distanceKm = *edge.Sea.DistanceKm
		} else {
			distanceKm = timeHr * domain.SeaSpeedKmPerHour
		}
	}

	emissions := distanceKm * weightKg * edge.Mode.EmissionsFactor() / 1000

	multiplier := goodsType.Multiplier()
	adjustedCost := baseCost * multiplier
	goodsImpact := goodsType.ImpactRate() * baseCost

	var customsCost float64
	if edge.Mode == domain.ModeAir || edge.Mode == domain.ModeSea {
		customsCost = baseCost * goodsType.CustomsRate()
	}

	total := adjustedCost + goodsImpact + customsCost

	leg := domain.LegEval{
		Start:        edge.From,
		End:          edge.To,
		Mode:         edge.Mode,
		DistanceKm:   distanceKm,
		TimeHr:       timeHr,
		BaseCost:     baseCost,
		Multiplier:   multiplier,
		AdjustedCost: adjustedCost,
		GoodsImpact:  goodsImpact,
		CustomsCost:  customsCost,
		Total:        total,
		Emissions:    emissions,
	}
	if edge.Mode == domain.ModeRoad {
		leg.Geometry = edge.Road.Geometry
	}

	if startLoc, ok := g.Location(edge.From); ok {
		leg.Coordinates[0] = domain.Coordinate{Lat: startLoc.Lat, Lon: startLoc.Lon}
	}
	if endLoc, ok := g.Location(edge.To); ok {
		leg.Coordinates[1] = domain.Coordinate{Lat: endLoc.Lat, Lon: endLoc.Lon}
	}

	return leg
}
