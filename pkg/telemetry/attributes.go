package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Standard span attribute keys.
const (
	// Network
	AttrNetworkLocations = "network.locations"
	AttrNetworkEdges     = "network.edges"
	AttrNetworkSource    = "network.source"
	AttrNetworkDest      = "network.destination"

	// Route / enumeration
	AttrRouteLegs   = "route.legs"
	AttrRoutesFound = "route.candidates_found"
	AttrGoodsType   = "route.goods_type"
	AttrPriority    = "route.priority"

	// Optimizer
	AttrOptimizerStage       = "optimizer.stage"
	AttrOptimizerGenerations = "optimizer.generations"
	AttrParetoFrontSize      = "optimizer.pareto_front_size"

	// Validation
	AttrValidationLevel  = "validation.level"
	AttrValidationErrors = "validation.errors"
	AttrValidationPassed = "validation.passed"
)

// NetworkAttributes returns span attributes describing a built network.
func NetworkAttributes(locations, edges int, source, destination string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrNetworkLocations, locations),
		attribute.Int(AttrNetworkEdges, edges),
		attribute.String(AttrNetworkSource, source),
		attribute.String(AttrNetworkDest, destination),
	}
}

// RouteAttributes returns span attributes describing a planning request.
func RouteAttributes(legs int, candidatesFound int, goodsType, priority string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrRouteLegs, legs),
		attribute.Int(AttrRoutesFound, candidatesFound),
		attribute.String(AttrGoodsType, goodsType),
		attribute.String(AttrPriority, priority),
	}
}

// OptimizerAttributes returns span attributes describing an optimizer run.
func OptimizerAttributes(stage string, generations, paretoFrontSize int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrOptimizerStage, stage),
		attribute.Int(AttrOptimizerGenerations, generations),
		attribute.Int(AttrParetoFrontSize, paretoFrontSize),
	}
}

// ValidationAttributes returns span attributes describing a network validation pass.
func ValidationAttributes(level string, errorsCount int, passed bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrValidationLevel, level),
		attribute.Int(AttrValidationErrors, errorsCount),
		attribute.Bool(AttrValidationPassed, passed),
	}
}
