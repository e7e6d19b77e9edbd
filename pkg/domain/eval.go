package domain

// Coordinate is a (lat, lon) pair in the flipped ordering the result
// payload uses, distinct from Location's stored (lon, lat).
type Coordinate struct {
	Lat float64
	Lon float64
}

// LegEval is the evaluated form of one consecutive (u,v) pair of a Route:
// the raw edge plus the cost/time/emissions breakdown the Leg Evaluator
// derives from it.
type LegEval struct {
	Start        string
	End          string
	Mode         Mode
	DistanceKm   float64
	TimeHr       float64
	BaseCost     float64
	Multiplier   float64
	AdjustedCost float64
	GoodsImpact  float64
	CustomsCost  float64
	Total        float64
	Emissions    float64
	Geometry     string // encoded polyline, road legs only
	Coordinates  [2]Coordinate
}

// RouteEval is a Route's total evaluation. Invalid routes (a missing
// edge along the way) carry Valid=false and Infinity cost/time; they are
// excluded from ranking but keep the Route/Nodes for diagnostics.
type RouteEval struct {
	Route          Route
	Valid          bool
	TotalCost      float64
	TotalTime      float64
	TotalDistance  float64 // road legs only; air and sea distances feed emissions instead
	TotalEmissions float64
	GoodsType      GoodsType
	GoodsScore     float64
	Legs           []LegEval
	Modes          map[Mode]bool
}

// Invalid returns a RouteEval marking route as infeasible: no edge existed
// for one of its consecutive pairs.
func Invalid(route Route, goodsType GoodsType) RouteEval {
	return RouteEval{
		Route:     route,
		Valid:     false,
		TotalCost: Infinity,
		TotalTime: Infinity,
		GoodsType: goodsType,
		Modes:     make(map[Mode]bool),
	}
}

// ModeList returns the route's distinct leg modes in a stable order
// (road, air, sea) for serialization.
func (r RouteEval) ModeList() []Mode {
	var out []Mode
	for _, m := range []Mode{ModeRoad, ModeAir, ModeSea} {
		if r.Modes[m] {
			out = append(out, m)
		}
	}
	return out
}
