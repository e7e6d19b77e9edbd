// Package roadrouter queries an external road-routing service for the
// distance, duration, and geometry between two coordinate pairs, and
// derives a road leg's cost breakdown from fixed economic constants.
package roadrouter

import (
	"context"
	"fmt"
	"net/url"

	"github.com/paulmach/go.geojson"

	"freightcore/pkg/apperror"
	"freightcore/pkg/config"
	"freightcore/pkg/httpclient"
	"freightcore/pkg/logger"
	"freightcore/pkg/metrics"
)

// Result is the outcome of a single road query. A Result with
// Success=false means the upstream returned no route; callers must treat
// this as a degrade-and-skip signal, not an error.
type Result struct {
	Success    bool
	DistanceKm float64
	TimeHr     float64
	FuelCost   float64
	TollCost   float64
	DriverWage float64
	TotalCost  float64
	Geometry   string // encoded polyline, opaque
	SrcPoint   *geojson.Feature
	DstPoint   *geojson.Feature
}

// Client wraps the shared upstream HTTP client with the road router's
// endpoint and cost-model constants.
type Client struct {
	cfg    config.RoadRouterConfig
	client *httpclient.Client
}

// New builds a Client from configuration.
func New(cfg config.RoadRouterConfig) *Client {
	return &Client{cfg: cfg, client: httpclient.FromRoadRouterConfig(cfg)}
}

// Validate checks that a Client was constructed with its required
// configuration, surfacing a configuration-kind apperror on first use.
func (c *Client) Validate() error {
	if c.cfg.Endpoint == "" {
		return apperror.New(apperror.CodeInvalidArgument, "road_router.endpoint is required").WithField("road_router.endpoint")
	}
	if c.cfg.WorkerPoolSize <= 0 {
		return apperror.New(apperror.CodeInvalidArgument, "road_router.worker_pool_size must be positive").WithField("road_router.worker_pool_size")
	}
	return nil
}

type osrmRoute struct {
	Distance float64 `json:"distance"` // meters
	Duration float64 `json:"duration"` // seconds
	Geometry string  `json:"geometry"`
}

type osrmResponse struct {
	Routes []osrmRoute `json:"routes"`
}

// Route queries the upstream road router for the leg between (srcLon,
// srcLat) and (dstLon, dstLat). A context cancellation is the only error
// return; a "no route" upstream outcome is reported as Result{Success:false}.
func (c *Client) Route(ctx context.Context, srcLon, srcLat, dstLon, dstLat float64) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	path := fmt.Sprintf("/%f,%f;%f,%f", srcLon, srcLat, dstLon, dstLat)
	query := url.Values{}
	query.Set("overview", "full")

	var resp osrmResponse
	if err := c.client.GetJSON(ctx, path, query, &resp); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		logger.Warn("roadrouter: upstream request failed", "error", err)
		metrics.Get().RecordRoadQuery("error")
		return Result{Success: false}, nil
	}

	if len(resp.Routes) == 0 {
		metrics.Get().RecordRoadQuery("no_route")
		return Result{Success: false}, nil
	}

	route := resp.Routes[0]
	distanceKm := route.Distance / 1000.0
	timeHr := route.Duration / 3600.0

	fuelCost := (distanceKm / c.cfg.MileageKmPerL) * c.cfg.FuelPrice
	tollCost := distanceKm * c.cfg.TollRatePerKm
	driverWage := timeHr * c.cfg.DriverRatePerHr
	totalCost := fuelCost + tollCost + driverWage

	metrics.Get().RecordRoadQuery("success")

	return Result{
		Success:    true,
		DistanceKm: distanceKm,
		TimeHr:     timeHr,
		FuelCost:   fuelCost,
		TollCost:   tollCost,
		DriverWage: driverWage,
		TotalCost:  totalCost,
		Geometry:   route.Geometry,
		SrcPoint:   geojson.NewPointFeature([]float64{srcLon, srcLat}),
		DstPoint:   geojson.NewPointFeature([]float64{dstLon, dstLat}),
	}, nil
}

// Feasible reports whether distKm is within the configured road-distance
// ceiling, matching the road feasibility cutoff.
func (c *Client) Feasible(distKm float64) bool {
	return distKm <= c.cfg.MaxFeasibleKm
}
