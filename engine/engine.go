// Package engine sequences the routing pipeline behind one exported
// orchestrator type: ingest → geocode/build → enumerate → evaluate →
// pre-filter → optimize → rank. It is the library's only public surface.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/go.geojson"

	"freightcore/container"
	"freightcore/enumerate"
	"freightcore/evaluate"
	"freightcore/geocode"
	"freightcore/ingest"
	"freightcore/network"
	"freightcore/optimize"
	"freightcore/pkg/apperror"
	"freightcore/pkg/cache"
	"freightcore/pkg/config"
	"freightcore/pkg/domain"
	"freightcore/pkg/logger"
	"freightcore/pkg/metrics"
	"freightcore/pkg/ratelimit"
	"freightcore/pkg/telemetry"
	"freightcore/rank"
	"freightcore/roadrouter"
)

// Request is the input to Plan.
type Request struct {
	Source      string
	Destination string
	Priority    string // cost, time, eco, balanced
	GoodsType   int    // 1..6, see domain.GoodsTypeFromInt
	CargoWeight float64
}

// Segment is one leg of a result route, lat/lon-flipped for external
// consumption. Points carries the same endpoints as GeoJSON point
// features (lon,lat order, per the GeoJSON spec) for callers that consume
// structured geometry rather than the raw coordinate pairs.
type Segment struct {
	Start        string
	End          string
	Mode         string
	DistanceKm   float64
	TimeHr       float64
	BaseCost     float64
	Multiplier   float64
	AdjustedCost float64
	GoodsImpact  float64
	CustomsCost  float64
	Total        float64
	Emissions    float64
	Geometry     string
	Coordinates  [2]domain.Coordinate
	Points       [2]*geojson.Feature
}

// RouteResult is one ranked route in the response.
type RouteResult struct {
	Overview       []string
	Valid          bool
	TotalCost      float64
	TotalTime      float64
	TotalDistance  float64
	TotalEmissions float64
	GoodsType      string
	GoodsTypeScore float64
	Modes          []string
	Segments       []Segment
}

// Result is the response Plan returns: up to three ranked routes.
type Result struct {
	RequestID string
	Routes    []RouteResult
}

// Engine wires the full pipeline's collaborators and exposes Plan as its
// only public entry point.
type Engine struct {
	cfg       config.Config
	geocoder  *geocode.Geocoder
	roads     *roadrouter.Client
	builder   *network.Builder
	enumer    *enumerate.Enumerator
	evaluator *evaluate.Evaluator
	optimizer *optimize.Optimizer
	ranker    *rank.Ranker
	persist   cache.Cache
	limiter   ratelimit.Limiter

	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

// New builds an Engine from cfg, constructing the persistent cache and rate
// limiter collaborators shared process-wide by the geocoder.
func New(cfg config.Config) (*Engine, error) {
	persist, err := cache.New(cache.FromConfig(&cfg.Cache))
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to construct persistent cache")
	}

	limiter, err := ratelimit.New(ratelimit.FromConfig(&cfg.RateLimit))
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to construct rate limiter")
	}

	gc := geocode.New(cfg.Geocoder, persist, limiter)
	roads := roadrouter.New(cfg.RoadRouter)
	ev := evaluate.New()

	return &Engine{
		cfg:       cfg,
		geocoder:  gc,
		roads:     roads,
		builder:   network.New(gc, roads, cfg.RoadRouter),
		enumer:    enumerate.New(),
		evaluator: ev,
		optimizer: optimize.New(cfg.Optimizer, ev),
		ranker:    rank.New(),
		persist:   persist,
		limiter:   limiter,
	}, nil
}

// validate checks the request's required fields and value ranges.
func (r Request) validate() error {
	if r.Source == "" || r.Destination == "" {
		return apperror.New(apperror.CodeInvalidArgument, "source and destination are required")
	}
	if r.CargoWeight < 0 {
		return apperror.New(apperror.CodeInvalidArgument, "cargo_weight must be non-negative").WithField("cargo_weight")
	}
	return nil
}

// Plan runs the full pipeline for req and returns up to three ranked
// routes. Errors returned are always *apperror.Error.
func (e *Engine) Plan(ctx context.Context, req Request, flights []ingest.FlightRow, shipping []ingest.ShippingRow, locations []ingest.LocationRow) (*Result, error) {
	e.wg.Add(1)
	defer e.wg.Done()

	requestID := uuid.New().String()
	start := time.Now()
	log := logger.WithRequestID(requestID)

	if err := req.validate(); err != nil {
		metrics.Get().RecordPlanRequest(req.Priority, false, time.Since(start))
		return nil, err
	}

	priority := domain.ParsePriority(req.Priority)
	goodsType := domain.GoodsTypeFromInt(req.GoodsType)

	result, err := telemetry.StageValue(ctx, "Plan", func(ctx context.Context) (*Result, error) {
		g, err := e.builder.Build(ctx, flights, shipping, locations, req.Source, req.Destination)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeEmptyGraph, "failed to build network")
		}

		candidates := e.enumer.Enumerate(ctx, g, req.Source, req.Destination, e.cfg.Network.MaxRoutes)
		telemetry.SetAttributes(ctx, telemetry.RouteAttributes(0, len(candidates), goodsType.String(), string(priority))...)
		if len(candidates) == 0 {
			log.Info("no candidate routes found", "source", req.Source, "destination", req.Destination)
			return &Result{RequestID: requestID, Routes: nil}, nil
		}

		evals := e.evaluator.EvaluateAll(ctx, g, candidates, req.CargoWeight, goodsType)
		filtered := e.ranker.PreFilter(ctx, evals, priority)
		optimized := e.optimizer.Run(ctx, g, filtered, req.CargoWeight, goodsType, priority)
		ranked := e.ranker.Rank(ctx, optimized, evals, priority)

		return &Result{RequestID: requestID, Routes: buildRouteResults(ranked)}, nil
	})

	metrics.Get().RecordPlanRequest(req.Priority, err == nil, time.Since(start))
	return result, err
}

// Classify exposes the container classifier for a weight/mode pair so
// callers building a result UI can attach a container recommendation.
func (e *Engine) Classify(table []ingest.ContainerRow, mode domain.Mode, weightKg float64) (container.Classification, bool) {
	return container.New().Classify(table, mode, weightKg)
}

// Close stops the rate limiter, flushes the persistent cache, and waits for
// in-flight Plan calls to finish, mirroring the sync.Once-guarded shutdown
// sequence used elsewhere in this codebase for long-lived components.
func (e *Engine) Close(ctx context.Context) error {
	var err error
	e.shutdownOnce.Do(func() {
		done := make(chan struct{})
		go func() {
			e.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			logger.Info("engine drained all in-flight requests")
		case <-ctx.Done():
			err = ctx.Err()
			logger.Warn("engine shutdown deadline exceeded, requests may be interrupted")
		}

		if closeErr := e.limiter.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rate limiter: %w", closeErr)
		}
		if closeErr := e.persist.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing persistent cache: %w", closeErr)
		}
	})
	return err
}

func buildRouteResults(ranked []domain.RouteEval) []RouteResult {
	out := make([]RouteResult, 0, len(ranked))
	for _, e := range ranked {
		modes := make([]string, 0, len(e.ModeList()))
		for _, m := range e.ModeList() {
			modes = append(modes, m.String())
		}

		segments := make([]Segment, 0, len(e.Legs))
		for _, leg := range e.Legs {
			segments = append(segments, Segment{
				Start:        leg.Start,
				End:          leg.End,
				Mode:         leg.Mode.String(),
				DistanceKm:   leg.DistanceKm,
				TimeHr:       leg.TimeHr,
				BaseCost:     leg.BaseCost,
				Multiplier:   leg.Multiplier,
				AdjustedCost: leg.AdjustedCost,
				GoodsImpact:  leg.GoodsImpact,
				CustomsCost:  leg.CustomsCost,
				Total:        leg.Total,
				Emissions:    leg.Emissions,
				Geometry:     leg.Geometry,
				Coordinates:  leg.Coordinates,
				Points: [2]*geojson.Feature{
					geojson.NewPointFeature([]float64{leg.Coordinates[0].Lon, leg.Coordinates[0].Lat}),
					geojson.NewPointFeature([]float64{leg.Coordinates[1].Lon, leg.Coordinates[1].Lat}),
				},
			})
		}

		out = append(out, RouteResult{
			Overview:       append([]string(nil), e.Route.Nodes...),
			Valid:          e.Valid,
			TotalCost:      e.TotalCost,
			TotalTime:      e.TotalTime,
			TotalDistance:  e.TotalDistance,
			TotalEmissions: e.TotalEmissions,
			GoodsType:      e.GoodsType.String(),
			GoodsTypeScore: e.GoodsScore,
			Modes:          modes,
			Segments:       segments,
		})
	}
	return out
}
