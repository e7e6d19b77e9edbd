// Package geocode resolves free-form place names to coordinates and a
// country, through a tiered cache in front of a rate-limited upstream
// geocoding service. Degraded lookups never return an error: a
// caller gets a configured fallback coordinate and a Degraded flag instead.
package geocode

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"freightcore/pkg/apperror"
	"freightcore/pkg/cache"
	"freightcore/pkg/config"
	"freightcore/pkg/httpclient"
	"freightcore/pkg/logger"
	"freightcore/pkg/metrics"
	"freightcore/pkg/ratelimit"
)

// Result is a resolved location: its coordinates and country.
type Result struct {
	Lon       float64
	Lat       float64
	Country   string
	Degraded  bool // true when the fallback coordinate was used, not a real lookup
}

// Geocoder resolves place names through four tiers: in-process memory,
// a persistent cache.Cache, a hardcoded port table, and a rate-limited
// upstream HTTP service, in that order. A single Geocoder value is
// expected to be threaded explicitly through a request's call graph so
// that its caches and rate-limit gate are shared process-wide.
type Geocoder struct {
	cfg     config.GeocoderConfig
	mu      sync.RWMutex
	memory  map[string]Result
	persist cache.Cache
	limiter ratelimit.Limiter
	client  *httpclient.Client
}

// New builds a Geocoder. persist and limiter are required collaborators;
// callers construct them once per process and share them across Geocoders
// if they want the in-memory tier to also be process-wide (most callers
// want a single Geocoder for the process, not one per request).
func New(cfg config.GeocoderConfig, persist cache.Cache, limiter ratelimit.Limiter) *Geocoder {
	return &Geocoder{
		cfg:     cfg,
		memory:  make(map[string]Result),
		persist: persist,
		limiter: limiter,
		client:  httpclient.FromGeocoderConfig(cfg),
	}
}

// Resolve looks up place, stopping at the first tier that has an answer.
// It never returns a non-nil error for a degraded upstream outcome; it
// only errors on a canceled/expired context.
func (g *Geocoder) Resolve(ctx context.Context, place string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if res, ok := parseCoordPair(place); ok {
		return res, nil
	}

	key := normalizeKey(place)

	if res, ok := g.fromMemory(key); ok {
		metrics.Get().RecordGeocodeLookup("memory", "hit")
		return res, nil
	}

	if res, ok := g.fromPersistent(ctx, key); ok {
		metrics.Get().RecordGeocodeLookup("persistent", "hit")
		g.storeMemory(key, res)
		return res, nil
	}

	if res, ok := hardcodedPorts[place]; ok {
		metrics.Get().RecordGeocodeLookup("hardcoded", "hit")
		g.storeMemory(key, res)
		g.storePersistent(ctx, key, res)
		return res, nil
	}

	res, err := g.fromUpstream(ctx, place)
	if err != nil {
		return Result{}, err
	}
	if res.Degraded {
		metrics.Get().RecordGeocodeLookup("upstream", "degraded")
		return res, nil
	}

	metrics.Get().RecordGeocodeLookup("upstream", "hit")
	g.storeMemory(key, res)
	g.storePersistent(ctx, key, res)
	return res, nil
}

func (g *Geocoder) fromMemory(key string) (Result, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	res, ok := g.memory[key]
	return res, ok
}

func (g *Geocoder) storeMemory(key string, res Result) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.memory[key] = res
}

func (g *Geocoder) fromPersistent(ctx context.Context, key string) (Result, bool) {
	if g.persist == nil {
		return Result{}, false
	}
	raw, err := g.persist.Get(ctx, cache.GeocodeKey(key))
	if err != nil {
		if !errors.Is(err, cache.ErrKeyNotFound) {
			logger.Warn("geocode: persistent cache read failed", "key", key, "error", err)
		}
		return Result{}, false
	}
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		logger.Warn("geocode: persistent cache entry malformed", "key", key, "error", err)
		return Result{}, false
	}
	return res, true
}

func (g *Geocoder) storePersistent(ctx context.Context, key string, res Result) {
	if g.persist == nil {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := g.persist.Set(ctx, cache.GeocodeKey(key), raw, 0); err != nil {
		logger.Warn("geocode: persistent cache write failed", "key", key, "error", err)
	}
}

func (g *Geocoder) fallback() Result {
	return Result{Lon: g.cfg.FallbackLon, Lat: g.cfg.FallbackLat, Country: g.cfg.FallbackCountry, Degraded: true}
}

func (g *Geocoder) fromUpstream(ctx context.Context, place string) (Result, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx, "geocode"); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Result{}, ctxErr
			}
			logger.Warn("geocode: rate limiter wait failed", "place", place, "error", err)
			return g.fallback(), nil
		}
	}

	query := url.Values{}
	query.Set("q", place)
	query.Set("format", "json")
	query.Set("limit", "1")
	query.Set("addressdetails", "1")

	var results []nominatimResult
	if err := g.client.GetJSON(ctx, "/search", query, &results); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		logger.Warn("geocode: upstream request failed", "place", place, "error", err)
		return g.fallback(), nil
	}

	if len(results) == 0 {
		logger.Warn("geocode: no upstream match", "place", place)
		return g.fallback(), nil
	}

	res, err := results[0].toResult()
	if err != nil {
		logger.Warn("geocode: malformed upstream response", "place", place, "error", err)
		return g.fallback(), nil
	}
	return res, nil
}

func normalizeKey(place string) string {
	return strings.ToLower(strings.TrimSpace(place))
}

// parseCoordPair implements the "<number>,<number>" short-circuit:
// a place string that is already a lon,lat coordinate pair is returned
// verbatim without a lookup.
func parseCoordPair(place string) (Result, bool) {
	parts := strings.SplitN(strings.TrimSpace(place), ",", 2)
	if len(parts) != 2 {
		return Result{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Result{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Result{}, false
	}
	return Result{Lon: lon, Lat: lat}, true
}

// Validate checks that a Geocoder was constructed with its required
// collaborators, surfacing a configuration-kind apperror instead of a nil
// pointer panic on first use.
func (g *Geocoder) Validate() error {
	if g.cfg.Endpoint == "" {
		return apperror.New(apperror.CodeInvalidArgument, "geocoder.endpoint is required").WithField("geocoder.endpoint")
	}
	return nil
}
