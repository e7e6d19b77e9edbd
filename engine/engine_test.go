package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightcore/pkg/config"
)

// geoResult mirrors the Nominatim payload shape: lon/lat are strings.
type geoResult struct {
	Lon     string `json:"lon"`
	Lat     string `json:"lat"`
	Address struct {
		Country string `json:"country"`
	} `json:"address"`
}

func geo(lon, lat, country string) geoResult {
	var r geoResult
	r.Lon, r.Lat = lon, lat
	r.Address.Country = country
	return r
}

func newGeocodeServer(t *testing.T, byName map[string]geoResult) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		res, ok := byName[q]
		w.Header().Set("Content-Type", "application/json")
		if !ok {
			_ = json.NewEncoder(w).Encode([]geoResult{})
			return
		}
		_ = json.NewEncoder(w).Encode([]geoResult{res})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newOSRMServer(t *testing.T, distanceM, durationS float64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"routes": []map[string]any{{"distance": distanceM, "duration": durationS, "geometry": "poly"}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(geocodeURL, osrmURL string) config.Config {
	return config.Config{
		App: config.AppConfig{Name: "freightcore-test", Environment: "test"},
		Cache: config.CacheConfig{
			Backend:    "memory",
			DefaultTTL: time.Minute,
			MaxEntries: 1000,
		},
		RateLimit: config.RateLimitConfig{
			Backend:        "memory",
			RequestsPerSec: 50,
			Burst:          10,
			Window:         time.Second,
		},
		Geocoder: config.GeocoderConfig{
			Endpoint:  geocodeURL,
			UserAgent: "test",
			Timeout:   2 * time.Second,
		},
		RoadRouter: config.RoadRouterConfig{
			Endpoint:        osrmURL,
			UserAgent:       "test",
			Timeout:         2 * time.Second,
			WorkerPoolSize:  3,
			MileageKmPerL:   12,
			FuelPrice:       100,
			TollRatePerKm:   1.5,
			DriverRatePerHr: 150,
			MaxFeasibleKm:   5000,
		},
		Network: config.NetworkConfig{MaxRoutes: 20},
		Optimizer: config.OptimizerConfig{
			PopulationSize:      20,
			Generations:         5,
			Seed:                42,
			ReferencePartitions: 4,
			TabuSize:            7,
			TabuMaxIterations:   10,
			TabuWorkerPoolSize:  2,
		},
	}
}

func TestEngine_Plan_DirectRoadSameCountry(t *testing.T) {
	geoSrv := newGeocodeServer(t, map[string]geoResult{
		"Mumbai": geo("72.8777", "19.0760", "India"),
		"Delhi":  geo("77.1025", "28.7041", "India"),
	})
	osrmSrv := newOSRMServer(t, 1400000, 72000)

	eng, err := New(testConfig(geoSrv.URL, osrmSrv.URL))
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close(context.Background()) })

	result, err := eng.Plan(context.Background(), Request{
		Source:      "Mumbai",
		Destination: "Delhi",
		Priority:    "cost",
		GoodsType:   1,
		CargoWeight: 100,
	}, nil, nil, nil)

	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Routes)
	assert.Equal(t, []string{"Mumbai", "Delhi"}, result.Routes[0].Overview)
	assert.True(t, result.Routes[0].Valid)
}

func TestEngine_Plan_InvalidRequest(t *testing.T) {
	geoSrv := newGeocodeServer(t, nil)
	osrmSrv := newOSRMServer(t, 0, 0)

	eng, err := New(testConfig(geoSrv.URL, osrmSrv.URL))
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close(context.Background()) })

	_, err = eng.Plan(context.Background(), Request{Source: "", Destination: "Delhi"}, nil, nil, nil)
	assert.Error(t, err)
}

func TestEngine_Plan_NoCandidatesReturnsEmptyResultNotError(t *testing.T) {
	geoSrv := newGeocodeServer(t, map[string]geoResult{
		"Atlantis": geo("0", "0", "Nowhere"),
		"ElDorado": geo("10", "10", "Nowhere2"),
	})
	osrmSrv := newOSRMServer(t, 0, 0) // empty routes array would be needed for true no-route; here distances are 0 so feasibility fails across differing unknown continents

	eng, err := New(testConfig(geoSrv.URL, osrmSrv.URL))
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close(context.Background()) })

	result, err := eng.Plan(context.Background(), Request{
		Source:      "Atlantis",
		Destination: "ElDorado",
		Priority:    "cost",
		GoodsType:   1,
		CargoWeight: 10,
	}, nil, nil, nil)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, result.Routes)
}

func TestEngine_Close_IsIdempotent(t *testing.T) {
	geoSrv := newGeocodeServer(t, nil)
	osrmSrv := newOSRMServer(t, 0, 0)

	eng, err := New(testConfig(geoSrv.URL, osrmSrv.URL))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, eng.Close(ctx))
	require.NoError(t, eng.Close(ctx))
}
