// Package config defines the routing engine's layered configuration.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration for the engine.
type Config struct {
	App        AppConfig        `koanf:"app"`
	Log        LogConfig        `koanf:"log"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	Tracing    TracingConfig    `koanf:"tracing"`
	Cache      CacheConfig      `koanf:"cache"`
	RateLimit  RateLimitConfig  `koanf:"rate_limit"`
	Geocoder   GeocoderConfig   `koanf:"geocoder"`
	RoadRouter RoadRouterConfig `koanf:"road_router"`
	Network    NetworkConfig    `koanf:"network"`
	Optimizer  OptimizerConfig  `koanf:"optimizer"`
	Ingestion  IngestionConfig  `koanf:"ingestion"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"` // development, staging, production
	Debug       bool   `koanf:"debug"`
}

// LogConfig controls the slog/lumberjack logger.
type LogConfig struct {
	Level      string `koanf:"level"`  // debug, info, warn, error
	Format     string `koanf:"format"` // json, text
	Output     string `koanf:"output"` // stdout, stderr, file
	FilePath   string `koanf:"file_path"`
	MaxSize    int    `koanf:"max_size"` // MB
	MaxBackups int    `koanf:"max_backups"`
	MaxAge     int    `koanf:"max_age"` // days
	Compress   bool   `koanf:"compress"`
}

// MetricsConfig controls Prometheus metrics registration.
type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Namespace string `koanf:"namespace"`
	Subsystem string `koanf:"subsystem"`
}

// TracingConfig controls OpenTelemetry span emission.
type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	ServiceName string  `koanf:"service_name"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// CacheConfig controls the geocoder's persistent cache tier.
type CacheConfig struct {
	Backend    string        `koanf:"backend"` // file, redis
	FilePath   string        `koanf:"file_path"`
	DefaultTTL time.Duration `koanf:"default_ttl"`
	MaxEntries int           `koanf:"max_entries"` // in-memory tier
	RedisAddr  string        `koanf:"redis_addr"`
	RedisDB    int           `koanf:"redis_db"`
}

// RateLimitConfig controls the geocoder's upstream rate-limit gate.
type RateLimitConfig struct {
	Backend        string        `koanf:"backend"` // memory, redis
	RequestsPerSec float64       `koanf:"requests_per_sec"`
	Burst          int           `koanf:"burst"`
	RedisAddr      string        `koanf:"redis_addr"`
	Window         time.Duration `koanf:"window"`
}

// GeocoderConfig controls the upstream geocoding client.
type GeocoderConfig struct {
	Endpoint        string        `koanf:"endpoint"`
	UserAgent       string        `koanf:"user_agent"`
	Timeout         time.Duration `koanf:"timeout"`
	FallbackLon     float64       `koanf:"fallback_lon"`
	FallbackLat     float64       `koanf:"fallback_lat"`
	FallbackCountry string        `koanf:"fallback_country"`
}

// RoadRouterConfig controls the upstream road-routing client and its cost model.
type RoadRouterConfig struct {
	Endpoint        string        `koanf:"endpoint"`
	UserAgent       string        `koanf:"user_agent"`
	Timeout         time.Duration `koanf:"timeout"`
	WorkerPoolSize  int           `koanf:"worker_pool_size"`
	MileageKmPerL   float64       `koanf:"mileage_km_per_l"`
	FuelPrice       float64       `koanf:"fuel_price"`
	TollRatePerKm   float64       `koanf:"toll_rate_per_km"`
	DriverRatePerHr float64       `koanf:"driver_rate_per_hour"`
	MaxFeasibleKm   float64       `koanf:"max_feasible_km"`
}

// NetworkConfig controls the network builder / route enumerator.
type NetworkConfig struct {
	MaxRoutes int `koanf:"max_routes"`
}

// OptimizerConfig controls both optimizer stages.
type OptimizerConfig struct {
	PopulationSize      int   `koanf:"population_size"`
	Generations         int   `koanf:"generations"`
	Seed                int64 `koanf:"seed"`
	ReferencePartitions int   `koanf:"reference_partitions"`
	TabuSize            int   `koanf:"tabu_size"`
	TabuMaxIterations   int   `koanf:"tabu_max_iterations"`
	TabuWorkerPoolSize  int   `koanf:"tabu_worker_pool_size"`
}

// IngestionConfig points at the tabular input sources.
type IngestionConfig struct {
	FlightsPath    string `koanf:"flights_path"`
	ShippingPath   string `koanf:"shipping_path"`
	LocationsPath  string `koanf:"locations_path"`
	ContainersPath string `koanf:"containers_path"`
}

// Validate checks the configuration for obviously invalid values.
func (c *Config) Validate() error {
	var errs []string

	if c.App.Name == "" {
		errs = append(errs, "app.name is required")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level must be one of: debug, info, warn, error, got %s", c.Log.Level))
	}

	if c.RoadRouter.WorkerPoolSize <= 0 {
		errs = append(errs, "road_router.worker_pool_size must be positive")
	}

	if c.Optimizer.PopulationSize <= 0 || c.Optimizer.Generations <= 0 {
		errs = append(errs, "optimizer.population_size and optimizer.generations must be positive")
	}

	if c.Network.MaxRoutes <= 0 {
		errs = append(errs, "network.max_routes must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}

// IsDevelopment reports whether the app is configured for development.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "dev"
}
