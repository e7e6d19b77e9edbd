package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix    = "FREIGHTCORE_"
	configEnvVar = "FREIGHTCORE_CONFIG_PATH"
)

// Loader loads configuration from defaults, an optional YAML file, and
// environment variables, in that order of increasing priority.
type Loader struct {
	k           *koanf.Koanf
	configPaths []string
	envPrefix   string
}

// NewLoader creates a new configuration loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		k: koanf.New("."),
		configPaths: []string{
			"config.yaml",
			"config/config.yaml",
			"/etc/freightcore/config.yaml",
		},
		envPrefix: envPrefix,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithConfigPaths overrides the search paths for the YAML config file.
func WithConfigPaths(paths ...string) LoaderOption {
	return func(l *Loader) { l.configPaths = paths }
}

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(l *Loader) { l.envPrefix = prefix }
}

// Load loads configuration with priority: defaults < config file < env vars.
func (l *Loader) Load() (*Config, error) {
	if err := l.loadDefaults(); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := l.loadConfigFile(); err != nil {
		// The file is optional; a missing file is not fatal.
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
	}

	if err := l.loadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}

	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (l *Loader) loadDefaults() error {
	defaults := map[string]any{
		"app.name":        "freightcore",
		"app.version":     "1.0.0",
		"app.environment": "development",
		"app.debug":       false,

		"log.level":       "info",
		"log.format":      "json",
		"log.output":      "stdout",
		"log.max_size":    100,
		"log.max_backups": 3,
		"log.max_age":     7,

		"metrics.enabled":   true,
		"metrics.namespace": "freightcore",
		"metrics.subsystem": "routing",

		"tracing.enabled":      false,
		"tracing.service_name": "freightcore",
		"tracing.sample_rate":  0.1,

		"cache.backend":     "file",
		"cache.file_path":   "data/geocode_cache.json",
		"cache.default_ttl": 24 * time.Hour,
		"cache.max_entries": 10000,
		"cache.redis_addr":  "localhost:6379",
		"cache.redis_db":    0,

		"rate_limit.backend":          "memory",
		"rate_limit.requests_per_sec": 1.0,
		"rate_limit.burst":            0, // bucket holds exactly requests_per_sec tokens; the gate stays strict
		"rate_limit.window":           time.Second,
		"rate_limit.redis_addr":       "localhost:6379",

		"geocoder.endpoint":         "https://nominatim.openstreetmap.org/search",
		"geocoder.user_agent":       "freightcore-routing-engine/1.0",
		"geocoder.timeout":          10 * time.Second,
		"geocoder.fallback_lon":     77.1025,
		"geocoder.fallback_lat":     28.7041,
		"geocoder.fallback_country": "India",

		"road_router.endpoint":             "https://router.project-osrm.org/route/v1/driving",
		"road_router.user_agent":           "freightcore-routing-engine/1.0",
		"road_router.timeout":              10 * time.Second,
		"road_router.worker_pool_size":     5,
		"road_router.mileage_km_per_l":     12.0,
		"road_router.fuel_price":           100.0,
		"road_router.toll_rate_per_km":     1.5,
		"road_router.driver_rate_per_hour": 150.0,
		"road_router.max_feasible_km":      5000.0,

		"network.max_routes": 20,

		"optimizer.population_size":       100,
		"optimizer.generations":           50,
		"optimizer.seed":                  42,
		"optimizer.reference_partitions":  12,
		"optimizer.tabu_size":             7,
		"optimizer.tabu_max_iterations":   50,
		"optimizer.tabu_worker_pool_size": 5,

		"ingestion.flights_path":    "data/flights.csv",
		"ingestion.shipping_path":   "data/shipping.csv",
		"ingestion.locations_path":  "data/locations.csv",
		"ingestion.containers_path": "data/containers.csv",
	}

	return l.k.Load(confmap.Provider(defaults, "."), nil)
}

func (l *Loader) loadConfigFile() error {
	if configPath := os.Getenv(configEnvVar); configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return l.k.Load(file.Provider(configPath), yaml.Parser())
		}
	}

	for _, path := range l.configPaths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		if _, err := os.Stat(absPath); err == nil {
			return l.k.Load(file.Provider(absPath), yaml.Parser())
		}
	}

	return fmt.Errorf("config file not found in paths: %v", l.configPaths)
}

func (l *Loader) loadEnv() error {
	// Section and field names both contain underscores, so only the "_"
	// right after a known top-level section becomes the "." separator.
	sections := []string{"app", "log", "metrics", "tracing", "cache", "rate_limit", "geocoder", "road_router", "network", "optimizer", "ingestion"}
	return l.k.Load(env.Provider(l.envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, l.envPrefix))
		for _, section := range sections {
			if strings.HasPrefix(key, section+"_") {
				return section + "." + strings.TrimPrefix(key, section+"_")
			}
		}
		return key
	}), nil)
}

// MustLoad loads configuration or panics.
func MustLoad(opts ...LoaderOption) *Config {
	cfg, err := NewLoader(opts...).Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// Load loads configuration with default search paths and env prefix.
func Load() (*Config, error) {
	return NewLoader().Load()
}
