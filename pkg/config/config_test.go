package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	cfg := &Config{
		App:        AppConfig{Name: "freightcore"},
		Log:        LogConfig{Level: "info"},
		RoadRouter: RoadRouterConfig{WorkerPoolSize: 5},
		Optimizer:  OptimizerConfig{PopulationSize: 100, Generations: 50},
		Network:    NetworkConfig{MaxRoutes: 20},
	}

	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsMissingName(t *testing.T) {
	cfg := &Config{
		RoadRouter: RoadRouterConfig{WorkerPoolSize: 5},
		Optimizer:  OptimizerConfig{PopulationSize: 1, Generations: 1},
		Network:    NetworkConfig{MaxRoutes: 1},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app.name")
}

func TestValidateDefaultsLogLevel(t *testing.T) {
	cfg := &Config{
		App:        AppConfig{Name: "x"},
		RoadRouter: RoadRouterConfig{WorkerPoolSize: 1},
		Optimizer:  OptimizerConfig{PopulationSize: 1, Generations: 1},
		Network:    NetworkConfig{MaxRoutes: 1},
	}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestIsDevelopment(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "dev"}}
	assert.True(t, cfg.IsDevelopment())

	cfg.App.Environment = "production"
	assert.False(t, cfg.IsDevelopment())
}
