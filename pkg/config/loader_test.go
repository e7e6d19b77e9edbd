package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	loader := NewLoader(WithConfigPaths("/nonexistent/config.yaml"))

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "freightcore", cfg.App.Name)
	assert.Equal(t, 5, cfg.RoadRouter.WorkerPoolSize)
	assert.Equal(t, 100, cfg.Optimizer.PopulationSize)
	assert.Equal(t, int64(42), cfg.Optimizer.Seed)
}

func TestLoadConfigFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("network:\n  max_routes: 7\n"), 0o644))

	loader := NewLoader(WithConfigPaths(path))
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Network.MaxRoutes)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("FREIGHTCORE_NETWORK_MAX_ROUTES", "3")

	loader := NewLoader(WithConfigPaths("/nonexistent/config.yaml"))
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Network.MaxRoutes)
}
