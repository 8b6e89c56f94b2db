package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Simulations)
	assert.InDelta(t, math.Sqrt(1.5), cfg.NoiseStd, 1e-12)
	assert.Equal(t, uint64(1234), cfg.RandomSeed)
	assert.Equal(t, 1e-8, cfg.Tolerance)
	assert.Equal(t, 5000, cfg.MaxIterations)
	assert.Equal(t, 100, cfg.StallIterations)
	assert.Equal(t, []string{"x1", "x2"}, cfg.Covariates)
	assert.Equal(t, "y", cfg.Response)
	assert.Equal(t, "prod", cfg.Environment)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("INDIRECT_SIMULATIONS", "25")
	t.Setenv("INDIRECT_NOISE_STD", "2")
	t.Setenv("INDIRECT_COVARIATES", "a,b,c")
	t.Setenv("INDIRECT_OPTIMIZER_MAX_ITERATIONS", "7")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Simulations)
	assert.Equal(t, 2.0, cfg.NoiseStd)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Covariates)
	assert.Equal(t, 7, cfg.MaxIterations)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"zero simulations": {"INDIRECT_SIMULATIONS", "0"},
		"negative std":     {"INDIRECT_NOISE_STD", "-1"},
		"zero tolerance":   {"INDIRECT_OPTIMIZER_TOLERANCE", "0"},
		"bad environment":  {"ENVIRONMENT", "staging"},
		"not a number":     {"INDIRECT_SIMULATIONS", "ten"},
	}

	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigFileOverlaysEnvironment(t *testing.T) {
	t.Setenv("INDIRECT_SIMULATIONS", "25")
	t.Setenv("INDIRECT_RANDOM_SEED", "99")

	path := filepath.Join(t.TempDir(), "indirect.yaml")
	content := `
estimator:
  simulations: 50
optimizer:
  tolerance: 1.0e-10
data:
  data_path: other.xlsx
  covariates: [z1]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Simulations)
	assert.Equal(t, uint64(99), cfg.RandomSeed)
	assert.Equal(t, 1e-10, cfg.Tolerance)
	assert.Equal(t, "other.xlsx", cfg.DataPath)
	assert.Equal(t, []string{"z1"}, cfg.Covariates)
	assert.Equal(t, "y", cfg.Response)
}

func TestLoadConfigFileErrors(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("estimator: [1, 2"), 0o600))
	_, err = LoadConfigFile(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("estimator:\n  simulations: 0\n"), 0o600))
	_, err = LoadConfigFile(path)
	assert.Error(t, err)
}
